package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"move-togaether/internal/domain/applications"
)

type applicationRepo struct {
	s *Store
}

func NewApplicationRepo(s *Store) applications.Repository {
	return &applicationRepo{s: s}
}

func (r *applicationRepo) Create(ctx context.Context, a applications.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("application id required")
	}
	if _, exists := r.s.applications[a.ID]; exists {
		return errors.New("application already exists")
	}
	for _, other := range r.s.applications {
		if !other.IsDeleted && other.PostID == a.PostID && other.ApplicantID == a.ApplicantID {
			return errors.New("application already exists for this post")
		}
	}
	r.s.applications[a.ID] = a
	return nil
}

func (r *applicationRepo) Update(ctx context.Context, a applications.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, exists := r.s.applications[a.ID]
	if !exists || cur.IsDeleted {
		return ErrNotFound
	}
	r.s.applications[a.ID] = a
	return nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (applications.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.applications[id]
	if !ok || a.IsDeleted {
		return applications.Application{}, ErrNotFound
	}
	return a, nil
}

func (r *applicationRepo) GetByPostAndApplicant(ctx context.Context, postID, applicantID string) (applications.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.applications {
		if !a.IsDeleted && a.PostID == postID && a.ApplicantID == applicantID {
			return a, nil
		}
	}
	return applications.Application{}, ErrNotFound
}

func (r *applicationRepo) ListByPost(ctx context.Context, postID string) ([]applications.Detail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]applications.Detail, 0)
	for _, a := range r.s.applications {
		if !a.IsDeleted && a.PostID == postID {
			out = append(out, r.detail(a))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *applicationRepo) ListByApplicant(ctx context.Context, applicantID string) ([]applications.Detail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]applications.Detail, 0)
	for _, a := range r.s.applications {
		if !a.IsDeleted && a.ApplicantID == applicantID {
			out = append(out, r.detail(a))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

// detail joins applicant and post fields. Callers hold the read lock.
func (r *applicationRepo) detail(a applications.Application) applications.Detail {
	d := applications.Detail{Application: a}
	if applicant, ok := r.s.profiles[a.ApplicantID]; ok {
		d.ApplicantNickname = applicant.Nickname
		if applicant.PhoneVisible {
			d.ApplicantPhone = applicant.Phone
		}
	}
	if p, ok := r.s.posts[a.PostID]; ok {
		d.PostTitle = p.Title
		d.PostStatus = string(p.Status)
	}
	return d
}
