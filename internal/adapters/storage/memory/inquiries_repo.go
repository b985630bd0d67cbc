package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"move-togaether/internal/domain/inquiries"
)

type inquiryRepo struct {
	s *Store
}

func NewInquiryRepo(s *Store) inquiries.Repository {
	return &inquiryRepo{s: s}
}

func (r *inquiryRepo) Create(ctx context.Context, q inquiries.Inquiry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(q.ID) == "" {
		return errors.New("inquiry id required")
	}
	if _, exists := r.s.inquiries[q.ID]; exists {
		return errors.New("inquiry already exists")
	}
	r.s.inquiries[q.ID] = q
	return nil
}

func (r *inquiryRepo) ListByProfile(ctx context.Context, profileID, postID string) ([]inquiries.Detail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]inquiries.Detail, 0)
	for _, q := range r.s.inquiries {
		if q.IsDeleted || q.ProfileID != profileID {
			continue
		}
		if postID != "" && q.PostID != postID {
			continue
		}
		d := inquiries.Detail{Inquiry: q}
		if p, ok := r.s.posts[q.PostID]; ok {
			d.PostTitle = p.Title
		}
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}
