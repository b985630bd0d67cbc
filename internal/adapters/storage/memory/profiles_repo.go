package memory

import (
	"context"
	"errors"
	"strings"

	"move-togaether/internal/domain/profiles"
)

type profileRepo struct {
	s *Store
}

func NewProfileRepo(s *Store) profiles.Repository {
	return &profileRepo{s: s}
}

func (r *profileRepo) Create(ctx context.Context, p profiles.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("profile id required")
	}
	if _, exists := r.s.profiles[p.ID]; exists {
		return errors.New("profile already exists")
	}
	for _, other := range r.s.profiles {
		if other.IsDeleted {
			continue
		}
		if other.AuthID == p.AuthID ||
			profiles.NormalizeEmail(other.Email) == profiles.NormalizeEmail(p.Email) ||
			profiles.NormalizeNickname(other.Nickname) == profiles.NormalizeNickname(p.Nickname) {
			return errors.New("profile conflicts with an existing one")
		}
	}
	r.s.profiles[p.ID] = p
	return nil
}

func (r *profileRepo) Update(ctx context.Context, p profiles.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, exists := r.s.profiles[p.ID]
	if !exists || cur.IsDeleted {
		return profiles.ErrNotFound
	}
	r.s.profiles[p.ID] = p
	return nil
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (profiles.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[id]
	if !ok || p.IsDeleted {
		return profiles.Profile{}, profiles.ErrNotFound
	}
	return p, nil
}

func (r *profileRepo) GetByAuthID(ctx context.Context, authID string) (profiles.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.profiles {
		if !p.IsDeleted && p.AuthID == authID {
			return p, nil
		}
	}
	return profiles.Profile{}, profiles.ErrNotFound
}

func (r *profileRepo) GetByEmail(ctx context.Context, email string) (profiles.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.profiles {
		if !p.IsDeleted && profiles.NormalizeEmail(p.Email) == email {
			return p, nil
		}
	}
	return profiles.Profile{}, profiles.ErrNotFound
}

func (r *profileRepo) GetByNickname(ctx context.Context, nickname string) (profiles.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.profiles {
		if !p.IsDeleted && profiles.NormalizeNickname(p.Nickname) == nickname {
			return p, nil
		}
	}
	return profiles.Profile{}, profiles.ErrNotFound
}
