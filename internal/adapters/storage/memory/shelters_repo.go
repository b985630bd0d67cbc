package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"move-togaether/internal/domain/shelters"
)

type shelterRepo struct {
	s *Store
}

func NewShelterRepo(s *Store) shelters.Repository {
	return &shelterRepo{s: s}
}

func (r *shelterRepo) Create(ctx context.Context, sh shelters.Shelter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(sh.ID) == "" {
		return errors.New("shelter id required")
	}
	if _, exists := r.s.shelters[sh.ID]; exists {
		return errors.New("shelter already exists")
	}
	r.s.shelters[sh.ID] = sh
	return nil
}

func (r *shelterRepo) Update(ctx context.Context, sh shelters.Shelter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, exists := r.s.shelters[sh.ID]
	if !exists || cur.IsDeleted {
		return ErrNotFound
	}
	r.s.shelters[sh.ID] = sh
	return nil
}

func (r *shelterRepo) GetByID(ctx context.Context, id string) (shelters.Shelter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sh, ok := r.s.shelters[id]
	if !ok || sh.IsDeleted {
		return shelters.Shelter{}, ErrNotFound
	}
	return sh, nil
}

func (r *shelterRepo) List(ctx context.Context, f shelters.ListFilter) ([]shelters.Shelter, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))

	matched := make([]shelters.Shelter, 0)
	for _, sh := range r.s.shelters {
		if sh.IsDeleted {
			continue
		}
		if f.VerifiedOnly && !sh.Verified {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(sh.Name), search) &&
			!strings.Contains(strings.ToLower(sh.Description), search) {
			continue
		}
		matched = append(matched, sh)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	return pageOf(matched, f.Page, f.Limit), total, nil
}

// pageOf slices a 1-indexed page out of an already-sorted result set.
func pageOf[T any](all []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(all) {
		return []T{}
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
