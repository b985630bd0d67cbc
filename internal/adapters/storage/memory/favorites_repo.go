package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"move-togaether/internal/domain/favorites"
)

type favoriteRepo struct {
	s *Store
}

func NewFavoriteRepo(s *Store) favorites.Repository {
	return &favoriteRepo{s: s}
}

func (r *favoriteRepo) Create(ctx context.Context, f favorites.Favorite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(f.ID) == "" {
		return errors.New("favorite id required")
	}
	for _, other := range r.s.favorites {
		if other.ProfileID == f.ProfileID && other.PostID == f.PostID {
			return errors.New("favorite already exists")
		}
	}
	r.s.favorites[f.ID] = f
	return nil
}

func (r *favoriteRepo) GetByProfileAndPost(ctx context.Context, profileID, postID string) (favorites.Favorite, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, f := range r.s.favorites {
		if f.ProfileID == profileID && f.PostID == postID {
			return f, nil
		}
	}
	return favorites.Favorite{}, ErrNotFound
}

func (r *favoriteRepo) ListByProfile(ctx context.Context, profileID string) ([]favorites.Detail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]favorites.Detail, 0)
	for _, f := range r.s.favorites {
		if f.ProfileID != profileID {
			continue
		}
		p, ok := r.s.posts[f.PostID]
		if !ok || p.IsDeleted {
			continue
		}
		out = append(out, favorites.Detail{
			Favorite:     f,
			PostTitle:    p.Title,
			PostStatus:   string(p.Status),
			PostDogName:  p.DogName,
			PostDogSize:  string(p.DogSize),
			PostDeadline: p.Deadline,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}
