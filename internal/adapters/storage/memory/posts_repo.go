package memory

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"move-togaether/internal/domain/posts"
)

type postRepo struct {
	s *Store
}

func NewPostRepo(s *Store) posts.Repository {
	return &postRepo{s: s}
}

func (r *postRepo) Create(ctx context.Context, p posts.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("post id required")
	}
	if _, exists := r.s.posts[p.ID]; exists {
		return errors.New("post already exists")
	}
	r.s.posts[p.ID] = p
	return nil
}

func (r *postRepo) Update(ctx context.Context, p posts.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, exists := r.s.posts[p.ID]
	if !exists || cur.IsDeleted {
		return ErrNotFound
	}
	r.s.posts[p.ID] = p
	return nil
}

func (r *postRepo) GetByID(ctx context.Context, id string) (posts.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok || p.IsDeleted {
		return posts.Post{}, ErrNotFound
	}
	return p, nil
}

func (r *postRepo) List(ctx context.Context, f posts.ListFilter) ([]posts.Summary, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))

	matched := make([]posts.Post, 0)
	for _, p := range r.s.posts {
		if p.IsDeleted {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.DogSize != "" && string(p.DogSize) != f.DogSize {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	out := make([]posts.Summary, 0)
	for _, p := range pageOf(matched, f.Page, f.Limit) {
		out = append(out, r.summarize(p, false))
	}
	return out, total, nil
}

func (r *postRepo) ListByAuthor(ctx context.Context, authorID string, status posts.Status, page, limit int) ([]posts.Summary, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]posts.Post, 0)
	for _, p := range r.s.posts {
		if p.IsDeleted || p.AuthorID != authorID {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	out := make([]posts.Summary, 0)
	for _, p := range pageOf(matched, page, limit) {
		out = append(out, r.summarize(p, true))
	}
	return out, total, nil
}

func (r *postRepo) RankByDistance(ctx context.Context, lat, lng float64, page, limit int) ([]posts.Ranked, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ranked := make([]posts.Ranked, 0)
	for _, p := range r.s.posts {
		if p.IsDeleted || p.Status != posts.StatusActive {
			continue
		}
		if p.DepartureLat == nil || p.DepartureLng == nil {
			continue
		}
		ranked = append(ranked, posts.Ranked{
			Summary:    r.summarize(p, false),
			DistanceKM: haversineKM(lat, lng, *p.DepartureLat, *p.DepartureLng),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].DistanceKM < ranked[j].DistanceKM
	})

	return pageOf(ranked, page, limit), nil
}

func (r *postRepo) BeginTransport(ctx context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, exists := r.s.posts[id]
	if !exists || p.IsDeleted || p.Status != posts.StatusActive {
		return nil // already past active, nothing to flip
	}
	p.Status = posts.StatusInProgress
	p.UpdatedAt = at
	r.s.posts[id] = p
	return nil
}

// summarize joins the author fields; counts only on owner listings.
// Callers hold at least the read lock.
func (r *postRepo) summarize(p posts.Post, withCounts bool) posts.Summary {
	sum := posts.Summary{Post: p}
	if author, ok := r.s.profiles[p.AuthorID]; ok {
		sum.AuthorNickname = author.Nickname
		if author.PhoneVisible {
			sum.AuthorPhone = author.Phone
		}
	}
	if withCounts {
		for _, a := range r.s.applications {
			if !a.IsDeleted && a.PostID == p.ID {
				sum.ApplicationCount++
			}
		}
		for _, f := range r.s.favorites {
			if f.PostID == p.ID {
				sum.FavoriteCount++
			}
		}
	}
	return sum
}

const earthRadiusKM = 6371

func haversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKM * 2 * math.Asin(math.Sqrt(a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
