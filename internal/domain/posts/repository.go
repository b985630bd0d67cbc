package posts

import (
	"context"
	"time"
)

// ListFilter drives the public catalog listing.
// Search is a case-insensitive substring over title/description.
type ListFilter struct {
	Search  string
	DogSize string
	Status  Status // "" = any
	Page    int    // 1-indexed
	Limit   int
}

type Repository interface {
	Create(ctx context.Context, p Post) error
	Update(ctx context.Context, p Post) error
	GetByID(ctx context.Context, id string) (Post, error)

	// List returns a page plus the total match count, newest first.
	List(ctx context.Context, f ListFilter) ([]Summary, int, error)

	// ListByAuthor includes application/favorite counts. status "" = all.
	ListByAuthor(ctx context.Context, authorID string, status Status, page, limit int) ([]Summary, int, error)

	// RankByDistance orders active posts by departure-point distance from
	// (lat, lng) ascending. Posts without coordinates are skipped.
	RankByDistance(ctx context.Context, lat, lng float64, page, limit int) ([]Ranked, error)

	// BeginTransport conditionally flips active → in_progress. Matching zero
	// rows is not an error: the post already moved on, nothing to revert.
	BeginTransport(ctx context.Context, id string, at time.Time) error
}
