package shelters

import "context"

type ListFilter struct {
	Search       string // case-insensitive substring over name/description
	VerifiedOnly bool
	Page         int // 1-indexed
	Limit        int
}

type Repository interface {
	Create(ctx context.Context, s Shelter) error
	Update(ctx context.Context, s Shelter) error
	GetByID(ctx context.Context, id string) (Shelter, error)
	List(ctx context.Context, f ListFilter) ([]Shelter, int, error)
}
