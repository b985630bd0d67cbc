package favorites

import "context"

type Repository interface {
	Create(ctx context.Context, f Favorite) error
	GetByProfileAndPost(ctx context.Context, profileID, postID string) (Favorite, error)
	ListByProfile(ctx context.Context, profileID string) ([]Detail, error)
}
