package inquiries

import "context"

type Repository interface {
	Create(ctx context.Context, q Inquiry) error
	// ListByProfile optionally narrows to one post (postID "" = all).
	ListByProfile(ctx context.Context, profileID, postID string) ([]Detail, error)
}
