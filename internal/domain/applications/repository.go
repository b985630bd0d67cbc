package applications

import "context"

type Repository interface {
	Create(ctx context.Context, a Application) error
	Update(ctx context.Context, a Application) error
	GetByID(ctx context.Context, id string) (Application, error)

	// GetByPostAndApplicant backs the one-application-per-pair rule.
	GetByPostAndApplicant(ctx context.Context, postID, applicantID string) (Application, error)

	ListByPost(ctx context.Context, postID string) ([]Detail, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]Detail, error)
}
