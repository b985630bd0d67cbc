package profiles

import "context"

// Repository lookups never return soft-deleted rows. A miss is ErrNotFound;
// any other error is a storage failure and must be surfaced as such, so the
// availability probes don't mistake an outage for a free email or nickname.
type Repository interface {
	Create(ctx context.Context, p Profile) error
	Update(ctx context.Context, p Profile) error
	GetByID(ctx context.Context, id string) (Profile, error)
	GetByAuthID(ctx context.Context, authID string) (Profile, error)
	// GetByEmail expects the NormalizeEmail form.
	GetByEmail(ctx context.Context, email string) (Profile, error)
	// GetByNickname expects the NormalizeNickname form.
	GetByNickname(ctx context.Context, nickname string) (Profile, error)
}
