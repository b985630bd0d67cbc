package shelters

import "time"

// Shelter is a directory entry for an animal rescue organization.
// Verified is set by an out-of-band moderation process; this layer only
// reads it.
type Shelter struct {
	ID        string
	CreatorID string // owning profile; authorization only, no cascade

	Name        string
	Description string
	Phone       string
	OpenChatURL string
	Address     string

	Verified bool

	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
