package favorites

import "time"

// Favorite is a profile's bookmark of a post. One per (profile, post).
type Favorite struct {
	ID        string
	ProfileID string
	PostID    string
	CreatedAt time.Time
}

// Detail joins the post fields a bookmarks screen shows.
type Detail struct {
	Favorite

	PostTitle    string
	PostStatus   string
	PostDogName  string
	PostDogSize  string
	PostDeadline time.Time
}
