package inquiries

import "time"

// Status of an inquiry. Only pending is ever set today; answered is
// reserved for a future reply flow.
// @Enum pending, answered
type Status string

const (
	StatusPending  Status = "pending"
	StatusAnswered Status = "answered"
)

// Inquiry is a free-text question directed at a post's author.
// The author of the post cannot inquire about their own post.
type Inquiry struct {
	ID        string
	PostID    string
	ProfileID string

	Message string
	Status  Status

	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Detail joins the post title for the inquirer's list view.
type Detail struct {
	Inquiry

	PostTitle string
}
