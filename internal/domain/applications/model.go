package applications

import "time"

// Status of a volunteer's application. Only the parent post's author moves
// it past pending.
// @Enum pending, accepted, rejected, completed
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

// ValidTransition reports whether the post author may set this status.
// pending is the creation state, never a target.
func ValidTransition(s Status) bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// Application is a volunteer's offer to fulfill a post.
type Application struct {
	ID          string
	PostID      string
	ApplicantID string

	Status  Status
	Message string

	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Detail joins the fields the post owner's review screen needs.
type Detail struct {
	Application

	ApplicantNickname string
	ApplicantPhone    string // empty unless the applicant shows their phone

	PostTitle  string
	PostStatus string
}
