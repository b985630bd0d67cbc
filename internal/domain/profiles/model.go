package profiles

import (
	"strings"
	"time"
)

// Provider tags how the account was created.
// @Enum email, kakao
type Provider string

const (
	ProviderEmail Provider = "email"
	ProviderKakao Provider = "kakao"
)

// Profile is the application-level user record, distinct from the raw
// auth identity owned by the auth provider.
type Profile struct {
	ID     string
	AuthID string // identity id at the auth provider

	Nickname     string
	Email        string // stored lower-cased
	Phone        string
	PhoneVisible bool
	Bio          string
	OpenChatURL  string
	InstagramURL string

	// Account-recovery factors. Answer comparison is case-insensitive.
	SecurityQuestionID int
	SecurityAnswer     string

	Provider Provider

	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeEmail is the canonical form used for storage and uniqueness.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeNickname is the comparison form for uniqueness checks only;
// the displayed nickname keeps its original casing.
func NormalizeNickname(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
