package auth

// Claims is the identity extracted from a verified access token.
type Claims struct {
	AuthID   string
	Email    string
	Provider string // "email" | "kakao"
}

// Session is what the auth provider hands back after a signup or login.
type Session struct {
	AuthID       string
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// SignUpInput carries the extra profile fields stored as identity metadata
// until the profile row is materialized.
type SignUpInput struct {
	Email    string
	Password string
	Metadata map[string]any
}
