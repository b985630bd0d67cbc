package social

import (
	"context"
	"errors"
)

// Account is the subset of the provider profile this app cares about.
type Account struct {
	ProviderUserID string
	Email          string
	Nickname       string
}

// Provider is a social-login provider (Kakao today).
type Provider interface {
	// ExchangeCode trades an authorization code for a provider access token.
	ExchangeCode(ctx context.Context, code, redirectURI string) (string, error)
	// UserInfo fetches the provider profile for an access token.
	UserInfo(ctx context.Context, accessToken string) (Account, error)
}

var (
	ErrUpstream = errors.New("social provider error")
	// ErrNoEmail: the provider account has no email claim; this app cannot
	// match or create a profile without one.
	ErrNoEmail = errors.New("social account has no email")
)
