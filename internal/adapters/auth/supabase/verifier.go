package supabase

import (
	"context"
	"errors"
	"strings"

	"move-togaether/internal/ports/auth"
)

var ErrTokenEmpty = errors.New("token is empty")

// Verifier implements auth.TokenVerifier against the hosted auth service.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	return v.client.GetUser(ctx, token)
}
