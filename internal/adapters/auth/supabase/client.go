// Package supabase is a thin client for the hosted auth service (GoTrue
// API). It only covers the identity lifecycle this app delegates: signup,
// password/provider login, logout and token verification.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"move-togaether/internal/platform/httpclient"
	"move-togaether/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("supabase client not configured")
)

type Config struct {
	// ProjectURL like https://<ref>.supabase.co
	ProjectURL string
	// AnonKey is sent as the apikey header on every call.
	AnonKey string

	Timeout time.Duration
}

type Client struct {
	http    *httpclient.Client
	anonKey string
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.ProjectURL), "/")
	key := strings.TrimSpace(cfg.AnonKey)
	if base == "" || key == "" {
		return nil, ErrNotConfigured
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.NewWithBaseURL(base+"/auth/v1", timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:    hc,
		anonKey: key,
	}, nil
}

type sessionPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (p sessionPayload) toSession() (auth.Session, error) {
	id := strings.TrimSpace(p.User.ID)
	if id == "" {
		return auth.Session{}, fmt.Errorf("%w: response missing user id", auth.ErrUpstream)
	}
	return auth.Session{
		AuthID:       id,
		Email:        strings.TrimSpace(p.User.Email),
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresIn:    p.ExpiresIn,
	}, nil
}

func (c *Client) SignUp(ctx context.Context, in auth.SignUpInput) (auth.Session, error) {
	body := map[string]any{
		"email":    in.Email,
		"password": in.Password,
	}
	if len(in.Metadata) > 0 {
		body["data"] = in.Metadata
	}

	var out sessionPayload
	if err := c.http.DoJSON(ctx, http.MethodPost, "/signup", c.headers(""), body, &out); err != nil {
		return auth.Session{}, normalize(err)
	}
	return out.toSession()
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (auth.Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var out sessionPayload
	if err := c.http.DoJSON(ctx, http.MethodPost, "/token?grant_type=password", c.headers(""), body, &out); err != nil {
		return auth.Session{}, normalize(err)
	}
	return out.toSession()
}

// SignInWithProvider uses the provider-token grant; the provider account is
// linked (or created on first use) by the auth service itself.
func (c *Client) SignInWithProvider(ctx context.Context, provider, providerToken string) (auth.Session, error) {
	body := map[string]string{
		"provider":     provider,
		"access_token": providerToken,
	}

	var out sessionPayload
	if err := c.http.DoJSON(ctx, http.MethodPost, "/token?grant_type=id_token", c.headers(""), body, &out); err != nil {
		return auth.Session{}, normalize(err)
	}
	return out.toSession()
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if err := c.http.DoJSON(ctx, http.MethodPost, "/logout", c.headers(accessToken), nil, nil); err != nil {
		return normalize(err)
	}
	return nil
}

// GetUser resolves an access token to the identity it belongs to.
func (c *Client) GetUser(ctx context.Context, accessToken string) (auth.Claims, error) {
	var out struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		AppMetadata struct {
			Provider string `json:"provider"`
		} `json:"app_metadata"`
	}

	if err := c.http.DoJSON(ctx, http.MethodGet, "/user", c.headers(accessToken), nil, &out); err != nil {
		return auth.Claims{}, normalize(err)
	}

	id := strings.TrimSpace(out.ID)
	if id == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing user id", auth.ErrUpstream)
	}

	return auth.Claims{
		AuthID:   id,
		Email:    strings.TrimSpace(out.Email),
		Provider: strings.TrimSpace(out.AppMetadata.Provider),
	}, nil
}

func (c *Client) headers(bearer string) map[string]string {
	h := map[string]string{
		"apikey": c.anonKey,
	}
	if bearer == "" {
		bearer = c.anonKey
	}
	h["Authorization"] = "Bearer " + bearer
	return h
}

// normalize folds transport failures into the port sentinels. 4xx from the
// auth service means the credential was bad; anything else is upstream.
func normalize(err error) error {
	var he *httpclient.HTTPError
	if errors.As(err, &he) {
		switch he.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized,
			http.StatusForbidden, http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: status=%d", auth.ErrInvalidCredentials, he.StatusCode)
		}
		return fmt.Errorf("%w: status=%d", auth.ErrUpstream, he.StatusCode)
	}
	return fmt.Errorf("%w: %v", auth.ErrUpstream, err)
}
