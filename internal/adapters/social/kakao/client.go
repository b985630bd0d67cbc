// Package kakao implements the social.Provider port against Kakao's OAuth
// and user APIs.
package kakao

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"move-togaether/internal/platform/httpclient"
	"move-togaether/internal/ports/social"
)

const (
	authBaseURL = "https://kauth.kakao.com"
	apiBaseURL  = "https://kapi.kakao.com"
)

var ErrNotConfigured = errors.New("kakao client not configured")

type Config struct {
	// RESTAPIKey is the app's REST API key (client_id in OAuth terms).
	RESTAPIKey string
	// ClientSecret is optional; Kakao apps may require it.
	ClientSecret string

	Timeout time.Duration

	// Overridable for tests.
	AuthBaseURL string
	APIBaseURL  string
}

type Client struct {
	authHTTP *httpclient.Client
	apiHTTP  *httpclient.Client

	restKey      string
	clientSecret string
}

func NewClient(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.RESTAPIKey)
	if key == "" {
		return nil, ErrNotConfigured
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	authBase := cfg.AuthBaseURL
	if authBase == "" {
		authBase = authBaseURL
	}
	apiBase := cfg.APIBaseURL
	if apiBase == "" {
		apiBase = apiBaseURL
	}

	authHTTP, err := httpclient.NewWithBaseURL(authBase, timeout)
	if err != nil {
		return nil, err
	}
	apiHTTP, err := httpclient.NewWithBaseURL(apiBase, timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		authHTTP:     authHTTP,
		apiHTTP:      apiHTTP,
		restKey:      key,
		clientSecret: strings.TrimSpace(cfg.ClientSecret),
	}, nil
}

func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("%w: empty code", social.ErrUpstream)
	}

	form := url.Values{
		"grant_type":   {"authorization_code"},
		"client_id":    {c.restKey},
		"redirect_uri": {redirectURI},
		"code":         {code},
	}
	if c.clientSecret != "" {
		form.Set("client_secret", c.clientSecret)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.authHTTP.DoForm(ctx, "/oauth/token", nil, form, &out); err != nil {
		return "", fmt.Errorf("%w: %v", social.ErrUpstream, err)
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return "", fmt.Errorf("%w: token response missing access_token", social.ErrUpstream)
	}

	return out.AccessToken, nil
}

func (c *Client) UserInfo(ctx context.Context, accessToken string) (social.Account, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return social.Account{}, fmt.Errorf("%w: empty access token", social.ErrUpstream)
	}

	var out struct {
		ID           int64 `json:"id"`
		KakaoAccount struct {
			Email   string `json:"email"`
			Profile struct {
				Nickname string `json:"nickname"`
			} `json:"profile"`
		} `json:"kakao_account"`
	}

	headers := map[string]string{"Authorization": "Bearer " + accessToken}
	if err := c.apiHTTP.DoJSON(ctx, http.MethodGet, "/v2/user/me", headers, nil, &out); err != nil {
		return social.Account{}, fmt.Errorf("%w: %v", social.ErrUpstream, err)
	}
	if out.ID == 0 {
		return social.Account{}, fmt.Errorf("%w: user response missing id", social.ErrUpstream)
	}

	return social.Account{
		ProviderUserID: strconv.FormatInt(out.ID, 10),
		Email:          strings.TrimSpace(out.KakaoAccount.Email),
		Nickname:       strings.TrimSpace(out.KakaoAccount.Profile.Nickname),
	}, nil
}
