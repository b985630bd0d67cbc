// Package kakaomap implements reverse geocoding via the Kakao Local API.
package kakaomap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"move-togaether/internal/platform/httpclient"
	"move-togaether/internal/ports/geo"
)

const apiBaseURL = "https://dapi.kakao.com"

var ErrNotConfigured = errors.New("kakaomap client not configured")

type Config struct {
	RESTAPIKey string
	Timeout    time.Duration

	// Overridable for tests.
	BaseURL string
}

type Client struct {
	http    *httpclient.Client
	restKey string
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

	base := cfg.BaseURL
	if base == "" {
		base = apiBaseURL
	}

	hc, err := httpclient.NewWithBaseURL(base, timeout)
	if err != nil {
		return nil, err
	}

	return &Client{http: hc, restKey: key}, nil
}

// CoordToAddress prefers the structured road address; when there is none it
// falls back to the administrative region names joined together.
func (c *Client) CoordToAddress(ctx context.Context, lat, lng float64) (string, error) {
	// Kakao wants x=longitude, y=latitude.
	path := fmt.Sprintf("/v2/local/geo/coord2address.json?x=%f&y=%f", lng, lat)

	var out struct {
		Documents []struct {
			RoadAddress *struct {
				AddressName string `json:"address_name"`
			} `json:"road_address"`
			Address *struct {
				AddressName string `json:"address_name"`
				Region1     string `json:"region_1depth_name"`
				Region2     string `json:"region_2depth_name"`
				Region3     string `json:"region_3depth_name"`
			} `json:"address"`
		} `json:"documents"`
	}

	headers := map[string]string{"Authorization": "KakaoAK " + c.restKey}
	if err := c.http.DoJSON(ctx, http.MethodGet, path, headers, nil, &out); err != nil {
		return "", fmt.Errorf("%w: %v", geo.ErrUpstream, err)
	}

	if len(out.Documents) == 0 {
		return "", geo.ErrNoAddress
	}

	doc := out.Documents[0]
	if doc.RoadAddress != nil && strings.TrimSpace(doc.RoadAddress.AddressName) != "" {
		return strings.TrimSpace(doc.RoadAddress.AddressName), nil
	}
	if doc.Address != nil {
		if name := strings.TrimSpace(doc.Address.AddressName); name != "" {
			return name, nil
		}
		parts := []string{doc.Address.Region1, doc.Address.Region2, doc.Address.Region3}
		joined := strings.TrimSpace(strings.Join(parts, " "))
		if joined != "" {
			return joined, nil
		}
	}

	return "", geo.ErrNoAddress
}
