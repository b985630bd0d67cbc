// Package supafiles uploads objects to the hosted storage service
// (Supabase Storage) and returns their public URLs.
package supafiles

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"move-togaether/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("object storage client not configured")
	ErrUpstream      = errors.New("object storage error")
)

type Config struct {
	ProjectURL string
	// ServiceKey must be allowed to write to the bucket.
	ServiceKey string

	Timeout time.Duration
}

type Client struct {
	http       *httpclient.Client
	projectURL string
	serviceKey string
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.ProjectURL), "/")
	key := strings.TrimSpace(cfg.ServiceKey)
	if base == "" || key == "" {
		return nil, ErrNotConfigured
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second // uploads are bigger than API calls
	}

	hc, err := httpclient.NewWithBaseURL(base, timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:       hc,
		projectURL: base,
		serviceKey: key,
	}, nil
}

func (c *Client) Upload(ctx context.Context, bucket, path, contentType string, data []byte) (string, error) {
	bucket = strings.TrimSpace(bucket)
	path = strings.Trim(strings.TrimSpace(path), "/")
	if bucket == "" || path == "" || len(data) == 0 {
		return "", fmt.Errorf("%w: empty bucket, path or data", ErrUpstream)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectPath := "/storage/v1/object/" + url.PathEscape(bucket) + "/" + escapePath(path)
	headers := map[string]string{
		"Authorization": "Bearer " + c.serviceKey,
		"apikey":        c.serviceKey,
	}

	if err := c.http.DoBytes(ctx, http.MethodPost, objectPath, headers, contentType, data, nil); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return c.projectURL + "/storage/v1/object/public/" + bucket + "/" + path, nil
}

// escapePath escapes each segment but keeps separators.
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}
