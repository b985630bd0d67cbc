package storage

import "context"

// ObjectStore uploads binary objects (post images) and returns a public URL.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, path, contentType string, data []byte) (string, error)
}
