package memory

import (
	"context"
	"sync"

	"move-togaether/internal/ports/storage"
)

// objectStore keeps uploads in a map and hands back fake public URLs.
// Good enough for dev and for exercising upload paths in tests.
type objectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewObjectStore() storage.ObjectStore {
	return &objectStore{objects: make(map[string][]byte)}
}

func (o *objectStore) Upload(ctx context.Context, bucket, path, contentType string, data []byte) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	key := bucket + "/" + path
	buf := make([]byte, len(data))
	copy(buf, data)
	o.objects[key] = buf
	return "memory://" + key, nil
}
