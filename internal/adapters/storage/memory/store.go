// Package memory is the dev/test storage adapter. One Store backs every
// repo so list views can join across domains the way the SQL adapter does.
package memory

import (
	"errors"
	"sync"

	"move-togaether/internal/domain/applications"
	"move-togaether/internal/domain/favorites"
	"move-togaether/internal/domain/inquiries"
	"move-togaether/internal/domain/posts"
	"move-togaether/internal/domain/profiles"
	"move-togaether/internal/domain/shelters"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	mu sync.RWMutex

	profiles     map[string]profiles.Profile
	shelters     map[string]shelters.Shelter
	posts        map[string]posts.Post
	applications map[string]applications.Application
	favorites    map[string]favorites.Favorite
	inquiries    map[string]inquiries.Inquiry
}

func NewStore() *Store {
	return &Store{
		profiles:     make(map[string]profiles.Profile),
		shelters:     make(map[string]shelters.Shelter),
		posts:        make(map[string]posts.Post),
		applications: make(map[string]applications.Application),
		favorites:    make(map[string]favorites.Favorite),
		inquiries:    make(map[string]inquiries.Inquiry),
	}
}
