package favorites

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrPostNotFound = errors.New("post not found")
)

// PostDirectory is the slice of the posts module this needs.
type PostDirectory interface {
	AuthorOf(ctx context.Context, postID string) (string, error)
}

type Service struct {
	repo  Repository
	posts PostDirectory
	now   func() time.Time
}

func NewService(repo Repository, posts PostDirectory) *Service {
	return &Service{
		repo:  repo,
		posts: posts,
		now:   time.Now,
	}
}

func (s *Service) Check(ctx context.Context, postID, profileID string) (bool, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" || strings.TrimSpace(profileID) == "" {
		return false, ErrInvalidInput
	}
	_, err := s.repo.GetByProfileAndPost(ctx, profileID, postID)
	return err == nil, nil
}

// Add is idempotent: favoriting an already-favorited post returns the
// existing row instead of erroring.
func (s *Service) Add(ctx context.Context, postID, profileID string) (Favorite, error) {
	postID = strings.TrimSpace(postID)
	profileID = strings.TrimSpace(profileID)
	if postID == "" || profileID == "" {
		return Favorite{}, ErrInvalidInput
	}

	if _, err := s.posts.AuthorOf(ctx, postID); err != nil {
		return Favorite{}, ErrPostNotFound
	}

	if existing, err := s.repo.GetByProfileAndPost(ctx, profileID, postID); err == nil {
		return existing, nil
	}

	f := Favorite{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		PostID:    postID,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return Favorite{}, err
	}
	return f, nil
}

func (s *Service) ListMine(ctx context.Context, profileID string) ([]Detail, error) {
	if strings.TrimSpace(profileID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByProfile(ctx, profileID)
}
