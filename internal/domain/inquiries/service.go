package inquiries

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
	ErrOwnPost      = errors.New("cannot inquire about your own post")
)

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

func (s *Service) Create(ctx context.Context, postID, profileID, message string) (Inquiry, error) {
	postID = strings.TrimSpace(postID)
	profileID = strings.TrimSpace(profileID)
	message = strings.TrimSpace(message)
	if postID == "" || profileID == "" || message == "" {
		return Inquiry{}, ErrInvalidInput
	}

	author, err := s.posts.AuthorOf(ctx, postID)
	if err != nil {
		return Inquiry{}, ErrPostNotFound
	}
	if author == profileID {
		return Inquiry{}, ErrOwnPost
	}

	now := s.now()
	q := Inquiry{
		ID:        uuid.NewString(),
		PostID:    postID,
		ProfileID: profileID,
		Message:   message,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, q); err != nil {
		return Inquiry{}, err
	}
	return q, nil
}

// ListMine is scoped to inquiries the caller authored.
func (s *Service) ListMine(ctx context.Context, profileID, postID string) ([]Detail, error) {
	if strings.TrimSpace(profileID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByProfile(ctx, profileID, strings.TrimSpace(postID))
}
