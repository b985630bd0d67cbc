package applications

import (
	"context"
	"errors"
	"strings"
	"time"

	"move-togaether/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("application not found")
	ErrPostNotFound   = errors.New("post not found")
	ErrForbidden      = errors.New("forbidden")
	ErrAlreadyApplied = errors.New("already applied to this post")
	ErrOwnPost        = errors.New("cannot apply to your own post")
)

// PostCatalog is the slice of the posts module this workflow needs.
// *posts.Service satisfies it.
type PostCatalog interface {
	AuthorOf(ctx context.Context, postID string) (string, error)
	BeginTransport(ctx context.Context, postID string) error
}

type Service struct {
	repo  Repository
	posts PostCatalog
	log   logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, posts PostCatalog, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop{}
	}
	return &Service{
		repo:  repo,
		posts: posts,
		log:   log,
		now:   time.Now,
	}
}

// Apply creates a pending application. One per (post, applicant).
func (s *Service) Apply(ctx context.Context, postID, applicantID, message string) (Application, error) {
	postID = strings.TrimSpace(postID)
	applicantID = strings.TrimSpace(applicantID)
	if postID == "" || applicantID == "" {
		return Application{}, ErrInvalidInput
	}

	author, err := s.posts.AuthorOf(ctx, postID)
	if err != nil {
		return Application{}, ErrPostNotFound
	}
	if author == applicantID {
		return Application{}, ErrOwnPost
	}

	if _, err := s.repo.GetByPostAndApplicant(ctx, postID, applicantID); err == nil {
		return Application{}, ErrAlreadyApplied
	}

	now := s.now()
	a := Application{
		ID:          uuid.NewString(),
		PostID:      postID,
		ApplicantID: applicantID,
		Status:      StatusPending,
		Message:     strings.TrimSpace(message),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Application{}, err
	}
	return a, nil
}

// ListForPost is restricted to the post's author.
func (s *Service) ListForPost(ctx context.Context, postID, callerID string) ([]Detail, error) {
	author, err := s.posts.AuthorOf(ctx, postID)
	if err != nil {
		return nil, ErrPostNotFound
	}
	if author != callerID {
		return nil, ErrForbidden
	}
	return s.repo.ListByPost(ctx, postID)
}

func (s *Service) ListMine(ctx context.Context, applicantID string) ([]Detail, error) {
	if strings.TrimSpace(applicantID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByApplicant(ctx, applicantID)
}

// SetStatus is the one cross-module write in the system. The application
// update lands first; acceptance then flips the parent post to in_progress
// through a conditional update. The two writes are independent: a failed
// post update is logged, not rolled back, and a post that already advanced
// past active is never touched.
func (s *Service) SetStatus(ctx context.Context, applicationID string, newStatus Status, message *string, callerID string) (Application, error) {
	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return Application{}, ErrInvalidInput
	}
	if !ValidTransition(newStatus) {
		return Application{}, ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return Application{}, ErrNotFound
	}

	author, err := s.posts.AuthorOf(ctx, a.PostID)
	if err != nil {
		return Application{}, ErrNotFound
	}
	if author != callerID {
		return Application{}, ErrForbidden
	}

	a.Status = newStatus
	if message != nil {
		a.Message = strings.TrimSpace(*message)
	}
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return Application{}, err
	}

	if newStatus == StatusAccepted {
		if err := s.posts.BeginTransport(ctx, a.PostID); err != nil {
			s.log.Error("post status cascade failed", map[string]any{
				"application_id": a.ID,
				"post_id":        a.PostID,
				"err":            err.Error(),
			})
		}
	}

	return a, nil
}
