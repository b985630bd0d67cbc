package posts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("post not found")
	ErrForbidden        = errors.New("forbidden")
	ErrAlreadyCompleted = errors.New("post already completed")
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Title       string
	Description string

	DepartureAddress string
	DepartureLat     *float64
	DepartureLng     *float64
	ArrivalAddress   string
	ArrivalLat       *float64
	ArrivalLng       *float64

	DogName            string
	DogSize            string
	DogBreed           string
	DogAge             int
	DogCharacteristics string

	ImageURLs   []string
	RelatedLink string

	Deadline time.Time
}

func (s *Service) Create(ctx context.Context, authorID string, in CreateInput) (Post, error) {
	if strings.TrimSpace(authorID) == "" {
		return Post{}, ErrInvalidInput
	}

	required := []string{
		in.Title,
		in.Description,
		in.DepartureAddress,
		in.ArrivalAddress,
		in.DogName,
		in.DogSize,
		in.DogBreed,
	}
	for _, v := range required {
		if strings.TrimSpace(v) == "" {
			return Post{}, ErrInvalidInput
		}
	}
	if !ValidDogSize(strings.TrimSpace(in.DogSize)) {
		return Post{}, ErrInvalidInput
	}
	if in.Deadline.IsZero() {
		return Post{}, ErrInvalidInput
	}

	now := s.now()
	p := Post{
		ID:                 uuid.NewString(),
		AuthorID:           authorID,
		Title:              strings.TrimSpace(in.Title),
		Description:        strings.TrimSpace(in.Description),
		DepartureAddress:   strings.TrimSpace(in.DepartureAddress),
		DepartureLat:       in.DepartureLat,
		DepartureLng:       in.DepartureLng,
		ArrivalAddress:     strings.TrimSpace(in.ArrivalAddress),
		ArrivalLat:         in.ArrivalLat,
		ArrivalLng:         in.ArrivalLng,
		DogName:            strings.TrimSpace(in.DogName),
		DogSize:            DogSize(strings.TrimSpace(in.DogSize)),
		DogBreed:           strings.TrimSpace(in.DogBreed),
		DogAge:             in.DogAge,
		DogCharacteristics: strings.TrimSpace(in.DogCharacteristics),
		ImageURLs:          in.ImageURLs,
		RelatedLink:        strings.TrimSpace(in.RelatedLink),
		Deadline:           in.Deadline,
		Status:             StatusActive, // always; there is no other entry state
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Post{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Post, error) {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Post{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Summary, int, error) {
	f.Page, f.Limit = clampPage(f.Page, f.Limit)
	if f.Status == "" {
		f.Status = StatusActive
	}
	return s.repo.List(ctx, f)
}

// ListMine lists the caller's own posts, any status by default.
func (s *Service) ListMine(ctx context.Context, authorID string, status Status, page, limit int) ([]Summary, int, error) {
	if strings.TrimSpace(authorID) == "" {
		return nil, 0, ErrInvalidInput
	}
	page, limit = clampPage(page, limit)
	return s.repo.ListByAuthor(ctx, authorID, status, page, limit)
}

// MarkComplete is the only way a post reaches completed, and only its
// author may do it. Completing twice conflicts; the status never regresses.
func (s *Service) MarkComplete(ctx context.Context, postID, callerID string) (Post, error) {
	p, err := s.GetByID(ctx, postID)
	if err != nil {
		return Post{}, err
	}
	if p.AuthorID != callerID {
		return Post{}, ErrForbidden
	}
	if p.Status == StatusCompleted {
		return Post{}, ErrAlreadyCompleted
	}

	p.Status = StatusCompleted
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Post{}, err
	}
	return p, nil
}

func (s *Service) RankByDistance(ctx context.Context, lat, lng float64, page, limit int) ([]Ranked, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, ErrInvalidInput
	}
	page, limit = clampPage(page, limit)

	items, err := s.repo.RankByDistance(ctx, lat, lng, page, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Ranked{}
	}
	return items, nil
}

// AuthorOf exposes a post's author id. Keeps applications/inquiries from
// needing the whole Post and avoids import cycles.
func (s *Service) AuthorOf(ctx context.Context, postID string) (string, error) {
	p, err := s.GetByID(ctx, postID)
	if err != nil {
		return "", err
	}
	return p.AuthorID, nil
}

// BeginTransport flips the post to in_progress when an application is
// accepted. Conditional on the post still being active; a post that already
// advanced is left alone.
func (s *Service) BeginTransport(ctx context.Context, postID string) error {
	return s.repo.BeginTransport(ctx, strings.TrimSpace(postID), s.now())
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}
