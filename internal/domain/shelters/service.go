package shelters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("shelter not found")
	ErrForbidden    = errors.New("forbidden")
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
	Name        string
	Description string
	Phone       string
	OpenChatURL string
	Address     string
}

func (s *Service) Create(ctx context.Context, creatorID string, in CreateInput) (Shelter, error) {
	if strings.TrimSpace(creatorID) == "" {
		return Shelter{}, ErrInvalidInput
	}
	// Name, description and phone are the minimum a useful entry needs.
	if strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.Phone) == "" {
		return Shelter{}, ErrInvalidInput
	}

	now := s.now()
	sh := Shelter{
		ID:          uuid.NewString(),
		CreatorID:   creatorID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Phone:       strings.TrimSpace(in.Phone),
		OpenChatURL: strings.TrimSpace(in.OpenChatURL),
		Address:     strings.TrimSpace(in.Address),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, sh); err != nil {
		return Shelter{}, err
	}
	return sh, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Shelter, error) {
	sh, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Shelter{}, ErrNotFound
	}
	return sh, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Shelter, int, error) {
	f.Page, f.Limit = clampPage(f.Page, f.Limit)
	return s.repo.List(ctx, f)
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

type UpdateInput struct {
	Name        *string
	Description *string
	Phone       *string
	OpenChatURL *string
	Address     *string
}

// Update: creator only. Omitted fields stay as they are.
func (s *Service) Update(ctx context.Context, id, callerID string, in UpdateInput) (Shelter, error) {
	sh, err := s.GetByID(ctx, id)
	if err != nil {
		return Shelter{}, err
	}
	if sh.CreatorID != callerID {
		return Shelter{}, ErrForbidden
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Shelter{}, ErrInvalidInput
		}
		sh.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			return Shelter{}, ErrInvalidInput
		}
		sh.Description = strings.TrimSpace(*in.Description)
	}
	if in.Phone != nil {
		if strings.TrimSpace(*in.Phone) == "" {
			return Shelter{}, ErrInvalidInput
		}
		sh.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.OpenChatURL != nil {
		sh.OpenChatURL = strings.TrimSpace(*in.OpenChatURL)
	}
	if in.Address != nil {
		sh.Address = strings.TrimSpace(*in.Address)
	}

	sh.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, sh); err != nil {
		return Shelter{}, err
	}
	return sh, nil
}
