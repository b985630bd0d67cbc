package profiles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEmail    = errors.New("email already in use")
	ErrDuplicateNickname = errors.New("nickname already in use")

	// ErrVerifyFailed is deliberately the only failure the security-question
	// flow returns: which factor was wrong must not leak.
	ErrVerifyFailed = errors.New("verification failed")
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
	AuthID             string
	Nickname           string
	Email              string
	Phone              string
	PhoneVisible       bool
	Bio                string
	OpenChatURL        string
	InstagramURL       string
	SecurityQuestionID int
	SecurityAnswer     string
	Provider           Provider
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Profile, error) {
	authID := strings.TrimSpace(in.AuthID)
	nickname := strings.TrimSpace(in.Nickname)
	email := NormalizeEmail(in.Email)

	if authID == "" || nickname == "" || email == "" {
		return Profile{}, ErrInvalidInput
	}

	// Friendly pre-checks; the store's unique indexes stay authoritative
	// under races.
	if taken, err := s.EmailTaken(ctx, email); err != nil {
		return Profile{}, err
	} else if taken {
		return Profile{}, ErrDuplicateEmail
	}
	if taken, err := s.NicknameTaken(ctx, nickname); err != nil {
		return Profile{}, err
	} else if taken {
		return Profile{}, ErrDuplicateNickname
	}

	provider := in.Provider
	if provider == "" {
		provider = ProviderEmail
	}

	now := s.now()
	p := Profile{
		ID:                 uuid.NewString(),
		AuthID:             authID,
		Nickname:           nickname,
		Email:              email,
		Phone:              strings.TrimSpace(in.Phone),
		PhoneVisible:       in.PhoneVisible,
		Bio:                strings.TrimSpace(in.Bio),
		OpenChatURL:        strings.TrimSpace(in.OpenChatURL),
		InstagramURL:       strings.TrimSpace(in.InstagramURL),
		SecurityQuestionID: in.SecurityQuestionID,
		SecurityAnswer:     strings.TrimSpace(in.SecurityAnswer),
		Provider:           provider,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) GetByAuthID(ctx context.Context, authID string) (Profile, error) {
	authID = strings.TrimSpace(authID)
	if authID == "" {
		return Profile{}, ErrNotFound
	}
	p, err := s.repo.GetByAuthID(ctx, authID)
	if err != nil {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (Profile, error) {
	p, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) EmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	}
	return false, err
}

func (s *Service) NicknameTaken(ctx context.Context, nickname string) (bool, error) {
	_, err := s.repo.GetByNickname(ctx, NormalizeNickname(nickname))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	}
	return false, err
}

type UpdateInput struct {
	// Pointers for a real partial update: nil = leave unchanged.
	Nickname       *string
	Phone          *string
	PhoneVisible   *bool
	Bio            *string
	OpenChatURL    *string
	InstagramURL   *string
	SecurityAnswer *string
}

// Update mutates the caller's own profile; the caller is resolved from
// claims upstream, so ownership holds by construction.
func (s *Service) Update(ctx context.Context, authID string, in UpdateInput) (Profile, error) {
	p, err := s.GetByAuthID(ctx, authID)
	if err != nil {
		return Profile{}, err
	}

	if in.Nickname != nil {
		next := strings.TrimSpace(*in.Nickname)
		if next == "" {
			return Profile{}, ErrInvalidInput
		}
		if NormalizeNickname(next) != NormalizeNickname(p.Nickname) {
			if taken, err := s.NicknameTaken(ctx, next); err != nil {
				return Profile{}, err
			} else if taken {
				return Profile{}, ErrDuplicateNickname
			}
		}
		p.Nickname = next
	}
	if in.Phone != nil {
		p.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.PhoneVisible != nil {
		p.PhoneVisible = *in.PhoneVisible
	}
	if in.Bio != nil {
		p.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.OpenChatURL != nil {
		p.OpenChatURL = strings.TrimSpace(*in.OpenChatURL)
	}
	if in.InstagramURL != nil {
		p.InstagramURL = strings.TrimSpace(*in.InstagramURL)
	}
	if in.SecurityAnswer != nil {
		p.SecurityAnswer = strings.TrimSpace(*in.SecurityAnswer)
	}

	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// VerifySecurityQuestion discloses the stored email only on a full match of
// nickname + question id + answer. Any mismatch returns the same error.
func (s *Service) VerifySecurityQuestion(ctx context.Context, nickname string, questionID int, answer string) (string, error) {
	nickname = strings.TrimSpace(nickname)
	answer = strings.TrimSpace(answer)
	if nickname == "" || answer == "" {
		return "", ErrVerifyFailed
	}

	p, err := s.repo.GetByNickname(ctx, NormalizeNickname(nickname))
	if err != nil {
		return "", ErrVerifyFailed
	}

	if p.SecurityQuestionID != questionID {
		return "", ErrVerifyFailed
	}
	if !strings.EqualFold(strings.TrimSpace(p.SecurityAnswer), answer) {
		return "", ErrVerifyFailed
	}

	return p.Email, nil
}
