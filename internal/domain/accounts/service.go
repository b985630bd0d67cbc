package accounts

import (
	"context"
	"errors"
	"strings"

	"move-togaether/internal/domain/profiles"
	"move-togaether/internal/platform/logger"
	"move-togaether/internal/ports/auth"
	"move-togaether/internal/ports/social"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrSocialNotConfigured = errors.New("social login not configured")
	ErrNotRegistered       = errors.New("no account for this social identity")
)

// Service orchestrates the auth provider, the social provider and the
// profile directory. It owns no storage of its own: identities live at the
// provider, everything user-facing lives in profiles.
type Service struct {
	accounts auth.Accounts
	kakao    social.Provider // may be nil
	profiles *profiles.Service
	log      logger.Logger
}

func NewService(accounts auth.Accounts, kakao social.Provider, profilesSvc *profiles.Service, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop{}
	}
	return &Service{
		accounts: accounts,
		kakao:    kakao,
		profiles: profilesSvc,
		log:      log,
	}
}

type SignUpInput struct {
	Email              string
	Password           string
	Nickname           string
	Phone              string
	PhoneVisible       bool
	Bio                string
	SecurityQuestionID int
	SecurityAnswer     string
}

type SignUpResult struct {
	Profile profiles.Profile
	Session auth.Session
}

// SignUp: profile uniqueness first (direct existence queries), identity at
// the provider second, profile row last. The provider signup is the only
// place an identity is ever created.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (SignUpResult, error) {
	email := profiles.NormalizeEmail(in.Email)
	nickname := strings.TrimSpace(in.Nickname)
	if email == "" || strings.TrimSpace(in.Password) == "" || nickname == "" {
		return SignUpResult{}, ErrInvalidInput
	}

	if taken, err := s.profiles.EmailTaken(ctx, email); err != nil {
		return SignUpResult{}, err
	} else if taken {
		return SignUpResult{}, profiles.ErrDuplicateEmail
	}
	if taken, err := s.profiles.NicknameTaken(ctx, nickname); err != nil {
		return SignUpResult{}, err
	} else if taken {
		return SignUpResult{}, profiles.ErrDuplicateNickname
	}

	sess, err := s.accounts.SignUp(ctx, auth.SignUpInput{
		Email:    email,
		Password: in.Password,
		// Kept as identity metadata until the profile row lands, so a
		// crashed signup can be reconciled.
		Metadata: map[string]any{"nickname": nickname},
	})
	if err != nil {
		return SignUpResult{}, err
	}

	p, err := s.profiles.Create(ctx, profiles.CreateInput{
		AuthID:             sess.AuthID,
		Nickname:           nickname,
		Email:              email,
		Phone:              in.Phone,
		PhoneVisible:       in.PhoneVisible,
		Bio:                in.Bio,
		SecurityQuestionID: in.SecurityQuestionID,
		SecurityAnswer:     in.SecurityAnswer,
		Provider:           profiles.ProviderEmail,
	})
	if err != nil {
		// Identity exists, profile doesn't. Logged for reconciliation; the
		// provider signup is not compensated here.
		s.log.Error("profile creation after signup failed", map[string]any{
			"auth_id": sess.AuthID,
			"err":     err.Error(),
		})
		return SignUpResult{}, err
	}

	return SignUpResult{Profile: p, Session: sess}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (SignUpResult, error) {
	email = profiles.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return SignUpResult{}, ErrInvalidInput
	}

	sess, err := s.accounts.SignInWithPassword(ctx, email, password)
	if err != nil {
		return SignUpResult{}, err
	}

	p, err := s.profiles.GetByAuthID(ctx, sess.AuthID)
	if err != nil {
		return SignUpResult{}, err
	}

	return SignUpResult{Profile: p, Session: sess}, nil
}

func (s *Service) Logout(ctx context.Context, accessToken string) error {
	if strings.TrimSpace(accessToken) == "" {
		return ErrInvalidInput
	}
	return s.accounts.SignOut(ctx, accessToken)
}

type KakaoCallbackResult struct {
	AccessToken string // Kakao's token, not ours
	Email       string
	Nickname    string
	Registered  bool
}

// KakaoCallback finishes the OAuth handshake: code → provider token →
// provider profile. Email is mandatory; without it neither login nor signup
// can proceed.
func (s *Service) KakaoCallback(ctx context.Context, code, redirectURI string) (KakaoCallbackResult, error) {
	if s.kakao == nil {
		return KakaoCallbackResult{}, ErrSocialNotConfigured
	}
	if strings.TrimSpace(code) == "" {
		return KakaoCallbackResult{}, ErrInvalidInput
	}

	token, err := s.kakao.ExchangeCode(ctx, code, redirectURI)
	if err != nil {
		return KakaoCallbackResult{}, err
	}

	acct, err := s.kakao.UserInfo(ctx, token)
	if err != nil {
		return KakaoCallbackResult{}, err
	}
	if strings.TrimSpace(acct.Email) == "" {
		return KakaoCallbackResult{}, social.ErrNoEmail
	}

	registered, err := s.profiles.EmailTaken(ctx, acct.Email)
	if err != nil {
		return KakaoCallbackResult{}, err
	}

	return KakaoCallbackResult{
		AccessToken: token,
		Email:       profiles.NormalizeEmail(acct.Email),
		Nickname:    acct.Nickname,
		Registered:  registered,
	}, nil
}

func (s *Service) KakaoLogin(ctx context.Context, kakaoToken string) (SignUpResult, error) {
	if s.kakao == nil {
		return SignUpResult{}, ErrSocialNotConfigured
	}
	if strings.TrimSpace(kakaoToken) == "" {
		return SignUpResult{}, ErrInvalidInput
	}

	acct, err := s.kakao.UserInfo(ctx, kakaoToken)
	if err != nil {
		return SignUpResult{}, err
	}
	if strings.TrimSpace(acct.Email) == "" {
		return SignUpResult{}, social.ErrNoEmail
	}

	p, err := s.profiles.GetByEmail(ctx, acct.Email)
	if err != nil {
		return SignUpResult{}, ErrNotRegistered
	}

	sess, err := s.accounts.SignInWithProvider(ctx, "kakao", kakaoToken)
	if err != nil {
		return SignUpResult{}, err
	}

	return SignUpResult{Profile: p, Session: sess}, nil
}

type KakaoSignUpInput struct {
	AccessToken        string // from the callback step
	Nickname           string
	Phone              string
	PhoneVisible       bool
	Bio                string
	SecurityQuestionID int
	SecurityAnswer     string
}

func (s *Service) KakaoSignUp(ctx context.Context, in KakaoSignUpInput) (SignUpResult, error) {
	if s.kakao == nil {
		return SignUpResult{}, ErrSocialNotConfigured
	}
	nickname := strings.TrimSpace(in.Nickname)
	if strings.TrimSpace(in.AccessToken) == "" || nickname == "" {
		return SignUpResult{}, ErrInvalidInput
	}

	acct, err := s.kakao.UserInfo(ctx, in.AccessToken)
	if err != nil {
		return SignUpResult{}, err
	}
	if strings.TrimSpace(acct.Email) == "" {
		return SignUpResult{}, social.ErrNoEmail
	}

	if taken, err := s.profiles.EmailTaken(ctx, acct.Email); err != nil {
		return SignUpResult{}, err
	} else if taken {
		return SignUpResult{}, profiles.ErrDuplicateEmail
	}
	if taken, err := s.profiles.NicknameTaken(ctx, nickname); err != nil {
		return SignUpResult{}, err
	} else if taken {
		return SignUpResult{}, profiles.ErrDuplicateNickname
	}

	// Provider-grant sign-in creates the identity on first use.
	sess, err := s.accounts.SignInWithProvider(ctx, "kakao", in.AccessToken)
	if err != nil {
		return SignUpResult{}, err
	}

	p, err := s.profiles.Create(ctx, profiles.CreateInput{
		AuthID:             sess.AuthID,
		Nickname:           nickname,
		Email:              acct.Email,
		Phone:              in.Phone,
		PhoneVisible:       in.PhoneVisible,
		Bio:                in.Bio,
		SecurityQuestionID: in.SecurityQuestionID,
		SecurityAnswer:     in.SecurityAnswer,
		Provider:           profiles.ProviderKakao,
	})
	if err != nil {
		s.log.Error("profile creation after kakao signup failed", map[string]any{
			"auth_id": sess.AuthID,
			"err":     err.Error(),
		})
		return SignUpResult{}, err
	}

	return SignUpResult{Profile: p, Session: sess}, nil
}
