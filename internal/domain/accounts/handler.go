package accounts

import (
	"encoding/json"
	"errors"
	"net/http"

	"move-togaether/internal/domain/profiles"
	"move-togaether/internal/middleware"
	"move-togaether/internal/platform/httpx"
	"move-togaether/internal/ports/auth"
	"move-togaether/internal/ports/social"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/auth/signup", signupHandler(svc))
	r.Post("/auth/login", loginHandler(svc))
	r.Post("/auth/logout", logoutHandler(svc))

	r.Post("/auth/kakao/callback", kakaoCallbackHandler(svc))
	r.Post("/auth/kakao/login", kakaoLoginHandler(svc))
	r.Post("/auth/kakao/signup", kakaoSignupHandler(svc))
}

type sessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`

	ProfileID string `json:"profile_id"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
}

func toSessionResponse(res SignUpResult) sessionResponse {
	return sessionResponse{
		AccessToken:  res.Session.AccessToken,
		RefreshToken: res.Session.RefreshToken,
		ExpiresIn:    res.Session.ExpiresIn,
		ProfileID:    res.Profile.ID,
		Nickname:     res.Profile.Nickname,
		Email:        res.Profile.Email,
	}
}

// writeAuthError maps service/provider failures onto status codes.
// Provider detail is never echoed back.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpx.Error(w, http.StatusBadRequest, "invalid input")
	case errors.Is(err, profiles.ErrDuplicateEmail):
		httpx.Error(w, http.StatusConflict, profiles.ErrDuplicateEmail.Error())
	case errors.Is(err, profiles.ErrDuplicateNickname):
		httpx.Error(w, http.StatusConflict, profiles.ErrDuplicateNickname.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		httpx.Error(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, ErrNotRegistered):
		httpx.Error(w, http.StatusNotFound, ErrNotRegistered.Error())
	case errors.Is(err, social.ErrNoEmail):
		httpx.Error(w, http.StatusBadRequest, social.ErrNoEmail.Error())
	case errors.Is(err, ErrSocialNotConfigured):
		httpx.Error(w, http.StatusInternalServerError, ErrSocialNotConfigured.Error())
	case errors.Is(err, profiles.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "profile not found")
	case errors.Is(err, auth.ErrUpstream), errors.Is(err, social.ErrUpstream):
		httpx.Error(w, http.StatusBadGateway, "upstream provider error")
	default:
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}

type signupRequest struct {
	Email              string `json:"email"`
	Password           string `json:"password"`
	Nickname           string `json:"nickname"`
	Phone              string `json:"phone"`
	PhoneVisible       bool   `json:"phone_visible"`
	Bio                string `json:"bio"`
	SecurityQuestionID int    `json:"security_question_id"`
	SecurityAnswer     string `json:"security_answer"`
}

// signupHandler registers an email account.
// @Summary Sign up with email and password
// @Tags    auth
// @Router  /auth/signup [post]
func signupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		res, err := svc.SignUp(r.Context(), SignUpInput{
			Email:              req.Email,
			Password:           req.Password,
			Nickname:           req.Nickname,
			Phone:              req.Phone,
			PhoneVisible:       req.PhoneVisible,
			Bio:                req.Bio,
			SecurityQuestionID: req.SecurityQuestionID,
			SecurityAnswer:     req.SecurityAnswer,
		})
		if err != nil {
			writeAuthError(w, err)
			return
		}

		httpx.OK(w, http.StatusCreated, toSessionResponse(res))
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		res, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		httpx.OK(w, http.StatusOK, toSessionResponse(res))
	}
}

func logoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.BearerToken(r.Header.Get("Authorization"))
		if token == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := svc.Logout(r.Context(), token); err != nil {
			writeAuthError(w, err)
			return
		}

		httpx.OK(w, http.StatusOK, map[string]string{"message": "logged out"})
	}
}

type kakaoCallbackRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
}

func kakaoCallbackHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req kakaoCallbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		res, err := svc.KakaoCallback(r.Context(), req.Code, req.RedirectURI)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		httpx.OK(w, http.StatusOK, map[string]any{
			"access_token": res.AccessToken,
			"email":        res.Email,
			"nickname":     res.Nickname,
			"registered":   res.Registered,
		})
	}
}

type kakaoLoginRequest struct {
	AccessToken string `json:"access_token"`
}

func kakaoLoginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req kakaoLoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		res, err := svc.KakaoLogin(r.Context(), req.AccessToken)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		httpx.OK(w, http.StatusOK, toSessionResponse(res))
	}
}

type kakaoSignupRequest struct {
	AccessToken        string `json:"access_token"`
	Nickname           string `json:"nickname"`
	Phone              string `json:"phone"`
	PhoneVisible       bool   `json:"phone_visible"`
	Bio                string `json:"bio"`
	SecurityQuestionID int    `json:"security_question_id"`
	SecurityAnswer     string `json:"security_answer"`
}

func kakaoSignupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req kakaoSignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		res, err := svc.KakaoSignUp(r.Context(), KakaoSignUpInput{
			AccessToken:        req.AccessToken,
			Nickname:           req.Nickname,
			Phone:              req.Phone,
			PhoneVisible:       req.PhoneVisible,
			Bio:                req.Bio,
			SecurityQuestionID: req.SecurityQuestionID,
			SecurityAnswer:     req.SecurityAnswer,
		})
		if err != nil {
			writeAuthError(w, err)
			return
		}

		httpx.OK(w, http.StatusCreated, toSessionResponse(res))
	}
}
