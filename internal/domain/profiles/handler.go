package profiles

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"move-togaether/internal/middleware"
	"move-togaether/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Profile of the authenticated caller. /mypage/profile is the alias the
	// mobile client uses; both hit the same handlers.
	for _, p := range []string{"/auth/profile", "/mypage/profile"} {
		r.Get(p, getProfileHandler(svc))
		r.Put(p, updateProfileHandler(svc))
	}

	// Uniqueness probes: direct existence queries, never a speculative
	// identity creation at the auth provider.
	r.Post("/auth/check-email", checkEmailHandler(svc))
	r.Post("/auth/check-nickname", checkNicknameHandler(svc))

	r.Post("/auth/verify-security-question", verifySecurityQuestionHandler(svc))
}

type profileResponse struct {
	ID                 string    `json:"id"`
	Nickname           string    `json:"nickname"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone,omitempty"`
	PhoneVisible       bool      `json:"phone_visible"`
	Bio                string    `json:"bio,omitempty"`
	OpenChatURL        string    `json:"open_chat_url,omitempty"`
	InstagramURL       string    `json:"instagram_url,omitempty"`
	SecurityQuestionID int       `json:"security_question_id,omitempty"`
	Provider           string    `json:"provider"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toProfileResponse(p Profile) profileResponse {
	return profileResponse{
		ID:                 p.ID,
		Nickname:           p.Nickname,
		Email:              p.Email,
		Phone:              p.Phone,
		PhoneVisible:       p.PhoneVisible,
		Bio:                p.Bio,
		OpenChatURL:        p.OpenChatURL,
		InstagramURL:       p.InstagramURL,
		SecurityQuestionID: p.SecurityQuestionID,
		Provider:           string(p.Provider),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// getProfileHandler resolves the caller's profile from claims.
// @Summary  Get my profile
// @Tags     profile
// @Security Bearer
// @Success  200 {object} httpx.Envelope
// @Router   /auth/profile [get]
func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.AuthID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		p, err := svc.GetByAuthID(r.Context(), claims.AuthID)
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "profile not found")
			return
		}

		httpx.OK(w, http.StatusOK, toProfileResponse(p))
	}
}

type updateProfileRequest struct {
	Nickname       *string `json:"nickname"`
	Phone          *string `json:"phone"`
	PhoneVisible   *bool   `json:"phone_visible"`
	Bio            *string `json:"bio"`
	OpenChatURL    *string `json:"open_chat_url"`
	InstagramURL   *string `json:"instagram_url"`
	SecurityAnswer *string `json:"security_answer"`
}

func updateProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.AuthID) == "" {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		p, err := svc.Update(r.Context(), claims.AuthID, UpdateInput{
			Nickname:       req.Nickname,
			Phone:          req.Phone,
			PhoneVisible:   req.PhoneVisible,
			Bio:            req.Bio,
			OpenChatURL:    req.OpenChatURL,
			InstagramURL:   req.InstagramURL,
			SecurityAnswer: req.SecurityAnswer,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				httpx.Error(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, ErrDuplicateNickname):
				httpx.Error(w, http.StatusConflict, err.Error())
			case errors.Is(err, ErrNotFound):
				httpx.Error(w, http.StatusNotFound, "profile not found")
			default:
				httpx.Error(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.OK(w, http.StatusOK, toProfileResponse(p))
	}
}

type checkEmailRequest struct {
	Email string `json:"email"`
}

func checkEmailHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkEmailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if strings.TrimSpace(req.Email) == "" {
			httpx.Error(w, http.StatusBadRequest, "email is required")
			return
		}

		taken, err := svc.EmailTaken(r.Context(), req.Email)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		httpx.OK(w, http.StatusOK, map[string]bool{"available": !taken})
	}
}

type checkNicknameRequest struct {
	Nickname string `json:"nickname"`
}

func checkNicknameHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkNicknameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if strings.TrimSpace(req.Nickname) == "" {
			httpx.Error(w, http.StatusBadRequest, "nickname is required")
			return
		}

		taken, err := svc.NicknameTaken(r.Context(), req.Nickname)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		httpx.OK(w, http.StatusOK, map[string]bool{"available": !taken})
	}
}

type verifySecurityQuestionRequest struct {
	Nickname           string `json:"nickname"`
	SecurityQuestionID int    `json:"security_question_id"`
	SecurityAnswer     string `json:"security_answer"`
}

func verifySecurityQuestionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifySecurityQuestionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		email, err := svc.VerifySecurityQuestion(r.Context(), req.Nickname, req.SecurityQuestionID, req.SecurityAnswer)
		if err != nil {
			// One generic message regardless of which factor failed.
			httpx.Error(w, http.StatusBadRequest, ErrVerifyFailed.Error())
			return
		}

		httpx.OK(w, http.StatusOK, map[string]string{"email": email})
	}
}
