package applications

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"move-togaether/internal/domain/profiles"
	"move-togaether/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, profilesSvc *profiles.Service) {
	r.Post("/posts/{postID}/applications", applyHandler(svc, profilesSvc))
	r.Get("/posts/{postID}/applications", listForPostHandler(svc, profilesSvc))
	r.Get("/applications/my", listMyApplicationsHandler(svc, profilesSvc))
	r.Put("/applications/{applicationID}/status", setStatusHandler(svc, profilesSvc))
}

type applicationResponse struct {
	ID          string    `json:"id"`
	PostID      string    `json:"post_id"`
	ApplicantID string    `json:"applicant_id"`
	Status      string    `json:"status"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type detailResponse struct {
	applicationResponse

	ApplicantNickname string `json:"applicant_nickname,omitempty"`
	ApplicantPhone    string `json:"applicant_phone,omitempty"`
	PostTitle         string `json:"post_title,omitempty"`
	PostStatus        string `json:"post_status,omitempty"`
}

func toApplicationResponse(a Application) applicationResponse {
	return applicationResponse{
		ID:          a.ID,
		PostID:      a.PostID,
		ApplicantID: a.ApplicantID,
		Status:      string(a.Status),
		Message:     a.Message,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toDetailResponse(d Detail) detailResponse {
	return detailResponse{
		applicationResponse: toApplicationResponse(d.Application),
		ApplicantNickname:   d.ApplicantNickname,
		ApplicantPhone:      d.ApplicantPhone,
		PostTitle:           d.PostTitle,
		PostStatus:          d.PostStatus,
	}
}

type applyRequest struct {
	Message string `json:"message"`
}

func applyHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := profiles.FromRequest(r, profilesSvc)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req applyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		a, err := svc.Apply(r.Context(), chi.URLParam(r, "postID"), caller.ID, req.Message)
		if err != nil {
			switch {
			case errors.Is(err, ErrPostNotFound):
				httpx.Error(w, http.StatusNotFound, err.Error())
			case errors.Is(err, ErrOwnPost):
				httpx.Error(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, ErrAlreadyApplied):
				httpx.Error(w, http.StatusConflict, err.Error())
			case errors.Is(err, ErrInvalidInput):
				httpx.Error(w, http.StatusBadRequest, err.Error())
			default:
				httpx.Error(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.OK(w, http.StatusCreated, toApplicationResponse(a))
	}
}

func listForPostHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := profiles.FromRequest(r, profilesSvc)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.ListForPost(r.Context(), chi.URLParam(r, "postID"), caller.ID)
		if err != nil {
			switch {
			case errors.Is(err, ErrPostNotFound):
				httpx.Error(w, http.StatusNotFound, err.Error())
			case errors.Is(err, ErrForbidden):
				httpx.Error(w, http.StatusForbidden, err.Error())
			default:
				httpx.Error(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		out := make([]detailResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toDetailResponse(it))
		}
		httpx.OK(w, http.StatusOK, out)
	}
}

func listMyApplicationsHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := profiles.FromRequest(r, profilesSvc)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.ListMine(r.Context(), caller.ID)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]detailResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toDetailResponse(it))
		}
		httpx.OK(w, http.StatusOK, out)
	}
}

type setStatusRequest struct {
	Status  string  `json:"status"`
	Message *string `json:"message"`
}

// setStatusHandler: accepted/rejected/completed by the post author only.
// @Summary  Accept, reject or complete an application
// @Tags     applications
// @Security Bearer
// @Router   /applications/{applicationID}/status [put]
func setStatusHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := profiles.FromRequest(r, profilesSvc)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req setStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		a, err := svc.SetStatus(r.Context(), chi.URLParam(r, "applicationID"), Status(req.Status), req.Message, caller.ID)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				httpx.Error(w, http.StatusBadRequest, "status must be accepted, rejected or completed")
			case errors.Is(err, ErrNotFound):
				httpx.Error(w, http.StatusNotFound, err.Error())
			case errors.Is(err, ErrForbidden):
				httpx.Error(w, http.StatusForbidden, err.Error())
			default:
				httpx.Error(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.OK(w, http.StatusOK, toApplicationResponse(a))
	}
}
