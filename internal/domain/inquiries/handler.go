package inquiries

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
	r.Post("/inquiries", createInquiryHandler(svc, profilesSvc))
	r.Get("/inquiries", listInquiriesHandler(svc, profilesSvc))
}

type inquiryResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	PostTitle string    `json:"post_title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type createInquiryRequest struct {
	PostID  string `json:"post_id"`
	Message string `json:"message"`
}

func createInquiryHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := profiles.FromRequest(r, profilesSvc)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createInquiryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		q, err := svc.Create(r.Context(), req.PostID, caller.ID, req.Message)
		if err != nil {
			switch {
			case errors.Is(err, ErrPostNotFound):
				httpx.Error(w, http.StatusNotFound, err.Error())
			case errors.Is(err, ErrOwnPost):
				httpx.Error(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, ErrInvalidInput):
				httpx.Error(w, http.StatusBadRequest, err.Error())
			default:
				httpx.Error(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.OK(w, http.StatusCreated, inquiryResponse{
			ID:        q.ID,
			PostID:    q.PostID,
			Message:   q.Message,
			Status:    string(q.Status),
			CreatedAt: q.CreatedAt,
		})
	}
}

func listInquiriesHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := profiles.FromRequest(r, profilesSvc)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.ListMine(r.Context(), caller.ID, r.URL.Query().Get("post_id"))
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]inquiryResponse, 0, len(items))
		for _, it := range items {
			out = append(out, inquiryResponse{
				ID:        it.ID,
				PostID:    it.PostID,
				Message:   it.Message,
				Status:    string(it.Status),
				PostTitle: it.PostTitle,
				CreatedAt: it.CreatedAt,
			})
		}

		httpx.OK(w, http.StatusOK, out)
	}
}
