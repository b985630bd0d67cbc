package shelters

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"move-togaether/internal/domain/profiles"
	"move-togaether/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, profilesSvc *profiles.Service) {
	r.Route("/shelters", func(sr chi.Router) {
		sr.Get("/", listSheltersHandler(svc))
		sr.Post("/", createShelterHandler(svc, profilesSvc))
		sr.Get("/{shelterID}", getShelterHandler(svc))
		sr.Put("/{shelterID}", updateShelterHandler(svc, profilesSvc))
	})
}

type shelterResponse struct {
	ID          string    `json:"id"`
	CreatorID   string    `json:"creator_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Phone       string    `json:"phone"`
	OpenChatURL string    `json:"open_chat_url,omitempty"`
	Address     string    `json:"address,omitempty"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toShelterResponse(s Shelter) shelterResponse {
	return shelterResponse{
		ID:          s.ID,
		CreatorID:   s.CreatorID,
		Name:        s.Name,
		Description: s.Description,
		Phone:       s.Phone,
		OpenChatURL: s.OpenChatURL,
		Address:     s.Address,
		Verified:    s.Verified,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func listSheltersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		// Clamp here so the envelope echoes the effective page/limit.
		page, limit = clampPage(page, limit)

		f := ListFilter{
			Search:       strings.TrimSpace(q.Get("search")),
			VerifiedOnly: q.Get("verified") == "true",
			Page:         page,
			Limit:        limit,
		}

		items, total, err := svc.List(r.Context(), f)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]shelterResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toShelterResponse(it))
		}

		httpx.Page(w, out, f.Page, f.Limit, total)
	}
}

func getShelterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sh, err := svc.GetByID(r.Context(), chi.URLParam(r, "shelterID"))
		if err != nil {
			httpx.Error(w, http.StatusNotFound, ErrNotFound.Error())
			return
		}
		httpx.OK(w, http.StatusOK, toShelterResponse(sh))
	}
}

type createShelterRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	OpenChatURL string `json:"open_chat_url"`
	Address     string `json:"address"`
}

func createShelterHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := profiles.FromRequest(r, profilesSvc)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createShelterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		sh, err := svc.Create(r.Context(), caller.ID, CreateInput{
			Name:        req.Name,
			Description: req.Description,
			Phone:       req.Phone,
			OpenChatURL: req.OpenChatURL,
			Address:     req.Address,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				httpx.Error(w, http.StatusBadRequest, "name, description and phone are required")
				return
			}
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		httpx.OK(w, http.StatusCreated, toShelterResponse(sh))
	}
}

type updateShelterRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Phone       *string `json:"phone"`
	OpenChatURL *string `json:"open_chat_url"`
	Address     *string `json:"address"`
}

func updateShelterHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := profiles.FromRequest(r, profilesSvc)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req updateShelterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		sh, err := svc.Update(r.Context(), chi.URLParam(r, "shelterID"), caller.ID, UpdateInput{
			Name:        req.Name,
			Description: req.Description,
			Phone:       req.Phone,
			OpenChatURL: req.OpenChatURL,
			Address:     req.Address,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				httpx.Error(w, http.StatusNotFound, err.Error())
			case errors.Is(err, ErrForbidden):
				httpx.Error(w, http.StatusForbidden, err.Error())
			case errors.Is(err, ErrInvalidInput):
				httpx.Error(w, http.StatusBadRequest, err.Error())
			default:
				httpx.Error(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.OK(w, http.StatusOK, toShelterResponse(sh))
	}
}
