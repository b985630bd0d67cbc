package favorites

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"move-togaether/internal/domain/profiles"
	"move-togaether/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, profilesSvc *profiles.Service) {
	r.Get("/favorites/check", checkFavoriteHandler(svc, profilesSvc))
	r.Post("/favorites", addFavoriteHandler(svc, profilesSvc))
	r.Get("/favorites", listFavoritesHandler(svc, profilesSvc))
}

type favoriteResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

type detailResponse struct {
	favoriteResponse

	PostTitle    string `json:"post_title"`
	PostStatus   string `json:"post_status"`
	PostDogName  string `json:"post_dog_name,omitempty"`
	PostDogSize  string `json:"post_dog_size,omitempty"`
	PostDeadline string `json:"post_deadline,omitempty"`
}

func checkFavoriteHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := profiles.FromRequest(r, profilesSvc)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		postID := strings.TrimSpace(r.URL.Query().Get("post_id"))
		if postID == "" {
			httpx.Error(w, http.StatusBadRequest, "post_id is required")
			return
		}

		fav, err := svc.Check(r.Context(), postID, caller.ID)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid input")
			return
		}

		httpx.OK(w, http.StatusOK, map[string]bool{"favorited": fav})
	}
}

type addFavoriteRequest struct {
	PostID string `json:"post_id"`
}

func addFavoriteHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := profiles.FromRequest(r, profilesSvc)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req addFavoriteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		f, err := svc.Add(r.Context(), req.PostID, caller.ID)
		if err != nil {
			switch {
			case errors.Is(err, ErrPostNotFound):
				httpx.Error(w, http.StatusNotFound, err.Error())
			case errors.Is(err, ErrInvalidInput):
				httpx.Error(w, http.StatusBadRequest, err.Error())
			default:
				httpx.Error(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.OK(w, http.StatusCreated, favoriteResponse{
			ID:        f.ID,
			PostID:    f.PostID,
			CreatedAt: f.CreatedAt,
		})
	}
}

func listFavoritesHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
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
			d := detailResponse{
				favoriteResponse: favoriteResponse{
					ID:        it.ID,
					PostID:    it.PostID,
					CreatedAt: it.CreatedAt,
				},
				PostTitle:   it.PostTitle,
				PostStatus:  it.PostStatus,
				PostDogName: it.PostDogName,
				PostDogSize: it.PostDogSize,
			}
			if !it.PostDeadline.IsZero() {
				d.PostDeadline = it.PostDeadline.Format("2006-01-02")
			}
			out = append(out, d)
		}

		httpx.OK(w, http.StatusOK, out)
	}
}
