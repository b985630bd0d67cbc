package posts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"move-togaether/internal/domain/profiles"
	"move-togaether/internal/platform/httpx"
	"move-togaether/internal/ports/storage"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const imageBucket = "post-images"

func RegisterRoutes(r chi.Router, svc *Service, profilesSvc *profiles.Service, files storage.ObjectStore) {
	r.Route("/posts", func(pr chi.Router) {
		pr.Get("/", listPostsHandler(svc))
		pr.Post("/", createPostHandler(svc, profilesSvc))

		pr.Get("/my", listMyPostsHandler(svc, profilesSvc))
		pr.Post("/sort-by-distance", sortByDistanceHandler(svc, profilesSvc))

		// Creation variant with inline image upload.
		pr.Post("/volunteer", createVolunteerPostHandler(svc, profilesSvc, files))

		pr.Post("/{postID}/complete", completePostHandler(svc, profilesSvc))
	})
}

type createPostRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`

	DepartureAddress string   `json:"departure_address"`
	DepartureLat     *float64 `json:"departure_lat"`
	DepartureLng     *float64 `json:"departure_lng"`
	ArrivalAddress   string   `json:"arrival_address"`
	ArrivalLat       *float64 `json:"arrival_lat"`
	ArrivalLng       *float64 `json:"arrival_lng"`

	DogName            string `json:"dog_name"`
	DogSize            string `json:"dog_size"`
	DogBreed           string `json:"dog_breed"`
	DogAge             int    `json:"dog_age"`
	DogCharacteristics string `json:"dog_characteristics"`

	ImageURLs   []string `json:"image_urls"`
	RelatedLink string   `json:"related_link"`

	Deadline string `json:"deadline"` // YYYY-MM-DD
}

type postResponse struct {
	ID       string `json:"id"`
	AuthorID string `json:"author_id"`

	Title       string `json:"title"`
	Description string `json:"description"`

	DepartureAddress string   `json:"departure_address"`
	DepartureLat     *float64 `json:"departure_lat,omitempty"`
	DepartureLng     *float64 `json:"departure_lng,omitempty"`
	ArrivalAddress   string   `json:"arrival_address"`
	ArrivalLat       *float64 `json:"arrival_lat,omitempty"`
	ArrivalLng       *float64 `json:"arrival_lng,omitempty"`

	DogName            string `json:"dog_name"`
	DogSize            string `json:"dog_size"`
	DogBreed           string `json:"dog_breed"`
	DogAge             int    `json:"dog_age,omitempty"`
	DogCharacteristics string `json:"dog_characteristics,omitempty"`

	ImageURLs   []string `json:"image_urls,omitempty"`
	RelatedLink string   `json:"related_link,omitempty"`

	Deadline  string    `json:"deadline"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type summaryResponse struct {
	postResponse

	AuthorNickname string `json:"author_nickname"`
	AuthorPhone    string `json:"author_phone,omitempty"`

	ApplicationCount int `json:"application_count,omitempty"`
	FavoriteCount    int `json:"favorite_count,omitempty"`
}

type rankedResponse struct {
	summaryResponse
	DistanceKM float64 `json:"distance_km"`
}

func toPostResponse(p Post) postResponse {
	return postResponse{
		ID:                 p.ID,
		AuthorID:           p.AuthorID,
		Title:              p.Title,
		Description:        p.Description,
		DepartureAddress:   p.DepartureAddress,
		DepartureLat:       p.DepartureLat,
		DepartureLng:       p.DepartureLng,
		ArrivalAddress:     p.ArrivalAddress,
		ArrivalLat:         p.ArrivalLat,
		ArrivalLng:         p.ArrivalLng,
		DogName:            p.DogName,
		DogSize:            string(p.DogSize),
		DogBreed:           p.DogBreed,
		DogAge:             p.DogAge,
		DogCharacteristics: p.DogCharacteristics,
		ImageURLs:          p.ImageURLs,
		RelatedLink:        p.RelatedLink,
		Deadline:           p.Deadline.Format("2006-01-02"),
		Status:             string(p.Status),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func toSummaryResponse(s Summary) summaryResponse {
	return summaryResponse{
		postResponse:     toPostResponse(s.Post),
		AuthorNickname:   s.AuthorNickname,
		AuthorPhone:      s.AuthorPhone,
		ApplicationCount: s.ApplicationCount,
		FavoriteCount:    s.FavoriteCount,
	}
}

// listPostsHandler is the public catalog. Anonymous access is fine.
// @Summary List transport-request posts
// @Tags    posts
// @Param   search   query string false "substring over title/description"
// @Param   dog_size query string false "small|medium|large"
// @Param   status   query string false "active|in_progress|completed"
// @Success 200 {object} httpx.Envelope
// @Router  /posts [get]
func listPostsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, limit := parsePage(q.Get("page"), q.Get("limit"))

		f := ListFilter{
			Search:  strings.TrimSpace(q.Get("search")),
			DogSize: strings.TrimSpace(q.Get("dog_size")),
			Status:  Status(strings.TrimSpace(q.Get("status"))),
			Page:    page,
			Limit:   limit,
		}

		items, total, err := svc.List(r.Context(), f)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]summaryResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toSummaryResponse(it))
		}

		httpx.Page(w, out, page, limit, total)
	}
}

func listMyPostsHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := profiles.FromRequest(r, profilesSvc)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		q := r.URL.Query()
		page, limit := parsePage(q.Get("page"), q.Get("limit"))
		status := Status(strings.TrimSpace(q.Get("status"))) // "" = all

		items, total, err := svc.ListMine(r.Context(), caller.ID, status, page, limit)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]summaryResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toSummaryResponse(it))
		}

		httpx.Page(w, out, page, limit, total)
	}
}

func createPostHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := profiles.FromRequest(r, profilesSvc)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		in, err := toCreateInput(req)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		p, err := svc.Create(r.Context(), caller.ID, in)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				httpx.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		httpx.OK(w, http.StatusCreated, toPostResponse(p))
	}
}

// createVolunteerPostHandler accepts multipart/form-data: the same fields as
// the JSON variant plus image files uploaded to object storage first.
func createVolunteerPostHandler(svc *Service, profilesSvc *profiles.Service, files storage.ObjectStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := profiles.FromRequest(r, profilesSvc)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if files == nil {
			httpx.Error(w, http.StatusInternalServerError, "image storage not configured")
			return
		}

		if err := r.ParseMultipartForm(20 << 20); err != nil { // 20MB
			httpx.Error(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		var urls []string
		if r.MultipartForm != nil {
			for _, fh := range r.MultipartForm.File["images"] {
				f, err := fh.Open()
				if err != nil {
					httpx.Error(w, http.StatusBadRequest, "unreadable image")
					return
				}
				data, err := io.ReadAll(io.LimitReader(f, 10<<20))
				_ = f.Close()
				if err != nil {
					httpx.Error(w, http.StatusBadRequest, "unreadable image")
					return
				}

				key := fmt.Sprintf("%s/%s%s", caller.ID, uuid.NewString(), path.Ext(fh.Filename))
				url, err := files.Upload(r.Context(), imageBucket, key, fh.Header.Get("Content-Type"), data)
				if err != nil {
					httpx.Error(w, http.StatusBadGateway, "image upload failed")
					return
				}
				urls = append(urls, url)
			}
		}

		form := r.MultipartForm.Value
		req := createPostRequest{
			Title:              formValue(form, "title"),
			Description:        formValue(form, "description"),
			DepartureAddress:   formValue(form, "departure_address"),
			DepartureLat:       formFloat(form, "departure_lat"),
			DepartureLng:       formFloat(form, "departure_lng"),
			ArrivalAddress:     formValue(form, "arrival_address"),
			ArrivalLat:         formFloat(form, "arrival_lat"),
			ArrivalLng:         formFloat(form, "arrival_lng"),
			DogName:            formValue(form, "dog_name"),
			DogSize:            formValue(form, "dog_size"),
			DogBreed:           formValue(form, "dog_breed"),
			DogCharacteristics: formValue(form, "dog_characteristics"),
			RelatedLink:        formValue(form, "related_link"),
			Deadline:           formValue(form, "deadline"),
			ImageURLs:          urls,
		}
		if v := formValue(form, "dog_age"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				req.DogAge = n
			}
		}

		in, err := toCreateInput(req)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		p, err := svc.Create(r.Context(), caller.ID, in)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				httpx.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		httpx.OK(w, http.StatusCreated, toPostResponse(p))
	}
}

func completePostHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := profiles.FromRequest(r, profilesSvc)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		postID := chi.URLParam(r, "postID")
		p, err := svc.MarkComplete(r.Context(), postID, caller.ID)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				httpx.Error(w, http.StatusNotFound, err.Error())
			case errors.Is(err, ErrForbidden):
				httpx.Error(w, http.StatusForbidden, err.Error())
			case errors.Is(err, ErrAlreadyCompleted):
				httpx.Error(w, http.StatusConflict, err.Error())
			default:
				httpx.Error(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		httpx.OK(w, http.StatusOK, toPostResponse(p))
	}
}

type sortByDistanceRequest struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

func sortByDistanceHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Requires auth even though it only reads.
		if _, err := profiles.FromRequest(r, profilesSvc); err != nil {
			httpx.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req sortByDistanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		// Clamp here so the envelope echoes the effective page/limit, not
		// whatever the client asked for.
		page, limit := clampPage(req.Page, req.Limit)

		items, err := svc.RankByDistance(r.Context(), req.Lat, req.Lng, page, limit)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				httpx.Error(w, http.StatusBadRequest, "invalid coordinates")
				return
			}
			httpx.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]rankedResponse, 0, len(items))
		for _, it := range items {
			out = append(out, rankedResponse{
				summaryResponse: toSummaryResponse(it.Summary),
				DistanceKM:      it.DistanceKM,
			})
		}

		httpx.PageCount(w, out, page, limit, len(out))
	}
}

func toCreateInput(req createPostRequest) (CreateInput, error) {
	var deadline time.Time
	if strings.TrimSpace(req.Deadline) != "" {
		t, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			return CreateInput{}, errors.New("deadline must be YYYY-MM-DD")
		}
		deadline = t
	}

	return CreateInput{
		Title:              req.Title,
		Description:        req.Description,
		DepartureAddress:   req.DepartureAddress,
		DepartureLat:       req.DepartureLat,
		DepartureLng:       req.DepartureLng,
		ArrivalAddress:     req.ArrivalAddress,
		ArrivalLat:         req.ArrivalLat,
		ArrivalLng:         req.ArrivalLng,
		DogName:            req.DogName,
		DogSize:            req.DogSize,
		DogBreed:           req.DogBreed,
		DogAge:             req.DogAge,
		DogCharacteristics: req.DogCharacteristics,
		ImageURLs:          req.ImageURLs,
		RelatedLink:        req.RelatedLink,
		Deadline:           deadline,
	}, nil
}

func parsePage(pageStr, limitStr string) (int, int) {
	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)
	return clampPage(page, limit)
}

func formValue(form map[string][]string, key string) string {
	if vs := form[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func formFloat(form map[string][]string, key string) *float64 {
	v := formValue(form, key)
	if strings.TrimSpace(v) == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
