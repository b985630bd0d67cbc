package router

import (
	"encoding/json"
	"net/http"

	"move-togaether/internal/platform/httpx"
	"move-togaether/internal/ports/geo"

	"github.com/go-chi/chi/v5"
)

type coordRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type addressResponse struct {
	Address string `json:"address"`
}

// registerGeocode exposes reverse geocoding as a public endpoint so the
// client never ships the map provider's API key.
func registerGeocode(r chi.Router, geocoder geo.ReverseGeocoder) {
	r.Post("/coord2address", func(w http.ResponseWriter, req *http.Request) {
		if geocoder == nil {
			httpx.Error(w, http.StatusServiceUnavailable, "geocoder not configured")
			return
		}

		var body coordRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if body.Lat < -90 || body.Lat > 90 || body.Lng < -180 || body.Lng > 180 {
			httpx.Error(w, http.StatusBadRequest, "coordinates out of range")
			return
		}

		addr, err := geocoder.CoordToAddress(req.Context(), body.Lat, body.Lng)
		if err != nil {
			// Provider failure and an answer without a usable address are
			// the same class: the upstream could not resolve the point.
			httpx.Error(w, http.StatusBadGateway, "geocoding failed")
			return
		}

		httpx.OK(w, http.StatusOK, addressResponse{Address: addr})
	})
}
