// Package httpx holds the response envelope and the JSON helpers shared by
// every module's handlers.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response shape:
//
//	{ "success": true,  "data": ..., "pagination": {...} }
//	{ "success": false, "error": "user-facing message" }
type Envelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      string      `json:"error,omitempty"`
}

type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   *int `json:"total,omitempty"`
	HasMore bool `json:"has_more"`
}

func OK(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data})
}

func Page(w http.ResponseWriter, data any, page, limit, total int) {
	write(w, http.StatusOK, Envelope{
		Success: true,
		Data:    data,
		Pagination: &Pagination{
			Page:    page,
			Limit:   limit,
			Total:   &total,
			HasMore: page*limit < total,
		},
	})
}

// PageCount is Page for routes where total is unknown and has_more is
// derived from the returned count (distance ranking).
func PageCount(w http.ResponseWriter, data any, page, limit, returned int) {
	write(w, http.StatusOK, Envelope{
		Success: true,
		Data:    data,
		Pagination: &Pagination{
			Page:    page,
			Limit:   limit,
			HasMore: returned == limit,
		},
	})
}

// Error sends the error envelope. Internal detail never goes through here;
// msg must already be user-facing.
func Error(w http.ResponseWriter, status int, msg string) {
	write(w, status, Envelope{Success: false, Error: msg})
}

func write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
