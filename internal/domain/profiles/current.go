package profiles

import (
	"errors"
	"net/http"
	"strings"

	"move-togaether/internal/middleware"
)

var ErrUnauthorized = errors.New("unauthorized")

// FromRequest resolves the authenticated caller to a profile row.
// Every authenticated handler in every module goes through this.
func FromRequest(r *http.Request, svc *Service) (Profile, error) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.AuthID) == "" {
		return Profile{}, ErrUnauthorized
	}

	p, err := svc.GetByAuthID(r.Context(), claims.AuthID)
	if err != nil {
		return Profile{}, ErrUnauthorized
	}
	return p, nil
}
