package auth

import "errors"

// Sentinels adapters wrap so services can branch without knowing the
// provider.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUpstream           = errors.New("auth provider error")
)
