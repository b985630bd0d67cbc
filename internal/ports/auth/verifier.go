package auth

import "context"

// TokenVerifier verifies an access token and returns claims or an error.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// Accounts is the identity lifecycle owned by the auth provider.
// The provider stores credentials and issues sessions; this layer never
// hashes a password or mints a token itself.
type Accounts interface {
	SignUp(ctx context.Context, in SignUpInput) (Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (Session, error)
	SignInWithProvider(ctx context.Context, provider, providerToken string) (Session, error)
	SignOut(ctx context.Context, accessToken string) error
}
