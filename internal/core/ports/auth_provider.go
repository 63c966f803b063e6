package ports

import (
	"context"

	"github.com/trackshift/arena-web/internal/core/domain"
)

// SignUpInput is the payload forwarded to the auth provider on registration.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// AuthProvider is the external identity service (GoTrue-compatible).
// Failures surface as *domain.ProviderError carrying the provider's text.
type AuthProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*domain.ProviderSession, error)
	SignUp(ctx context.Context, in SignUpInput) (*domain.ProviderUser, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.ProviderSession, error)
	SignOut(ctx context.Context, accessToken string) error
}

// TokenVerifier validates provider access tokens locally.
type TokenVerifier interface {
	Verify(token string) (*domain.ProviderUser, error)
}

// AuthSession is the provider session bound to one browser session.
// Current returns domain.ErrNoSession when nobody is signed in.
type AuthSession interface {
	Current(ctx context.Context) (*domain.ProviderSession, error)
	SignOut(ctx context.Context) error
}
