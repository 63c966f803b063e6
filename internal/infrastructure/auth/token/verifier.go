// Package token verifies auth-provider access tokens locally.
package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/trackshift/arena-web/internal/core/domain"
)

// DefaultAudience is the audience the provider stamps on user tokens.
const DefaultAudience = "authenticated"

var ErrInvalidToken = errors.New("invalid access token")

type userMetadata struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type claims struct {
	Email        string       `json:"email"`
	UserMetadata userMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 signatures, expiry and audience.
type Verifier struct {
	secret   []byte
	audience string
}

func NewVerifier(secret, audience string) *Verifier {
	if audience == "" {
		audience = DefaultAudience
	}
	return &Verifier{secret: []byte(secret), audience: audience}
}

// Verify parses raw and returns the identity it carries. The role comes from
// user metadata; the top-level role claim is the provider's own and ignored.
func (v *Verifier) Verify(raw string) (*domain.ProviderUser, error) {
	var c claims
	tkn, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	u := &domain.ProviderUser{ID: c.Subject, Email: c.Email, Name: c.UserMetadata.Name}
	if c.UserMetadata.Role != "" {
		u.Role = domain.ParseRole(c.UserMetadata.Role)
	}
	return u, nil
}
