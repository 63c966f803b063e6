// Package gotrue adapts a GoTrue-compatible auth service (Supabase Auth) to
// ports.AuthProvider.
package gotrue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	gotrueapi "github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Client wraps the gotrue-go client. gotrue-go calls take no context, so
// each call checks ctx up front and the http.Client timeout bounds the rest.
type Client struct {
	api gotrueapi.Client
	now func() time.Time
}

// NewClient points at the provider origin, e.g. https://xyz.supabase.co.
// apiKey is the public anon key.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	api := gotrueapi.New("", apiKey).
		WithCustomGoTrueURL(strings.TrimRight(baseURL, "/") + "/auth/v1").
		WithClient(*httpClient)
	return &Client{api: api, now: time.Now}
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.ProviderSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := c.api.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, providerError(err)
	}
	return c.session(resp.Session), nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*domain.ProviderSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := c.api.RefreshToken(refreshToken)
	if err != nil {
		return nil, providerError(err)
	}
	return c.session(resp.Session), nil
}

// SignUp registers the user with name and role in user metadata.
func (c *Client) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.ProviderUser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := c.api.Signup(types.SignupRequest{
		Email:    in.Email,
		Password: in.Password,
		Data:     map[string]interface{}{"name": in.Name, "role": string(in.Role)},
	})
	if err != nil {
		return nil, providerError(err)
	}
	return toUser(resp.User), nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.api.WithToken(accessToken).Logout(); err != nil {
		return providerError(err)
	}
	return nil
}

func (c *Client) session(s types.Session) *domain.ProviderSession {
	ps := &domain.ProviderSession{AccessToken: s.AccessToken, RefreshToken: s.RefreshToken}
	switch {
	case s.ExpiresAt > 0:
		ps.ExpiresAt = time.Unix(s.ExpiresAt, 0).UTC()
	case s.ExpiresIn > 0:
		ps.ExpiresAt = c.now().Add(time.Duration(s.ExpiresIn) * time.Second).UTC()
	}
	ps.User = *toUser(s.User)
	return ps
}

func toUser(u types.User) *domain.ProviderUser {
	pu := &domain.ProviderUser{ID: u.ID.String(), Email: u.Email}
	pu.Name, _ = u.UserMetadata["name"].(string)
	if role, _ := u.UserMetadata["role"].(string); role != "" {
		pu.Role = domain.ParseRole(role)
	}
	return pu
}

type errBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

// providerError turns gotrue-go's "response status code N: <body>" errors
// into a ProviderError carrying the provider's own message. Anything else,
// such as a transport failure, stays a plain error so callers do not treat
// it as a rejection.
func providerError(err error) error {
	var status int
	if _, scanErr := fmt.Sscanf(err.Error(), "response status code %d", &status); scanErr != nil {
		return fmt.Errorf("auth provider: %w", err)
	}
	pe := &domain.ProviderError{Status: status}
	if _, body, ok := strings.Cut(err.Error(), ": "); ok {
		var eb errBody
		if json.Unmarshal([]byte(body), &eb) == nil {
			for _, m := range []string{eb.ErrorDescription, eb.Msg, eb.Message, eb.Error} {
				if m != "" {
					pe.Message = m
					break
				}
			}
		} else {
			pe.Message = strings.TrimSpace(body)
		}
	}
	if pe.Message == "" {
		pe.Message = http.StatusText(status)
	}
	return pe
}
