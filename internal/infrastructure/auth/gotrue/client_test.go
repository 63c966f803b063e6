package gotrue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/ports"
)

const (
	adaID   = "6f1d2c3b-8a4e-4b7f-9c2d-1e0f3a5b7c9d"
	graceID = "0b6c1a9e-3d2f-4e8a-b5c7-9d1e2f3a4b5c"
)

func TestClient_SignInWithPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected request %s", r.URL)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{
			"access_token":"at","refresh_token":"rt","token_type":"bearer","expires_in":3600,"expires_at":1700000000,
			"user":{"id":%q,"email":"ada@example.com","user_metadata":{"name":"Ada","role":"participant"}}
		}`, adaID)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon", srv.Client())
	sess, err := c.SignInWithPassword(context.Background(), "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}
	if sess.AccessToken != "at" || sess.RefreshToken != "rt" {
		t.Fatalf("unexpected tokens %+v", sess)
	}
	if !sess.ExpiresAt.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("unexpected expiry %v", sess.ExpiresAt)
	}
	if sess.User.ID != adaID || sess.User.Role != domain.RoleParticipant || sess.User.Name != "Ada" {
		t.Fatalf("unexpected user %+v", sess.User)
	}
}

func TestClient_RefreshUsesRefreshGrant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("grant_type") != "refresh_token" {
			t.Errorf("unexpected grant %s", r.URL.RawQuery)
		}
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.RefreshToken != "rt" {
			t.Errorf("unexpected refresh token %q", body.RefreshToken)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"access_token":"at2","refresh_token":"rt2","expires_in":60,"user":{"id":%q}}`, adaID)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon", srv.Client())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	sess, err := c.Refresh(context.Background(), "rt")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if sess.RefreshToken != "rt2" || !sess.ExpiresAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("unexpected session %+v", sess)
	}
}

func TestClient_ErrorDescriptionBecomesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon", srv.Client())
	_, err := c.SignInWithPassword(context.Background(), "ada@example.com", "bad")

	var pe *domain.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.Message != "Invalid login credentials" || pe.Status != http.StatusBadRequest {
		t.Fatalf("unexpected error %+v", pe)
	}
}

func TestClient_SignUpSendsMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/signup" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			Email string            `json:"email"`
			Data  map[string]string `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Data["name"] != "Ada" || body.Data["role"] != "spectator" {
			t.Errorf("unexpected metadata %v", body.Data)
		}
		// Confirmation pending: bare user, no session.
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"id":%q,"email":"ada@example.com","user_metadata":{"name":"Ada","role":"spectator"}}`, graceID)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon", srv.Client())
	u, err := c.SignUp(context.Background(), ports.SignUpInput{Name: "Ada", Email: "ada@example.com", Password: "pw", Role: domain.RoleSpectator})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if u.ID != graceID || u.Role != domain.RoleSpectator {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestClient_SignUpMsgField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":422,"msg":"User already registered"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon", srv.Client())
	_, err := c.SignUp(context.Background(), ports.SignUpInput{Email: "a@b.c", Password: "pw"})

	var pe *domain.ProviderError
	if !errors.As(err, &pe) || pe.Message != "User already registered" {
		t.Fatalf("expected provider message, got %v", err)
	}
}

func TestClient_SignOutSendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/logout" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer at" {
			t.Errorf("missing bearer")
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon", srv.Client())
	if err := c.SignOut(context.Background(), "at"); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
}

func TestClient_TransportFailureIsNotARejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, "anon", nil)
	_, err := c.Refresh(context.Background(), "rt")

	var pe *domain.ProviderError
	if err == nil || errors.As(err, &pe) {
		t.Fatalf("expected a plain transport error, got %v", err)
	}
}

func TestClient_CancelledContextSkipsCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(srv.URL, "anon", srv.Client()).SignInWithPassword(ctx, "a@b.c", "pw")
	if !errors.Is(err, context.Canceled) || called {
		t.Fatalf("expected context.Canceled without a request, got %v (called=%v)", err, called)
	}
}

func TestProviderError_Parsing(t *testing.T) {
	tests := []struct {
		in     error
		status int
		msg    string
	}{
		{errors.New(`response status code 400: {"error_description":"Email not confirmed"}`), 400, "Email not confirmed"},
		{errors.New(`response status code 500: upstream exploded`), 500, "upstream exploded"},
		{errors.New(`response status code 503`), 503, "Service Unavailable"},
	}
	for _, tt := range tests {
		var pe *domain.ProviderError
		if err := providerError(tt.in); !errors.As(err, &pe) || pe.Status != tt.status || pe.Message != tt.msg {
			t.Fatalf("providerError(%q) = %v", tt.in, err)
		}
	}
}
