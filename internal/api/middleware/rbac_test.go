package middleware

import (
	"net/http"
	"testing"

	"github.com/trackshift/arena-web/internal/core/domain"
)

func TestRequireRole_Allowed(t *testing.T) {
	store := loadedStore(signedIn(), participantComplete)
	rec, called := serve(t, store, http.MethodPost, "/app/rooms", RequireRole(domain.RoleParticipant))
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	store := loadedStore(signedIn(), spectator)
	rec, called := serve(t, store, http.MethodPost, "/app/rooms", RequireRole(domain.RoleParticipant))
	if called {
		t.Fatalf("next should not run")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRole_NoStore(t *testing.T) {
	rec, called := serve(t, nil, http.MethodPost, "/app/rooms", RequireRole(domain.RoleParticipant))
	if called || rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
