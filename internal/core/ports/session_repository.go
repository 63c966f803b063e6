package ports

import (
	"context"
	"time"

	"github.com/trackshift/arena-web/internal/core/domain"
)

// SessionRepository persists provider sessions keyed by browser session ID.
type SessionRepository interface {
	Save(ctx context.Context, sessionID string, sess *domain.ProviderSession, ttl time.Duration) error
	// Find returns domain.ErrSessionNotFound when nothing is stored.
	Find(ctx context.Context, sessionID string) (*domain.ProviderSession, error)
	Delete(ctx context.Context, sessionID string) error
}

// AuditRepository records auth outcomes. Writes are best effort.
type AuditRepository interface {
	Insert(ctx context.Context, entry domain.AuthAuditEntry) error
}
