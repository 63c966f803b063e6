package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/pkg/metrics"
)

const defaultProfileTimeout = 10 * time.Second

// Bridge feeds provider session-lifecycle events into the session stores.
// It only acts on stores this instance already holds; any other session
// picks the change up on its next request.
type Bridge struct {
	reg     *Registry
	timeout time.Duration
	log     zerolog.Logger
}

// NewBridge returns a Bridge. timeout bounds each profile fetch.
func NewBridge(reg *Registry, timeout time.Duration, log zerolog.Logger) *Bridge {
	if timeout <= 0 {
		timeout = defaultProfileTimeout
	}
	return &Bridge{
		reg:     reg,
		timeout: timeout,
		log:     log.With().Str("component", "auth_bridge").Logger(),
	}
}

// Process handles one event. Sign-in and token refresh re-run profile
// enrichment; sign-out clears the session without touching the network.
func (b *Bridge) Process(ctx context.Context, ev domain.AuthEvent) error {
	metrics.AuthEventsTotal.WithLabelValues(string(ev.Type)).Inc()

	store, ok := b.reg.Lookup(ev.SessionID)
	if !ok {
		return nil
	}

	switch ev.Type {
	case domain.EventSignedIn, domain.EventTokenRefreshed:
		b.log.Debug().Str("session_id", ev.SessionID).Str("event", string(ev.Type)).Msg("fetching profile")
		fctx, cancel := context.WithTimeout(ctx, b.timeout)
		defer cancel()
		store.FetchProfile(fctx)
	case domain.EventSignedOut:
		b.log.Debug().Str("session_id", ev.SessionID).Msg("clearing session")
		store.SetSession(nil, "")
	default:
		b.log.Warn().Str("event", string(ev.Type)).Msg("ignoring unknown auth event")
	}
	return nil
}
