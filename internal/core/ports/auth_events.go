package ports

import (
	"context"

	"github.com/trackshift/arena-web/internal/core/domain"
)

// AuthEventHandler receives provider session-lifecycle events.
type AuthEventHandler func(domain.AuthEvent)

// AuthEventBus fans auth events out to subscribers.
type AuthEventBus interface {
	Publish(ctx context.Context, ev domain.AuthEvent) error
	// Subscribe registers h and returns a function that unregisters it.
	Subscribe(h AuthEventHandler) (unsubscribe func())
}

// AuthEventProcessor applies one auth event to local state.
type AuthEventProcessor interface {
	Process(ctx context.Context, ev domain.AuthEvent) error
}
