package ports

import (
	"context"

	"github.com/trackshift/arena-web/internal/core/domain"
)

// ProfileSource answers the three enrichment queries. Each step depends on the
// previous one, so callers must run them in order.
type ProfileSource interface {
	// Role returns the stored role and display name for the session's user.
	Role(ctx context.Context, sess *domain.ProviderSession) (domain.Role, string, error)
	// TeamID returns "" when the user owns no team.
	TeamID(ctx context.Context, sess *domain.ProviderSession) (string, error)
	AgentCount(ctx context.Context, sess *domain.ProviderSession, teamID string) (int, error)
}
