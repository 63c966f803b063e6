// Package profile holds the ProfileSource that asks the arena backend instead
// of reading the database directly.
package profile

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/ports"
)

// BackendSource derives the profile from the provider's user metadata and the
// backend's /teams/me and /agents/me endpoints.
type BackendSource struct {
	api ports.ArenaAPI
}

func NewBackendSource(api ports.ArenaAPI) *BackendSource {
	return &BackendSource{api: api}
}

// Role trusts the role claim in the provider's user metadata.
func (s *BackendSource) Role(_ context.Context, sess *domain.ProviderSession) (domain.Role, string, error) {
	return domain.ParseRole(string(sess.User.Role)), sess.User.Name, nil
}

func (s *BackendSource) TeamID(ctx context.Context, sess *domain.ProviderSession) (string, error) {
	team, err := s.api.MyTeam(ctx, sess.AccessToken)
	if err != nil {
		if domain.IsStatus(err, http.StatusNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("fetch team: %w", err)
	}
	if team == nil {
		return "", nil
	}
	return team.ID, nil
}

func (s *BackendSource) AgentCount(ctx context.Context, sess *domain.ProviderSession, _ string) (int, error) {
	agents, err := s.api.MyAgents(ctx, sess.AccessToken)
	if err != nil {
		if domain.IsStatus(err, http.StatusNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("fetch agents: %w", err)
	}
	return len(agents), nil
}
