package profile

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/ports"
)

type stubAPI struct {
	ports.ArenaAPI
	team      *domain.Team
	teamErr   error
	agents    []domain.Agent
	agentsErr error
}

func (s stubAPI) MyTeam(context.Context, string) (*domain.Team, error) { return s.team, s.teamErr }

func (s stubAPI) MyAgents(context.Context, string) ([]domain.Agent, error) {
	return s.agents, s.agentsErr
}

var sess = &domain.ProviderSession{
	AccessToken: "at",
	User:        domain.ProviderUser{ID: "u1", Name: "Ada", Role: domain.RoleParticipant},
}

func TestBackendSource_Role(t *testing.T) {
	role, name, err := NewBackendSource(stubAPI{}).Role(context.Background(), sess)
	if err != nil || role != domain.RoleParticipant || name != "Ada" {
		t.Fatalf("got %q %q %v", role, name, err)
	}

	anon := &domain.ProviderSession{User: domain.ProviderUser{ID: "u2"}}
	if role, _, _ := NewBackendSource(stubAPI{}).Role(context.Background(), anon); role != domain.RoleSpectator {
		t.Fatalf("missing role claim should read as spectator, got %q", role)
	}
}

func TestBackendSource_NotFoundMeansNone(t *testing.T) {
	notFound := &domain.APIError{Status: http.StatusNotFound, Detail: "Team not found"}
	src := NewBackendSource(stubAPI{teamErr: notFound, agentsErr: notFound})

	id, err := src.TeamID(context.Background(), sess)
	if err != nil || id != "" {
		t.Fatalf("TeamID: got %q %v", id, err)
	}
	n, err := src.AgentCount(context.Background(), sess, "")
	if err != nil || n != 0 {
		t.Fatalf("AgentCount: got %d %v", n, err)
	}
}

func TestBackendSource_Counts(t *testing.T) {
	src := NewBackendSource(stubAPI{
		team:   &domain.Team{ID: "t1"},
		agents: []domain.Agent{{ID: "a1"}, {ID: "a2"}},
	})

	id, err := src.TeamID(context.Background(), sess)
	if err != nil || id != "t1" {
		t.Fatalf("TeamID: got %q %v", id, err)
	}
	n, err := src.AgentCount(context.Background(), sess, id)
	if err != nil || n != 2 {
		t.Fatalf("AgentCount: got %d %v", n, err)
	}
}

func TestBackendSource_FailuresPropagate(t *testing.T) {
	offline := &domain.APIError{Status: http.StatusBadGateway, Detail: domain.DefaultAPIDetail}
	src := NewBackendSource(stubAPI{teamErr: offline, agentsErr: offline})

	if _, err := src.TeamID(context.Background(), sess); !errors.Is(err, offline) {
		t.Fatalf("TeamID: expected the backend error, got %v", err)
	}
	if _, err := src.AgentCount(context.Background(), sess, "t1"); !errors.Is(err, offline) {
		t.Fatalf("AgentCount: expected the backend error, got %v", err)
	}
}
