package ports

import (
	"context"

	"github.com/trackshift/arena-web/internal/core/domain"
)

// ArenaAPI is the backend REST surface. Every call takes the caller's bearer
// token; an empty token sends no Authorization header.
type ArenaAPI interface {
	Protected(ctx context.Context, token string) (map[string]any, error)

	CreateTeam(ctx context.Context, token string, in domain.CreateTeamInput) (*domain.Team, error)
	MyTeam(ctx context.Context, token string) (*domain.Team, error)
	Team(ctx context.Context, token, teamID string) (*domain.Team, error)

	CreateAgent(ctx context.Context, token string, in domain.CreateAgentInput) (*domain.Agent, error)
	MyAgents(ctx context.Context, token string) ([]domain.Agent, error)
	Agent(ctx context.Context, token, agentID string) (*domain.Agent, error)

	CreateRoom(ctx context.Context, token string, in domain.CreateRoomInput) (*domain.Room, error)
	JoinRoom(ctx context.Context, token, roomID, agentID string) (map[string]any, error)
	Room(ctx context.Context, token, roomID string) (*domain.Room, error)
	Rooms(ctx context.Context, token string) ([]domain.Room, error)

	Races(ctx context.Context, token, status string) ([]domain.Race, error)
	Race(ctx context.Context, token, raceID string) (*domain.Race, error)
	Leaderboard(ctx context.Context, token, raceID string) ([]domain.LeaderboardEntry, error)
	StopRace(ctx context.Context, token, raceID string) error
	DashboardSummary(ctx context.Context, token string) (*domain.DashboardSummary, error)

	LatestTelemetry(ctx context.Context, token, raceID string) ([]domain.TelemetryFrame, error)
	ClearTelemetry(ctx context.Context, token, raceID string) error
}
