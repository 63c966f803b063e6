package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/ports"
	"github.com/trackshift/arena-web/internal/pkg/metrics"
)

// dashboardAgents is how many agents the team dashboard lists.
const dashboardAgents = 4

// Panel is one independently loaded section of a view. A failed load is not
// an error: the panel is marked offline and renders no items.
type Panel[T any] struct {
	Items   []T    `json:"items"`
	Offline bool   `json:"offline"`
	Notice  string `json:"notice,omitempty"`
}

// ParticipantDashboard is the view model for /app/team.
type ParticipantDashboard struct {
	User      domain.Session     `json:"user"`
	Profile   domain.Profile     `json:"profile"`
	Team      Panel[domain.Team]  `json:"team"`
	Agents    Panel[domain.Agent] `json:"agents"`
	Rooms     Panel[domain.Room]  `json:"rooms"`
	LiveRaces Panel[domain.Race]  `json:"live_races"`
}

// SpectatorDashboard is the view model for /app/spectator.
type SpectatorDashboard struct {
	Summary  Panel[domain.DashboardSummary] `json:"summary"`
	Featured *domain.Race                   `json:"featured,omitempty"`
	Upcoming []domain.Race                  `json:"upcoming"`
	Races    Panel[domain.Race]             `json:"races"`
}

// DashboardService loads view data from the arena backend. Every loader
// honours ctx: once it is cancelled, late results are dropped and the
// caller gets ctx.Err() instead of a partially written view.
type DashboardService struct {
	api ports.ArenaAPI
	log zerolog.Logger
}

func NewDashboardService(api ports.ArenaAPI, log zerolog.Logger) *DashboardService {
	return &DashboardService{api: api, log: log.With().Str("component", "dashboard").Logger()}
}

// Participant assembles the team dashboard. Panels load in parallel.
func (s *DashboardService) Participant(ctx context.Context, st domain.AuthState) (*ParticipantDashboard, error) {
	if st.Session == nil {
		return nil, domain.ErrNoSession
	}
	token := st.Session.AccessToken
	view := &ParticipantDashboard{User: *st.Session, Profile: st.Profile}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		view.Team = s.Team(gctx, token)
		return nil
	})
	g.Go(func() error {
		view.Agents = s.Agents(gctx, token)
		return nil
	})
	g.Go(func() error {
		view.Rooms = s.Rooms(gctx, token)
		return nil
	})
	g.Go(func() error {
		view.LiveRaces = s.LiveRaces(gctx, token)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return view, nil
}

// Spectator assembles the spectator dashboard.
func (s *DashboardService) Spectator(ctx context.Context, token string) (*SpectatorDashboard, error) {
	view := &SpectatorDashboard{Upcoming: []domain.Race{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		view.Summary = loadPanel(gctx, s.log, "summary", func(ctx context.Context) ([]domain.DashboardSummary, error) {
			sum, err := s.api.DashboardSummary(ctx, token)
			if err != nil || sum == nil {
				return nil, err
			}
			return []domain.DashboardSummary{*sum}, nil
		})
		return nil
	})
	g.Go(func() error {
		view.Races = loadPanel(gctx, s.log, "races", func(ctx context.Context) ([]domain.Race, error) {
			return s.api.Races(ctx, token, "")
		})
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := range view.Races.Items {
		r := view.Races.Items[i]
		if r.Status == domain.RaceActive && view.Featured == nil {
			view.Featured = &r
		}
		if r.Status == domain.RaceUpcoming {
			view.Upcoming = append(view.Upcoming, r)
		}
	}
	if view.Featured == nil && len(view.Races.Items) > 0 {
		r := view.Races.Items[0]
		view.Featured = &r
	}
	return view, nil
}

// Rooms loads the room list panel.
func (s *DashboardService) Rooms(ctx context.Context, token string) Panel[domain.Room] {
	return loadPanel(ctx, s.log, "rooms", func(ctx context.Context) ([]domain.Room, error) {
		return s.api.Rooms(ctx, token)
	})
}

// LiveRaces loads the races currently running.
func (s *DashboardService) LiveRaces(ctx context.Context, token string) Panel[domain.Race] {
	return loadPanel(ctx, s.log, "races", func(ctx context.Context) ([]domain.Race, error) {
		return s.api.Races(ctx, token, domain.RaceActive)
	})
}

// Team loads the caller's team as a zero- or one-item panel.
func (s *DashboardService) Team(ctx context.Context, token string) Panel[domain.Team] {
	return loadPanel(ctx, s.log, "team", func(ctx context.Context) ([]domain.Team, error) {
		t, err := s.api.MyTeam(ctx, token)
		if err != nil || t == nil {
			return nil, err
		}
		return []domain.Team{*t}, nil
	})
}

// Leaderboard loads a race's standings.
func (s *DashboardService) Leaderboard(ctx context.Context, token, raceID string) Panel[domain.LeaderboardEntry] {
	return loadPanel(ctx, s.log, "leaderboard", func(ctx context.Context) ([]domain.LeaderboardEntry, error) {
		return s.api.Leaderboard(ctx, token, raceID)
	})
}

// Agents loads the team's agents, capped at the first four. Without a token
// there is nothing to ask for.
func (s *DashboardService) Agents(ctx context.Context, token string) Panel[domain.Agent] {
	if token == "" {
		return Panel[domain.Agent]{Items: []domain.Agent{}, Offline: true, Notice: domain.NoticeNotLoggedIn}
	}
	p := loadPanel(ctx, s.log, "agents", func(ctx context.Context) ([]domain.Agent, error) {
		return s.api.MyAgents(ctx, token)
	})
	if len(p.Items) > dashboardAgents {
		p.Items = p.Items[:dashboardAgents]
	}
	return p
}

// Room fetches one lobby. Unlike panels, a failure is returned.
func (s *DashboardService) Room(ctx context.Context, token, roomID string) (*domain.Room, error) {
	room, err := s.api.Room(ctx, token, roomID)
	if err != nil {
		return nil, fmt.Errorf("load room %s: %w", roomID, err)
	}
	return room, nil
}

// TeamByID fetches another team's public card for the team directory.
func (s *DashboardService) TeamByID(ctx context.Context, token, teamID string) (*domain.Team, error) {
	team, err := s.api.Team(ctx, token, teamID)
	if err != nil {
		return nil, fmt.Errorf("load team %s: %w", teamID, err)
	}
	return team, nil
}

func (s *DashboardService) AgentByID(ctx context.Context, token, agentID string) (*domain.Agent, error) {
	agent, err := s.api.Agent(ctx, token, agentID)
	if err != nil {
		return nil, fmt.Errorf("load agent %s: %w", agentID, err)
	}
	return agent, nil
}

// Race fetches a race together with its leaderboard panel.
func (s *DashboardService) Race(ctx context.Context, token, raceID string) (*domain.Race, Panel[domain.LeaderboardEntry], error) {
	race, err := s.api.Race(ctx, token, raceID)
	if err != nil {
		return nil, Panel[domain.LeaderboardEntry]{}, fmt.Errorf("load race %s: %w", raceID, err)
	}
	return race, s.Leaderboard(ctx, token, raceID), nil
}

// Telemetry returns the latest cached frames for a race.
func (s *DashboardService) Telemetry(ctx context.Context, token, raceID string) ([]domain.TelemetryFrame, error) {
	frames, err := s.api.LatestTelemetry(ctx, token, raceID)
	if err != nil {
		return nil, fmt.Errorf("load telemetry %s: %w", raceID, err)
	}
	if frames == nil {
		frames = []domain.TelemetryFrame{}
	}
	return frames, nil
}

func (s *DashboardService) ClearTelemetry(ctx context.Context, token, raceID string) error {
	if err := s.api.ClearTelemetry(ctx, token, raceID); err != nil {
		return fmt.Errorf("clear telemetry %s: %w", raceID, err)
	}
	return nil
}

func (s *DashboardService) StopRace(ctx context.Context, token, raceID string) error {
	if err := s.api.StopRace(ctx, token, raceID); err != nil {
		return fmt.Errorf("stop race %s: %w", raceID, err)
	}
	s.log.Info().Str("race_id", raceID).Msg("race stopped")
	return nil
}

func loadPanel[T any](ctx context.Context, log zerolog.Logger, name string, fn func(context.Context) ([]T, error)) Panel[T] {
	items, err := fn(ctx)
	if ctx.Err() != nil {
		// Torn down mid-flight; whatever came back is discarded.
		return Panel[T]{Items: []T{}}
	}
	if err != nil {
		log.Warn().Err(err).Str("panel", name).Msg("panel load failed, serving offline")
		metrics.PanelOfflineTotal.WithLabelValues(name).Inc()
		return Panel[T]{Items: []T{}, Offline: true, Notice: domain.NoticeServerOffline}
	}
	if items == nil {
		items = []T{}
	}
	return Panel[T]{Items: items}
}
