package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/ports"
)

const (
	msgTeamFieldsMissing = "Please fill out both fields."
	msgTeamFailed        = "Failed to create team. Is the slug unique?"
	msgAgentNameMissing  = "Please give your agent a name."
	msgAgentLimit        = "You can create a maximum of 2 agents for now."
	msgAgentFailed       = "Failed to create agent."
	msgAgentRequired     = "Please create at least one agent to continue."
	msgRoomNameMissing   = "Please give your room a name."
	msgRoomPlayers       = "Max players must be between 2 and 6."
	msgRoomCircuit       = "Unknown circuit."
	msgRoomFailed        = "Failed to create room."
	msgJoinAgentMissing  = "Pick an agent to join with."
	msgJoinFailed        = "Failed to join room."
)

// Agent defaults for onboarding.
const (
	defaultAgentType        = "LLM"
	defaultAgentProvider    = "mock"
	defaultAgentPersonality = "balanced"
)

// Personalities are the agent temperaments offered at creation.
var Personalities = []string{"balanced", "aggressive", "defensive"}

// OnboardingService drives team and agent creation, and the room actions
// that need a team. Every mutation that changes onboarding state re-runs
// profile enrichment before returning, so the next guard check sees it.
type OnboardingService struct {
	api ports.ArenaAPI
	log zerolog.Logger
}

func NewOnboardingService(api ports.ArenaAPI, log zerolog.Logger) *OnboardingService {
	return &OnboardingService{api: api, log: log.With().Str("component", "onboarding").Logger()}
}

// CreateTeam creates the participant's team and refreshes the profile.
func (s *OnboardingService) CreateTeam(ctx context.Context, store *Store, in domain.CreateTeamInput) (*domain.Team, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Name == "" || in.Slug == "" {
		return nil, domain.NewFormError(msgTeamFieldsMissing)
	}

	team, err := s.api.CreateTeam(ctx, token(store), in)
	if err != nil {
		return nil, formFailure(err, msgTeamFailed)
	}
	store.FetchProfile(ctx)
	return team, nil
}

// Agents lists the team's agents.
func (s *OnboardingService) Agents(ctx context.Context, store *Store) ([]domain.Agent, error) {
	agents, err := s.api.MyAgents(ctx, token(store))
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	if agents == nil {
		agents = []domain.Agent{}
	}
	return agents, nil
}

// AddAgent registers one more agent, up to domain.MaxAgentsPerTeam.
func (s *OnboardingService) AddAgent(ctx context.Context, store *Store, name, personality string) (*domain.Agent, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewFormError(msgAgentNameMissing)
	}
	if !slices.Contains(Personalities, personality) {
		personality = defaultAgentPersonality
	}

	existing, err := s.api.MyAgents(ctx, token(store))
	if err != nil {
		s.log.Warn().Err(err).Msg("could not list agents before create")
		existing = nil
	}
	if len(existing) >= domain.MaxAgentsPerTeam {
		return nil, domain.NewFormError(msgAgentLimit)
	}

	agent, err := s.api.CreateAgent(ctx, token(store), domain.CreateAgentInput{
		Name:        name,
		Type:        defaultAgentType,
		Provider:    defaultAgentProvider,
		Personality: personality,
	})
	if err != nil {
		return nil, formFailure(err, msgAgentFailed)
	}
	store.FetchProfile(ctx)
	return agent, nil
}

// Finish completes onboarding. The participant needs at least one agent.
func (s *OnboardingService) Finish(ctx context.Context, store *Store) error {
	st := store.Snapshot()
	if st.Profile.AgentCount > 0 {
		return nil
	}
	store.FetchProfile(ctx)
	if store.Snapshot().Profile.AgentCount == 0 {
		return domain.NewFormError(msgAgentRequired)
	}
	return nil
}

// CreateRoom validates and creates a room lobby.
func (s *OnboardingService) CreateRoom(ctx context.Context, store *Store, in domain.CreateRoomInput) (*domain.Room, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, domain.NewFormError(msgRoomNameMissing)
	}
	if in.MaxPlayers == 0 {
		in.MaxPlayers = domain.DefaultRoomPlayers
	}
	if in.MaxPlayers < domain.MinRoomPlayers || in.MaxPlayers > domain.MaxRoomPlayers {
		return nil, domain.NewFormError(msgRoomPlayers)
	}
	if in.CircuitID == "" {
		in.CircuitID = domain.Circuits[0]
	}
	if !slices.Contains(domain.Circuits, in.CircuitID) {
		return nil, domain.NewFormError(msgRoomCircuit)
	}

	room, err := s.api.CreateRoom(ctx, token(store), in)
	if err != nil {
		return nil, formFailure(err, msgRoomFailed)
	}
	return room, nil
}

// JoinRoom enters a room with one of the team's agents.
func (s *OnboardingService) JoinRoom(ctx context.Context, store *Store, roomID, agentID string) (map[string]any, error) {
	if strings.TrimSpace(agentID) == "" {
		return nil, domain.NewFormError(msgJoinAgentMissing)
	}
	res, err := s.api.JoinRoom(ctx, token(store), roomID, agentID)
	if err != nil {
		return nil, formFailure(err, msgJoinFailed)
	}
	return res, nil
}

// formFailure turns a backend failure into inline copy, preferring the
// backend's own detail.
func formFailure(err error, fallback string) error {
	var ae *domain.APIError
	if errors.As(err, &ae) && ae.Detail != "" && ae.Detail != domain.DefaultAPIDetail {
		return &domain.FormError{Message: ae.Detail, Err: err}
	}
	return &domain.FormError{Message: fallback, Err: err}
}

func token(store *Store) string {
	if st := store.Snapshot(); st.Session != nil {
		return st.Session.AccessToken
	}
	return ""
}
