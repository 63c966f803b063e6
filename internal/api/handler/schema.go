package handler

import (
	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/service"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Requests ---

type loginRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
	From     string `json:"from"     form:"from"`
}

type signupRequest struct {
	Name     string `json:"name"     form:"name"     validate:"max=80"`
	Email    string `json:"email"    form:"email"    validate:"omitempty,email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role"     form:"role"     validate:"omitempty,oneof=participant spectator"`
}

type createTeamRequest struct {
	Name  string `json:"name"  form:"name"  validate:"max=64"`
	Slug  string `json:"slug"  form:"slug"  validate:"omitempty,max=64,slug"`
	Color string `json:"color" form:"color" validate:"omitempty,hexcolor"`
	Bio   string `json:"bio"   form:"bio"   validate:"max=500"`
}

type createAgentRequest struct {
	Name        string `json:"name"        form:"name"        validate:"max=64"`
	Personality string `json:"personality" form:"personality" validate:"omitempty,oneof=balanced aggressive defensive"`
}

type createRoomRequest struct {
	Name       string `json:"name"        form:"name"        validate:"max=64"`
	CircuitID  string `json:"circuit_id"  form:"circuit_id"`
	MaxPlayers int    `json:"max_players" form:"max_players"`
	IsPrivate  bool   `json:"is_private"  form:"is_private"`
}

type joinRoomRequest struct {
	AgentID string `json:"agent_id" form:"agent_id"`
}

// --- Responses ---

// formResponse answers every form submission. Redirect, when set, is where
// the client navigates next.
type formResponse struct {
	Notice   domain.Notice `json:"notice"`
	Redirect string        `json:"redirect,omitempty"`
	Data     any           `json:"data,omitempty"`
}

type sessionResponse struct {
	State      domain.GuardState      `json:"state"`
	Session    *domain.Session        `json:"session"`
	Profile    domain.Profile         `json:"profile"`
	Onboarding domain.OnboardingState `json:"onboarding"`
	Notice     domain.Notice          `json:"notice"`
}

type authPageResponse struct {
	Notice domain.Notice `json:"notice"`
	From   string        `json:"from,omitempty"`
	Roles  []domain.Role `json:"roles,omitempty"`
}

type onboardingTeamView struct {
	User   domain.Session `json:"user"`
	Notice domain.Notice  `json:"notice"`
}

type onboardingAgentsView struct {
	Agents        []domain.Agent `json:"agents"`
	MaxAgents     int            `json:"max_agents"`
	Personalities []string       `json:"personalities"`
	CanFinish     bool           `json:"can_finish"`
	Notice        domain.Notice  `json:"notice"`
}

type roomsView struct {
	Rooms      service.Panel[domain.Room] `json:"rooms"`
	Circuits   []string                   `json:"circuits"`
	MinPlayers int                        `json:"min_players"`
	MaxPlayers int                        `json:"max_players"`
	Default    int                        `json:"default_players"`
}

type raceView struct {
	Race        *domain.Race                           `json:"race"`
	Leaderboard service.Panel[domain.LeaderboardEntry] `json:"leaderboard"`
	SocketURL   string                                 `json:"socket_url"`
}

type telemetryView struct {
	RaceID string                  `json:"race_id"`
	Count  int                     `json:"count"`
	Frames []domain.TelemetryFrame `json:"telemetry"`
}

type comingSoon struct {
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// pageView backs the participant pages that are mostly placeholders today.
type pageView struct {
	Title      string                       `json:"title"`
	User       domain.Session               `json:"user"`
	Team       *service.Panel[domain.Team]  `json:"team,omitempty"`
	Agents     *service.Panel[domain.Agent] `json:"agents,omitempty"`
	ComingSoon []comingSoon                 `json:"coming_soon,omitempty"`
}

type landingView struct {
	SignedIn bool   `json:"signed_in"`
	Home     string `json:"home"`
}
