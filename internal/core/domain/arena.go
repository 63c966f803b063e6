package domain

import (
	"encoding/json"
	"time"
)

// The arena backend owns these resources; the web tier only reads them through.

type Team struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug,omitempty"`
	Color     string    `json:"color,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Agent struct {
	ID          string          `json:"id"`
	TeamID      string          `json:"team_id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Provider    string          `json:"provider,omitempty"`
	Model       string          `json:"model,omitempty"`
	Personality string          `json:"personality,omitempty"`
	Config      json.RawMessage `json:"config,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Room struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CreatorTeamID string    `json:"creator_team_id"`
	CircuitID     string    `json:"circuit_id,omitempty"`
	MaxPlayers    int       `json:"max_players"`
	IsPrivate     bool      `json:"is_private"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// RaceStatus values as reported by the backend.
const (
	RaceActive   = "ACTIVE"
	RaceUpcoming = "UPCOMING"
	RaceFinished = "FINISHED"
)

type Race struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	MaxLaps   int        `json:"max_laps"`
	CreatedAt time.Time  `json:"created_at"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

type LeaderboardEntry struct {
	EntryID   string  `json:"entry_id"`
	TeamName  string  `json:"team_name"`
	AgentName string  `json:"agent_name"`
	Position  int     `json:"position"`
	Lap       int     `json:"lap"`
	Speed     float64 `json:"speed"`
}

// TelemetryFrame is kept opaque; the web tier never interprets telemetry.
type TelemetryFrame = json.RawMessage

type RaceOverview struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	Participants int       `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
}

type DashboardSummary struct {
	ActiveRaces       int            `json:"active_races"`
	FinishedRaces     int            `json:"finished_races"`
	TotalParticipants int            `json:"total_participants"`
	RecentRaces       []RaceOverview `json:"recent_races"`
}

type CreateTeamInput struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color,omitempty"`
	Bio   string `json:"bio,omitempty"`
}

type CreateAgentInput struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Provider    string          `json:"provider,omitempty"`
	Model       string          `json:"model,omitempty"`
	Personality string          `json:"personality,omitempty"`
	Config      json.RawMessage `json:"config,omitempty"`
}

type CreateRoomInput struct {
	Name       string `json:"name"`
	CircuitID  string `json:"circuit_id"`
	MaxPlayers int    `json:"max_players"`
	IsPrivate  bool   `json:"is_private,omitempty"`
}

// Onboarding limits enforced by the web tier.
const MaxAgentsPerTeam = 2

// Room sizing accepted by the backend.
const (
	MinRoomPlayers     = 2
	MaxRoomPlayers     = 6
	DefaultRoomPlayers = 4
)

// Circuits offered when creating a room.
var Circuits = []string{"Monaco", "Silverstone", "Monza"}
