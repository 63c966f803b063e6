package domain

// Profile is derived from the active session and never persisted.
// AgentCount is only meaningful when TeamID is set.
type Profile struct {
	Role       Role   `json:"role"`
	TeamID     string `json:"team_id,omitempty"`
	AgentCount int    `json:"agent_count"`
}

// DefaultProfile is what enrichment degrades to when queries fail.
func DefaultProfile() Profile {
	return Profile{Role: RoleSpectator}
}

// OnboardingState is the participant onboarding step.
type OnboardingState string

const (
	OnboardingNoTeam   OnboardingState = "no-team"
	OnboardingNoAgents OnboardingState = "team-no-agents"
	OnboardingComplete OnboardingState = "fully-onboarded"
)

// Onboarding derives the onboarding step. Spectators are never onboarded.
func (p Profile) Onboarding() OnboardingState {
	if p.Role != RoleParticipant {
		return OnboardingComplete
	}
	switch {
	case p.TeamID == "":
		return OnboardingNoTeam
	case p.AgentCount <= 0:
		return OnboardingNoAgents
	default:
		return OnboardingComplete
	}
}
