package domain

import "strings"

// Route paths the guard knows about.
const (
	PathLanding      = "/"
	PathLogin        = "/login"
	PathSignup       = "/signup"
	PathApp          = "/app"
	PathDashboard    = "/app/team"
	PathCreateTeam   = "/app/create-team"
	PathCreateAgents = "/app/create-agents"
	PathSpectator    = "/app/spectator"
	PathLegacy       = "/dashboard"
)

// GuardState is the route guard's view of a session store.
type GuardState string

const (
	GuardChecking        GuardState = "checking"
	GuardUnauthenticated GuardState = "unauthenticated"
	GuardNoTeam          GuardState = "authenticated-no-team"
	GuardNoAgents        GuardState = "authenticated-no-agents"
	GuardComplete        GuardState = "authenticated-complete"
)

// GuardAction tells the caller what to do with a navigation request.
type GuardAction string

const (
	ActionRender   GuardAction = "render"
	ActionRedirect GuardAction = "redirect"
	ActionWait     GuardAction = "wait"
)

// Decision is the outcome of a guard evaluation.
type Decision struct {
	State  GuardState  `json:"state"`
	Action GuardAction `json:"action"`
	Target string      `json:"target,omitempty"`
}

// Evaluate maps a store snapshot onto the guard state machine.
func Evaluate(s AuthState) GuardState {
	if !s.HasLoaded || s.Loading {
		return GuardChecking
	}
	if s.Session == nil {
		return GuardUnauthenticated
	}
	switch s.Profile.Onboarding() {
	case OnboardingNoTeam:
		return GuardNoTeam
	case OnboardingNoAgents:
		return GuardNoAgents
	default:
		return GuardComplete
	}
}

// Decide returns the decision for a protected path under /app.
func Decide(s AuthState, path string) Decision {
	path = cleanPath(path)
	state := Evaluate(s)

	switch state {
	case GuardChecking:
		return Decision{State: state, Action: ActionWait}
	case GuardUnauthenticated:
		return redirect(state, PathLogin)
	case GuardNoTeam:
		if within(path, PathCreateTeam) {
			return render(state)
		}
		return redirect(state, PathCreateTeam)
	case GuardNoAgents:
		if within(path, PathCreateAgents) {
			return render(state)
		}
		return redirect(state, PathCreateAgents)
	}

	home := HomePath(s.Profile.Role)
	switch {
	case path == PathApp:
		return redirect(state, home)
	case IsOnboardingPath(path):
		return redirect(state, home)
	case s.Profile.Role != RoleParticipant && IsParticipantPath(path):
		return redirect(state, PathSpectator)
	}
	return render(state)
}

// DecidePublic guards the public-only auth pages.
func DecidePublic(s AuthState) Decision {
	state := Evaluate(s)
	if s.Session != nil {
		return redirect(state, PathApp)
	}
	return render(state)
}

// HomePath is where a fully onboarded user lands.
func HomePath(r Role) string {
	if r == RoleParticipant {
		return PathDashboard
	}
	return PathSpectator
}

// IsOnboardingPath reports whether path is an onboarding step or one of its
// actions, such as /app/create-agents/finish.
func IsOnboardingPath(path string) bool {
	path = cleanPath(path)
	return within(path, PathCreateTeam) || within(path, PathCreateAgents)
}

// IsParticipantPath reports whether path belongs to the participant area.
func IsParticipantPath(path string) bool {
	path = cleanPath(path)
	if within(path, PathSpectator) {
		return false
	}
	return strings.HasPrefix(path, PathApp+"/") && !IsOnboardingPath(path)
}

// within reports whether path is base or below it.
func within(path, base string) bool {
	return path == base || strings.HasPrefix(path, base+"/")
}

func render(s GuardState) Decision {
	return Decision{State: s, Action: ActionRender}
}

func redirect(s GuardState, target string) Decision {
	return Decision{State: s, Action: ActionRedirect, Target: target}
}

func cleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		return "/"
	}
	return p
}
