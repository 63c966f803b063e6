package service

import (
	"context"
	"sync"
	"time"

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/ports"
)

// --- ports.AuthSession ---

type stubAuthSession struct {
	mu       sync.Mutex
	calls    int
	current  func(ctx context.Context, call int) (*domain.ProviderSession, error)
	signOut  error
	signOuts int
}

func sessionFor(id, email string) func(context.Context, int) (*domain.ProviderSession, error) {
	return func(context.Context, int) (*domain.ProviderSession, error) {
		return &domain.ProviderSession{AccessToken: "tok-" + id, User: domain.ProviderUser{ID: id, Email: email}}, nil
	}
}

func (s *stubAuthSession) Current(ctx context.Context) (*domain.ProviderSession, error) {
	s.mu.Lock()
	s.calls++
	n := s.calls
	fn := s.current
	s.mu.Unlock()
	if fn == nil {
		return nil, domain.ErrNoSession
	}
	return fn(ctx, n)
}

func (s *stubAuthSession) SignOut(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signOuts++
	return s.signOut
}

// --- ports.ProfileSource ---

type stubProfiles struct {
	mu         sync.Mutex
	role       domain.Role
	name       string
	teamID     string
	agents     int
	roleErr    error
	teamErr    error
	agentErr   error
	roleCalls  int
	teamCalls  int
	agentCalls int
}

func (p *stubProfiles) Role(context.Context, *domain.ProviderSession) (domain.Role, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.roleCalls++
	return p.role, p.name, p.roleErr
}

func (p *stubProfiles) TeamID(context.Context, *domain.ProviderSession) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.teamCalls++
	return p.teamID, p.teamErr
}

func (p *stubProfiles) AgentCount(context.Context, *domain.ProviderSession, string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.agentCalls++
	return p.agents, p.agentErr
}

func (p *stubProfiles) set(fn func(p *stubProfiles)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p)
}

// --- ports.SessionRepository ---

type stubSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.ProviderSession
	saveErr  error
	deleted  []string
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]*domain.ProviderSession)}
}

func (r *stubSessionRepo) Save(_ context.Context, sid string, sess *domain.ProviderSession, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *sess
	r.sessions[sid] = &cp
	return nil
}

func (r *stubSessionRepo) Find(_ context.Context, sid string) (*domain.ProviderSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[sid]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

func (r *stubSessionRepo) Delete(_ context.Context, sid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sid)
	r.deleted = append(r.deleted, sid)
	return nil
}

// --- ports.AuthProvider ---

type stubProvider struct {
	signIn     *domain.ProviderSession
	signInErr  error
	signUpUser *domain.ProviderUser
	signUpErr  error
	signUpIn   ports.SignUpInput
	refreshed  *domain.ProviderSession
	refreshErr error
	refreshes  int
	signOutErr error
	signedOut  []string
}

func (p *stubProvider) SignInWithPassword(context.Context, string, string) (*domain.ProviderSession, error) {
	return p.signIn, p.signInErr
}

func (p *stubProvider) SignUp(_ context.Context, in ports.SignUpInput) (*domain.ProviderUser, error) {
	p.signUpIn = in
	return p.signUpUser, p.signUpErr
}

func (p *stubProvider) Refresh(context.Context, string) (*domain.ProviderSession, error) {
	p.refreshes++
	return p.refreshed, p.refreshErr
}

func (p *stubProvider) SignOut(_ context.Context, token string) error {
	p.signedOut = append(p.signedOut, token)
	return p.signOutErr
}

// --- ports.TokenVerifier ---

type stubVerifier struct {
	user *domain.ProviderUser
	err  error
}

func (v stubVerifier) Verify(string) (*domain.ProviderUser, error) { return v.user, v.err }

// --- ports.AuditRepository ---

type stubAudit struct {
	mu      sync.Mutex
	entries []domain.AuthAuditEntry
}

func (a *stubAudit) Insert(_ context.Context, e domain.AuthAuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
	return nil
}

// --- ports.AuthEventBus ---

type recordingBus struct {
	mu     sync.Mutex
	events []domain.AuthEvent
	err    error
}

func (b *recordingBus) Publish(_ context.Context, ev domain.AuthEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.events = append(b.events, ev)
	return nil
}

func (b *recordingBus) Subscribe(ports.AuthEventHandler) func() { return func() {} }

func (b *recordingBus) types() []domain.AuthEventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.AuthEventType, 0, len(b.events))
	for _, ev := range b.events {
		out = append(out, ev.Type)
	}
	return out
}

// --- ports.ArenaAPI ---

// stubArena answers every call with its zero value unless a hook is set.
type stubArena struct {
	mu sync.Mutex

	myTeam      func(ctx context.Context) (*domain.Team, error)
	myAgents    func(ctx context.Context) ([]domain.Agent, error)
	rooms       func(ctx context.Context) ([]domain.Room, error)
	races       func(ctx context.Context, status string) ([]domain.Race, error)
	summary     func(ctx context.Context) (*domain.DashboardSummary, error)
	createTeam  func(in domain.CreateTeamInput) (*domain.Team, error)
	createAgent func(in domain.CreateAgentInput) (*domain.Agent, error)
	createRoom  func(in domain.CreateRoomInput) (*domain.Room, error)
	joinRoom    func(roomID, agentID string) (map[string]any, error)
	room        func(roomID string) (*domain.Room, error)
	race        func(raceID string) (*domain.Race, error)
	leaderboard func(raceID string) ([]domain.LeaderboardEntry, error)
	telemetry   func(raceID string) ([]domain.TelemetryFrame, error)

	tokens  []string
	stopped []string
	cleared []string
}

func (a *stubArena) seen(token string) {
	a.mu.Lock()
	a.tokens = append(a.tokens, token)
	a.mu.Unlock()
}

func (a *stubArena) Protected(_ context.Context, token string) (map[string]any, error) {
	a.seen(token)
	return map[string]any{}, nil
}

func (a *stubArena) CreateTeam(_ context.Context, token string, in domain.CreateTeamInput) (*domain.Team, error) {
	a.seen(token)
	if a.createTeam != nil {
		return a.createTeam(in)
	}
	return &domain.Team{ID: "t1", Name: in.Name, Slug: in.Slug}, nil
}

func (a *stubArena) MyTeam(ctx context.Context, token string) (*domain.Team, error) {
	a.seen(token)
	if a.myTeam != nil {
		return a.myTeam(ctx)
	}
	return nil, nil
}

func (a *stubArena) Team(_ context.Context, token, id string) (*domain.Team, error) {
	a.seen(token)
	return &domain.Team{ID: id}, nil
}

func (a *stubArena) CreateAgent(_ context.Context, token string, in domain.CreateAgentInput) (*domain.Agent, error) {
	a.seen(token)
	if a.createAgent != nil {
		return a.createAgent(in)
	}
	return &domain.Agent{ID: "a1", Name: in.Name, Type: in.Type, Provider: in.Provider, Personality: in.Personality}, nil
}

func (a *stubArena) MyAgents(ctx context.Context, token string) ([]domain.Agent, error) {
	a.seen(token)
	if a.myAgents != nil {
		return a.myAgents(ctx)
	}
	return nil, nil
}

func (a *stubArena) Agent(_ context.Context, token, id string) (*domain.Agent, error) {
	a.seen(token)
	return &domain.Agent{ID: id}, nil
}

func (a *stubArena) CreateRoom(_ context.Context, token string, in domain.CreateRoomInput) (*domain.Room, error) {
	a.seen(token)
	if a.createRoom != nil {
		return a.createRoom(in)
	}
	return &domain.Room{ID: "r1", Name: in.Name, CircuitID: in.CircuitID, MaxPlayers: in.MaxPlayers}, nil
}

func (a *stubArena) JoinRoom(_ context.Context, token, roomID, agentID string) (map[string]any, error) {
	a.seen(token)
	if a.joinRoom != nil {
		return a.joinRoom(roomID, agentID)
	}
	return map[string]any{"room_id": roomID, "agent_id": agentID}, nil
}

func (a *stubArena) Room(_ context.Context, token, id string) (*domain.Room, error) {
	a.seen(token)
	if a.room != nil {
		return a.room(id)
	}
	return &domain.Room{ID: id}, nil
}

func (a *stubArena) Rooms(ctx context.Context, token string) ([]domain.Room, error) {
	a.seen(token)
	if a.rooms != nil {
		return a.rooms(ctx)
	}
	return nil, nil
}

func (a *stubArena) Races(ctx context.Context, token, status string) ([]domain.Race, error) {
	a.seen(token)
	if a.races != nil {
		return a.races(ctx, status)
	}
	return nil, nil
}

func (a *stubArena) Race(_ context.Context, token, id string) (*domain.Race, error) {
	a.seen(token)
	if a.race != nil {
		return a.race(id)
	}
	return &domain.Race{ID: id}, nil
}

func (a *stubArena) Leaderboard(_ context.Context, token, id string) ([]domain.LeaderboardEntry, error) {
	a.seen(token)
	if a.leaderboard != nil {
		return a.leaderboard(id)
	}
	return nil, nil
}

func (a *stubArena) StopRace(_ context.Context, token, id string) error {
	a.seen(token)
	a.mu.Lock()
	a.stopped = append(a.stopped, id)
	a.mu.Unlock()
	return nil
}

func (a *stubArena) DashboardSummary(ctx context.Context, token string) (*domain.DashboardSummary, error) {
	a.seen(token)
	if a.summary != nil {
		return a.summary(ctx)
	}
	return &domain.DashboardSummary{}, nil
}

func (a *stubArena) LatestTelemetry(_ context.Context, token, id string) ([]domain.TelemetryFrame, error) {
	a.seen(token)
	if a.telemetry != nil {
		return a.telemetry(id)
	}
	return nil, nil
}

func (a *stubArena) ClearTelemetry(_ context.Context, token, id string) error {
	a.seen(token)
	a.mu.Lock()
	a.cleared = append(a.cleared, id)
	a.mu.Unlock()
	return nil
}

var _ ports.ArenaAPI = (*stubArena)(nil)
