package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/trackshift/arena-web/internal/api/middleware"
	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/ports"
	"github.com/trackshift/arena-web/internal/core/service"
)

type fakeAuthSession struct {
	sess *domain.ProviderSession
}

func (f *fakeAuthSession) Current(context.Context) (*domain.ProviderSession, error) {
	if f.sess == nil {
		return nil, domain.ErrNoSession
	}
	return f.sess, nil
}

func (f *fakeAuthSession) SignOut(context.Context) error { return nil }

type fakeProfiles struct {
	profile domain.Profile
}

func (f fakeProfiles) Role(context.Context, *domain.ProviderSession) (domain.Role, string, error) {
	return f.profile.Role, "Ada", nil
}

func (f fakeProfiles) TeamID(context.Context, *domain.ProviderSession) (string, error) {
	return f.profile.TeamID, nil
}

func (f fakeProfiles) AgentCount(context.Context, *domain.ProviderSession, string) (int, error) {
	return f.profile.AgentCount, nil
}

// newStore returns a loaded store, signed in unless profile is nil.
func newStore(profile *domain.Profile) *service.Store {
	auth := &fakeAuthSession{}
	p := fakeProfiles{}
	if profile != nil {
		auth.sess = &domain.ProviderSession{AccessToken: "tok", User: domain.ProviderUser{ID: "u1", Email: "ada@example.com"}}
		p.profile = *profile
	}
	st := service.NewStore(auth, p, zerolog.Nop())
	st.FetchProfile(context.Background())
	return st
}

var completeParticipant = &domain.Profile{Role: domain.RoleParticipant, TeamID: "t1", AgentCount: 1}

// stubArena overrides only what a test needs; anything else panics.
type stubArena struct {
	ports.ArenaAPI
	rooms      func() ([]domain.Room, error)
	createTeam func(domain.CreateTeamInput) (*domain.Team, error)
	race       func(id string) (*domain.Race, error)
	team       func(id string) (*domain.Team, error)
	agent      func(id string) (*domain.Agent, error)
}

func (s *stubArena) Team(_ context.Context, _ string, id string) (*domain.Team, error) { return s.team(id) }

func (s *stubArena) Agent(_ context.Context, _ string, id string) (*domain.Agent, error) {
	return s.agent(id)
}

func (s *stubArena) Rooms(context.Context, string) ([]domain.Room, error) { return s.rooms() }

func (s *stubArena) CreateTeam(_ context.Context, _ string, in domain.CreateTeamInput) (*domain.Team, error) {
	return s.createTeam(in)
}

func (s *stubArena) Race(_ context.Context, _ string, id string) (*domain.Race, error) { return s.race(id) }

func (s *stubArena) Leaderboard(context.Context, string, string) ([]domain.LeaderboardEntry, error) {
	return []domain.LeaderboardEntry{{EntryID: "e1", Position: 1}}, nil
}

// call runs h with store bound to the request.
func call(t *testing.T, store *service.Store, method, target, body string, h echo.HandlerFunc, params ...string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) > 0 {
		names := make([]string, 0, len(params)/2)
		values := make([]string, 0, len(params)/2)
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if store != nil {
		middleware.Bind(c, "sid", store)
	}
	return rec, h(c)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}
