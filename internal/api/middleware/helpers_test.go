package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/service"
)

type fakeAuth struct {
	sess *domain.ProviderSession
}

func (f *fakeAuth) Current(context.Context) (*domain.ProviderSession, error) {
	if f.sess == nil {
		return nil, domain.ErrNoSession
	}
	return f.sess, nil
}

func (f *fakeAuth) SignOut(context.Context) error {
	f.sess = nil
	return nil
}

type fakeProfiles struct {
	role   domain.Role
	teamID string
	agents int
}

func (f fakeProfiles) Role(context.Context, *domain.ProviderSession) (domain.Role, string, error) {
	return f.role, "Ada", nil
}

func (f fakeProfiles) TeamID(context.Context, *domain.ProviderSession) (string, error) {
	return f.teamID, nil
}

func (f fakeProfiles) AgentCount(context.Context, *domain.ProviderSession, string) (int, error) {
	return f.agents, nil
}

var (
	participantComplete = fakeProfiles{role: domain.RoleParticipant, teamID: "t1", agents: 1}
	participantNoTeam   = fakeProfiles{role: domain.RoleParticipant}
	spectator           = fakeProfiles{role: domain.RoleSpectator}
)

func signedIn() *fakeAuth {
	return &fakeAuth{sess: &domain.ProviderSession{
		AccessToken: "at",
		User:        domain.ProviderUser{ID: "u1", Email: "ada@example.com"},
	}}
}

// loadedStore returns a store that has completed its first fetch.
func loadedStore(auth *fakeAuth, p fakeProfiles) *service.Store {
	st := service.NewStore(auth, p, zerolog.Nop())
	st.FetchProfile(context.Background())
	return st
}

type fakeRegistry struct {
	mu        sync.Mutex
	stores    map[string]*service.Store
	refreshed []string
	newStore  func() *service.Store
}

func (r *fakeRegistry) Store(sid string) *service.Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stores == nil {
		r.stores = make(map[string]*service.Store)
	}
	if st, ok := r.stores[sid]; ok {
		return st
	}
	st := r.newStore()
	r.stores[sid] = st
	return st
}

func (r *fakeRegistry) RefreshIfNeeded(_ context.Context, sid string) error {
	r.mu.Lock()
	r.refreshed = append(r.refreshed, sid)
	r.mu.Unlock()
	return nil
}

// serve runs mw in front of a handler that records whether it was reached.
func serve(t *testing.T, store *service.Store, method, path string, mw echo.MiddlewareFunc) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if store != nil {
		c.Set(ctxStore, store)
	}

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}
