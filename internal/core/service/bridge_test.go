package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/trackshift/arena-web/internal/core/domain"
)

func newBridgeFixture(t *testing.T) (*Bridge, *Registry, *stubSessionRepo) {
	t.Helper()
	repo := newStubSessionRepo()
	reg := NewRegistry(RegistryConfig{
		Sessions: repo,
		Provider: &stubProvider{},
		Profiles: &stubProfiles{role: domain.RoleParticipant, teamID: "t1", agents: 1},
		Log:      zerolog.Nop(),
	})
	t.Cleanup(reg.Close)
	return NewBridge(reg, time.Second, zerolog.Nop()), reg, repo
}

func TestBridge_SignedInFetchesProfile(t *testing.T) {
	b, reg, repo := newBridgeFixture(t)
	repo.sessions["sid"] = validSession()
	store := reg.Store("sid")
	store.BeginCheck()

	err := b.Process(context.Background(), domain.AuthEvent{Type: domain.EventSignedIn, SessionID: "sid"})
	require.NoError(t, err)

	st := store.Snapshot()
	require.False(t, st.Loading)
	require.NotNil(t, st.Session)
	require.Equal(t, domain.GuardComplete, domain.Evaluate(st))
}

func TestBridge_TokenRefreshedFetchesProfile(t *testing.T) {
	b, reg, repo := newBridgeFixture(t)
	store := reg.Store("sid")
	store.FetchProfile(context.Background())
	require.Nil(t, store.Snapshot().Session)

	repo.sessions["sid"] = validSession()
	require.NoError(t, b.Process(context.Background(), domain.AuthEvent{Type: domain.EventTokenRefreshed, SessionID: "sid"}))

	require.NotNil(t, store.Snapshot().Session)
}

func TestBridge_SignedOutClearsWithoutNetwork(t *testing.T) {
	b, reg, repo := newBridgeFixture(t)
	repo.sessions["sid"] = validSession()
	store := reg.Store("sid")
	store.FetchProfile(context.Background())
	require.NotNil(t, store.Snapshot().Session)

	// The persisted session is still there; sign-out must not consult it.
	require.NoError(t, b.Process(context.Background(), domain.AuthEvent{Type: domain.EventSignedOut, SessionID: "sid"}))

	st := store.Snapshot()
	require.Nil(t, st.Session)
	require.True(t, st.HasLoaded)
	require.Equal(t, domain.GuardUnauthenticated, domain.Evaluate(st))
}

func TestBridge_IgnoresUnknownSessions(t *testing.T) {
	b, reg, _ := newBridgeFixture(t)

	require.NoError(t, b.Process(context.Background(), domain.AuthEvent{Type: domain.EventSignedIn, SessionID: "elsewhere"}))
	require.Zero(t, reg.Len())
}

func TestLocalBus_DeliversInOrderAndUnsubscribes(t *testing.T) {
	bus := NewLocalBus()
	var got []string

	unsubA := bus.Subscribe(func(ev domain.AuthEvent) { got = append(got, "a:"+ev.SessionID) })
	bus.Subscribe(func(ev domain.AuthEvent) { got = append(got, "b:"+ev.SessionID) })

	require.NoError(t, bus.Publish(context.Background(), domain.AuthEvent{Type: domain.EventSignedIn, SessionID: "1"}))
	unsubA()
	unsubA()
	require.NoError(t, bus.Publish(context.Background(), domain.AuthEvent{Type: domain.EventSignedOut, SessionID: "2"}))

	require.Equal(t, []string{"a:1", "b:1", "b:2"}, got)
}
