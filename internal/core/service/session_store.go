package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/ports"
	"github.com/trackshift/arena-web/internal/pkg/metrics"
)

// Store is the auth state container for one browser session. Every mutation
// commits a whole new snapshot under mu; readers only ever see snapshots.
//
// seq increases on every identity change and every FetchProfile call. A fetch
// commits only if seq still matches the value it started with, so a slow
// response can never overwrite a newer one.
type Store struct {
	auth     ports.AuthSession
	profiles ports.ProfileSource
	log      zerolog.Logger

	mu      sync.Mutex
	state   domain.AuthState
	seq     uint64
	changed chan struct{}
	closed  bool
}

// NewStore builds an empty, not-yet-loaded store.
func NewStore(auth ports.AuthSession, profiles ports.ProfileSource, log zerolog.Logger) *Store {
	return &Store{
		auth:     auth,
		profiles: profiles,
		log:      log,
		changed:  make(chan struct{}),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() domain.AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SetSession replaces the identity and marks the store loaded. A nil user
// clears it. The profile is reset because it belonged to the old identity.
func (s *Store) SetSession(user *domain.Session, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	st := s.state
	st.Session = nil
	if user != nil {
		u := *user
		u.AccessToken = token
		st.Session = &u
	}
	st.Profile = domain.DefaultProfile()
	st.Loading = false
	st.HasLoaded = true
	s.commitLocked(st)
}

// BeginCheck puts the store back into the checking state ahead of an
// asynchronous FetchProfile, so guards wait instead of acting on stale data.
func (s *Store) BeginCheck() {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Loading = true
	s.commitLocked(st)
}

// FetchProfile reloads the session from the auth provider and enriches it.
// It never fails: a missing session signs the store out and query failures
// degrade to DefaultProfile values. A deadline or cancellation is one more
// query failure: whatever resolved before it is committed and the store ends
// loaded. Only a newer fetch or identity change discards the result.
func (s *Store) FetchProfile(ctx context.Context) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	st := s.state
	st.Loading = true
	s.commitLocked(st)
	s.mu.Unlock()

	ps, err := s.auth.Current(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNoSession) {
			s.log.Warn().Err(err).Msg("could not read auth session")
		}
		ps = nil
	}

	if ps == nil {
		if s.commitFetch(seq, nil, domain.DefaultProfile()) {
			metrics.ProfileFetchTotal.WithLabelValues("no_session").Inc()
		}
		return
	}

	profile, name, complete := s.enrich(ctx, ps)
	if name == "" {
		name = ps.User.Name
	}
	sess := &domain.Session{
		UserID:      ps.User.ID,
		Email:       ps.User.Email,
		DisplayName: name,
		AccessToken: ps.AccessToken,
	}

	if !s.commitFetch(seq, sess, profile) {
		return
	}
	outcome := "complete"
	if !complete {
		outcome = "partial"
	}
	metrics.ProfileFetchTotal.WithLabelValues(outcome).Inc()
}

// enrich runs role → team → agent count in order; each step needs the
// previous answer. complete is false if any query failed.
func (s *Store) enrich(ctx context.Context, ps *domain.ProviderSession) (domain.Profile, string, bool) {
	profile := domain.DefaultProfile()
	complete := true
	log := s.log.With().Str("user_id", ps.User.ID).Logger()

	role, name, err := s.profiles.Role(ctx, ps)
	if err != nil {
		log.Warn().Err(err).Msg("could not fetch user profile, treating as spectator")
		metrics.ProfileQueryErrorsTotal.WithLabelValues("role").Inc()
		return profile, "", false
	}
	profile.Role = role
	if role != domain.RoleParticipant {
		return profile, name, complete
	}

	teamID, err := s.profiles.TeamID(ctx, ps)
	if err != nil {
		log.Warn().Err(err).Msg("could not fetch team linkage")
		metrics.ProfileQueryErrorsTotal.WithLabelValues("team").Inc()
		return profile, name, false
	}
	if teamID == "" {
		return profile, name, complete
	}
	profile.TeamID = teamID

	count, err := s.profiles.AgentCount(ctx, ps, teamID)
	if err != nil {
		log.Warn().Err(err).Str("team_id", teamID).Msg("could not fetch agent count")
		metrics.ProfileQueryErrorsTotal.WithLabelValues("agents").Inc()
		return profile, name, false
	}
	if count > 0 {
		profile.AgentCount = count
	}
	return profile, name, complete
}

func (s *Store) commitFetch(seq uint64, sess *domain.Session, profile domain.Profile) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		s.log.Debug().Uint64("seq", seq).Uint64("current", s.seq).Msg("discarding stale profile result")
		metrics.ProfileFetchTotal.WithLabelValues("stale").Inc()
		return false
	}
	st := s.state
	st.Session = sess
	st.Profile = profile
	st.Loading = false
	st.HasLoaded = true
	s.commitLocked(st)
	return true
}

// Logout signs out of the provider and clears the identity. The local state
// is cleared even when the provider call fails; that error is returned.
func (s *Store) Logout(ctx context.Context) error {
	err := s.auth.SignOut(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("provider sign-out failed")
	}
	s.SetSession(nil, "")
	return err
}

// SetError stores an error notice, replacing any success notice.
func (s *Store) SetError(msg string) {
	s.setNotice(domain.Notice{Kind: domain.NoticeError, Message: msg})
}

// SetSuccess stores a success notice, replacing any error notice.
func (s *Store) SetSuccess(msg string) {
	s.setNotice(domain.Notice{Kind: domain.NoticeSuccess, Message: msg})
}

func (s *Store) ClearMessages() {
	s.setNotice(domain.Notice{})
}

func (s *Store) setNotice(n domain.Notice) {
	if n.Message == "" {
		n = domain.Notice{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Notice = n
	s.commitLocked(st)
}

// WaitLoaded blocks until the store leaves the checking state or ctx ends.
func (s *Store) WaitLoaded(ctx context.Context) (domain.AuthState, error) {
	for {
		s.mu.Lock()
		st := s.snapshotLocked()
		ch := s.changed
		closed := s.closed
		s.mu.Unlock()

		if domain.Evaluate(st) != domain.GuardChecking || closed {
			return st, nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return st, ctx.Err()
		}
	}
}

// Close wakes any waiters. Later mutations are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.seq++
	close(s.changed)
}

func (s *Store) commitLocked(st domain.AuthState) {
	if s.closed {
		return
	}
	s.state = st
	close(s.changed)
	s.changed = make(chan struct{})
}

func (s *Store) snapshotLocked() domain.AuthState {
	st := s.state
	if st.Session != nil {
		u := *st.Session
		st.Session = &u
	}
	return st
}
