package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/ports"
	"github.com/trackshift/arena-web/internal/pkg/metrics"
)

const (
	defaultRefreshSkew = time.Minute
	defaultSessionTTL  = 30 * 24 * time.Hour
)

// RegistryConfig wires the collaborators every session store shares.
type RegistryConfig struct {
	Sessions    ports.SessionRepository
	Provider    ports.AuthProvider
	Verifier    ports.TokenVerifier // optional; nil skips local verification
	Profiles    ports.ProfileSource
	Bus         ports.AuthEventBus
	RefreshSkew time.Duration
	SessionTTL  time.Duration
	Log         zerolog.Logger
}

type registryEntry struct {
	store    *Store
	lastSeen time.Time
}

// Registry owns one Store per browser session. It is constructed at startup
// and closed on shutdown; nothing about it is global.
type Registry struct {
	cfg RegistryConfig
	log zerolog.Logger
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]*registryEntry
	closed  bool

	// refreshes collapses concurrent refreshes of one session into a single
	// provider call; refresh tokens are single use.
	refreshes singleflight.Group
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.RefreshSkew <= 0 {
		cfg.RefreshSkew = defaultRefreshSkew
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	return &Registry{
		cfg:     cfg,
		log:     cfg.Log.With().Str("component", "session_registry").Logger(),
		now:     time.Now,
		entries: make(map[string]*registryEntry),
	}
}

// Store returns the store for sessionID, creating it on first use.
func (r *Registry) Store(sessionID string) *Store {
	now := r.now()

	r.mu.RLock()
	e, ok := r.entries[sessionID]
	r.mu.RUnlock()
	if ok {
		r.touch(e, now)
		return e.store
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[sessionID]; ok {
		e.lastSeen = now
		return e.store
	}
	st := NewStore(
		&providerSession{id: sessionID, reg: r},
		r.cfg.Profiles,
		r.cfg.Log.With().Str("component", "session_store").Str("session_id", sessionID).Logger(),
	)
	if r.closed {
		st.Close()
		return st
	}
	r.entries[sessionID] = &registryEntry{store: st, lastSeen: now}
	metrics.ActiveSessions.Set(float64(len(r.entries)))
	return st
}

// Lookup returns the store for sessionID only if this instance holds one.
func (r *Registry) Lookup(sessionID string) (*Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[sessionID]
	if !ok {
		return nil, false
	}
	return e.store, true
}

// Drop closes and forgets the store for sessionID.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	e, ok := r.entries[sessionID]
	delete(r.entries, sessionID)
	metrics.ActiveSessions.Set(float64(len(r.entries)))
	r.mu.Unlock()
	if ok {
		e.store.Close()
	}
}

// Retire forgets sessionID entirely: its store is dropped and any persisted
// provider session is deleted.
func (r *Registry) Retire(ctx context.Context, sessionID string) error {
	r.Drop(sessionID)
	if err := r.cfg.Sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

// Sweep drops stores that have not been used for longer than idle.
// It returns how many were dropped.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	var stale []*Store

	r.mu.Lock()
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, e.store)
			delete(r.entries, id)
		}
	}
	metrics.ActiveSessions.Set(float64(len(r.entries)))
	r.mu.Unlock()

	for _, st := range stale {
		st.Close()
	}
	return len(stale)
}

// Len reports how many stores are held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Close tears down every store. Stores handed out afterwards start closed.
func (r *Registry) Close() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*registryEntry)
	r.closed = true
	metrics.ActiveSessions.Set(0)
	r.mu.Unlock()

	for _, e := range entries {
		e.store.Close()
	}
}

// RefreshIfNeeded renews the provider session for sessionID when its access
// token is about to expire, and announces it with a token_refreshed event.
// Only the caller that actually rotated the tokens publishes.
func (r *Registry) RefreshIfNeeded(ctx context.Context, sessionID string) error {
	sess, err := r.cfg.Sessions.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	if !sess.ExpiresWithin(r.now(), r.cfg.RefreshSkew) {
		return nil
	}
	refreshed, rotated, err := r.refresh(ctx, sessionID, sess)
	if err != nil || !rotated {
		return err
	}
	return r.publish(ctx, domain.EventTokenRefreshed, sessionID, refreshed.User.ID)
}

// Save persists a provider session for sessionID.
func (r *Registry) Save(ctx context.Context, sessionID string, sess *domain.ProviderSession) error {
	return r.cfg.Sessions.Save(ctx, sessionID, sess, r.cfg.SessionTTL)
}

func (r *Registry) publish(ctx context.Context, t domain.AuthEventType, sessionID, userID string) error {
	if r.cfg.Bus == nil {
		return nil
	}
	return r.cfg.Bus.Publish(ctx, domain.AuthEvent{
		Type:      t,
		SessionID: sessionID,
		UserID:    userID,
		At:        r.now().UTC(),
	})
}

type refreshResult struct {
	sess    *domain.ProviderSession
	rotated bool
}

// refresh exchanges sess's refresh token. Callers racing on one session share
// a single provider call; rotated is true only for the caller that made it.
func (r *Registry) refresh(ctx context.Context, sessionID string, sess *domain.ProviderSession) (*domain.ProviderSession, bool, error) {
	leader := false
	v, err, _ := r.refreshes.Do(sessionID, func() (any, error) {
		leader = true
		return r.rotate(ctx, sessionID, sess)
	})
	if err != nil {
		return nil, false, err
	}
	res := v.(refreshResult)
	cp := *res.sess
	return &cp, leader && res.rotated, nil
}

func (r *Registry) rotate(ctx context.Context, sessionID string, sess *domain.ProviderSession) (refreshResult, error) {
	refreshed, err := r.cfg.Provider.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		var pe *domain.ProviderError
		if !errors.As(err, &pe) {
			return refreshResult{}, fmt.Errorf("refresh session: %w", err)
		}
		// A rejected token may only mean another request already rotated it.
		stored, findErr := r.cfg.Sessions.Find(ctx, sessionID)
		if findErr == nil && stored.RefreshToken != sess.RefreshToken {
			r.log.Debug().Str("session_id", sessionID).Msg("refresh token already rotated")
			return refreshResult{sess: stored}, nil
		}
		if findErr == nil || errors.Is(findErr, domain.ErrSessionNotFound) {
			_ = r.cfg.Sessions.Delete(ctx, sessionID)
		}
		return refreshResult{}, fmt.Errorf("refresh session: %w", domain.ErrNoSession)
	}
	if err := r.Save(ctx, sessionID, refreshed); err != nil {
		return refreshResult{}, fmt.Errorf("refresh session: save: %w", err)
	}
	r.log.Debug().Str("session_id", sessionID).Msg("provider session refreshed")
	return refreshResult{sess: refreshed, rotated: true}, nil
}

func (r *Registry) touch(e *registryEntry, now time.Time) {
	r.mu.Lock()
	e.lastSeen = now
	r.mu.Unlock()
}

// providerSession binds a browser session ID to the persisted provider session.
type providerSession struct {
	id  string
	reg *Registry
}

func (p *providerSession) Current(ctx context.Context) (*domain.ProviderSession, error) {
	r := p.reg
	sess, err := r.cfg.Sessions.Find(ctx, p.id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrNoSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	if sess.ExpiresWithin(r.now(), r.cfg.RefreshSkew) {
		if sess, _, err = r.refresh(ctx, p.id, sess); err != nil {
			return nil, err
		}
	}

	if r.cfg.Verifier != nil {
		user, err := r.cfg.Verifier.Verify(sess.AccessToken)
		if err != nil {
			_ = r.cfg.Sessions.Delete(ctx, p.id)
			return nil, fmt.Errorf("verify access token: %w: %w", domain.ErrNoSession, err)
		}
		sess.User.ID = user.ID
		if user.Email != "" {
			sess.User.Email = user.Email
		}
		if sess.User.Name == "" {
			sess.User.Name = user.Name
		}
		if sess.User.Role == "" {
			sess.User.Role = user.Role
		}
	}
	return sess, nil
}

func (p *providerSession) SignOut(ctx context.Context) error {
	r := p.reg
	sess, err := r.cfg.Sessions.Find(ctx, p.id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("load session: %w", err)
	}
	signOutErr := r.cfg.Provider.SignOut(ctx, sess.AccessToken)
	if err := r.cfg.Sessions.Delete(ctx, p.id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if signOutErr != nil {
		return fmt.Errorf("provider sign-out: %w", signOutErr)
	}
	return nil
}
