package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/service"
)

const (
	ctxSessionID = "session_id"
	ctxStore     = "auth_store"
	ctxCookie    = "session_cookie"

	defaultCookieName = "arena_sid"
)

// SessionRegistry hands out the per-browser-session stores.
type SessionRegistry interface {
	Store(sessionID string) *service.Store
	RefreshIfNeeded(ctx context.Context, sessionID string) error
}

type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Session binds the request to a browser session: it issues the session
// cookie when missing, refreshes provider tokens that are about to expire,
// and puts the session's store on the context.
func Session(reg SessionRegistry, cfg CookieConfig, log zerolog.Logger) echo.MiddlewareFunc {
	if cfg.Name == "" {
		cfg.Name = defaultCookieName
	}
	log = log.With().Str("component", "session_middleware").Logger()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(cfg.Name); err == nil {
				if _, perr := uuid.Parse(ck.Value); perr == nil {
					sid = ck.Value
				}
			}
			if sid == "" {
				sid = uuid.NewString()
			}
			// Re-issued every request so the expiry slides.
			c.Set(ctxCookie, cfg)
			setCookie(c, cfg, sid)

			if err := reg.RefreshIfNeeded(c.Request().Context(), sid); err != nil && !errors.Is(err, domain.ErrNoSession) {
				log.Warn().Err(err).Str("session_id", sid).Msg("token refresh failed")
			}

			Bind(c, sid, reg.Store(sid))
			return next(c)
		}
	}
}

// Reissue moves the request onto a new browser session, as after sign-in:
// the cookie is rewritten and the new store is bound for the rest of the
// request.
func Reissue(c echo.Context, sessionID string, store *service.Store) {
	cfg, ok := c.Get(ctxCookie).(CookieConfig)
	if !ok {
		cfg = CookieConfig{Name: defaultCookieName}
	}
	setCookie(c, cfg, sessionID)
	Bind(c, sessionID, store)
}

func setCookie(c echo.Context, cfg CookieConfig, sid string) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.Name,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Bind attaches a browser session and its store to the request.
func Bind(c echo.Context, sessionID string, store *service.Store) {
	c.Set(ctxSessionID, sessionID)
	c.Set(ctxStore, store)
}

// SessionID returns the browser session bound by Session.
func SessionID(c echo.Context) string {
	sid, _ := c.Get(ctxSessionID).(string)
	return sid
}

// StoreOf returns the session's store, or nil outside Session.
func StoreOf(c echo.Context) *service.Store {
	st, _ := c.Get(ctxStore).(*service.Store)
	return st
}

// LoadedState returns a settled snapshot: it waits up to wait for an
// in-flight fetch and runs the first fetch itself when nothing has loaded.
func LoadedState(ctx context.Context, store *service.Store, wait time.Duration) domain.AuthState {
	st := store.Snapshot()
	if st.Loading {
		wctx, cancel := context.WithTimeout(ctx, wait)
		st, _ = store.WaitLoaded(wctx)
		cancel()
	}
	if !st.HasLoaded && !st.Loading {
		store.FetchProfile(ctx)
		st = store.Snapshot()
	}
	return st
}
