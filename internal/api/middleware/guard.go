package middleware

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/pkg/metrics"
)

const defaultGuardWait = 5 * time.Second

type GuardConfig struct {
	// Wait bounds how long a request waits for an in-flight profile fetch.
	Wait time.Duration
	Log  zerolog.Logger
}

type checkingResponse struct {
	State domain.GuardState `json:"state"`
}

// Guard protects the /app area. Redirects to /login carry the requested
// path in a from parameter so the login page can send the user back.
func Guard(cfg GuardConfig) echo.MiddlewareFunc {
	if cfg.Wait <= 0 {
		cfg.Wait = defaultGuardWait
	}
	log := cfg.Log.With().Str("component", "route_guard").Logger()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store := StoreOf(c)
			if store == nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session middleware missing")
			}
			path := c.Request().URL.Path
			st := LoadedState(c.Request().Context(), store, cfg.Wait)
			d := domain.Decide(st, path)
			metrics.GuardDecisionsTotal.WithLabelValues(string(d.State), string(d.Action)).Inc()

			switch d.Action {
			case domain.ActionWait:
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusAccepted, checkingResponse{State: d.State})
			case domain.ActionRedirect:
				target := d.Target
				if target == domain.PathLogin {
					target += "?" + url.Values{"from": {path}}.Encode()
				}
				log.Debug().Str("path", path).Str("state", string(d.State)).Str("target", target).Msg("guard redirect")
				return c.Redirect(http.StatusSeeOther, target)
			}
			return next(c)
		}
	}
}

// PublicOnly keeps signed-in users off the login and signup pages.
func PublicOnly(cfg GuardConfig) echo.MiddlewareFunc {
	if cfg.Wait <= 0 {
		cfg.Wait = defaultGuardWait
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store := StoreOf(c)
			if store == nil {
				return next(c)
			}
			st := LoadedState(c.Request().Context(), store, cfg.Wait)
			d := domain.DecidePublic(st)
			metrics.GuardDecisionsTotal.WithLabelValues(string(d.State), string(d.Action)).Inc()
			if d.Action == domain.ActionRedirect {
				return c.Redirect(http.StatusSeeOther, d.Target)
			}
			return next(c)
		}
	}
}
