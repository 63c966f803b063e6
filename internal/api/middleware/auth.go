package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// RequireSession rejects requests without a signed-in session with 401. It
// is for JSON actions and sockets, where a redirect is not useful.
func RequireSession(wait time.Duration) echo.MiddlewareFunc {
	if wait <= 0 {
		wait = defaultGuardWait
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store := StoreOf(c)
			if store == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
			}
			st := LoadedState(c.Request().Context(), store, wait)
			if st.Session == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
			}
			return next(c)
		}
	}
}
