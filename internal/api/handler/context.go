package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trackshift/arena-web/internal/api/middleware"
	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/service"
)

// ctxSession returns the browser session bound by the Session middleware.
// Missing either part means the route was wired without it.
func ctxSession(c echo.Context) (string, *service.Store, error) {
	sid := middleware.SessionID(c)
	store := middleware.StoreOf(c)
	if sid == "" || store == nil {
		return "", nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return sid, store, nil
}

// ctxSignedIn is ctxSession plus the current snapshot, rejecting anonymous
// callers.
func ctxSignedIn(c echo.Context) (*service.Store, domain.AuthState, error) {
	_, store, err := ctxSession(c)
	if err != nil {
		return nil, domain.AuthState{}, err
	}
	st := store.Snapshot()
	if st.Session == nil {
		return nil, st, domain.ErrNoSession
	}
	return store, st, nil
}

// localPath accepts only same-origin absolute paths, so a from parameter
// cannot bounce the user to another site.
func localPath(p, fallback string) string {
	if len(p) == 0 || p[0] != '/' || (len(p) > 1 && (p[1] == '/' || p[1] == '\\')) {
		return fallback
	}
	return p
}
