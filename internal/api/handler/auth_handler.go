package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trackshift/arena-web/internal/api/middleware"
	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/ports"
	"github.com/trackshift/arena-web/internal/core/service"
)

// AuthFlows is the sign-in surface the auth pages drive.
type AuthFlows interface {
	// Login returns the browser session the user is now signed in under,
	// which is never the one passed in.
	Login(ctx context.Context, sessionID, email, password string) (string, *service.Store, error)
	Register(ctx context.Context, sessionID string, in ports.SignUpInput) error
	Logout(ctx context.Context, sessionID string) error
}

type AuthHandler struct {
	flows AuthFlows
	wait  time.Duration
}

// NewAuthHandler wires the auth pages. wait bounds how long /session waits
// for an in-flight profile fetch.
func NewAuthHandler(flows AuthFlows, wait time.Duration) *AuthHandler {
	return &AuthHandler{flows: flows, wait: wait}
}

// Landing renders the public home.
//
// @Summary      Landing page
// @Tags         pages
// @Produce      json
// @Success      200  {object}  landingView
// @Router       / [get]
func (h *AuthHandler) Landing(c echo.Context) error {
	_, store, err := ctxSession(c)
	if err != nil {
		return err
	}
	st := middleware.LoadedState(c.Request().Context(), store, h.wait)
	view := landingView{SignedIn: st.Session != nil, Home: domain.PathLogin}
	if view.SignedIn {
		view.Home = domain.PathApp
	}
	return c.JSON(http.StatusOK, view)
}

// LoginPage renders the sign-in form state.
//
// @Summary      Login page
// @Tags         auth
// @Produce      json
// @Param        from  query     string  false  "Path to return to after sign-in"
// @Success      200   {object}  authPageResponse
// @Success      303   {string}  string  "already signed in"
// @Router       /login [get]
func (h *AuthHandler) LoginPage(c echo.Context) error {
	_, store, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authPageResponse{
		Notice: store.Snapshot().Notice,
		From:   localPath(c.QueryParam("from"), ""),
	})
}

// SignupPage renders the registration form state.
//
// @Summary      Signup page
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authPageResponse
// @Success      303   {string}  string  "already signed in"
// @Router       /signup [get]
func (h *AuthHandler) SignupPage(c echo.Context) error {
	_, store, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authPageResponse{
		Notice: store.Snapshot().Notice,
		Roles:  []domain.Role{domain.RoleParticipant, domain.RoleSpectator},
	})
}

// Login signs in with email and password.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  formResponse
// @Failure      401   {object}  formResponse
// @Failure      403   {object}  formResponse
// @Failure      422   {object}  formResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	sid, store, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	newID, signedIn, err := h.flows.Login(c.Request().Context(), sid, req.Email, req.Password)
	if err != nil {
		return c.JSON(authStatus(err), formResponse{Notice: store.Snapshot().Notice})
	}
	middleware.Reissue(c, newID, signedIn)
	return c.JSON(http.StatusOK, formResponse{
		Notice:   signedIn.Snapshot().Notice,
		Redirect: localPath(req.From, domain.PathApp),
	})
}

// Signup registers a new account.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  formResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  formResponse
// @Failure      422   {object}  formResponse
// @Router       /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	sid, store, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	in := ports.SignUpInput{Name: req.Name, Email: req.Email, Password: req.Password, Role: domain.Role(req.Role)}
	if err := h.flows.Register(c.Request().Context(), sid, in); err != nil {
		return c.JSON(authStatus(err), formResponse{Notice: store.Snapshot().Notice})
	}
	return c.JSON(http.StatusCreated, formResponse{Notice: store.Snapshot().Notice, Redirect: domain.PathLogin})
}

// Logout ends the session. It always succeeds locally.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  formResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sid, _, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.flows.Logout(c.Request().Context(), sid); err != nil {
		c.Logger().Warnf("logout: %v", err)
	}
	return c.JSON(http.StatusOK, formResponse{Redirect: domain.PathLanding})
}

// Session reports the settled auth state for the browser session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	_, store, err := ctxSession(c)
	if err != nil {
		return err
	}
	st := middleware.LoadedState(c.Request().Context(), store, h.wait)
	return c.JSON(http.StatusOK, sessionResponse{
		State:      domain.Evaluate(st),
		Session:    st.Session,
		Profile:    st.Profile,
		Onboarding: st.Profile.Onboarding(),
		Notice:     st.Notice,
	})
}

// ClearNotice dismisses the pending notification.
//
// @Summary      Dismiss notice
// @Tags         auth
// @Success      204
// @Router       /session/notice [delete]
func (h *AuthHandler) ClearNotice(c echo.Context) error {
	_, store, err := ctxSession(c)
	if err != nil {
		return err
	}
	store.ClearMessages()
	return c.NoContent(http.StatusNoContent)
}

func authStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrEmailNotConfirmed):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
