package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trackshift/arena-web/internal/core/service"
	"github.com/trackshift/arena-web/internal/infrastructure/racews"
)

// RaceHandler serves race views, telemetry and the live race socket.
type RaceHandler struct {
	views *service.DashboardService
	proxy *racews.Proxy
}

func NewRaceHandler(views *service.DashboardService, proxy *racews.Proxy) *RaceHandler {
	return &RaceHandler{views: views, proxy: proxy}
}

// Race shows a race, its leaderboard, and the socket to follow it live.
//
// @Summary      Race
// @Tags         races
// @Produce      json
// @Param        id   path      string  true  "Race ID"
// @Success      200  {object}  raceView
// @Failure      404  {object}  errorResponse
// @Router       /app/races/{id} [get]
func (h *RaceHandler) Race(c echo.Context) error {
	_, st, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	race, board, err := h.views.Race(c.Request().Context(), st.Session.AccessToken, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, raceView{
		Race:        race,
		Leaderboard: board,
		// The BFF socket authenticates by cookie; no token in the URL.
		SocketURL: racews.RaceURL(c.Request().Host, id, "", c.IsTLS()),
	})
}

// Telemetry returns the latest cached frames.
//
// @Summary      Latest telemetry
// @Tags         races
// @Produce      json
// @Param        id   path      string  true  "Race ID"
// @Success      200  {object}  telemetryView
// @Router       /app/races/{id}/telemetry [get]
func (h *RaceHandler) Telemetry(c echo.Context) error {
	_, st, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	frames, err := h.views.Telemetry(c.Request().Context(), st.Session.AccessToken, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, telemetryView{RaceID: id, Count: len(frames), Frames: frames})
}

// ClearTelemetry drops the backend's telemetry cache for a race.
//
// @Summary      Clear telemetry cache
// @Tags         races
// @Param        id   path  string  true  "Race ID"
// @Success      204
// @Router       /app/races/{id}/telemetry [delete]
func (h *RaceHandler) ClearTelemetry(c echo.Context) error {
	_, st, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	if err := h.views.ClearTelemetry(c.Request().Context(), st.Session.AccessToken, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Stop ends a running race.
//
// @Summary      Stop race
// @Tags         races
// @Param        id   path  string  true  "Race ID"
// @Success      204
// @Router       /app/races/{id}/stop [post]
func (h *RaceHandler) Stop(c echo.Context) error {
	_, st, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	if err := h.views.StopRace(c.Request().Context(), st.Session.AccessToken, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Socket relays the live race stream using the session's access token.
func (h *RaceHandler) Socket(c echo.Context) error {
	_, st, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	h.proxy.Handler(c.Request().Context(), c.Param("id"), st.Session.AccessToken).ServeHTTP(c.Response(), c.Request())
	return nil
}
