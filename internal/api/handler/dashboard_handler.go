package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/service"
)

// DashboardHandler serves the participant and spectator areas.
type DashboardHandler struct {
	views      *service.DashboardService
	onboarding *service.OnboardingService
}

func NewDashboardHandler(views *service.DashboardService, onboarding *service.OnboardingService) *DashboardHandler {
	return &DashboardHandler{views: views, onboarding: onboarding}
}

// Team renders the participant dashboard. Panels that fail to load come
// back offline rather than failing the page.
//
// @Summary      Participant dashboard
// @Tags         participant
// @Produce      json
// @Success      200  {object}  service.ParticipantDashboard
// @Router       /app/team [get]
func (h *DashboardHandler) Team(c echo.Context) error {
	_, st, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	view, err := h.views.Participant(c.Request().Context(), st)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Spectator renders the spectator dashboard.
//
// @Summary      Spectator dashboard
// @Tags         spectator
// @Produce      json
// @Success      200  {object}  service.SpectatorDashboard
// @Router       /app/spectator [get]
func (h *DashboardHandler) Spectator(c echo.Context) error {
	_, st, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	view, err := h.views.Spectator(c.Request().Context(), st.Session.AccessToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Rooms lists room lobbies with the limits the create form needs.
//
// @Summary      Rooms
// @Tags         participant
// @Produce      json
// @Success      200  {object}  roomsView
// @Router       /app/rooms [get]
func (h *DashboardHandler) Rooms(c echo.Context) error {
	_, st, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roomsView{
		Rooms:      h.views.Rooms(c.Request().Context(), st.Session.AccessToken),
		Circuits:   domain.Circuits,
		MinPlayers: domain.MinRoomPlayers,
		MaxPlayers: domain.MaxRoomPlayers,
		Default:    domain.DefaultRoomPlayers,
	})
}

// CreateRoom opens a new lobby.
//
// @Summary      Create room
// @Tags         participant
// @Accept       json
// @Produce      json
// @Param        body  body      createRoomRequest  true  "Room"
// @Success      201   {object}  formResponse
// @Failure      422   {object}  formResponse
// @Router       /app/rooms [post]
func (h *DashboardHandler) CreateRoom(c echo.Context) error {
	store, _, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	var req createRoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	room, err := h.onboarding.CreateRoom(c.Request().Context(), store, domain.CreateRoomInput{
		Name:       req.Name,
		CircuitID:  req.CircuitID,
		MaxPlayers: req.MaxPlayers,
		IsPrivate:  req.IsPrivate,
	})
	if err != nil {
		return formError(c, store, err)
	}
	return c.JSON(http.StatusCreated, formResponse{Data: room})
}

// Room shows one lobby.
//
// @Summary      Room
// @Tags         participant
// @Produce      json
// @Param        id   path      string  true  "Room ID"
// @Success      200  {object}  domain.Room
// @Failure      404  {object}  errorResponse
// @Router       /app/rooms/{id} [get]
func (h *DashboardHandler) Room(c echo.Context) error {
	_, st, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	room, err := h.views.Room(c.Request().Context(), st.Session.AccessToken, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, room)
}

// JoinRoom enters a lobby with one of the team's agents.
//
// @Summary      Join room
// @Tags         participant
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Room ID"
// @Param        body  body      joinRoomRequest  true  "Agent"
// @Success      200   {object}  formResponse
// @Failure      422   {object}  formResponse
// @Router       /app/rooms/{id}/join [post]
func (h *DashboardHandler) JoinRoom(c echo.Context) error {
	store, _, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	var req joinRoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	res, err := h.onboarding.JoinRoom(c.Request().Context(), store, c.Param("id"), req.AgentID)
	if err != nil {
		return formError(c, store, err)
	}
	return c.JSON(http.StatusOK, formResponse{Data: res})
}

// AILab lists the team's agents.
//
// @Summary      AI lab
// @Tags         participant
// @Produce      json
// @Success      200  {object}  pageView
// @Router       /app/ai-lab [get]
func (h *DashboardHandler) AILab(c echo.Context) error {
	_, st, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	agents := h.views.Agents(c.Request().Context(), st.Session.AccessToken)
	return c.JSON(http.StatusOK, pageView{
		Title:  "AI Lab",
		User:   *st.Session,
		Agents: &agents,
		ComingSoon: []comingSoon{
			{Title: "Strategy Tuning", Desc: "Fine-grained control over agent behaviour is on the way."},
		},
	})
}

// page renders the participant pages that only need the user and team.
func (h *DashboardHandler) page(c echo.Context, title string, soon ...comingSoon) error {
	_, st, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	team := h.views.Team(c.Request().Context(), st.Session.AccessToken)
	return c.JSON(http.StatusOK, pageView{
		Title:      title,
		User:       *st.Session,
		Team:       &team,
		ComingSoon: soon,
	})
}

// @Summary      Leaderboard
// @Tags         participant
// @Produce      json
// @Success      200  {object}  pageView
// @Router       /app/leaderboard [get]
func (h *DashboardHandler) Leaderboard(c echo.Context) error {
	return h.page(c, "Global Leaderboard",
		comingSoon{Title: "Season Standings", Desc: "Points across all finished races will be available here."})
}

// @Summary      Analytics
// @Tags         participant
// @Produce      json
// @Success      200  {object}  pageView
// @Router       /app/analytics [get]
func (h *DashboardHandler) Analytics(c echo.Context) error {
	return h.page(c, "Race Analytics",
		comingSoon{Title: "Telemetry Graph", Desc: "Full lap-by-lap telemetry data will be available here."})
}

// @Summary      Teams
// @Tags         participant
// @Produce      json
// @Success      200  {object}  pageView
// @Router       /app/teams [get]
func (h *DashboardHandler) Teams(c echo.Context) error {
	return h.page(c, "Teams",
		comingSoon{Title: "Team Directory", Desc: "Browse and search the other teams."})
}

// TeamDetail shows one team from the directory.
//
// @Summary      Team detail
// @Tags         participant
// @Produce      json
// @Param        id   path      string  true  "Team ID"
// @Success      200  {object}  domain.Team
// @Failure      404  {object}  errorResponse
// @Router       /app/teams/{id} [get]
func (h *DashboardHandler) TeamDetail(c echo.Context) error {
	_, st, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	team, err := h.views.TeamByID(c.Request().Context(), st.Session.AccessToken, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, team)
}

// @Summary      Agent detail
// @Tags         participant
// @Produce      json
// @Param        id   path      string  true  "Agent ID"
// @Success      200  {object}  domain.Agent
// @Failure      404  {object}  errorResponse
// @Router       /app/ai-lab/agents/{id} [get]
func (h *DashboardHandler) Agent(c echo.Context) error {
	_, st, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	agent, err := h.views.AgentByID(c.Request().Context(), st.Session.AccessToken, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, agent)
}

// @Summary      Settings
// @Tags         participant
// @Produce      json
// @Success      200  {object}  pageView
// @Router       /app/settings [get]
func (h *DashboardHandler) Settings(c echo.Context) error {
	return h.page(c, "Settings")
}
