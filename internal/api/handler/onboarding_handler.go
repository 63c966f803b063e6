package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/service"
)

// OnboardingHandler serves team and agent creation.
type OnboardingHandler struct {
	svc *service.OnboardingService
}

func NewOnboardingHandler(svc *service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{svc: svc}
}

// TeamPage renders the create-team step.
//
// @Summary      Create-team step
// @Tags         onboarding
// @Produce      json
// @Success      200  {object}  onboardingTeamView
// @Router       /app/create-team [get]
func (h *OnboardingHandler) TeamPage(c echo.Context) error {
	_, st, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, onboardingTeamView{User: *st.Session, Notice: st.Notice})
}

// CreateTeam creates the participant's team.
//
// @Summary      Create team
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        body  body      createTeamRequest  true  "Team"
// @Success      201   {object}  formResponse
// @Failure      422   {object}  formResponse
// @Router       /app/create-team [post]
func (h *OnboardingHandler) CreateTeam(c echo.Context) error {
	store, _, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	var req createTeamRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	team, err := h.svc.CreateTeam(c.Request().Context(), store, domain.CreateTeamInput{
		Name: req.Name, Slug: req.Slug, Color: req.Color, Bio: req.Bio,
	})
	if err != nil {
		return formError(c, store, err)
	}
	return c.JSON(http.StatusCreated, formResponse{Redirect: domain.PathCreateAgents, Data: team})
}

// AgentsPage renders the create-agents step.
//
// @Summary      Create-agents step
// @Tags         onboarding
// @Produce      json
// @Success      200  {object}  onboardingAgentsView
// @Router       /app/create-agents [get]
func (h *OnboardingHandler) AgentsPage(c echo.Context) error {
	store, st, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	agents, err := h.svc.Agents(c.Request().Context(), store)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, onboardingAgentsView{
		Agents:        agents,
		MaxAgents:     domain.MaxAgentsPerTeam,
		Personalities: service.Personalities,
		CanFinish:     len(agents) > 0,
		Notice:        st.Notice,
	})
}

// AddAgent registers an agent for the team. It serves both the onboarding
// step and the AI lab, where the second agent is added.
//
// @Summary      Add agent
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        body  body      createAgentRequest  true  "Agent"
// @Success      201   {object}  formResponse
// @Failure      422   {object}  formResponse
// @Router       /app/create-agents [post]
func (h *OnboardingHandler) AddAgent(c echo.Context) error {
	store, _, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	var req createAgentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	agent, err := h.svc.AddAgent(c.Request().Context(), store, req.Name, req.Personality)
	if err != nil {
		return formError(c, store, err)
	}
	return c.JSON(http.StatusCreated, formResponse{Data: agent})
}

// Finish leaves onboarding once the team has an agent.
//
// @Summary      Finish onboarding
// @Tags         onboarding
// @Produce      json
// @Success      200  {object}  formResponse
// @Failure      422  {object}  formResponse
// @Router       /app/create-agents/finish [post]
func (h *OnboardingHandler) Finish(c echo.Context) error {
	store, _, err := ctxSignedIn(c)
	if err != nil {
		return err
	}
	if err := h.svc.Finish(c.Request().Context(), store); err != nil {
		return formError(c, store, err)
	}
	return c.JSON(http.StatusOK, formResponse{Redirect: domain.PathDashboard})
}

// formError reports a submission failure inline. Non-form errors go to the
// central error handler.
func formError(c echo.Context, store *service.Store, err error) error {
	var fe *domain.FormError
	if !errors.As(err, &fe) {
		return err
	}
	store.SetError(fe.Message)
	return c.JSON(http.StatusUnprocessableEntity, formResponse{Notice: store.Snapshot().Notice})
}
