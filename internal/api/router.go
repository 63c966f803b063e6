package api

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/trackshift/arena-web/internal/api/handler"
	"github.com/trackshift/arena-web/internal/api/middleware"
	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/service"
	"github.com/trackshift/arena-web/internal/infrastructure/racews"
)

// Deps is everything the HTTP surface needs. It is assembled in
// cmd/arena-web and handed over whole.
type Deps struct {
	Log       zerolog.Logger
	Sessions  middleware.SessionRegistry
	Cookie    middleware.CookieConfig
	GuardWait time.Duration

	Auth       handler.AuthFlows
	Dashboard  *service.DashboardService
	Onboarding *service.OnboardingService
	RaceProxy  *racews.Proxy
	Health     []handler.DependencyCheck

	// BackendURL is the arena backend origin. With APIProxy set, /api/* is
	// forwarded there with the prefix stripped.
	BackendURL string
	APIProxy   bool

	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	reg := d.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "arena_web",
		Registerer: reg,
	}))

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewHealthDependenciesHandler(d.Health...).Readiness)

	if d.APIProxy {
		target, err := url.Parse(d.BackendURL)
		if err != nil {
			return nil, fmt.Errorf("api proxy target: %w", err)
		}
		e.Group("/api", echomiddleware.ProxyWithConfig(echomiddleware.ProxyConfig{
			Balancer: echomiddleware.NewRoundRobinBalancer([]*echomiddleware.ProxyTarget{{URL: target}}),
			Rewrite:  map[string]string{"/api/*": "/$1"},
		}))
	}

	// --- Dependencies ---
	sess := middleware.Session(d.Sessions, d.Cookie, d.Log)
	guardCfg := middleware.GuardConfig{Wait: d.GuardWait, Log: d.Log}
	publicOnly := middleware.PublicOnly(guardCfg)
	participant := middleware.RequireRole(domain.RoleParticipant)

	authHandler := handler.NewAuthHandler(d.Auth, d.GuardWait)
	onboardingHandler := handler.NewOnboardingHandler(d.Onboarding)
	dashboardHandler := handler.NewDashboardHandler(d.Dashboard, d.Onboarding)
	raceHandler := handler.NewRaceHandler(d.Dashboard, d.RaceProxy)

	// --- Public pages and auth ---
	e.GET(domain.PathLanding, authHandler.Landing, sess)
	e.GET(domain.PathLogin, authHandler.LoginPage, sess, publicOnly)
	e.POST(domain.PathLogin, authHandler.Login, sess, publicOnly)
	e.GET(domain.PathSignup, authHandler.SignupPage, sess, publicOnly)
	e.POST(domain.PathSignup, authHandler.Signup, sess, publicOnly)
	e.POST("/logout", authHandler.Logout, sess)
	e.GET("/session", authHandler.Session, sess)
	e.DELETE("/session/notice", authHandler.ClearNotice, sess)

	e.GET(domain.PathLegacy, func(c echo.Context) error {
		return c.Redirect(http.StatusMovedPermanently, domain.PathApp)
	})

	// --- Guarded app ---
	app := e.Group(domain.PathApp, sess, middleware.Guard(guardCfg))
	app.GET("", appHome)

	app.GET("/create-team", onboardingHandler.TeamPage)
	app.POST("/create-team", onboardingHandler.CreateTeam, participant)
	app.GET("/create-agents", onboardingHandler.AgentsPage)
	app.POST("/create-agents", onboardingHandler.AddAgent, participant)
	app.POST("/create-agents/finish", onboardingHandler.Finish, participant)

	app.GET("/team", dashboardHandler.Team)
	app.GET("/ai-lab", dashboardHandler.AILab)
	app.POST("/ai-lab/agents", onboardingHandler.AddAgent, participant)
	app.GET("/ai-lab/agents/:id", dashboardHandler.Agent)
	app.GET("/rooms", dashboardHandler.Rooms)
	app.POST("/rooms", dashboardHandler.CreateRoom, participant)
	app.GET("/rooms/:id", dashboardHandler.Room)
	app.POST("/rooms/:id/join", dashboardHandler.JoinRoom, participant)
	app.GET("/leaderboard", dashboardHandler.Leaderboard)
	app.GET("/analytics", dashboardHandler.Analytics)
	app.GET("/teams", dashboardHandler.Teams)
	app.GET("/teams/:id", dashboardHandler.TeamDetail)
	app.GET("/settings", dashboardHandler.Settings)

	app.GET("/races/:id", raceHandler.Race)
	app.GET("/races/:id/telemetry", raceHandler.Telemetry)
	app.DELETE("/races/:id/telemetry", raceHandler.ClearTelemetry, participant)
	app.POST("/races/:id/stop", raceHandler.Stop, participant)

	app.GET("/spectator", dashboardHandler.Spectator)
	app.GET("/spectator/races/:id", raceHandler.Race)
	app.GET("/spectator/races/:id/telemetry", raceHandler.Telemetry)

	// --- Live race socket ---
	e.GET("/ws/race/:id", raceHandler.Socket, sess, middleware.RequireSession(d.GuardWait))

	return e, nil
}

// appHome sends /app to the role's home. The guard normally redirects first.
func appHome(c echo.Context) error {
	role := domain.RoleSpectator
	if store := middleware.StoreOf(c); store != nil {
		role = store.Snapshot().Profile.Role
	}
	return c.Redirect(http.StatusSeeOther, domain.HomePath(role))
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	log = log.With().Str("component", "http").Logger()
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
