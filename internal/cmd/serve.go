package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	_ "github.com/trackshift/arena-web/docs"
	"github.com/trackshift/arena-web/internal/api"
	"github.com/trackshift/arena-web/internal/api/handler"
	"github.com/trackshift/arena-web/internal/api/middleware"
	"github.com/trackshift/arena-web/internal/core/ports"
	"github.com/trackshift/arena-web/internal/core/service"
	"github.com/trackshift/arena-web/internal/infrastructure/arena"
	"github.com/trackshift/arena-web/internal/infrastructure/auth/gotrue"
	"github.com/trackshift/arena-web/internal/infrastructure/auth/token"
	mongodb "github.com/trackshift/arena-web/internal/infrastructure/db/mongo"
	"github.com/trackshift/arena-web/internal/infrastructure/db/postgres"
	redisdb "github.com/trackshift/arena-web/internal/infrastructure/db/redis"
	"github.com/trackshift/arena-web/internal/infrastructure/profile"
	"github.com/trackshift/arena-web/internal/infrastructure/queue"
	"github.com/trackshift/arena-web/internal/infrastructure/racews"
	"github.com/trackshift/arena-web/internal/pkg/config"
	"github.com/trackshift/arena-web/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web tier",
	Long: `Start the HTTP server. Configuration comes from the environment (see
.env.example); a dotenv file named by --env-file is applied first.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "arena-web",
	})

	// --- Backing services ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	checks := []handler.DependencyCheck{handler.RedisCheck(rdb)}

	var audit ports.AuditRepository
	if cfg.Mongo.URI != "" {
		mclient, mdb, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mclient.Disconnect(dctx)
		}()
		repo := mongodb.NewAuditRepository(mdb)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("could not ensure audit indexes")
		}
		audit = repo
		checks = append(checks, handler.MongoCheck(mdb))
	} else {
		log.Info().Msg("MONGO_URI not set, auth audit disabled")
	}

	backend := arena.NewClient(cfg.BackendURL, nil)

	var profiles ports.ProfileSource = profile.NewBackendSource(backend)
	if cfg.Profile.Source == "postgres" {
		pool, err := postgres.Connect(ctx, cfg.Profile.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		profiles = postgres.NewProfileRepository(pool)
		checks = append(checks, handler.PostgresCheck(pool))
	}

	// --- Auth events ---
	var (
		bus      ports.AuthEventBus
		redisBus *redisdb.EventBus
	)
	if cfg.Events.Bus == "redis" {
		redisBus = redisdb.NewEventBus(rdb, cfg.Events.Channel, log)
		bus = redisBus
	} else {
		bus = service.NewLocalBus()
	}

	var verifier ports.TokenVerifier
	if cfg.Auth.JWTSecret != "" {
		verifier = token.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTAudience)
	} else {
		log.Warn().Msg("AUTH_JWT_SECRET not set, access tokens are not verified locally")
	}

	provider := gotrue.NewClient(cfg.Auth.URL, cfg.Auth.AnonKey, nil)
	reg := service.NewRegistry(service.RegistryConfig{
		Sessions:    redisdb.NewSessionRepository(rdb),
		Provider:    provider,
		Verifier:    verifier,
		Profiles:    profiles,
		Bus:         bus,
		RefreshSkew: cfg.Auth.RefreshSkew,
		SessionTTL:  cfg.Session.TTL,
		Log:         log,
	})

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	dispatcher := queue.NewDispatcher(cfg.Events.Workers, service.NewBridge(reg, cfg.Profile.Timeout, log), log)
	dispatcher.Start(workerCtx)
	unsubscribe := bus.Subscribe(dispatcher.Enqueue)

	busDone := make(chan struct{})
	go func() {
		defer close(busDone)
		if redisBus == nil {
			return
		}
		if err := redisBus.Run(workerCtx); err != nil {
			log.Error().Err(err).Msg("auth event bus stopped")
		}
	}()
	go sweepSessions(workerCtx, reg, cfg.Session.IdleSweep, log)

	// --- HTTP ---
	e, err := api.NewRouter(api.Deps{
		Log:        log,
		Sessions:   reg,
		Cookie:     middleware.CookieConfig{Name: cfg.Session.Cookie, TTL: cfg.Session.TTL, Secure: cfg.Session.Secure},
		GuardWait:  cfg.Session.GuardWait,
		Auth:       service.NewAuthService(reg, provider, audit, log),
		Dashboard:  service.NewDashboardService(backend, log),
		Onboarding: service.NewOnboardingService(backend, log),
		RaceProxy:  racews.NewProxy(cfg.BackendURL, log),
		Health:     checks,
		BackendURL: cfg.BackendURL,
		APIProxy:   cfg.APIProxy,
	})
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("profile_source", cfg.Profile.Source).
			Str("event_bus", cfg.Events.Bus).
			Bool("api_proxy", cfg.APIProxy).
			Msg("arena-web listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	// Stop taking requests first, then drain events, then drop the stores.
	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	unsubscribe()
	stopWorkers()
	dispatcher.Wait()
	<-busDone
	reg.Close()
	log.Info().Msg("stopped")
	return nil
}

// sweepSessions drops stores idle for longer than idle, checking at a
// quarter of that interval.
func sweepSessions(ctx context.Context, reg *service.Registry, idle time.Duration, log zerolog.Logger) {
	if idle <= 0 {
		return
	}
	t := time.NewTicker(idle / 4)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := reg.Sweep(idle); n > 0 {
				log.Debug().Int("dropped", n).Int("remaining", reg.Len()).Msg("idle sessions swept")
			}
		}
	}
}
