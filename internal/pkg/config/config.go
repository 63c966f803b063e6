package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// APIProxy serves /api/* by forwarding to the backend with the prefix
	// stripped, for local development behind a single origin.
	APIProxy   bool   `env:"API_PROXY,   default=false"`
	BackendURL string `env:"BACKEND_URL, default=http://localhost:8000"`

	Session SessionConfig
	Auth    AuthConfig
	Profile ProfileConfig
	Events  EventsConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	Cookie    string        `env:"SESSION_COOKIE,    default=arena_sid"`
	TTL       time.Duration `env:"SESSION_TTL,       default=720h"`
	Secure    bool          `env:"COOKIE_SECURE,     default=false"`
	IdleSweep time.Duration `env:"SESSION_IDLE,      default=2h"`
	GuardWait time.Duration `env:"GUARD_WAIT,        default=5s"`
}

type AuthConfig struct {
	URL         string        `env:"AUTH_URL"`
	AnonKey     string        `env:"AUTH_ANON_KEY"`
	JWTSecret   string        `env:"AUTH_JWT_SECRET"`
	JWTAudience string        `env:"AUTH_JWT_AUDIENCE, default=authenticated"`
	RefreshSkew time.Duration `env:"AUTH_REFRESH_SKEW, default=1m"`
}

type ProfileConfig struct {
	// Source is "postgres" to query the arena tables directly or "backend"
	// to go through the REST API.
	Source      string        `env:"PROFILE_SOURCE,  default=backend"`
	Timeout     time.Duration `env:"PROFILE_TIMEOUT, default=10s"`
	DatabaseURL string        `env:"DATABASE_URL"`
}

type EventsConfig struct {
	// Bus is "local" for a single instance or "redis" to fan out across
	// instances.
	Bus     string `env:"EVENT_BUS,     default=local"`
	Channel string `env:"EVENT_CHANNEL, default=arena:auth-events"`
	Workers int    `env:"EVENT_WORKERS, default=8"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=arena_web"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Development reports whether ENV selects local development.
func (c *Config) Development() bool {
	return c.Env == "development" || c.Env == "dev" || c.Env == "local"
}

// Validate checks the combinations envconfig cannot express.
func (c *Config) Validate() error {
	if c.Auth.URL == "" {
		return fmt.Errorf("config: AUTH_URL is required")
	}
	switch c.Profile.Source {
	case "backend":
	case "postgres":
		if c.Profile.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required when PROFILE_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("config: PROFILE_SOURCE must be postgres or backend, got %q", c.Profile.Source)
	}
	switch c.Events.Bus {
	case "local", "redis":
	default:
		return fmt.Errorf("config: EVENT_BUS must be local or redis, got %q", c.Events.Bus)
	}
	return nil
}

// Load reads configuration from the environment.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
