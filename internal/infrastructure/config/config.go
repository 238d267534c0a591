package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

const minSecretLength = 32

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Store   StoreConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Lockout LockoutConfig
	Events  EventsConfig
	HTTP    HTTPConfig
	Admin   AdminConfig
}

type StoreConfig struct {
	Driver      string `env:"STORE_DRIVER,    default=postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE, default=true"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=catalog"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type JWTConfig struct {
	Secret       string `env:"JWT_SECRET"`
	Issuer       string `env:"JWT_ISSUER,        default=catalog-api"`
	Audience     string `env:"JWT_AUDIENCE,      default=catalog-clients"`
	ExpiresHours int    `env:"JWT_EXPIRES_HOURS, default=2"`
}

// TTL converts the configured hours into a duration.
func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpiresHours) * time.Hour
}

type LockoutConfig struct {
	MaxAttempts int           `env:"LOCKOUT_MAX_ATTEMPTS, default=5"`
	Duration    time.Duration `env:"LOCKOUT_DURATION,     default=5m"`
}

type EventsConfig struct {
	KafkaBrokers []string `env:"KAFKA_BROKERS"`
	KafkaTopic   string   `env:"KAFKA_TOPIC,   default=product-events"`
	Workers      int      `env:"EVENT_WORKERS, default=4"`
}

type HTTPConfig struct {
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE, default=60"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT,      default=10s"`
}

// AdminConfig seeds an administrator at startup when both fields are set.
type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if len(c.JWT.Secret) < minSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength))
	}
	if c.JWT.ExpiresHours <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_HOURS must be positive"))
	}

	switch c.Store.Driver {
	case DriverPostgres, DriverSQLite:
		if c.Store.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("DATABASE_URL is required for the %s driver", c.Store.Driver))
		}
	case DriverMongo:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}

	if (c.Admin.Email == "") != (c.Admin.Password == "") {
		errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
