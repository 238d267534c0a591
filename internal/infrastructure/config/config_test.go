package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   secret,
		"DATABASE_URL": "postgres://localhost/catalog",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Store.Driver != DriverPostgres {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWT.TTL() != 2*time.Hour {
		t.Fatalf("expected 2h token lifetime, got %s", cfg.JWT.TTL())
	}
	if cfg.Lockout.MaxAttempts != 5 || cfg.Lockout.Duration != 5*time.Minute {
		t.Fatalf("unexpected lockout defaults: %+v", cfg.Lockout)
	}
	if len(cfg.Events.KafkaBrokers) != 0 || cfg.Events.Workers != 4 {
		t.Fatalf("unexpected events defaults: %+v", cfg.Events)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":        secret,
		"JWT_EXPIRES_HOURS": "8",
		"STORE_DRIVER":      " Mongo ",
		"KAFKA_BROKERS":     "k1:9092,k2:9092",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Driver != DriverMongo {
		t.Fatalf("expected mongo driver, got %q", cfg.Store.Driver)
	}
	if cfg.JWT.TTL() != 8*time.Hour {
		t.Fatalf("expected 8h, got %s", cfg.JWT.TTL())
	}
	if len(cfg.Events.KafkaBrokers) != 2 {
		t.Fatalf("expected two brokers, got %v", cfg.Events.KafkaBrokers)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"short secret":    {"JWT_SECRET": "short", "DATABASE_URL": "x"},
		"missing dsn":     {"JWT_SECRET": secret},
		"unknown driver":  {"JWT_SECRET": secret, "STORE_DRIVER": "oracle"},
		"half admin seed": {"JWT_SECRET": secret, "DATABASE_URL": "x", "ADMIN_EMAIL": "root@example.com"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := load(context.Background(), envconfig.MapLookuper(env))
			if err == nil || !strings.HasPrefix(err.Error(), "config:") {
				t.Fatalf("expected config error, got %v", err)
			}
		})
	}
}
