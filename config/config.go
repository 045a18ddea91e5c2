// Package config loads service settings from the environment, with an
// optional .env file for local runs.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) IsProduction() bool {
	return e == Production
}

type Redis struct {
	URL          string `envconfig:"REDIS_URL"`
	ReadTimeout  int    `envconfig:"REDIS_READ_TIMEOUT" default:"3"`
	WriteTimeout int    `envconfig:"REDIS_WRITE_TIMEOUT" default:"3"`
	DialTimeout  int    `envconfig:"REDIS_DIAL_TIMEOUT" default:"5"`
}

type Database struct {
	Driver string `envconfig:"DB_DRIVER" default:"postgres"`
	URL    string `envconfig:"DATABASE_URL"`
}

type Admin struct {
	Username     string        `envconfig:"ADMIN_USERNAME" default:"admin"`
	PasswordHash string        `envconfig:"ADMIN_PASSWORD_HASH"`
	SessionTTL   time.Duration `envconfig:"ADMIN_SESSION_TTL" default:"30m"`
}

type Delivery struct {
	Charge          string `envconfig:"DELIVERY_CHARGE" default:"60"`
	FreeFromTotal   string `envconfig:"FREE_DELIVERY_MIN" default:"1500"`
	charge, freeMin decimal.Decimal
}

func (d Delivery) ChargeAmount() decimal.Decimal { return d.charge }

// FreeFrom is the subtotal at which delivery is waived. Zero disables it.
func (d Delivery) FreeFrom() decimal.Decimal { return d.freeMin }

type Tracing struct {
	Endpoint    string  `envconfig:"OTEL_ENDPOINT"`
	SampleRatio float64 `envconfig:"OTEL_SAMPLE_RATIO" default:"1"`
}

type Config struct {
	Env           Environment   `envconfig:"APP_ENV" default:"development"`
	HTTPAddr      string        `envconfig:"HTTP_ADDR" default:":8080"`
	CartTTL       time.Duration `envconfig:"CART_TTL" default:"24h"`
	CartCacheSize int           `envconfig:"CART_CACHE_SIZE" default:"10000"`

	Database Database
	Redis    Redis
	Admin    Admin
	Delivery Delivery
	Tracing  Tracing
}

// Load reads .env when present and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: no .env loaded: %v", err)
	}
	return FromEnv()
}

// FromEnv processes the environment without touching .env.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Delivery.parse(); err != nil {
		return Config{}, err
	}
	switch cfg.Database.Driver {
	case "postgres", "sqlite3", "memory":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER %q: want postgres, sqlite3 or memory", cfg.Database.Driver)
	}
	if cfg.Database.Driver != "memory" && cfg.Database.URL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required for driver %s", cfg.Database.Driver)
	}
	return cfg, nil
}

func (d *Delivery) parse() (err error) {
	if d.charge, err = decimal.NewFromString(d.Charge); err != nil {
		return fmt.Errorf("DELIVERY_CHARGE: %w", err)
	}
	if d.freeMin, err = decimal.NewFromString(d.FreeFromTotal); err != nil {
		return fmt.Errorf("FREE_DELIVERY_MIN: %w", err)
	}
	return nil
}

// NewDelivery builds delivery settings directly, for tests and tools.
func NewDelivery(charge, freeFrom decimal.Decimal) Delivery {
	return Delivery{Charge: charge.String(), FreeFromTotal: freeFrom.String(), charge: charge, freeMin: freeFrom}
}
