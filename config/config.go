package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string `env:"DATABASE_URL"`

	// Currency configuration
	CurrencySingular string `env:"CURRENCY_SINGULAR" envDefault:"Credit"`
	CurrencyPlural   string `env:"CURRENCY_PLURAL" envDefault:"Credits"`
	CurrencyDecimals int32  `env:"CURRENCY_DECIMALS" envDefault:"2"`

	// Duel configuration
	DuelTimeout time.Duration `env:"DUEL_TIMEOUT" envDefault:"60s"`

	// Dice configuration
	MaxRolls     int           `env:"MAX_ROLLS" envDefault:"20"`
	MaxSides     int           `env:"MAX_SIDES" envDefault:"120"`
	RollCooldown time.Duration `env:"ROLL_COOLDOWN" envDefault:"10s"`

	// Environment: "development", "production", or "test"
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from the environment, reading a .env file first
// if one is present
func load() (*Config, error) {
	// Missing .env is fine; real deployments set environment variables
	_ = godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
