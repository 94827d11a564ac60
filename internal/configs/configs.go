/*
Package configs is responsible for loading and parsing the application's configuration settings.

Settings come from operating system environment variables, optionally seeded from a .env
file in the working directory. They cover the running environment, the chat server URL,
the avatar URL template, the log destination, and the outbound queue and throttle.
*/
package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig contains all configuration parameters required for the client to run.
type AppConfig struct {
	// General Settings
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogFile     string `env:"LOG_FILE" envDefault:"roomchat.log"`

	// Server Settings
	ServerURL   string        `env:"SERVER_URL" envDefault:"ws://localhost:8080/chat"`
	DialTimeout time.Duration `env:"DIAL_TIMEOUT" envDefault:"10s"`

	// Rendering Settings
	AvatarURLTemplate string `env:"AVATAR_URL_TEMPLATE" envDefault:"https://avatars.dicebear.com/api/adventurer-neutral/%s.svg"`

	// Outbound Settings
	SendQueueSize int     `env:"SEND_QUEUE_SIZE" envDefault:"256"`
	SendRate      float64 `env:"SEND_RATE" envDefault:"5"`
	SendBurst     int     `env:"SEND_BURST" envDefault:"10"`
}

// IsDevelopment reports whether the client runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig reads .env (if present) and the environment, applies defaults, and validates the result.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the cross-field and range constraints env tags cannot express.
func (c *AppConfig) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid SERVER_URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("SERVER_URL must use ws or wss scheme, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("SERVER_URL %q has no host", c.ServerURL)
	}

	if strings.Count(c.AvatarURLTemplate, "%s") != 1 {
		return fmt.Errorf("AVATAR_URL_TEMPLATE must contain exactly one %%s placeholder")
	}

	if c.SendQueueSize <= 0 {
		return fmt.Errorf("SEND_QUEUE_SIZE must be positive, got %d", c.SendQueueSize)
	}

	// zero disables the outbound throttle
	if c.SendRate < 0 {
		return fmt.Errorf("SEND_RATE must not be negative, got %v", c.SendRate)
	}

	if c.SendBurst < 1 {
		return fmt.Errorf("SEND_BURST must be at least 1, got %d", c.SendBurst)
	}

	if c.DialTimeout <= 0 {
		return fmt.Errorf("DIAL_TIMEOUT must be positive, got %s", c.DialTimeout)
	}

	return nil
}
