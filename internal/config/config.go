package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv     string `env:"APP_ENV" default:"development"`
	GatewayURL string `env:"GATEWAY_URL" default:"http://localhost:8080"`

	// RealtimeURL overrides the websocket endpoint. When empty it is derived
	// from GatewayURL (ws scheme, /api/order/ws path).
	RealtimeURL string `env:"REALTIME_URL"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" default:"15s"`

	// StateDir holds the persisted cookie jar between CLI invocations.
	// Defaults to ~/.config/batsctl.
	StateDir string `env:"BATSCTL_STATE_DIR"`

	SandboxAddr string `env:"SANDBOX_ADDR" default:":8080"`

	// SandboxAccessTTL is deliberately short so the refresh path is exercised
	// during normal sandbox use.
	SandboxAccessTTL  time.Duration `env:"SANDBOX_ACCESS_TTL" default:"1m"`
	SandboxRefreshTTL time.Duration `env:"SANDBOX_REFRESH_TTL" default:"168h"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	if cfg.RealtimeURL == "" {
		derived, err := deriveRealtimeURL(cfg.GatewayURL)
		if err != nil {
			return nil, err
		}
		cfg.RealtimeURL = derived
	}

	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.StateDir = filepath.Join(home, ".config", "batsctl")
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.GatewayURL)
	if err != nil {
		return fmt.Errorf("GATEWAY_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("GATEWAY_URL must be http or https, got %q", cfg.GatewayURL)
	}
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if cfg.SandboxAccessTTL <= 0 || cfg.SandboxRefreshTTL <= 0 {
		return fmt.Errorf("sandbox token TTLs must be positive")
	}
	return nil
}

func deriveRealtimeURL(gateway string) (string, error) {
	u, err := url.Parse(gateway)
	if err != nil {
		return "", fmt.Errorf("failed to derive realtime URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/api/order/ws"
	return u.String(), nil
}
