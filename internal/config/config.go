package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

type Config struct {
	Env       string
	Addr      string
	PublicURL *url.URL
	DBDSN     string
	LogLevel  string

	TokenPrefix     string
	AdminNames      []string
	GuestNamePrefix string
	CORSOrigin      string

	KeepAliveInterval time.Duration

	GoogleClientID string
	AppleServiceID string
}

func Load() (Config, error) {
	return LoadFromEnv(os.Getenv)
}

func LoadFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:             getenv("APP_ENV"),
		Addr:            getenv("APP_ADDR"),
		DBDSN:           getenv("APP_DB_DSN"),
		LogLevel:        getenv("APP_LOG_LEVEL"),
		TokenPrefix:     getenv("APP_TOKEN_PREFIX"),
		GuestNamePrefix: getenv("APP_GUEST_NAME_PREFIX"),
		CORSOrigin:      getenv("APP_CORS_ORIGIN"),
		GoogleClientID:  strings.TrimSpace(getenv("APP_GOOGLE_CLIENT_ID")),
		AppleServiceID:  strings.TrimSpace(getenv("APP_APPLE_SERVICE_ID")),
	}

	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}
	if cfg.TokenPrefix == "" {
		cfg.TokenPrefix = "NEURAL"
	}
	if cfg.GuestNamePrefix == "" {
		cfg.GuestNamePrefix = "Guest-"
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "*"
	}

	publicURLRaw := getenv("APP_PUBLIC_URL")
	if publicURLRaw != "" {
		parsed, err := url.Parse(publicURLRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_PUBLIC_URL: %w", err)
		}
		if !parsed.IsAbs() || parsed.Host == "" {
			return Config{}, errors.New("APP_PUBLIC_URL: must be an absolute URL")
		}
		switch parsed.Scheme {
		case "http", "https":
		default:
			return Config{}, errors.New("APP_PUBLIC_URL: scheme must be http or https")
		}
		cfg.PublicURL = parsed
	}

	intervalRaw := getenv("APP_KEEPALIVE_INTERVAL")
	if intervalRaw == "" {
		cfg.KeepAliveInterval = 14 * time.Minute
	} else {
		interval, err := time.ParseDuration(intervalRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_KEEPALIVE_INTERVAL: %w", err)
		}
		if interval <= 0 {
			return Config{}, errors.New("APP_KEEPALIVE_INTERVAL: must be > 0")
		}
		cfg.KeepAliveInterval = interval
	}

	switch cfg.Env {
	case "dev", "prod", "test":
	default:
		return Config{}, errors.New("APP_ENV: must be one of dev, test, prod")
	}

	for _, r := range cfg.TokenPrefix {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return Config{}, errors.New("APP_TOKEN_PREFIX: must be uppercase letters and digits")
		}
	}

	cfg.AdminNames = parseCSV(getenv("APP_ADMIN_NAMES"))

	if cfg.IsProd() {
		if cfg.PublicURL == nil {
			return Config{}, errors.New("APP_PUBLIC_URL: required in prod")
		}
		if cfg.DBDSN == "" {
			return Config{}, errors.New("APP_DB_DSN: required in prod")
		}
	}

	return cfg, nil
}

func (c Config) IsProd() bool { return c.Env == "prod" }

// IsAdminName reports whether a display name is on the admin allow-list.
func (c Config) IsAdminName(name string) bool {
	name = strings.TrimSpace(name)
	for _, n := range c.AdminNames {
		if n == name {
			return true
		}
	}
	return false
}

func parseCSV(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
