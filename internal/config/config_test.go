package config

import (
	"strings"
	"testing"
	"time"
)

func getenvFrom(env map[string]string) func(string) string {
	return func(k string) string { return env[k] }
}

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv(getenvFrom(nil))
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.Env != "dev" {
		t.Fatalf("Env: got %q", cfg.Env)
	}
	if cfg.Addr != "127.0.0.1:8080" {
		t.Fatalf("Addr: got %q", cfg.Addr)
	}
	if cfg.TokenPrefix != "NEURAL" {
		t.Fatalf("TokenPrefix: got %q", cfg.TokenPrefix)
	}
	if cfg.GuestNamePrefix != "Guest-" {
		t.Fatalf("GuestNamePrefix: got %q", cfg.GuestNamePrefix)
	}
	if cfg.CORSOrigin != "*" {
		t.Fatalf("CORSOrigin: got %q", cfg.CORSOrigin)
	}
	if cfg.KeepAliveInterval != 14*time.Minute {
		t.Fatalf("KeepAliveInterval: got %v", cfg.KeepAliveInterval)
	}
	if len(cfg.AdminNames) != 0 {
		t.Fatalf("AdminNames: got %v", cfg.AdminNames)
	}
}

func TestLoadFromEnvAdminNames(t *testing.T) {
	cfg, err := LoadFromEnv(getenvFrom(map[string]string{
		"APP_ADMIN_NAMES": " 313, operator ,,313",
	}))
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if len(cfg.AdminNames) != 2 {
		t.Fatalf("AdminNames: got %v", cfg.AdminNames)
	}
	if !cfg.IsAdminName("313") || !cfg.IsAdminName("operator") {
		t.Fatalf("IsAdminName: allow-list not honored: %v", cfg.AdminNames)
	}
	if cfg.IsAdminName("intruder") {
		t.Fatalf("IsAdminName: accepted name off the list")
	}
}

func TestLoadFromEnvRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad env", map[string]string{"APP_ENV": "staging"}, "APP_ENV"},
		{"relative public url", map[string]string{"APP_PUBLIC_URL": "/relative"}, "APP_PUBLIC_URL"},
		{"bad scheme", map[string]string{"APP_PUBLIC_URL": "ftp://example.com"}, "APP_PUBLIC_URL"},
		{"bad interval", map[string]string{"APP_KEEPALIVE_INTERVAL": "often"}, "APP_KEEPALIVE_INTERVAL"},
		{"negative interval", map[string]string{"APP_KEEPALIVE_INTERVAL": "-1m"}, "APP_KEEPALIVE_INTERVAL"},
		{"lowercase token prefix", map[string]string{"APP_TOKEN_PREFIX": "neural"}, "APP_TOKEN_PREFIX"},
		{"prod without db", map[string]string{"APP_ENV": "prod", "APP_PUBLIC_URL": "https://example.com"}, "APP_DB_DSN"},
		{"prod without public url", map[string]string{"APP_ENV": "prod", "APP_DB_DSN": "postgres://x"}, "APP_PUBLIC_URL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFromEnv(getenvFrom(tc.env))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}
