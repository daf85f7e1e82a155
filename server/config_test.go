package server

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/topi314/strava-challenge/internal/xtime"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// unsetEnv removes key for the duration of the test and restores it afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	_ = os.Unsetenv(key)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"STRAVA_CLIENT_ID", "STRAVA_CLIENT_SECRET", "DATABASE_PASSWORD", "DISCORD_WEBHOOK_URL", "CHALLENGE_DEV"} {
		unsetEnv(t, key)
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
season = 2024
env_file = ""

[log]
level = "debug"
format = "json"

[strava]
client_id = "12345"
every = "2s"

[import]
concurrency = 8

[notifications]
enabled = true
prize_pool = 1000
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Season != 2024 {
		t.Errorf("season: got %d", cfg.Season)
	}
	if cfg.Log.Level != slog.LevelDebug || cfg.Log.Format != LogFormatJSON {
		t.Errorf("log: got %+v", cfg.Log)
	}
	if cfg.Strava.ClientID != "12345" || cfg.Strava.Every != xtime.Duration(2*time.Second) {
		t.Errorf("strava: got %+v", cfg.Strava)
	}
	if cfg.Import.Concurrency != 8 || cfg.Import.Every != xtime.Duration(time.Hour) {
		t.Errorf("import: got %+v", cfg.Import)
	}
	if !cfg.Notifications.Enabled || cfg.Notifications.PrizePool != 1000 || cfg.Notifications.Username != "Strava Challenge" {
		t.Errorf("notifications: got %+v", cfg.Notifications)
	}
	// untouched sections keep their defaults
	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 || cfg.Strava.PerPage != 30 || cfg.RulesFile != "rules.yaml" {
		t.Errorf("defaults lost: %+v %+v", cfg.Database, cfg.Strava)
	}
}

func TestLoadConfig_DefaultsToCurrentSeason(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(writeConfig(t, `env_file = ""`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Season != time.Now().UTC().Year() {
		t.Errorf("season: got %d", cfg.Season)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STRAVA_CLIENT_SECRET", "from-env")
	t.Setenv("DATABASE_PASSWORD", "db-secret")
	t.Setenv("CHALLENGE_DEV", "yes")

	cfg, err := LoadConfig(writeConfig(t, `
env_file = ""

[strava]
client_secret = "from-file"
`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Strava.ClientSecret != "from-env" {
		t.Errorf("client secret: got %q", cfg.Strava.ClientSecret)
	}
	if cfg.Database.Password != "db-secret" {
		t.Errorf("database password: got %q", cfg.Database.Password)
	}
	if !cfg.Dev {
		t.Error("CHALLENGE_DEV=yes should enable dev mode")
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("STRAVA_CLIENT_ID=67890\nDISCORD_WEBHOOK_URL=https://discord.com/api/webhooks/1/token\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(writeConfig(t, `env_file = "`+filepath.ToSlash(envFile)+`"`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Strava.ClientID != "67890" {
		t.Errorf("client id: got %q", cfg.Strava.ClientID)
	}
	if cfg.Notifications.WebhookURL != "https://discord.com/api/webhooks/1/token" {
		t.Errorf("webhook url: got %q", cfg.Notifications.WebhookURL)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	clearEnv(t)

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected an error for a missing file")
	}
	if _, err := LoadConfig(writeConfig(t, `season = "soon"`)); err == nil {
		t.Error("expected an error for an invalid season")
	}

	t.Setenv("CHALLENGE_DEV", "maybe")
	if _, err := LoadConfig(writeConfig(t, `env_file = ""`)); err == nil {
		t.Error("expected an error for an invalid CHALLENGE_DEV")
	}
}

func TestConfigStringMasksSecrets(t *testing.T) {
	cfg := defaultConfig()
	cfg.Strava.ClientSecret = "strava-secret"
	cfg.Database.Password = "db-secret"
	cfg.Notifications.WebhookURL = "https://discord.com/api/webhooks/1/webhook-token"

	s := cfg.String()
	for _, secret := range []string{"strava-secret", "db-secret", "webhook-token"} {
		if strings.Contains(s, secret) {
			t.Errorf("%q leaked: %s", secret, s)
		}
	}
	if !strings.Contains(s, "https://discord.com/api/webhooks/1/") {
		t.Errorf("webhook url prefix missing: %s", s)
	}
}
