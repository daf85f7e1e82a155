package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/topi314/strava-challenge/internal/xstrconv"
	"github.com/topi314/strava-challenge/internal/xtime"
	"github.com/topi314/strava-challenge/server/database"
	"github.com/topi314/strava-challenge/server/strava"
)

func LoadConfig(cfgPath string) (Config, error) {
	file, err := os.Open(cfgPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	cfg := defaultConfig()
	if _, err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config file: %w", err)
	}

	if cfg.EnvFile != "" {
		if err = godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load env file: %w", err)
		}
	}
	if err = cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Season:    xtime.CurrentSeason(),
		RulesFile: "rules.yaml",
		EnvFile:   ".env",
		Log: LogConfig{
			Level:     slog.LevelInfo,
			Format:    LogFormatText,
			AddSource: false,
		},
		Database: database.Config{
			Host:     "localhost",
			Port:     5432,
			Username: "postgres",
			Password: "password",
			Database: "strava-challenge",
			SSLMode:  "disable",
		},
		Strava: strava.Config{
			Every:      xtime.Duration(1 * time.Second),
			Burst:      10,
			MaxRetries: 3,
			RetryDelay: xtime.Duration(15 * time.Second),
			PerPage:    30,
		},
		Import: ImportConfig{
			Every:       xtime.Duration(1 * time.Hour),
			Concurrency: 4,
		},
		Notifications: NotificationsConfig{
			Username: "Strava Challenge",
		},
		Metrics: MetricsConfig{
			Path: "strava_challenge.prom",
		},
	}
}

type Config struct {
	Dev           bool                `toml:"dev"`
	Season        int                 `toml:"season"`
	RulesFile     string              `toml:"rules_file"`
	EnvFile       string              `toml:"env_file"`
	Log           LogConfig           `toml:"log"`
	Database      database.Config     `toml:"database"`
	Strava        strava.Config       `toml:"strava"`
	Import        ImportConfig        `toml:"import"`
	Notifications NotificationsConfig `toml:"notifications"`
	Metrics       MetricsConfig       `toml:"metrics"`
}

func (c Config) String() string {
	return fmt.Sprintf("Dev: %t\nSeason: %d\nRulesFile: %s\nEnvFile: %s\nLog: %s\nDatabase: %s\nStrava: %s\nImport: %s\nNotifications: %s\nMetrics: %s",
		c.Dev,
		c.Season,
		c.RulesFile,
		c.EnvFile,
		c.Log,
		c.Database,
		c.Strava,
		c.Import,
		c.Notifications,
		c.Metrics,
	)
}

// applyEnv lets secrets live outside the config file.
func (c *Config) applyEnv() error {
	for name, target := range map[string]*string{
		"STRAVA_CLIENT_ID":     &c.Strava.ClientID,
		"STRAVA_CLIENT_SECRET": &c.Strava.ClientSecret,
		"DATABASE_PASSWORD":    &c.Database.Password,
		"DISCORD_WEBHOOK_URL":  &c.Notifications.WebhookURL,
	} {
		if v, ok := os.LookupEnv(name); ok {
			*target = v
		}
	}

	if v, ok := os.LookupEnv("CHALLENGE_DEV"); ok {
		dev, err := xstrconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("failed to parse CHALLENGE_DEV: %w", err)
		}
		c.Dev = dev
	}
	return nil
}

type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

type LogConfig struct {
	Level       slog.Level `toml:"level"`
	Format      LogFormat  `toml:"format"`
	AddSource   bool       `toml:"add_source"`
	VerboseHTTP bool       `toml:"verbose_http"`
}

func (c LogConfig) String() string {
	return fmt.Sprintf("\n Level: %s\n Format: %s\n AddSource: %t\n VerboseHTTP: %t",
		c.Level,
		c.Format,
		c.AddSource,
		c.VerboseHTTP,
	)
}

type ImportConfig struct {
	Every       xtime.Duration `toml:"every"`
	Concurrency int            `toml:"concurrency"`
}

func (c ImportConfig) String() string {
	return fmt.Sprintf("\n Every: %s\n Concurrency: %d",
		c.Every,
		c.Concurrency,
	)
}

type NotificationsConfig struct {
	Enabled    bool   `toml:"enabled"`
	WebhookURL string `toml:"webhook_url"`
	Username   string `toml:"username"`
	PrizePool  int64  `toml:"prize_pool"`
}

func (c NotificationsConfig) String() string {
	return fmt.Sprintf("\n Enabled: %t\n WebhookURL: %s\n Username: %s\n PrizePool: %d",
		c.Enabled,
		maskWebhookURL(c.WebhookURL),
		c.Username,
		c.PrizePool,
	)
}

// maskWebhookURL hides the token, which is the last path segment of a Discord webhook URL.
func maskWebhookURL(url string) string {
	i := strings.LastIndex(url, "/")
	if i < 0 || i == len(url)-1 {
		return url
	}
	return url[:i+1] + strings.Repeat("*", len(url)-i-1)
}

type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

func (c MetricsConfig) String() string {
	return fmt.Sprintf("\n Enabled: %t\n Path: %s",
		c.Enabled,
		c.Path,
	)
}
