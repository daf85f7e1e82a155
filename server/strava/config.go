package strava

import (
	"fmt"
	"strings"

	"github.com/topi314/strava-challenge/internal/xtime"
)

type Config struct {
	ClientID     string         `toml:"client_id"`
	ClientSecret string         `toml:"client_secret"`
	RedirectURL  string         `toml:"redirect_url"`
	BaseURL      string         `toml:"base_url"`
	AuthURL      string         `toml:"auth_url"`
	TokenURL     string         `toml:"token_url"`
	Every        xtime.Duration `toml:"every"`
	Burst        int            `toml:"burst"`
	MaxRetries   int            `toml:"max_retries"`
	RetryDelay   xtime.Duration `toml:"retry_delay"`
	PerPage      int            `toml:"per_page"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n ClientID: %s\n ClientSecret: %s\n RedirectURL: %s\n BaseURL: %s\n AuthURL: %s\n TokenURL: %s\n Every: %s\n Burst: %d\n MaxRetries: %d\n RetryDelay: %s\n PerPage: %d",
		c.ClientID,
		strings.Repeat("*", len(c.ClientSecret)),
		c.RedirectURL,
		c.BaseURL,
		c.AuthURL,
		c.TokenURL,
		c.Every,
		c.Burst,
		c.MaxRetries,
		c.RetryDelay,
		c.PerPage,
	)
}
