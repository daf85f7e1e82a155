package strava

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.strava.com/api/v3"

var (
	ErrTooManyRequests = errors.New("too many requests")
	ErrUnauthorized    = errors.New("athlete authorization revoked or invalid")

	scopes = []string{"read", "activity:read"}
)

func New(cfg Config, httpClient *http.Client) *Client {
	endpoint := endpoints.Strava
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	// Strava expects the client credentials in the form body.
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	limit := rate.Inf
	if cfg.Every > 0 {
		limit = rate.Every(time.Duration(cfg.Every))
	}

	return &Client{
		cfg:        cfg,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, max(cfg.Burst, 1)),
		oauth2Cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
		},
	}
}

type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	oauth2Cfg  *oauth2.Config
}

func (c *Client) do(ctx context.Context, ts oauth2.TokenSource, path string, query url.Values, v any) error {
	var lastErr error
	for try := 0; try <= c.cfg.MaxRetries; try++ {
		if try > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(c.cfg.RetryDelay)):
			}
		}

		retry, err := c.doOnce(ctx, ts, path, query, v)
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("failed to fetch %s after %d retries: %w", path, c.cfg.MaxRetries, lastErr)
}

// doOnce sends a single request. It reports whether the request may be retried.
func (c *Client) doOnce(ctx context.Context, ts oauth2.TokenSource, path string, query url.Values, v any) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}

	token, err := ts.Token()
	if err != nil {
		return false, fmt.Errorf("failed to get token: %w", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	rq.Header.Set("Accept", "application/json")
	token.SetAuthHeader(rq)

	rs, err := c.httpClient.Do(rq)
	if err != nil {
		return false, fmt.Errorf("failed to send request: %w", err)
	}
	defer rs.Body.Close()

	logBuf := new(bytes.Buffer)
	bodyReader := io.TeeReader(rs.Body, logBuf)

	if rs.StatusCode != http.StatusOK {
		var fault Fault
		_ = json.NewDecoder(bodyReader).Decode(&fault)
		slog.ErrorContext(ctx, "Strava request failed", slog.String("path", path), slog.Int("status_code", rs.StatusCode), slog.String("response", logBuf.String()))

		switch rs.StatusCode {
		case http.StatusTooManyRequests:
			return true, fmt.Errorf("%w: status code %d: %w", ErrTooManyRequests, rs.StatusCode, fault)
		case http.StatusBadGateway:
			return true, fmt.Errorf("request failed with status code: %d: %w", rs.StatusCode, fault)
		case http.StatusUnauthorized:
			return false, fmt.Errorf("%w: %w", ErrUnauthorized, fault)
		}
		return false, fmt.Errorf("request failed with status code: %d: %w", rs.StatusCode, fault)
	}

	if err = json.NewDecoder(bodyReader).Decode(v); err != nil {
		slog.ErrorContext(ctx, "Failed to decode response", slog.String("path", path), slog.String("response", logBuf.String()), slog.Any("err", err))
		return false, fmt.Errorf("failed to decode response: %w", err)
	}
	slog.DebugContext(ctx, "Strava request done", slog.String("client", "strava"), slog.String("path", path), slog.String("response", logBuf.String()))

	return false, nil
}
