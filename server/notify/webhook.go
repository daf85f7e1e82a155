package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/disgoorg/disgo/discord"
)

const DefaultUsername = "Strava Challenge"

var ErrNoWebhookURL = errors.New("no webhook url configured")

func NewWebhook(url string, username string, httpClient *http.Client) *Webhook {
	if username == "" {
		username = DefaultUsername
	}
	return &Webhook{
		url:        url,
		username:   username,
		httpClient: httpClient,
	}
}

// Webhook posts messages to a Discord channel webhook.
type Webhook struct {
	url        string
	username   string
	httpClient *http.Client
}

func (w *Webhook) SendContent(ctx context.Context, content string) error {
	return w.Send(ctx, discord.WebhookMessageCreate{
		Content: content,
	})
}

func (w *Webhook) Send(ctx context.Context, message discord.WebhookMessageCreate) error {
	if w.url == "" {
		return ErrNoWebhookURL
	}
	if message.Username == "" {
		message.Username = w.username
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode webhook message: %w", err)
	}

	rq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	rq.Header.Set("Content-Type", "application/json")

	rs, err := w.httpClient.Do(rq)
	if err != nil {
		return fmt.Errorf("failed to send webhook message: %w", err)
	}
	defer rs.Body.Close()

	if rs.StatusCode < 200 || rs.StatusCode >= 300 {
		response, _ := io.ReadAll(rs.Body)
		slog.ErrorContext(ctx, "Discord webhook request failed", slog.Int("status_code", rs.StatusCode), slog.String("response", string(response)))
		return fmt.Errorf("webhook request failed with status code: %d", rs.StatusCode)
	}

	return nil
}
