package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/topi314/strava-challenge/server/notify"
	"github.com/topi314/strava-challenge/server/strava"
)

type webhookPost struct {
	Content string `json:"content"`
	Embeds  []struct {
		Title string `json:"title"`
	} `json:"embeds"`
}

// newTestServer wires store to a Strava API served by stravaHandler and to a recording
// notification webhook.
func newTestServer(t *testing.T, store Store, stravaHandler http.Handler) (*Server, <-chan webhookPost) {
	t.Helper()

	stravaSrv := httptest.NewServer(stravaHandler)
	t.Cleanup(stravaSrv.Close)

	posts := make(chan webhookPost, 16)
	webhookSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var post webhookPost
		if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
			t.Errorf("decode webhook post: %v", err)
		}
		posts <- post
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(webhookSrv.Close)

	cfg := defaultConfig()
	cfg.Season = 2025
	cfg.Notifications.Enabled = true
	cfg.Strava.ClientID = "id"
	cfg.Strava.ClientSecret = "secret"
	cfg.Strava.BaseURL = stravaSrv.URL
	cfg.Strava.AuthURL = stravaSrv.URL + "/oauth/authorize"
	cfg.Strava.TokenURL = stravaSrv.URL + "/oauth/token"
	cfg.Strava.Every = 0
	cfg.Strava.MaxRetries = 0

	return &Server{
		Cfg:        cfg,
		DB:         store,
		HTTPClient: stravaSrv.Client(),
		Strava:     strava.New(cfg.Strava, stravaSrv.Client()),
		Webhook:    notify.NewWebhook(webhookSrv.URL, "", webhookSrv.Client()),
	}, posts
}
