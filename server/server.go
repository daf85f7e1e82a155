package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/topi314/strava-challenge/server/database"
	"github.com/topi314/strava-challenge/server/notify"
	"github.com/topi314/strava-challenge/server/rules"
	"github.com/topi314/strava-challenge/server/scoring"
	"github.com/topi314/strava-challenge/server/strava"
)

func New(ctx context.Context, cfg Config) (*Server, error) {
	r, err := rules.Load(cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	s := &Server{
		Cfg:        cfg,
		DB:         db,
		HTTPClient: httpClient,
		Strava:     strava.New(cfg.Strava, httpClient),
		Webhook:    notify.NewWebhook(cfg.Notifications.WebhookURL, cfg.Notifications.Username, httpClient),
	}
	s.SetRules(r)

	return s, nil
}

type Server struct {
	Cfg        Config
	DB         Store
	HTTPClient *http.Client
	Strava     *strava.Client
	Webhook    *notify.Webhook

	engine atomic.Pointer[scoring.Engine]

	publishMu    sync.Mutex
	published    scoring.Leaderboard
	hasPublished bool
}

func (s *Server) Close() {
	if err := s.DB.Close(); err != nil {
		slog.Error("Failed to close database", slog.Any("err", err))
	}
}

// Engine returns the engine for the current rules. Rule reloads swap it atomically.
func (s *Server) Engine() *scoring.Engine {
	if e := s.engine.Load(); e != nil {
		return e
	}
	return scoring.New(scoring.DefaultRules())
}

func (s *Server) SetRules(r scoring.Rules) {
	s.engine.Store(scoring.New(r))
}

// Run imports activities every import interval and publishes the leaderboard until ctx is done.
func (s *Server) Run(ctx context.Context) {
	go func() {
		if err := rules.Watch(ctx, s.Cfg.RulesFile, func(r scoring.Rules) {
			s.SetRules(r)
			s.update(ctx)
		}); err != nil {
			slog.ErrorContext(ctx, "Rules watcher stopped", slog.Any("err", err))
		}
	}()

	every := time.Duration(s.Cfg.Import.Every)
	if every <= 0 {
		every = time.Hour
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		s.doImport(ctx)
		s.update(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) doImport(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	if _, err := s.Import(ctx); err != nil {
		slog.ErrorContext(ctx, "Import finished with errors", slog.Any("err", err))
	}
}

// update recalculates the leaderboard, then publishes it and writes the metrics file.
func (s *Server) update(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Minute)
	defer cancel()

	standings, err := s.Leaderboard(ctx, s.Cfg.Season)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to calculate leaderboard", slog.Int("season", s.Cfg.Season), slog.Any("err", err))
		return
	}

	if err = s.publish(ctx, standings); err != nil {
		slog.ErrorContext(ctx, "Failed to publish leaderboard", slog.Any("err", err))
	}
	if err = s.writeMetrics(standings); err != nil {
		slog.ErrorContext(ctx, "Failed to write metrics", slog.Any("err", err))
	}
}
