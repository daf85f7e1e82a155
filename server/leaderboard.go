package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/topi314/strava-challenge/server/database"
	"github.com/topi314/strava-challenge/server/metrics"
	"github.com/topi314/strava-challenge/server/notify"
	"github.com/topi314/strava-challenge/server/scoring"
)

// Standings is a calculated leaderboard together with what is shown next to it.
type Standings struct {
	Season      int                     `json:"season"`
	Leaderboard scoring.Leaderboard     `json:"leaderboard"`
	Prizes      []int64                 `json:"prizes"`
	Summary     *database.SeasonSummary `json:"-"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// categoryNames lists the categories the rules score.
func categoryNames(r scoring.Rules) []string {
	categories := r.Categories
	if len(categories) == 0 {
		categories = scoring.Categories()
	}
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	return names
}

func (s *Server) Leaderboard(ctx context.Context, season int) (*Standings, error) {
	engine := s.Engine()
	r := engine.Rules()

	totals, err := s.DB.GetCategoryTotals(ctx, season, categoryNames(r))
	if err != nil {
		return nil, err
	}
	manual, err := s.DB.GetManualResults(ctx, season)
	if err != nil {
		return nil, err
	}

	lb, err := engine.Leaderboard(buildResults(totals, manual))
	if err != nil {
		return nil, fmt.Errorf("failed to score season %d: %w", season, err)
	}

	summary, err := s.DB.GetSeasonSummary(ctx, season)
	if err != nil {
		slog.WarnContext(ctx, "Failed to get season summary", slog.Int("season", season), slog.Any("err", err))
	}

	return &Standings{
		Season:      season,
		Leaderboard: lb,
		Prizes:      lb.Prizes(s.Cfg.Notifications.PrizePool, r.PrizeSplit),
		Summary:     summary,
		UpdatedAt:   time.Now(),
	}, nil
}

// buildResults ranks the imported totals and lets manual results replace whole categories.
func buildResults(totals []database.CategoryTotal, manual []database.ManualResult) []scoring.Result {
	displayNames := make(map[int64]string, len(totals))
	for _, t := range totals {
		displayNames[t.AthleteID] = t.DisplayName
	}
	names := participantNames(displayNames)

	derived := make([]scoring.Total, 0, len(totals))
	for _, t := range totals {
		derived = append(derived, scoring.Total{
			Participant: names[t.AthleteID],
			Category:    scoring.Category(t.Category),
			MovingTime:  time.Duration(t.MovingTime) * time.Second,
		})
	}

	manualResults := make([]scoring.Result, 0, len(manual))
	for _, m := range manual {
		manualResults = append(manualResults, scoring.Result{
			Participant: m.Participant,
			Category:    scoring.Category(m.Category),
			Rank:        m.Rank,
			MovingTime:  time.Duration(m.MovingTime) * time.Second,
		})
	}

	return scoring.MergeResults(scoring.RankTotals(derived), manualResults)
}

// participantNames maps athlete IDs to the names used as participants. Athletes sharing a
// display name get their ID appended.
func participantNames(displayNames map[int64]string) map[int64]string {
	count := make(map[string]int, len(displayNames))
	for _, name := range displayNames {
		count[name]++
	}

	names := make(map[int64]string, len(displayNames))
	for id, name := range displayNames {
		if count[name] > 1 {
			name = fmt.Sprintf("%s (%d)", name, id)
		}
		names[id] = name
	}
	return names
}

// Publish posts the current season's leaderboard unless it did not change since the last post.
func (s *Server) Publish(ctx context.Context) error {
	standings, err := s.Leaderboard(ctx, s.Cfg.Season)
	if err != nil {
		return err
	}
	return s.publish(ctx, standings)
}

func (s *Server) publish(ctx context.Context, standings *Standings) error {
	if !s.Cfg.Notifications.Enabled {
		return nil
	}

	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	if s.hasPublished && s.published.Equal(standings.Leaderboard) {
		slog.DebugContext(ctx, "Leaderboard unchanged, skipping publish", slog.Int("season", standings.Season))
		return nil
	}

	message := notify.LeaderboardMessage(standings.Season, standings.Leaderboard, standings.Prizes, standings.UpdatedAt)
	if err := s.Webhook.Send(ctx, message); err != nil {
		return err
	}

	s.published = standings.Leaderboard
	s.hasPublished = true
	slog.InfoContext(ctx, "Published leaderboard", slog.Int("season", standings.Season), slog.Int("participants", len(standings.Leaderboard)))
	return nil
}

func (s *Server) writeMetrics(standings *Standings) error {
	if !s.Cfg.Metrics.Enabled {
		return nil
	}
	return metrics.Write(s.Cfg.Metrics.Path, standings.Season, standings.Leaderboard)
}

// SendNotification posts a plain message to the notification webhook when notifications are enabled.
func (s *Server) SendNotification(ctx context.Context, content string) {
	if !s.Cfg.Notifications.Enabled {
		return
	}
	if err := s.Webhook.SendContent(ctx, content); err != nil {
		slog.ErrorContext(ctx, "Failed to send notification", slog.Any("err", err))
	}
}
