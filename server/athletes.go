package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/topi314/strava-challenge/internal/xrand"
	"github.com/topi314/strava-challenge/server/database"
	"github.com/topi314/strava-challenge/server/scoring"
)

// AuthURL returns the link a Discord user follows to connect their Strava account.
func (s *Server) AuthURL(discordUserID string) string {
	return s.Strava.AuthCodeURL(xrand.RandString(16), discordUserID)
}

// ConnectAthlete exchanges the code Strava appended to the redirect and stores the athlete.
func (s *Server) ConnectAthlete(ctx context.Context, code string, discordUserID string) (*database.Athlete, error) {
	token, stravaAthlete, err := s.Strava.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	if stravaAthlete == nil {
		if stravaAthlete, err = s.Strava.GetAthlete(ctx, oauth2.StaticTokenSource(token)); err != nil {
			return nil, fmt.Errorf("failed to get athlete: %w", err)
		}
	}

	athlete := database.Athlete{
		ID:            stravaAthlete.ID,
		Username:      stravaAthlete.Username,
		DisplayName:   stravaAthlete.DisplayName(),
		DiscordUserID: discordUserID,
		AccessToken:   token.AccessToken,
		RefreshToken:  token.RefreshToken,
		TokenExpiry:   token.Expiry,
	}
	if err = s.DB.UpsertAthlete(ctx, athlete); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Connected athlete", slog.Int64("athlete_id", athlete.ID), slog.String("name", athlete.DisplayName), slog.String("discord_user_id", discordUserID))
	s.SendNotification(ctx, fmt.Sprintf("`%s` joined the challenge", athlete.DisplayName))
	return &athlete, nil
}

// AddManualResult stores a hand-entered category rank. It replaces the imported ranking
// of that category for the season.
func (s *Server) AddManualResult(ctx context.Context, season int, participant string, category string, rank int, movingTime time.Duration) (*database.ManualResult, error) {
	participant = strings.TrimSpace(participant)
	if participant == "" {
		return nil, fmt.Errorf("participant must not be empty")
	}

	c, err := scoring.ParseCategory(category)
	if err != nil {
		return nil, err
	}

	result := scoring.Result{
		Participant: participant,
		Category:    c,
		Rank:        rank,
		MovingTime:  movingTime,
	}

	existing, err := s.DB.GetManualResults(ctx, season)
	if err != nil {
		return nil, err
	}
	if err = validateManualResult(s.Engine(), result, existing); err != nil {
		return nil, err
	}

	manual := database.ManualResult{
		Season:      season,
		Participant: participant,
		Category:    string(c),
		Rank:        rank,
		MovingTime:  int64(movingTime / time.Second),
	}
	id, err := s.DB.InsertManualResult(ctx, manual)
	if err != nil {
		return nil, err
	}
	manual.ID = id

	return &manual, nil
}

// validateManualResult checks result together with the stored manual results of its category.
func validateManualResult(engine *scoring.Engine, result scoring.Result, existing []database.ManualResult) error {
	results := []scoring.Result{result}
	for _, m := range existing {
		if m.Category != string(result.Category) {
			continue
		}
		results = append(results, scoring.Result{
			Participant: m.Participant,
			Category:    result.Category,
			Rank:        m.Rank,
			MovingTime:  time.Duration(m.MovingTime) * time.Second,
		})
	}
	return engine.Validate(results)
}

// DeleteManualResult removes a hand-entered result. Once a category has no manual results
// left, its imported ranking counts again.
func (s *Server) DeleteManualResult(ctx context.Context, season int, participant string, category string) error {
	c, err := scoring.ParseCategory(category)
	if err != nil {
		return err
	}
	if err = s.DB.DeleteManualResult(ctx, season, strings.TrimSpace(participant), string(c)); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Deleted manual result", slog.Int("season", season), slog.String("participant", participant), slog.String("category", string(c)))
	return nil
}
