package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/topi314/strava-challenge/internal/tsync"
	"github.com/topi314/strava-challenge/internal/xerrors"
	"github.com/topi314/strava-challenge/internal/xpgtype"
	"github.com/topi314/strava-challenge/internal/xtime"
	"github.com/topi314/strava-challenge/server/database"
	"github.com/topi314/strava-challenge/server/notify"
	"github.com/topi314/strava-challenge/server/strava"
)

var ErrAuthorizationLost = errors.New("strava authorization lost")

// Import fetches the configured season's activities of every enabled athlete. Athletes
// that revoked access are disabled and reported through the notification webhook.
func (s *Server) Import(ctx context.Context) (*database.ImportRun, error) {
	season := s.Cfg.Season
	run := database.ImportRun{
		ID:        uuid.New(),
		Season:    season,
		StartedAt: time.Now(),
	}
	if err := s.DB.InsertImportRun(ctx, run); err != nil {
		return nil, err
	}

	athletes, err := s.DB.GetAthletes(ctx, false)
	if err != nil {
		s.finishImportRun(ctx, &run, err)
		return &run, err
	}

	slog.InfoContext(ctx, "Importing activities", slog.String("run_id", run.ID.String()), slog.Int("season", season), slog.Int("athletes", len(athletes)))

	after, before := xtime.SeasonRange(season)

	var (
		activities atomic.Int64
		mu         sync.Mutex
		disabled   []string
	)
	eg, egCtx := tsync.ErrorGroupWithContext(ctx)
	eg.SetLimit(max(s.Cfg.Import.Concurrency, 1))
	for _, athlete := range athletes {
		eg.Go(func() error {
			n, err := s.importAthlete(egCtx, athlete, season, after, before)
			activities.Add(int64(n))
			if errors.Is(err, ErrAuthorizationLost) {
				slog.WarnContext(egCtx, "Disabling athlete", slog.Int64("athlete_id", athlete.ID), slog.Any("err", err))
				if disableErr := s.DB.DisableAthlete(context.WithoutCancel(egCtx), athlete.ID); disableErr != nil {
					return errors.Join(err, disableErr)
				}
				mu.Lock()
				disabled = append(disabled, athlete.DisplayName)
				mu.Unlock()
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to import athlete %d: %w", athlete.ID, err)
			}
			return nil
		})
	}
	err = eg.Wait()

	run.Athletes = len(athletes)
	run.Activities = int(activities.Load())
	s.finishImportRun(ctx, &run, err)

	if len(disabled) > 0 {
		s.SendNotification(ctx, notify.DisabledAthletesMessage(disabled))
	}

	slog.InfoContext(ctx, "Imported activities", slog.String("run_id", run.ID.String()), slog.Int("activities", run.Activities), slog.Duration("took", run.FinishedAt.Sub(run.StartedAt)))
	return &run, err
}

// finishImportRun stores the end of the run and its errors, even when ctx is already done.
func (s *Server) finishImportRun(ctx context.Context, run *database.ImportRun, err error) {
	finishedAt := time.Now()
	run.FinishedAt = &finishedAt
	run.Error = strings.Join(xerrors.Messages(err), "\n")

	if finishErr := s.DB.FinishImportRun(context.WithoutCancel(ctx), *run); finishErr != nil {
		slog.ErrorContext(ctx, "Failed to finish import run", slog.String("run_id", run.ID.String()), slog.Any("err", finishErr))
	}
}

func (s *Server) importAthlete(ctx context.Context, athlete database.Athlete, season int, after time.Time, before time.Time) (int, error) {
	stored := athleteToken(athlete)
	ts := s.Strava.TokenSource(ctx, stored)

	token, err := ts.Token()
	if err != nil {
		if isAuthorizationLost(err) {
			return 0, fmt.Errorf("%w: %w", ErrAuthorizationLost, err)
		}
		return 0, fmt.Errorf("failed to refresh token: %w", err)
	}
	if token.AccessToken != stored.AccessToken || token.RefreshToken != stored.RefreshToken {
		if err = s.DB.UpdateAthleteToken(ctx, athlete.ID, token.AccessToken, token.RefreshToken, token.Expiry); err != nil {
			return 0, err
		}
	}

	// store what was fetched even if a later page failed
	activities, fetchErr := s.Strava.GetActivities(ctx, ts, after, before)

	var dbActivities []database.Activity
	for _, activity := range activities {
		if dbActivity, ok := activityFromStrava(athlete.ID, season, activity); ok {
			dbActivities = append(dbActivities, dbActivity)
		}
	}
	if err = s.DB.UpsertActivities(ctx, dbActivities); err != nil {
		return 0, errors.Join(fetchErr, err)
	}

	if errors.Is(fetchErr, strava.ErrUnauthorized) {
		return len(dbActivities), fmt.Errorf("%w: %w", ErrAuthorizationLost, fetchErr)
	}
	return len(dbActivities), fetchErr
}

func athleteToken(athlete database.Athlete) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  athlete.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: athlete.RefreshToken,
		Expiry:       athlete.TokenExpiry,
	}
}

// isAuthorizationLost reports whether Strava rejected the refresh token itself.
func isAuthorizationLost(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) || retrieveErr.Response == nil {
		return false
	}
	return retrieveErr.Response.StatusCode == http.StatusBadRequest || retrieveErr.Response.StatusCode == http.StatusUnauthorized
}

// activityFromStrava converts activities of a challenge category. Other activities are skipped.
func activityFromStrava(athleteID int64, season int, activity strava.Activity) (database.Activity, bool) {
	category, ok := activity.Category()
	if !ok {
		return database.Activity{}, false
	}

	sportType := activity.SportType
	if sportType == "" {
		sportType = activity.Type
	}

	raw, _ := json.Marshal(activity)
	return database.Activity{
		ID:            activity.ID,
		AthleteID:     athleteID,
		Name:          activity.Name,
		SportType:     sportType,
		Category:      string(category),
		Season:        season,
		StartDate:     activity.StartDate,
		MovingTime:    int64(activity.MovingTime),
		Distance:      activity.Distance,
		ElevationGain: activity.TotalElevationGain,
		Map: xpgtype.NewJSON(database.ActivityMap{
			ID:              activity.Map.ID,
			SummaryPolyline: activity.Map.SummaryPolyline,
		}),
		RawJSON: raw,
	}, true
}
