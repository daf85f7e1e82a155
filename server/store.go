package server

import (
	"context"
	"time"

	"github.com/topi314/strava-challenge/server/database"
)

var _ Store = (*database.Database)(nil)

// Store is the persistence the server works with.
type Store interface {
	GetAthletes(ctx context.Context, includeDisabled bool) ([]database.Athlete, error)
	UpsertAthlete(ctx context.Context, athlete database.Athlete) error
	UpdateAthleteToken(ctx context.Context, athleteID int64, accessToken string, refreshToken string, expiry time.Time) error
	DisableAthlete(ctx context.Context, athleteID int64) error

	UpsertActivities(ctx context.Context, activities []database.Activity) error
	GetCategoryTotals(ctx context.Context, season int, categories []string) ([]database.CategoryTotal, error)
	GetWeekPoints(ctx context.Context, season int, categories []string, minMovingTime int64) ([]database.WeekPoints, error)
	GetSeasonSummary(ctx context.Context, season int) (*database.SeasonSummary, error)

	InsertManualResult(ctx context.Context, result database.ManualResult) (int64, error)
	GetManualResults(ctx context.Context, season int) ([]database.ManualResult, error)
	DeleteManualResult(ctx context.Context, season int, participant string, category string) error

	InsertImportRun(ctx context.Context, run database.ImportRun) error
	FinishImportRun(ctx context.Context, run database.ImportRun) error
	GetLastImportRun(ctx context.Context, season int) (*database.ImportRun, error)

	Close() error
}
