package database

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/topi314/strava-challenge/internal/xpgtype"
)

type Athlete struct {
	ID            int64     `db:"athlete_id"`
	Username      string    `db:"athlete_username"`
	DisplayName   string    `db:"athlete_display_name"`
	DiscordUserID string    `db:"athlete_discord_user_id"`
	AccessToken   string    `db:"athlete_access_token"`
	RefreshToken  string    `db:"athlete_refresh_token"`
	TokenExpiry   time.Time `db:"athlete_token_expiry"`
	Disabled      bool      `db:"athlete_disabled"`
	CreatedAt     time.Time `db:"athlete_created_at"`
	UpdatedAt     time.Time `db:"athlete_updated_at"`
}

type ActivityMap struct {
	ID              string `json:"id"`
	SummaryPolyline string `json:"summary_polyline"`
}

type Activity struct {
	ID            int64                     `db:"activity_id"`
	AthleteID     int64                     `db:"activity_athlete_id"`
	Name          string                    `db:"activity_name"`
	SportType     string                    `db:"activity_sport_type"`
	Category      string                    `db:"activity_category"`
	Season        int                       `db:"activity_season"`
	StartDate     time.Time                 `db:"activity_start_date"`
	MovingTime    int64                     `db:"activity_moving_time"`
	Distance      float64                   `db:"activity_distance"`
	ElevationGain float64                   `db:"activity_elevation_gain"`
	Map           xpgtype.JSON[ActivityMap] `db:"activity_map"`
	RawJSON       json.RawMessage           `db:"activity_raw_json"`
	ImportedAt    time.Time                 `db:"activity_imported_at"`
}

// CategoryTotal is the summed moving time in seconds of one athlete in one category.
type CategoryTotal struct {
	AthleteID   int64  `db:"athlete_id"`
	DisplayName string `db:"athlete_display_name"`
	Category    string `db:"activity_category"`
	MovingTime  int64  `db:"moving_time"`
}

// WeekPoints counts the days of one ISO week on which an athlete was active long enough.
type WeekPoints struct {
	AthleteID   int64  `db:"athlete_id"`
	DisplayName string `db:"athlete_display_name"`
	Week        int    `db:"week"`
	Points      int    `db:"points"`
}

type ManualResult struct {
	ID          int64     `db:"manual_result_id"`
	Season      int       `db:"manual_result_season"`
	Participant string    `db:"manual_result_participant"`
	Category    string    `db:"manual_result_category"`
	Rank        int       `db:"manual_result_rank"`
	MovingTime  int64     `db:"manual_result_moving_time"`
	CreatedAt   time.Time `db:"manual_result_created_at"`
}

type SeasonSummary struct {
	Season        int     `db:"season"`
	Athletes      int     `db:"athletes"`
	Activities    int     `db:"activities"`
	MovingTime    int64   `db:"moving_time"`
	Distance      float64 `db:"distance"`
	ElevationGain float64 `db:"elevation_gain"`
}

type ImportRun struct {
	ID         uuid.UUID  `db:"import_run_id"`
	Season     int        `db:"import_run_season"`
	StartedAt  time.Time  `db:"import_run_started_at"`
	FinishedAt *time.Time `db:"import_run_finished_at"`
	Athletes   int        `db:"import_run_athletes"`
	Activities int        `db:"import_run_activities"`
	Error      string     `db:"import_run_error"`
}
