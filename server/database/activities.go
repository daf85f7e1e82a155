package database

import (
	"context"
	"fmt"

	"github.com/lib/pq"
)

// UpsertActivities replaces previously imported copies of the given activities.
func (d *Database) UpsertActivities(ctx context.Context, activities []Activity) error {
	if len(activities) == 0 {
		return nil
	}

	query := `
		INSERT INTO activities (activity_id, activity_athlete_id, activity_name, activity_sport_type, activity_category, activity_season, activity_start_date, activity_moving_time, activity_distance, activity_elevation_gain, activity_map, activity_raw_json)
		VALUES (:activity_id, :activity_athlete_id, :activity_name, :activity_sport_type, :activity_category, :activity_season, :activity_start_date, :activity_moving_time, :activity_distance, :activity_elevation_gain, :activity_map, :activity_raw_json)
		ON CONFLICT (activity_id) DO UPDATE
		SET activity_name = EXCLUDED.activity_name,
		    activity_sport_type = EXCLUDED.activity_sport_type,
		    activity_category = EXCLUDED.activity_category,
		    activity_season = EXCLUDED.activity_season,
		    activity_start_date = EXCLUDED.activity_start_date,
		    activity_moving_time = EXCLUDED.activity_moving_time,
		    activity_distance = EXCLUDED.activity_distance,
		    activity_elevation_gain = EXCLUDED.activity_elevation_gain,
		    activity_map = EXCLUDED.activity_map,
		    activity_raw_json = EXCLUDED.activity_raw_json,
		    activity_imported_at = now()
	`

	if _, err := d.db.NamedExecContext(ctx, query, activities); err != nil {
		return fmt.Errorf("failed to upsert activities: %w", err)
	}

	return nil
}

// GetCategoryTotals sums the moving time per athlete and category of enabled athletes.
func (d *Database) GetCategoryTotals(ctx context.Context, season int, categories []string) ([]CategoryTotal, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	query := `
		SELECT athlete_id, athlete_display_name, activity_category, SUM(activity_moving_time) AS moving_time
		FROM activities
		JOIN athletes ON activity_athlete_id = athlete_id
		WHERE activity_season = $1 AND activity_category = ANY($2) AND NOT athlete_disabled
		GROUP BY athlete_id, athlete_display_name, activity_category
		ORDER BY activity_category, moving_time DESC, athlete_display_name
	`

	var totals []CategoryTotal
	if err := d.db.SelectContext(ctx, &totals, query, season, pq.Array(categories)); err != nil {
		return nil, fmt.Errorf("failed to get category totals: %w", err)
	}

	return totals, nil
}

// GetWeekPoints counts per athlete and ISO week of the season the days with at least
// minMovingTime seconds of activities in the given categories.
func (d *Database) GetWeekPoints(ctx context.Context, season int, categories []string, minMovingTime int64) ([]WeekPoints, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	query := `
		SELECT athlete_id, athlete_display_name, week, COUNT(*) AS points
		FROM (
			SELECT activity_athlete_id, EXTRACT(WEEK FROM activity_start_date)::INT AS week
			FROM activities
			WHERE activity_season = $1 AND activity_category = ANY($2) AND EXTRACT(ISOYEAR FROM activity_start_date) = $1
			GROUP BY activity_athlete_id, activity_start_date::DATE, week
			HAVING SUM(activity_moving_time) >= $3
		) AS days
		JOIN athletes ON activity_athlete_id = athlete_id
		WHERE NOT athlete_disabled
		GROUP BY athlete_id, athlete_display_name, week
		ORDER BY athlete_id, week
	`

	var points []WeekPoints
	if err := d.db.SelectContext(ctx, &points, query, season, pq.Array(categories), minMovingTime); err != nil {
		return nil, fmt.Errorf("failed to get week points: %w", err)
	}

	return points, nil
}

func (d *Database) GetSeasonSummary(ctx context.Context, season int) (*SeasonSummary, error) {
	query := `
		SELECT $1::INT AS season,
		       COUNT(DISTINCT activity_athlete_id) AS athletes,
		       COUNT(activity_id) AS activities,
		       COALESCE(SUM(activity_moving_time), 0) AS moving_time,
		       COALESCE(SUM(activity_distance), 0) AS distance,
		       COALESCE(SUM(activity_elevation_gain), 0) AS elevation_gain
		FROM activities
		WHERE activity_season = $1
	`

	var summary SeasonSummary
	if err := d.db.GetContext(ctx, &summary, query, season); err != nil {
		return nil, fmt.Errorf("failed to get season summary: %w", err)
	}

	return &summary, nil
}
