package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

func (d *Database) InsertImportRun(ctx context.Context, run ImportRun) error {
	query := `
		INSERT INTO import_runs (import_run_id, import_run_season, import_run_started_at)
		VALUES (:import_run_id, :import_run_season, :import_run_started_at)
	`

	if _, err := d.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("failed to insert import run: %w", err)
	}
	return nil
}

func (d *Database) FinishImportRun(ctx context.Context, run ImportRun) error {
	query := `
		UPDATE import_runs
		SET import_run_finished_at = :import_run_finished_at,
		    import_run_athletes = :import_run_athletes,
		    import_run_activities = :import_run_activities,
		    import_run_error = :import_run_error
		WHERE import_run_id = :import_run_id
	`

	if _, err := d.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("failed to finish import run: %w", err)
	}
	return nil
}

func (d *Database) GetLastImportRun(ctx context.Context, season int) (*ImportRun, error) {
	query := `
		SELECT *
		FROM import_runs
		WHERE import_run_season = $1 AND import_run_finished_at IS NOT NULL
		ORDER BY import_run_started_at DESC
		LIMIT 1
	`

	var run ImportRun
	if err := d.db.GetContext(ctx, &run, query, season); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no finished import run for season %d: %w", season, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get last import run: %w", err)
	}
	return &run, nil
}
