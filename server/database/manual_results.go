package database

import (
	"context"
	"fmt"
)

func (d *Database) InsertManualResult(ctx context.Context, result ManualResult) (int64, error) {
	query := `
		INSERT INTO manual_results (manual_result_season, manual_result_participant, manual_result_category, manual_result_rank, manual_result_moving_time)
		VALUES (:manual_result_season, :manual_result_participant, :manual_result_category, :manual_result_rank, :manual_result_moving_time)
		RETURNING manual_result_id
	`

	q, args, err := d.db.BindNamed(query, result)
	if err != nil {
		return 0, fmt.Errorf("failed to bind named parameters: %w", err)
	}

	var id int64
	if err = d.db.GetContext(ctx, &id, q, args...); err != nil {
		if isDuplicate(err) {
			return 0, fmt.Errorf("%s already has a result in %s: %w", result.Participant, result.Category, ErrDuplicate)
		}
		return 0, fmt.Errorf("failed to insert manual result: %w", err)
	}
	return id, nil
}

func (d *Database) GetManualResults(ctx context.Context, season int) ([]ManualResult, error) {
	query := `
		SELECT *
		FROM manual_results
		WHERE manual_result_season = $1
		ORDER BY manual_result_category, manual_result_rank, manual_result_id
	`

	var results []ManualResult
	if err := d.db.SelectContext(ctx, &results, query, season); err != nil {
		return nil, fmt.Errorf("failed to get manual results: %w", err)
	}

	return results, nil
}

// DeleteManualResult removes a hand-entered result. ErrNotFound is returned when there is none.
func (d *Database) DeleteManualResult(ctx context.Context, season int, participant string, category string) error {
	query := `
		DELETE FROM manual_results
		WHERE manual_result_season = $1 AND manual_result_participant = $2 AND manual_result_category = $3
	`

	rs, err := d.db.ExecContext(ctx, query, season, participant, category)
	if err != nil {
		return fmt.Errorf("failed to delete manual result: %w", err)
	}
	if n, err := rs.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s has no result in %s: %w", participant, category, ErrNotFound)
	}
	return nil
}
