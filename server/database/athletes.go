package database

import (
	"context"
	"fmt"
	"time"
)

func (d *Database) GetAthletes(ctx context.Context, includeDisabled bool) ([]Athlete, error) {
	query := `
		SELECT *
		FROM athletes
		WHERE $1 OR NOT athlete_disabled
		ORDER BY athlete_display_name, athlete_id
	`

	var athletes []Athlete
	if err := d.db.SelectContext(ctx, &athletes, query, includeDisabled); err != nil {
		return nil, fmt.Errorf("failed to get athletes: %w", err)
	}

	return athletes, nil
}

// UpsertAthlete stores a freshly authorized athlete. Reconnecting re-enables a disabled athlete.
func (d *Database) UpsertAthlete(ctx context.Context, athlete Athlete) error {
	query := `
		INSERT INTO athletes (athlete_id, athlete_username, athlete_display_name, athlete_discord_user_id, athlete_access_token, athlete_refresh_token, athlete_token_expiry)
		VALUES (:athlete_id, :athlete_username, :athlete_display_name, :athlete_discord_user_id, :athlete_access_token, :athlete_refresh_token, :athlete_token_expiry)
		ON CONFLICT (athlete_id) DO UPDATE
		SET athlete_username = EXCLUDED.athlete_username,
		    athlete_display_name = EXCLUDED.athlete_display_name,
		    athlete_discord_user_id = EXCLUDED.athlete_discord_user_id,
		    athlete_access_token = EXCLUDED.athlete_access_token,
		    athlete_refresh_token = EXCLUDED.athlete_refresh_token,
		    athlete_token_expiry = EXCLUDED.athlete_token_expiry,
		    athlete_disabled = FALSE,
		    athlete_updated_at = now()
	`

	if _, err := d.db.NamedExecContext(ctx, query, athlete); err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("discord user %q is already linked to another athlete: %w", athlete.DiscordUserID, ErrDuplicate)
		}
		return fmt.Errorf("failed to upsert athlete: %w", err)
	}

	return nil
}

func (d *Database) UpdateAthleteToken(ctx context.Context, athleteID int64, accessToken string, refreshToken string, expiry time.Time) error {
	query := `
		UPDATE athletes
		SET athlete_access_token = $2,
		    athlete_refresh_token = $3,
		    athlete_token_expiry = $4,
		    athlete_updated_at = now()
		WHERE athlete_id = $1
	`

	if _, err := d.db.ExecContext(ctx, query, athleteID, accessToken, refreshToken, expiry); err != nil {
		return fmt.Errorf("failed to update athlete token: %w", err)
	}
	return nil
}

func (d *Database) DisableAthlete(ctx context.Context, athleteID int64) error {
	query := `
		UPDATE athletes
		SET athlete_disabled = TRUE,
		    athlete_updated_at = now()
		WHERE athlete_id = $1
	`

	if _, err := d.db.ExecContext(ctx, query, athleteID); err != nil {
		return fmt.Errorf("failed to disable athlete: %w", err)
	}
	return nil
}
