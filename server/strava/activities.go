package strava

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

const defaultPerPage = 30

// GetActivities pages through the athlete's activities that started between after and before.
// Activities fetched before an error are returned together with it.
func (c *Client) GetActivities(ctx context.Context, ts oauth2.TokenSource, after time.Time, before time.Time) ([]Activity, error) {
	perPage := c.cfg.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	var activities []Activity
	for page := 1; ; page++ {
		query := url.Values{
			"after":    {strconv.FormatInt(after.Unix(), 10)},
			"before":   {strconv.FormatInt(before.Unix(), 10)},
			"page":     {strconv.Itoa(page)},
			"per_page": {strconv.Itoa(perPage)},
		}

		var pageActivities []Activity
		if err := c.do(ctx, ts, "/athlete/activities", query, &pageActivities); err != nil {
			return activities, err
		}
		slog.DebugContext(ctx, "Fetched activity page", slog.String("client", "strava"), slog.Int("page", page), slog.Int("count", len(pageActivities)))

		activities = append(activities, pageActivities...)
		if len(pageActivities) < perPage {
			break
		}
	}

	return activities, nil
}

// GetAthlete returns the athlete the token belongs to.
func (c *Client) GetAthlete(ctx context.Context, ts oauth2.TokenSource) (*Athlete, error) {
	var athlete Athlete
	if err := c.do(ctx, ts, "/athlete", nil, &athlete); err != nil {
		return nil, err
	}
	return &athlete, nil
}
