package strava

import (
	"fmt"
	"strings"
	"time"

	"github.com/topi314/strava-challenge/server/scoring"
)

type Athlete struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

func (a Athlete) DisplayName() string {
	name := strings.TrimSpace(a.Firstname + " " + a.Lastname)
	if name == "" {
		return a.Username
	}
	return name
}

type Activity struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	SportType          string    `json:"sport_type"`
	StartDate          time.Time `json:"start_date"`
	StartDateLocal     time.Time `json:"start_date_local"`
	MovingTime         int       `json:"moving_time"`
	ElapsedTime        int       `json:"elapsed_time"`
	Distance           float64   `json:"distance"`
	TotalElevationGain float64   `json:"total_elevation_gain"`
	Map                Map       `json:"map"`
	Athlete            struct {
		ID int64 `json:"id"`
	} `json:"athlete"`
}

func (a Activity) Duration() time.Duration {
	return time.Duration(a.MovingTime) * time.Second
}

// Category prefers the detailed sport type and falls back to the legacy activity type.
func (a Activity) Category() (scoring.Category, bool) {
	if c, ok := CategoryFor(a.SportType); ok {
		return c, true
	}
	return CategoryFor(a.Type)
}

type Map struct {
	ID              string `json:"id"`
	SummaryPolyline string `json:"summary_polyline"`
}

// Fault is the error body the Strava API returns with non 2xx responses.
type Fault struct {
	Message string       `json:"message"`
	Errors  []FaultError `json:"errors"`
}

type FaultError struct {
	Resource string `json:"resource"`
	Field    string `json:"field"`
	Code     string `json:"code"`
}

func (f Fault) Error() string {
	if len(f.Errors) == 0 {
		return f.Message
	}
	parts := make([]string, len(f.Errors))
	for i, e := range f.Errors {
		parts[i] = fmt.Sprintf("%s.%s: %s", e.Resource, e.Field, e.Code)
	}
	return fmt.Sprintf("%s (%s)", f.Message, strings.Join(parts, ", "))
}
