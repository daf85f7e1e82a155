package xtime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SeasonRange returns the first and the last second of the given year in UTC.
func SeasonRange(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0).Add(-time.Second)
	return start, end
}

func CurrentSeason() int {
	return time.Now().UTC().Year()
}

// ParseSeason accepts "2025", "s2025" and "season-2025".
func ParseSeason(value string) (int, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.TrimPrefix(value, "season-")
	value = strings.TrimPrefix(value, "s")

	year, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid season %q: %w", value, err)
	}
	if year < 2000 || year > 9999 {
		return 0, fmt.Errorf("season %d out of range", year)
	}
	return year, nil
}

// SeasonProgress returns how many days of the season passed and how many remain at now.
func SeasonProgress(year int, now time.Time) (int, int) {
	start, end := SeasonRange(year)
	days := int(end.Sub(start).Hours()/24) + 1

	now = now.UTC()
	if now.Before(start) {
		return 0, days
	}
	if now.After(end) {
		return days, 0
	}
	elapsed := int(now.Sub(start).Hours()/24) + 1
	return elapsed, days - elapsed
}

// SeasonWeek returns the ISO week of the season that is in progress at now. A season that
// ended returns the week after its last week, a season that did not start returns 1.
func SeasonWeek(year int, now time.Time) int {
	nowYear, week := now.UTC().ISOWeek()
	switch {
	case nowYear < year:
		return 1
	case nowYear > year:
		// December 28 is always in the last ISO week of its year.
		_, last := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
		return last + 1
	}
	return week
}
