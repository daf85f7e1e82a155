package server

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/topi314/strava-challenge/server/scoring"
)

// ExportCSV writes one row per leaderboard entry with the points of every category.
// Categories the participant has no result in are left empty.
func ExportCSV(w io.Writer, standings *Standings, categories []scoring.Category) error {
	if len(categories) == 0 {
		categories = scoring.Categories()
	}

	header := []string{"position", "participant", "points", "moving_time_seconds", "prize"}
	for _, c := range categories {
		header = append(header, string(c))
	}

	records := [][]string{header}
	for i, entry := range standings.Leaderboard {
		var prize int64
		if i < len(standings.Prizes) {
			prize = standings.Prizes[i]
		}
		record := []string{
			strconv.Itoa(entry.Position),
			entry.Participant,
			strconv.Itoa(entry.Total),
			strconv.FormatInt(int64(entry.MovingTime.Seconds()), 10),
			strconv.FormatInt(prize, 10),
		}
		for _, c := range categories {
			if points, ok := entry.Points(c); ok {
				record = append(record, strconv.Itoa(points))
				continue
			}
			record = append(record, "")
		}
		records = append(records, record)
	}

	if err := csv.NewWriter(w).WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
