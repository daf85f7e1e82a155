package metrics

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/topi314/strava-challenge/server/scoring"
)

const (
	MetricPoints      = "challenge_leaderboard_points"
	MetricMovingTime  = "challenge_leaderboard_moving_time_seconds"
	MetricPosition    = "challenge_leaderboard_position"
	MetricParticipant = "challenge_participants"
)

// Families renders the leaderboard as gauge families, one sample per participant.
func Families(season int, lb scoring.Leaderboard) []*dto.MetricFamily {
	points := gaugeFamily(MetricPoints, "Total points of the best categories.")
	movingTime := gaugeFamily(MetricMovingTime, "Moving time used to break ties, in seconds.")
	position := gaugeFamily(MetricPosition, "Position on the leaderboard.")

	seasonLabel := strconv.Itoa(season)
	for _, entry := range lb {
		labels := []*dto.LabelPair{
			{Name: proto.String("participant"), Value: proto.String(entry.Participant)},
			{Name: proto.String("season"), Value: proto.String(seasonLabel)},
		}
		points.Metric = append(points.Metric, gauge(labels, float64(entry.Total)))
		movingTime.Metric = append(movingTime.Metric, gauge(labels, entry.MovingTime.Seconds()))
		position.Metric = append(position.Metric, gauge(labels, float64(entry.Position)))
	}

	participants := gaugeFamily(MetricParticipant, "Participants on the leaderboard.")
	participants.Metric = []*dto.Metric{
		gauge([]*dto.LabelPair{{Name: proto.String("season"), Value: proto.String(seasonLabel)}}, float64(len(lb))),
	}

	return []*dto.MetricFamily{points, movingTime, position, participants}
}

func gaugeFamily(name string, help string) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_GAUGE.Enum(),
	}
}

func gauge(labels []*dto.LabelPair, value float64) *dto.Metric {
	return &dto.Metric{
		Label: labels,
		Gauge: &dto.Gauge{Value: proto.Float64(value)},
	}
}

// Write stores the leaderboard in the Prometheus text format for a node_exporter
// textfile collector. The file is replaced atomically.
func Write(path string, season int, lb scoring.Leaderboard) error {
	buf := new(bytes.Buffer)
	for _, family := range Families(season, lb) {
		// the text format has no representation for a family without samples
		if len(family.Metric) == 0 {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(buf, family); err != nil {
			return fmt.Errorf("failed to encode metric %s: %w", family.GetName(), err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp metrics file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err = tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close metrics file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to chmod metrics file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace metrics file: %w", err)
	}
	return nil
}
