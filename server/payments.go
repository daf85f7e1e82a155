package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/topi314/strava-challenge/internal/xtime"
	"github.com/topi314/strava-challenge/server/notify"
	"github.com/topi314/strava-challenge/server/scoring"
)

// PaymentSummary lists what every enabled athlete owes for the weeks before Week.
type PaymentSummary struct {
	Season   int               `json:"season"`
	Week     int               `json:"week"`
	Currency string            `json:"currency"`
	Payments []scoring.Payment `json:"payments"`
	Total    int64             `json:"total"`
}

// Payments charges the weekly minimum of the season up to the week in progress at now.
func (s *Server) Payments(ctx context.Context, season int, now time.Time) (*PaymentSummary, error) {
	r := s.Engine().Rules()

	athletes, err := s.DB.GetAthletes(ctx, false)
	if err != nil {
		return nil, err
	}
	points, err := s.DB.GetWeekPoints(ctx, season, categoryNames(r), int64(r.Payments.MinActivityTime/time.Second))
	if err != nil {
		return nil, err
	}

	displayNames := make(map[int64]string, len(athletes))
	for _, athlete := range athletes {
		displayNames[athlete.ID] = athlete.DisplayName
	}
	names := participantNames(displayNames)

	participants := make([]string, 0, len(athletes))
	for _, athlete := range athletes {
		participants = append(participants, names[athlete.ID])
	}

	weekPoints := make([]scoring.WeekPoints, 0, len(points))
	for _, p := range points {
		name, ok := names[p.AthleteID]
		if !ok {
			continue
		}
		weekPoints = append(weekPoints, scoring.WeekPoints{
			Participant: name,
			Week:        p.Week,
			Points:      p.Points,
		})
	}

	week := xtime.SeasonWeek(season, now)
	payments := r.Payments.Payments(weekPoints, participants, week)

	return &PaymentSummary{
		Season:   season,
		Week:     week,
		Currency: r.Payments.Currency,
		Payments: payments,
		Total:    scoring.TotalPayments(payments),
	}, nil
}

// SendPayments posts the payment summary to the notification webhook.
func (s *Server) SendPayments(ctx context.Context, summary *PaymentSummary) error {
	if err := s.Webhook.Send(ctx, notify.PaymentsMessage(summary.Season, summary.Week, summary.Currency, summary.Payments)); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Sent payments", slog.Int("season", summary.Season), slog.Int("week", summary.Week), slog.Int64("total", summary.Total))
	return nil
}
