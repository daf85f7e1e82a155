package scoring

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// PaymentRules describe the weekly minimum of the challenge. A participant pays PricePerWeek for
// every week in which they earned fewer points than required, unless a joker covers the week.
// One weekly point is one day with at least MinActivityTime of challenge activities.
type PaymentRules struct {
	PricePerWeek int64
	Currency     string
	// StartWeek is the first ISO week that is charged.
	StartWeek      int
	PointsRequired int
	// Weeks before EarlyUntilWeek only require EarlyPointsRequired.
	EarlyPointsRequired int
	EarlyUntilWeek      int
	MinActivityTime     time.Duration
	Jokers              int
}

func DefaultPaymentRules() PaymentRules {
	return PaymentRules{
		PricePerWeek:        5,
		Currency:            "EUR",
		StartWeek:           1,
		PointsRequired:      3,
		EarlyPointsRequired: 2,
		EarlyUntilWeek:      9,
		MinActivityTime:     30 * time.Minute,
	}
}

func (r PaymentRules) Validate() error {
	if r.PricePerWeek < 0 {
		return fmt.Errorf("price per week must not be negative, got %d", r.PricePerWeek)
	}
	if r.StartWeek < 1 || r.StartWeek > 53 {
		return fmt.Errorf("start week must be between 1 and 53, got %d", r.StartWeek)
	}
	if r.PointsRequired < 0 || r.EarlyPointsRequired < 0 {
		return fmt.Errorf("required points must not be negative")
	}
	if r.MinActivityTime < 0 {
		return fmt.Errorf("minimum activity time must not be negative, got %s", r.MinActivityTime)
	}
	if r.Jokers < 0 {
		return fmt.Errorf("jokers must not be negative, got %d", r.Jokers)
	}
	return nil
}

// Required returns the points needed in the given week.
func (r PaymentRules) Required(week int) int {
	if week < r.EarlyUntilWeek {
		return r.EarlyPointsRequired
	}
	return r.PointsRequired
}

// WeekPoints are the points a participant earned in one ISO week.
type WeekPoints struct {
	Participant string
	Week        int
	Points      int
}

type Payment struct {
	Participant string
	// MissedWeeks are the charged weeks.
	MissedWeeks []int
	// JokerWeeks are missed weeks a joker covered.
	JokerWeeks []int
	Amount     int64
}

// Payments charges every participant for the weeks from StartWeek up to, but excluding,
// currentWeek that fall short of the required points. The earliest missed weeks are covered
// by jokers. Payments are ordered by amount, highest first, then by participant.
func (r PaymentRules) Payments(points []WeekPoints, participants []string, currentWeek int) []Payment {
	earned := make(map[string]map[int]int, len(participants))
	for _, p := range points {
		if earned[p.Participant] == nil {
			earned[p.Participant] = make(map[int]int)
		}
		earned[p.Participant][p.Week] += p.Points
	}

	payments := make([]Payment, 0, len(participants))
	seen := make(map[string]struct{}, len(participants))
	for _, participant := range participants {
		if _, ok := seen[participant]; ok {
			continue
		}
		seen[participant] = struct{}{}

		payment := Payment{Participant: participant}
		for week := r.StartWeek; week < currentWeek; week++ {
			if earned[participant][week] >= r.Required(week) {
				continue
			}
			if len(payment.JokerWeeks) < r.Jokers {
				payment.JokerWeeks = append(payment.JokerWeeks, week)
				continue
			}
			payment.MissedWeeks = append(payment.MissedWeeks, week)
		}
		payment.Amount = int64(len(payment.MissedWeeks)) * r.PricePerWeek
		payments = append(payments, payment)
	}

	slices.SortStableFunc(payments, func(a, b Payment) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Participant, b.Participant)
	})
	return payments
}

// TotalPayments sums the amounts of all payments.
func TotalPayments(payments []Payment) int64 {
	var total int64
	for _, p := range payments {
		total += p.Amount
	}
	return total
}
