package scoring

import (
	"fmt"
	"slices"
)

// MovingTimeScope selects which moving time breaks ties between equal point totals.
type MovingTimeScope string

const (
	// MovingTimeTopCategories sums the moving time of the categories that count toward the point total.
	MovingTimeTopCategories MovingTimeScope = "top_categories"
	// MovingTimeAllCategories sums the moving time of every category a participant has a result in.
	MovingTimeAllCategories MovingTimeScope = "all_categories"
)

func ParseMovingTimeScope(s string) (MovingTimeScope, error) {
	switch MovingTimeScope(s) {
	case MovingTimeTopCategories, "":
		return MovingTimeTopCategories, nil
	case MovingTimeAllCategories:
		return MovingTimeAllCategories, nil
	}
	return "", fmt.Errorf("unknown moving time scope %q: want %s|%s", s, MovingTimeTopCategories, MovingTimeAllCategories)
}

const DefaultTopCategories = 3

var defaultPrizeSplit = []int{40, 25, 15, 11, 9}

type Rules struct {
	Points          PointsTable
	TopCategories   int
	MovingTimeScope MovingTimeScope
	// PrizeSplit holds the percentage of the prize pool per leaderboard position.
	PrizeSplit []int
	// Categories restricts scoring to a subset. Empty means every category counts.
	Categories []Category
	Payments   PaymentRules
}

func DefaultRules() Rules {
	return Rules{
		Points:          DefaultPointsTable(),
		TopCategories:   DefaultTopCategories,
		MovingTimeScope: MovingTimeTopCategories,
		PrizeSplit:      slices.Clone(defaultPrizeSplit),
		Payments:        DefaultPaymentRules(),
	}
}

func (r Rules) Validate() error {
	if r.Points.Len() == 0 {
		return fmt.Errorf("points table must not be empty")
	}
	if r.TopCategories < 1 {
		return fmt.Errorf("top categories must be at least 1, got %d", r.TopCategories)
	}
	if _, err := ParseMovingTimeScope(string(r.MovingTimeScope)); err != nil {
		return err
	}
	var sum int
	for i, p := range r.PrizeSplit {
		if p < 0 {
			return fmt.Errorf("prize split for position %d must not be negative, got %d", i+1, p)
		}
		sum += p
	}
	if sum > 100 {
		return fmt.Errorf("prize split adds up to %d%%, more than 100%%", sum)
	}
	for _, c := range r.Categories {
		if !c.Valid() {
			return &UnknownCategoryError{Category: string(c)}
		}
	}
	if err := r.Payments.Validate(); err != nil {
		return fmt.Errorf("invalid payments: %w", err)
	}
	return nil
}

func (r Rules) counts(c Category) bool {
	return len(r.Categories) == 0 || slices.Contains(r.Categories, c)
}
