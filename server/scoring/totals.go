package scoring

import (
	"cmp"
	"slices"
	"time"
)

// Total is the summed moving time of one participant in one category.
type Total struct {
	Participant string
	Category    Category
	MovingTime  time.Duration
}

// RankTotals ranks participants per category by moving time, most first. Equal times
// are ordered by participant name so every rank is unique.
func RankTotals(totals []Total) []Result {
	byCategory := make(map[Category][]Total)
	for _, t := range totals {
		byCategory[t.Category] = append(byCategory[t.Category], t)
	}

	var results []Result
	for _, c := range categories {
		ranked := byCategory[c]
		slices.SortFunc(ranked, func(a, b Total) int {
			if c := cmp.Compare(b.MovingTime, a.MovingTime); c != 0 {
				return c
			}
			return cmp.Compare(a.Participant, b.Participant)
		})
		for i, t := range ranked {
			results = append(results, Result{
				Participant: t.Participant,
				Category:    c,
				Rank:        i + 1,
				MovingTime:  t.MovingTime,
			})
		}
	}
	return results
}

// MergeResults replaces derived rankings with manual ones for every category that has
// at least one manual result.
func MergeResults(derived []Result, manual []Result) []Result {
	overridden := make(map[Category]bool)
	for _, r := range manual {
		overridden[r.Category] = true
	}

	merged := make([]Result, 0, len(derived)+len(manual))
	for _, r := range derived {
		if !overridden[r.Category] {
			merged = append(merged, r)
		}
	}
	return append(merged, manual...)
}
