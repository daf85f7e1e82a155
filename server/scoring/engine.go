package scoring

import (
	"cmp"
	"errors"
	"slices"
	"time"
)

// Result is a participant's finishing rank in one category of the season.
type Result struct {
	Participant string        `json:"participant"`
	Category    Category      `json:"category"`
	Rank        int           `json:"rank"`
	MovingTime  time.Duration `json:"moving_time"`
}

type CategoryPoints struct {
	Category   Category      `json:"category"`
	Rank       int           `json:"rank"`
	Points     int           `json:"points"`
	MovingTime time.Duration `json:"moving_time"`
	// Counted is set for the categories that make up the point total.
	Counted bool `json:"counted"`
}

type ParticipantScore struct {
	Participant string `json:"participant"`
	// Categories is ordered from the highest to the lowest scoring category.
	Categories []CategoryPoints `json:"categories"`
	Total      int              `json:"total"`
	// MovingTime is the tie-break time according to the rules' MovingTimeScope.
	MovingTime time.Duration `json:"moving_time"`
}

func (s ParticipantScore) Points(category Category) (int, bool) {
	for _, c := range s.Categories {
		if c.Category == category {
			return c.Points, true
		}
	}
	return 0, false
}

// Engine turns category results into scores and leaderboards. It keeps no state besides
// its rules, so one Engine can serve concurrent callers.
func New(rules Rules) *Engine {
	return &Engine{rules: rules}
}

type Engine struct {
	rules Rules
}

func (e *Engine) Rules() Rules {
	return e.rules
}

func (e *Engine) Points(rank int) int {
	return e.rules.Points.Points(rank)
}

// Validate reports every integrity problem of the result set at once.
func (e *Engine) Validate(results []Result) error {
	var errs []error
	byCategory := make(map[Category][]Result)
	for _, r := range results {
		if !r.Category.Valid() {
			errs = append(errs, &UnknownCategoryError{Category: string(r.Category)})
			continue
		}
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	for _, c := range categories {
		if err := validateCategory(c, byCategory[c]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func validateCategory(category Category, results []Result) error {
	var errs []error
	byRank := make(map[int][]string)
	byParticipant := make(map[string][]int)
	for _, r := range results {
		if r.Rank < 1 {
			errs = append(errs, &InvalidRankError{Category: category, Rank: r.Rank, Participants: []string{r.Participant}})
		}
		if r.MovingTime < 0 {
			errs = append(errs, &NegativeMovingTimeError{Participant: r.Participant, Category: category, MovingTime: r.MovingTime})
		}
		byRank[r.Rank] = append(byRank[r.Rank], r.Participant)
		byParticipant[r.Participant] = append(byParticipant[r.Participant], r.Rank)
	}

	// iterate in input order so the reported errors are deterministic
	reportedRanks := make(map[int]bool)
	reportedParticipants := make(map[string]bool)
	for _, r := range results {
		if participants := byRank[r.Rank]; r.Rank >= 1 && len(participants) > 1 && !reportedRanks[r.Rank] {
			reportedRanks[r.Rank] = true
			errs = append(errs, &InvalidRankError{Category: category, Rank: r.Rank, Participants: participants})
		}
		if ranks := byParticipant[r.Participant]; len(ranks) > 1 && !reportedParticipants[r.Participant] {
			reportedParticipants[r.Participant] = true
			errs = append(errs, &DuplicateResultError{Participant: r.Participant, Category: category, Ranks: ranks})
		}
	}
	return errors.Join(errs...)
}

// CategoryRanking returns the results of one category ordered from rank 1 downwards.
// Only the given category is validated.
func (e *Engine) CategoryRanking(results []Result, category Category) ([]Result, error) {
	if !category.Valid() {
		return nil, &UnknownCategoryError{Category: string(category)}
	}

	var ranking []Result
	for _, r := range results {
		if r.Category == category {
			ranking = append(ranking, r)
		}
	}
	if err := validateCategory(category, ranking); err != nil {
		return nil, err
	}

	slices.SortFunc(ranking, func(a, b Result) int {
		return cmp.Compare(a.Rank, b.Rank)
	})
	return ranking, nil
}

// ParticipantScore validates the whole result set before scoring a single participant,
// so a score is never derived from rankings that are themselves inconsistent.
func (e *Engine) ParticipantScore(results []Result, participant string) (ParticipantScore, error) {
	if err := e.Validate(results); err != nil {
		return ParticipantScore{}, err
	}
	return e.score(results, participant), nil
}

func (e *Engine) score(results []Result, participant string) ParticipantScore {
	score := ParticipantScore{
		Participant: participant,
	}
	for _, r := range results {
		if r.Participant != participant || !e.rules.counts(r.Category) {
			continue
		}
		score.Categories = append(score.Categories, CategoryPoints{
			Category:   r.Category,
			Rank:       r.Rank,
			Points:     e.rules.Points.Points(r.Rank),
			MovingTime: r.MovingTime,
		})
	}

	// Among equally scoring categories the one with more moving time is preferred.
	slices.SortFunc(score.Categories, func(a, b CategoryPoints) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		if c := cmp.Compare(b.MovingTime, a.MovingTime); c != 0 {
			return c
		}
		return cmp.Compare(a.Category.index(), b.Category.index())
	})

	for i := range score.Categories {
		c := &score.Categories[i]
		if i < e.rules.TopCategories {
			c.Counted = true
			score.Total += c.Points
		}
		if c.Counted || e.rules.MovingTimeScope == MovingTimeAllCategories {
			score.MovingTime += c.MovingTime
		}
	}
	return score
}

// Leaderboard scores the given participants, or everyone present in results when none
// are given, and orders them by total points and then moving time. Participants that
// tie on both keep their input order.
func (e *Engine) Leaderboard(results []Result, participants ...string) (Leaderboard, error) {
	if err := e.Validate(results); err != nil {
		return nil, err
	}

	if len(participants) == 0 {
		participants = Participants(results)
	}

	leaderboard := make(Leaderboard, 0, len(participants))
	seen := make(map[string]struct{}, len(participants))
	for _, participant := range participants {
		if _, ok := seen[participant]; ok {
			continue
		}
		seen[participant] = struct{}{}
		leaderboard = append(leaderboard, Entry{
			ParticipantScore: e.score(results, participant),
		})
	}

	slices.SortStableFunc(leaderboard, func(a, b Entry) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(b.MovingTime, a.MovingTime)
	})
	for i := range leaderboard {
		leaderboard[i].Position = i + 1
	}
	return leaderboard, nil
}

// Participants lists the participants of results in order of first appearance.
func Participants(results []Result) []string {
	var participants []string
	seen := make(map[string]struct{})
	for _, r := range results {
		if _, ok := seen[r.Participant]; ok {
			continue
		}
		seen[r.Participant] = struct{}{}
		participants = append(participants, r.Participant)
	}
	return participants
}
