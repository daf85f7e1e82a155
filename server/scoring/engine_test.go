package scoring

import (
	"errors"
	"reflect"
	"slices"
	"testing"
	"time"
)

func TestPoints(t *testing.T) {
	engine := New(DefaultRules())

	tests := []struct {
		rank int
		want int
	}{
		{rank: 1, want: 10},
		{rank: 2, want: 9},
		{rank: 5, want: 6},
		{rank: 10, want: 1},
		{rank: 11, want: 0},
		{rank: 0, want: 0},
		{rank: -3, want: 0},
	}
	for _, tt := range tests {
		if got := engine.Points(tt.rank); got != tt.want {
			t.Errorf("Points(%d): got %d, want %d", tt.rank, got, tt.want)
		}
	}

	prev := engine.Points(1)
	for rank := 2; rank <= 20; rank++ {
		p := engine.Points(rank)
		if p > prev {
			t.Fatalf("Points(%d) = %d is greater than Points(%d) = %d", rank, p, rank-1, prev)
		}
		prev = p
	}
}

func TestParticipantScore_WorkedExample(t *testing.T) {
	results := []Result{
		{Participant: "julian", Category: CategoryBike, Rank: 1, MovingTime: 10 * time.Hour},
		{Participant: "julian", Category: CategoryBallSports, Rank: 5, MovingTime: 2 * time.Hour},
		{Participant: "julian", Category: CategoryRun, Rank: 3, MovingTime: 4 * time.Hour},
	}

	score, err := New(DefaultRules()).ParticipantScore(results, "julian")
	if err != nil {
		t.Fatalf("ParticipantScore: %v", err)
	}
	if score.Total != 24 {
		t.Errorf("total: got %d, want 24", score.Total)
	}
	if score.MovingTime != 16*time.Hour {
		t.Errorf("moving time: got %s, want 16h", score.MovingTime)
	}
	if p, ok := score.Points(CategoryBallSports); !ok || p != 6 {
		t.Errorf("ball sports points: got %d (%t), want 6", p, ok)
	}
	if _, ok := score.Points(CategoryGym); ok {
		t.Errorf("gym: participant without a result must not get an entry")
	}
}

func TestParticipantScore_TopCategories(t *testing.T) {
	results := []Result{
		{Participant: "p", Category: CategoryBike, Rank: 1, MovingTime: time.Hour},
		{Participant: "p", Category: CategoryRun, Rank: 1, MovingTime: time.Hour},
		{Participant: "p", Category: CategoryHiking, Rank: 2, MovingTime: time.Hour},
		{Participant: "p", Category: CategoryGym, Rank: 3, MovingTime: 5 * time.Hour},
	}

	tests := []struct {
		name           string
		scope          MovingTimeScope
		wantTotal      int
		wantMovingTime time.Duration
	}{
		{
			name:           "moving time of counted categories",
			scope:          MovingTimeTopCategories,
			wantTotal:      29,
			wantMovingTime: 3 * time.Hour,
		},
		{
			name:           "moving time of all categories",
			scope:          MovingTimeAllCategories,
			wantTotal:      29,
			wantMovingTime: 8 * time.Hour,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultRules()
			rules.MovingTimeScope = tt.scope

			score, err := New(rules).ParticipantScore(results, "p")
			if err != nil {
				t.Fatalf("ParticipantScore: %v", err)
			}
			if score.Total != tt.wantTotal {
				t.Errorf("total: got %d, want %d", score.Total, tt.wantTotal)
			}
			if score.MovingTime != tt.wantMovingTime {
				t.Errorf("moving time: got %s, want %s", score.MovingTime, tt.wantMovingTime)
			}

			var counted []Category
			for _, c := range score.Categories {
				if c.Counted {
					counted = append(counted, c.Category)
				}
			}
			if want := []Category{CategoryBike, CategoryRun, CategoryHiking}; !slices.Equal(counted, want) {
				t.Errorf("counted categories: got %v, want %v", counted, want)
			}
		})
	}
}

func TestParticipantScore_EqualPointsPreferMoreMovingTime(t *testing.T) {
	results := []Result{
		{Participant: "q", Category: CategoryBike, Rank: 2, MovingTime: time.Hour},
		{Participant: "q", Category: CategoryRun, Rank: 2, MovingTime: 3 * time.Hour},
		{Participant: "q", Category: CategoryHiking, Rank: 2, MovingTime: 2 * time.Hour},
		{Participant: "q", Category: CategoryGym, Rank: 2, MovingTime: 30 * time.Minute},
	}

	score, err := New(DefaultRules()).ParticipantScore(results, "q")
	if err != nil {
		t.Fatalf("ParticipantScore: %v", err)
	}
	if score.Total != 27 {
		t.Errorf("total: got %d, want 27", score.Total)
	}
	if score.MovingTime != 6*time.Hour {
		t.Errorf("moving time: got %s, want 6h", score.MovingTime)
	}
	if last := score.Categories[len(score.Categories)-1]; last.Category != CategoryGym || last.Counted {
		t.Errorf("gym should be the uncounted category, got %+v", last)
	}
}

func TestParticipantScore_FewerThanTopCategories(t *testing.T) {
	results := []Result{
		{Participant: "solo", Category: CategoryKlettern, Rank: 4, MovingTime: time.Hour},
		{Participant: "solo", Category: CategoryWaterSports, Rank: 12, MovingTime: 2 * time.Hour},
	}

	score, err := New(DefaultRules()).ParticipantScore(results, "solo")
	if err != nil {
		t.Fatalf("ParticipantScore: %v", err)
	}
	if score.Total != 7 {
		t.Errorf("total: got %d, want 7", score.Total)
	}
	if score.MovingTime != 3*time.Hour {
		t.Errorf("moving time: got %s, want 3h", score.MovingTime)
	}
}

func TestParticipantScore_NoResults(t *testing.T) {
	score, err := New(DefaultRules()).ParticipantScore(nil, "nobody")
	if err != nil {
		t.Fatalf("ParticipantScore: %v", err)
	}
	if score.Total != 0 || score.MovingTime != 0 || len(score.Categories) != 0 {
		t.Errorf("expected an empty score, got %+v", score)
	}
}

func TestParticipantScore_RestrictedCategories(t *testing.T) {
	rules := DefaultRules()
	rules.Categories = []Category{CategoryBike}

	results := []Result{
		{Participant: "r", Category: CategoryBike, Rank: 2, MovingTime: time.Hour},
		{Participant: "r", Category: CategoryRun, Rank: 1, MovingTime: time.Hour},
	}
	score, err := New(rules).ParticipantScore(results, "r")
	if err != nil {
		t.Fatalf("ParticipantScore: %v", err)
	}
	if score.Total != 9 {
		t.Errorf("total: got %d, want 9", score.Total)
	}
}

func TestCategoryRanking(t *testing.T) {
	results := []Result{
		{Participant: "c", Category: CategoryRun, Rank: 7, MovingTime: time.Hour},
		{Participant: "a", Category: CategoryRun, Rank: 1, MovingTime: 3 * time.Hour},
		{Participant: "x", Category: CategoryBike, Rank: 1, MovingTime: time.Hour},
		{Participant: "b", Category: CategoryRun, Rank: 2, MovingTime: 2 * time.Hour},
	}
	input := slices.Clone(results)

	ranking, err := New(DefaultRules()).CategoryRanking(results, CategoryRun)
	if err != nil {
		t.Fatalf("CategoryRanking: %v", err)
	}

	var got []string
	for _, r := range ranking {
		got = append(got, r.Participant)
	}
	if want := []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("ranking: got %v, want %v", got, want)
	}
	if !slices.Equal(results, input) {
		t.Errorf("CategoryRanking must not reorder its input")
	}

	empty, err := New(DefaultRules()).CategoryRanking(results, CategoryGym)
	if err != nil {
		t.Fatalf("CategoryRanking(gym): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("gym ranking: got %d results, want 0", len(empty))
	}
}

func TestCategoryRanking_DuplicateRank(t *testing.T) {
	results := []Result{
		{Participant: "a", Category: CategoryRun, Rank: 1},
		{Participant: "b", Category: CategoryRun, Rank: 1},
		{Participant: "c", Category: CategoryBike, Rank: 1},
	}

	_, err := New(DefaultRules()).CategoryRanking(results, CategoryRun)
	var rankErr *InvalidRankError
	if !errors.As(err, &rankErr) {
		t.Fatalf("expected InvalidRankError, got %v", err)
	}
	if rankErr.Rank != 1 || !slices.Equal(rankErr.Participants, []string{"a", "b"}) {
		t.Errorf("unexpected error details: %+v", rankErr)
	}
	if !errors.Is(err, ErrDataIntegrity) {
		t.Errorf("expected error to match ErrDataIntegrity")
	}

	if _, err = New(DefaultRules()).CategoryRanking(results, CategoryBike); err != nil {
		t.Errorf("bike ranking is valid, got %v", err)
	}
}

func TestCategoryRanking_UnknownCategory(t *testing.T) {
	_, err := New(DefaultRules()).CategoryRanking(nil, Category("tennis"))
	var catErr *UnknownCategoryError
	if !errors.As(err, &catErr) {
		t.Fatalf("expected UnknownCategoryError, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		check   func(t *testing.T, err error)
	}{
		{
			name: "valid with gaps",
			results: []Result{
				{Participant: "a", Category: CategoryRun, Rank: 1},
				{Participant: "b", Category: CategoryRun, Rank: 4},
			},
			check: func(t *testing.T, err error) {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			},
		},
		{
			name: "duplicate rank",
			results: []Result{
				{Participant: "a", Category: CategoryHiking, Rank: 3},
				{Participant: "b", Category: CategoryHiking, Rank: 3},
			},
			check: func(t *testing.T, err error) {
				var target *InvalidRankError
				if !errors.As(err, &target) {
					t.Errorf("expected InvalidRankError, got %v", err)
				}
			},
		},
		{
			name: "rank below one",
			results: []Result{
				{Participant: "a", Category: CategoryHiking, Rank: 0},
			},
			check: func(t *testing.T, err error) {
				var target *InvalidRankError
				if !errors.As(err, &target) {
					t.Errorf("expected InvalidRankError, got %v", err)
				}
			},
		},
		{
			name: "unknown category",
			results: []Result{
				{Participant: "a", Category: Category("chess"), Rank: 1},
			},
			check: func(t *testing.T, err error) {
				var target *UnknownCategoryError
				if !errors.As(err, &target) {
					t.Errorf("expected UnknownCategoryError, got %v", err)
				}
			},
		},
		{
			name: "negative moving time",
			results: []Result{
				{Participant: "a", Category: CategoryGym, Rank: 1, MovingTime: -time.Second},
			},
			check: func(t *testing.T, err error) {
				var target *NegativeMovingTimeError
				if !errors.As(err, &target) {
					t.Errorf("expected NegativeMovingTimeError, got %v", err)
				}
			},
		},
		{
			name: "participant ranked twice",
			results: []Result{
				{Participant: "a", Category: CategoryGym, Rank: 1},
				{Participant: "a", Category: CategoryGym, Rank: 2},
			},
			check: func(t *testing.T, err error) {
				var target *DuplicateResultError
				if !errors.As(err, &target) {
					t.Errorf("expected DuplicateResultError, got %v", err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(DefaultRules()).Validate(tt.results)
			tt.check(t, err)
			if err != nil && !errors.Is(err, ErrDataIntegrity) {
				t.Errorf("expected error to match ErrDataIntegrity, got %v", err)
			}
		})
	}
}

func TestLeaderboard_Ordering(t *testing.T) {
	results := []Result{
		{Participant: "a", Category: CategoryBike, Rank: 1, MovingTime: time.Hour},
		{Participant: "a", Category: CategoryRun, Rank: 2, MovingTime: time.Hour},
		{Participant: "b", Category: CategoryBike, Rank: 2, MovingTime: 2 * time.Hour},
		{Participant: "b", Category: CategoryRun, Rank: 1, MovingTime: 30 * time.Minute},
		{Participant: "c", Category: CategoryHiking, Rank: 1, MovingTime: 20 * time.Hour},
	}

	leaderboard, err := New(DefaultRules()).Leaderboard(results)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}

	wantOrder := []string{"b", "a", "c"}
	wantTotals := []int{19, 19, 10}
	for i, entry := range leaderboard {
		if entry.Participant != wantOrder[i] {
			t.Errorf("position %d: got %s, want %s", i+1, entry.Participant, wantOrder[i])
		}
		if entry.Total != wantTotals[i] {
			t.Errorf("position %d: total got %d, want %d", i+1, entry.Total, wantTotals[i])
		}
		if entry.Position != i+1 {
			t.Errorf("position %d: got position %d", i+1, entry.Position)
		}
	}

	for i := 1; i < len(leaderboard); i++ {
		prev, cur := leaderboard[i-1], leaderboard[i]
		if prev.Total < cur.Total || (prev.Total == cur.Total && prev.MovingTime < cur.MovingTime) {
			t.Errorf("entries %d and %d are out of order", i, i+1)
		}
	}
}

func TestLeaderboard_GenuineTiesKeepInputOrder(t *testing.T) {
	results := []Result{
		{Participant: "d", Category: CategoryGym, Rank: 1, MovingTime: time.Hour},
		{Participant: "e", Category: CategoryKlettern, Rank: 1, MovingTime: time.Hour},
	}
	engine := New(DefaultRules())

	leaderboard, err := engine.Leaderboard(results, "e", "d")
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if leaderboard[0].Participant != "e" || leaderboard[1].Participant != "d" {
		t.Errorf("got %s, %s, want e, d", leaderboard[0].Participant, leaderboard[1].Participant)
	}

	leaderboard, err = engine.Leaderboard(results)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if leaderboard[0].Participant != "d" || leaderboard[1].Participant != "e" {
		t.Errorf("got %s, %s, want d, e", leaderboard[0].Participant, leaderboard[1].Participant)
	}
}

func TestLeaderboard_ParticipantWithoutResults(t *testing.T) {
	results := []Result{
		{Participant: "a", Category: CategoryRun, Rank: 1, MovingTime: time.Hour},
	}

	leaderboard, err := New(DefaultRules()).Leaderboard(results, "ghost", "a")
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(leaderboard) != 2 {
		t.Fatalf("got %d entries, want 2", len(leaderboard))
	}
	ghost, ok := leaderboard.Find("ghost")
	if !ok {
		t.Fatalf("ghost missing from leaderboard")
	}
	if ghost.Position != 2 || ghost.Total != 0 {
		t.Errorf("ghost: got position %d total %d", ghost.Position, ghost.Total)
	}
}

func TestLeaderboard_InvalidInputProducesNoOutput(t *testing.T) {
	results := []Result{
		{Participant: "a", Category: CategoryRun, Rank: 1},
		{Participant: "b", Category: CategoryRun, Rank: 1},
		{Participant: "c", Category: CategoryBike, Rank: 1},
	}

	leaderboard, err := New(DefaultRules()).Leaderboard(results)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if leaderboard != nil {
		t.Errorf("expected no leaderboard, got %v", leaderboard)
	}
}

func TestLeaderboard_Idempotent(t *testing.T) {
	results := []Result{
		{Participant: "a", Category: CategoryBike, Rank: 3, MovingTime: time.Hour},
		{Participant: "b", Category: CategoryBike, Rank: 1, MovingTime: time.Hour},
		{Participant: "a", Category: CategoryRun, Rank: 1, MovingTime: time.Hour},
		{Participant: "c", Category: CategoryRun, Rank: 2, MovingTime: 90 * time.Minute},
	}
	engine := New(DefaultRules())

	first, err := engine.Leaderboard(results)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	second, err := engine.Leaderboard(results)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("leaderboards differ:\n%v\n%v", first, second)
	}
	if !first.Equal(second) {
		t.Errorf("Equal reported a difference")
	}
}
