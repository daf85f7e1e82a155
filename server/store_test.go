package server

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/topi314/strava-challenge/server/database"
)

var _ Store = (*fakeStore)(nil)

// fakeStore keeps everything in memory. Set the err fields to make the matching call fail.
type fakeStore struct {
	mu sync.Mutex

	athletes      []database.Athlete
	activities    []database.Activity
	manual        []database.ManualResult
	weekPoints    []database.WeekPoints
	insertedRuns  []database.ImportRun
	finishedRuns  []database.ImportRun
	tokenUpdates  map[int64]string
	disabled      []int64
	deletedManual []string

	getAthletesErr error
}

func (f *fakeStore) GetAthletes(_ context.Context, includeDisabled bool) ([]database.Athlete, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getAthletesErr != nil {
		return nil, f.getAthletesErr
	}
	var athletes []database.Athlete
	for _, a := range f.athletes {
		if includeDisabled || !a.Disabled {
			athletes = append(athletes, a)
		}
	}
	return athletes, nil
}

func (f *fakeStore) UpsertAthlete(_ context.Context, athlete database.Athlete) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.athletes {
		if a.ID == athlete.ID {
			f.athletes[i] = athlete
			return nil
		}
	}
	f.athletes = append(f.athletes, athlete)
	return nil
}

func (f *fakeStore) UpdateAthleteToken(_ context.Context, athleteID int64, accessToken string, _ string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tokenUpdates == nil {
		f.tokenUpdates = make(map[int64]string)
	}
	f.tokenUpdates[athleteID] = accessToken
	return nil
}

func (f *fakeStore) DisableAthlete(_ context.Context, athleteID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disabled = append(f.disabled, athleteID)
	for i := range f.athletes {
		if f.athletes[i].ID == athleteID {
			f.athletes[i].Disabled = true
		}
	}
	return nil
}

func (f *fakeStore) UpsertActivities(_ context.Context, activities []database.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activities = append(f.activities, activities...)
	return nil
}

func (f *fakeStore) GetCategoryTotals(context.Context, int, []string) ([]database.CategoryTotal, error) {
	return nil, nil
}

func (f *fakeStore) GetWeekPoints(context.Context, int, []string, int64) ([]database.WeekPoints, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.weekPoints), nil
}

func (f *fakeStore) GetSeasonSummary(_ context.Context, season int) (*database.SeasonSummary, error) {
	return &database.SeasonSummary{Season: season}, nil
}

func (f *fakeStore) InsertManualResult(_ context.Context, result database.ManualResult) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result.ID = int64(len(f.manual) + 1)
	f.manual = append(f.manual, result)
	return result.ID, nil
}

func (f *fakeStore) GetManualResults(_ context.Context, season int) ([]database.ManualResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var results []database.ManualResult
	for _, m := range f.manual {
		if m.Season == season {
			results = append(results, m)
		}
	}
	return results, nil
}

func (f *fakeStore) DeleteManualResult(_ context.Context, season int, participant string, category string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.manual {
		if m.Season == season && m.Participant == participant && m.Category == category {
			f.manual = slices.Delete(f.manual, i, i+1)
			f.deletedManual = append(f.deletedManual, participant+"/"+category)
			return nil
		}
	}
	return database.ErrNotFound
}

func (f *fakeStore) InsertImportRun(_ context.Context, run database.ImportRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertedRuns = append(f.insertedRuns, run)
	return nil
}

func (f *fakeStore) FinishImportRun(_ context.Context, run database.ImportRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finishedRuns = append(f.finishedRuns, run)
	return nil
}

func (f *fakeStore) GetLastImportRun(_ context.Context, season int) (*database.ImportRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.finishedRuns) - 1; i >= 0; i-- {
		if f.finishedRuns[i].Season == season {
			run := f.finishedRuns[i]
			return &run, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeStore) Close() error {
	return nil
}
