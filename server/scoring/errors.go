package scoring

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDataIntegrity is matched by every error that rejects the input result set.
var ErrDataIntegrity = errors.New("data integrity error")

type InvalidRankError struct {
	Category     Category
	Rank         int
	Participants []string
}

func (e *InvalidRankError) Error() string {
	if len(e.Participants) > 1 {
		return fmt.Sprintf("rank %d in category %s is shared by %s", e.Rank, e.Category, strings.Join(e.Participants, ", "))
	}
	return fmt.Sprintf("invalid rank %d in category %s for %s", e.Rank, e.Category, strings.Join(e.Participants, ", "))
}

func (e *InvalidRankError) Is(target error) bool {
	return target == ErrDataIntegrity
}

type UnknownCategoryError struct {
	Category string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q", e.Category)
}

func (e *UnknownCategoryError) Is(target error) bool {
	return target == ErrDataIntegrity
}

type NegativeMovingTimeError struct {
	Participant string
	Category    Category
	MovingTime  time.Duration
}

func (e *NegativeMovingTimeError) Error() string {
	return fmt.Sprintf("negative moving time %s for %s in category %s", e.MovingTime, e.Participant, e.Category)
}

func (e *NegativeMovingTimeError) Is(target error) bool {
	return target == ErrDataIntegrity
}

// DuplicateResultError reports a participant that holds more than one rank in a category.
type DuplicateResultError struct {
	Participant string
	Category    Category
	Ranks       []int
}

func (e *DuplicateResultError) Error() string {
	return fmt.Sprintf("%s is ranked more than once in category %s: %v", e.Participant, e.Category, e.Ranks)
}

func (e *DuplicateResultError) Is(target error) bool {
	return target == ErrDataIntegrity
}
