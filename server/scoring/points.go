package scoring

import (
	"errors"
	"fmt"
	"slices"
)

var defaultPoints = []int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}

// PointsTable maps a rank within a category to points. Index 0 holds the points for rank 1.
// The zero value awards no points.
type PointsTable struct {
	points []int
}

func DefaultPointsTable() PointsTable {
	return PointsTable{points: slices.Clone(defaultPoints)}
}

// NewPointsTable validates that no value is negative and that points never grow with rank.
func NewPointsTable(points ...int) (PointsTable, error) {
	if len(points) == 0 {
		return PointsTable{}, errors.New("points table must not be empty")
	}
	for i, p := range points {
		if p < 0 {
			return PointsTable{}, fmt.Errorf("points for rank %d must not be negative, got %d", i+1, p)
		}
		if i > 0 && p > points[i-1] {
			return PointsTable{}, fmt.Errorf("points for rank %d (%d) exceed points for rank %d (%d)", i+1, p, i, points[i-1])
		}
	}
	return PointsTable{points: slices.Clone(points)}, nil
}

// Points returns 0 for any rank outside the table.
func (t PointsTable) Points(rank int) int {
	if rank < 1 || rank > len(t.points) {
		return 0
	}
	return t.points[rank-1]
}

func (t PointsTable) Len() int {
	return len(t.points)
}

func (t PointsTable) Values() []int {
	return slices.Clone(t.points)
}
