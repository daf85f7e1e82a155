package scoring

type Entry struct {
	Position int `json:"position"`
	ParticipantScore
}

type Leaderboard []Entry

func (l Leaderboard) Find(participant string) (Entry, bool) {
	for _, e := range l {
		if e.Participant == participant {
			return e, true
		}
	}
	return Entry{}, false
}

// Equal compares positions, totals and tie-break times, which is everything a
// published leaderboard shows.
func (l Leaderboard) Equal(other Leaderboard) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		a, b := l[i], other[i]
		if a.Position != b.Position || a.Participant != b.Participant || a.Total != b.Total || a.MovingTime != b.MovingTime {
			return false
		}
	}
	return true
}

// Prizes returns one share per leaderboard entry. Positions beyond the split get 0.
func (l Leaderboard) Prizes(pool int64, split []int) []int64 {
	shares := SplitPrize(pool, split)
	prizes := make([]int64, len(l))
	copy(prizes, shares)
	return prizes
}
