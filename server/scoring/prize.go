package scoring

// SplitPrize divides pool by the given percentages. Rounding remainders go to the first
// position so the shares always add up to the percentage of the pool that is handed out.
func SplitPrize(pool int64, split []int) []int64 {
	if len(split) == 0 || pool <= 0 {
		return make([]int64, len(split))
	}

	shares := make([]int64, len(split))
	var (
		percent int64
		given   int64
	)
	for i, p := range split {
		shares[i] = pool * int64(p) / 100
		given += shares[i]
		percent += int64(p)
	}
	shares[0] += pool*percent/100 - given
	return shares
}
