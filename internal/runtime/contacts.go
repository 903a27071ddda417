package runtime

// Neighbors returns, in ascending order, every index within contactRange of
// source on a line of populationSize individuals, clamped to the line and
// excluding source itself.
func Neighbors(populationSize, source, contactRange int) []int {
	if contactRange <= 0 || populationSize <= 1 {
		return nil
	}
	// Clamp before adding so huge ranges cannot overflow.
	if contactRange > populationSize {
		contactRange = populationSize
	}
	start := max(0, source-contactRange)
	end := min(populationSize-1, source+contactRange)

	out := make([]int, 0, end-start)
	for i := start; i <= end; i++ {
		if i != source {
			out = append(out, i)
		}
	}
	return out
}
