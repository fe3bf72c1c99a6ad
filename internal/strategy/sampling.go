package strategy

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Sanitize forces counts to sum to budget. Negative entries are zeroed,
// then the remainder is spread one army at a time over castles in id
// order, adding when short and removing when over. Empty castles are
// skipped when removing.
func Sanitize(counts []int, budget int) []int {
	out := make([]int, len(counts))
	total := 0
	for i, n := range counts {
		if n > 0 {
			out[i] = n
			total += n
		}
	}
	if len(out) == 0 {
		return out
	}

	diff := budget - total
	for i := 0; diff != 0; i = (i + 1) % len(out) {
		switch {
		case diff > 0:
			out[i]++
			diff--
		case out[i] > 0:
			out[i]--
			diff++
		}
	}
	return out
}

// sampleCounts draws a multinomial sample of n trials over probs.
// probs need not be normalized but must be non-negative.
func sampleCounts(n int, probs []float64, rng *rand.Rand) []int {
	counts := make([]int, len(probs))
	if len(probs) == 0 || n <= 0 {
		return counts
	}

	cumulative := make([]float64, len(probs))
	floats.CumSum(cumulative, probs)
	total := cumulative[len(cumulative)-1]
	if total <= 0 {
		for i := 0; i < n; i++ {
			counts[rng.Intn(len(probs))]++
		}
		return counts
	}

	for i := 0; i < n; i++ {
		u := rng.Float64() * total
		idx := sort.Search(len(cumulative), func(j int) bool { return cumulative[j] > u })
		if idx == len(cumulative) {
			idx--
		}
		counts[idx]++
	}
	return counts
}

func uniform(n int) []float64 {
	p := make([]float64, n)
	for i := range p {
		p[i] = 1 / float64(n)
	}
	return p
}
