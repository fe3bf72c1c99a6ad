package game

import (
	"fmt"
	"sort"
	"strings"
)

// Allocation maps castle id to the number of armies placed there.
// Missing castles hold zero armies.
type Allocation map[int]int

// FromCounts builds an allocation from a zero-indexed count slice, so
// counts[0] lands on castle 1.
func FromCounts(counts []int) Allocation {
	a := make(Allocation, len(counts))
	for i, n := range counts {
		a[i+1] = n
	}
	return a
}

// Armies returns the armies placed on castle c.
func (a Allocation) Armies(c int) int {
	return a[c]
}

// Total returns the number of armies placed across all castles.
func (a Allocation) Total() int {
	total := 0
	for _, n := range a {
		total += n
	}
	return total
}

// Counts returns a zero-indexed count slice of length n.
func (a Allocation) Counts(n int) []int {
	counts := make([]int, n)
	for c, armies := range a {
		if c >= 1 && c <= n {
			counts[c-1] = armies
		}
	}
	return counts
}

// Clone returns an independent copy.
func (a Allocation) Clone() Allocation {
	out := make(Allocation, len(a))
	for c, n := range a {
		out[c] = n
	}
	return out
}

// Validate checks every castle is known, every count is non-negative and
// the total matches the budget exactly.
func (a Allocation) Validate(r Rules) error {
	for c, n := range a {
		if c < 1 || c > r.NumCastles {
			return fmt.Errorf("%w: castle %d not in 1..%d", ErrUnknownCastle, c, r.NumCastles)
		}
		if n < 0 {
			return fmt.Errorf("%w: castle %d has %d", ErrNegativeArmies, c, n)
		}
	}
	if total := a.Total(); total != r.Budget {
		return fmt.Errorf("%w: placed %d of %d", ErrBudgetMismatch, total, r.Budget)
	}
	return nil
}

func (a Allocation) String() string {
	castles := make([]int, 0, len(a))
	for c := range a {
		castles = append(castles, c)
	}
	sort.Ints(castles)

	var sb strings.Builder
	sb.WriteString("{")
	for i, c := range castles {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%d:%d", c, a[c])
	}
	sb.WriteString("}")
	return sb.String()
}
