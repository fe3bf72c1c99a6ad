package game

import (
	"fmt"
	"math/rand"
)

// Allocator is anything that can place its armies for a match.
type Allocator interface {
	Allocate(rng *rand.Rand) (Allocation, error)
}

// MatchResult is a scored match along with the allocations that produced it.
type MatchResult struct {
	Outcome
	Left  Allocation
	Right Allocation
}

// Play pulls a fresh allocation from each side and scores them.
func Play(left, right Allocator, values PointValues, rng *rand.Rand) (MatchResult, error) {
	if left == nil || right == nil {
		return MatchResult{}, ErrMissingStrategy
	}

	la, err := left.Allocate(rng)
	if err != nil {
		return MatchResult{}, fmt.Errorf("left allocate: %w", err)
	}
	ra, err := right.Allocate(rng)
	if err != nil {
		return MatchResult{}, fmt.Errorf("right allocate: %w", err)
	}

	outcome, err := Score(la, ra, values)
	if err != nil {
		return MatchResult{}, err
	}
	return MatchResult{Outcome: outcome, Left: la, Right: ra}, nil
}
