package strategy

import (
	"math/rand"

	"github.com/mitchelldurbincs/CastleBlottoRL/internal/game"
)

// Random spreads its armies uniformly at random and never learns.
type Random struct {
	id    string
	rules game.Rules
	probs []float64
	cycle
}

// NewRandom creates a random strategy for the given rules.
func NewRandom(rules game.Rules) *Random {
	return &Random{
		id:    newID(),
		rules: rules,
		probs: uniform(rules.NumCastles),
	}
}

func (r *Random) ID() string { return r.id }
func (r *Random) Kind() Kind { return KindRandom }

// Allocate draws a fresh multinomial allocation with equal castle weights.
func (r *Random) Allocate(rng *rand.Rand) (game.Allocation, error) {
	counts := Sanitize(sampleCounts(r.rules.Budget, r.probs, rng), r.rules.Budget)
	a := game.FromCounts(counts)
	r.begin(a)
	return a, nil
}

// AbsorbReward only checks the call order; a random player does not learn.
func (r *Random) AbsorbReward(reward, progress float64) error {
	_, err := r.finish(r.id)
	return err
}
