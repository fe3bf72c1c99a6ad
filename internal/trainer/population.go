package trainer

import (
	"fmt"
	"math/rand"

	"github.com/mitchelldurbincs/CastleBlottoRL/internal/game"
	"github.com/mitchelldurbincs/CastleBlottoRL/internal/strategy"
)

// population is one side's members. Only the trainer touches it, and only
// between rounds or from the single goroutine that owns a pairing.
type population struct {
	side     Side
	kind     strategy.Kind
	members  []strategy.Strategy
	evolving bool

	// best is set by evolution on evolving sides, and after every round on
	// the others.
	best strategy.Strategy
	// positives counts strictly positive rewards per member in the latest round.
	positives []int
}

func newPopulation(side Side, kind strategy.Kind, opts Options, rng *rand.Rand) (*population, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%s side: %w: %s", side, strategy.ErrUnknownKind, kind)
	}

	size := 1
	if opts.isPopulationKind(kind) {
		size = opts.PopulationSize
	}

	members := make([]strategy.Strategy, 0, size)
	for i := 0; i < size; i++ {
		s, err := strategy.New(kind, opts.Rules, opts.Params, rng)
		if err != nil {
			return nil, fmt.Errorf("%s side: %w", side, err)
		}
		members = append(members, s)
	}

	p := &population{
		side:      side,
		kind:      kind,
		members:   members,
		evolving:  kind == strategy.KindGenetic && opts.isPopulationKind(kind),
		positives: make([]int, size),
	}
	if size == 1 {
		p.best = members[0]
	}
	return p, nil
}

func (p *population) size() int { return len(p.members) }

func (p *population) resetRound() {
	p.positives = make([]int, len(p.members))
}

// trackMostPositive picks the member with the most positive rewards in the
// latest round, first in member order on ties.
func (p *population) trackMostPositive() {
	bestIdx := 0
	for i, n := range p.positives {
		if n > p.positives[bestIdx] {
			bestIdx = i
		}
	}
	p.best = p.members[bestIdx]
}

// pairing is one match of a round: indices into each side's members.
type pairing struct {
	left  int
	right int
}

// pairings shuffles both sides independently and matches them up,
// cycling the smaller side so every member of the larger one plays once.
func pairings(leftSize, rightSize int, rng *rand.Rand) []pairing {
	lp := rng.Perm(leftSize)
	rp := rng.Perm(rightSize)

	n := leftSize
	if rightSize > n {
		n = rightSize
	}
	out := make([]pairing, n)
	for i := range out {
		out[i] = pairing{left: lp[i%leftSize], right: rp[i%rightSize]}
	}
	return out
}

// rewards turns a scored match into each side's reward.
func rewards(o game.Outcome, winBonus, losePenalty float64) (left, right float64) {
	if o.LeftWon {
		return float64(o.LeftScore) + winBonus, float64(o.RightScore) - losePenalty
	}
	return float64(o.LeftScore) - losePenalty, float64(o.RightScore) + winBonus
}
