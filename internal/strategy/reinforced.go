package strategy

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/mitchelldurbincs/CastleBlottoRL/internal/game"
)

// Decision is one step of building an allocation: with Remaining armies
// still to place, one army went to Castle.
type Decision struct {
	Remaining int
	Castle    int
}

// Reinforced places armies one at a time with an epsilon-greedy policy over
// a Q-table indexed by (armies remaining, castle). The number of armies
// still to place acts as a pseudo-state, so the same castle can be valued
// differently early and late in an allocation.
type Reinforced struct {
	id     string
	rules  game.Rules
	params ReinforcedParams

	// q has Budget+1 rows (armies remaining) and NumCastles columns.
	q     *mat.Dense
	trace []Decision
	cycle
}

// NewReinforced creates a learner with every Q value set to 1.
func NewReinforced(rules game.Rules, params ReinforcedParams) *Reinforced {
	rows, cols := rules.Budget+1, rules.NumCastles
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = 1
	}
	return &Reinforced{
		id:     newID(),
		rules:  rules,
		params: params,
		q:      mat.NewDense(rows, cols, data),
	}
}

func (r *Reinforced) ID() string { return r.id }
func (r *Reinforced) Kind() Kind { return KindReinforced }

// Allocate spends the budget one army at a time. With probability epsilon a
// castle is picked uniformly, otherwise the best valued castle for the
// current row wins, lowest id first on ties.
func (r *Reinforced) Allocate(rng *rand.Rand) (game.Allocation, error) {
	n := r.rules.NumCastles
	counts := make([]int, n)
	trace := make([]Decision, 0, r.rules.Budget)

	for remaining := r.rules.Budget; remaining > 0; remaining-- {
		var col int
		if rng.Float64() < r.params.Epsilon {
			col = rng.Intn(n)
		} else {
			col = floats.MaxIdx(r.q.RawRowView(remaining))
		}
		counts[col]++
		trace = append(trace, Decision{Remaining: remaining, Castle: col + 1})
	}

	a := game.FromCounts(Sanitize(counts, r.rules.Budget))
	r.trace = trace
	r.begin(a)
	return a, nil
}

// AbsorbReward runs a backward one-step Q update over the cached trace.
// The final decision learns the normalized reward alone; earlier ones also
// take the discounted best value of the following row. The learning rate
// decays linearly to zero with progress, and values never drop below zero.
func (r *Reinforced) AbsorbReward(reward, progress float64) error {
	if _, err := r.finish(r.id); err != nil {
		return err
	}

	nr := r.normalize(reward)
	lr := r.params.LearningRate * (1 - clamp01(progress))

	last := len(r.trace) - 1
	for i := last; i >= 0; i-- {
		d := r.trace[i]
		target := nr
		if i < last {
			target += r.params.DiscountFactor * floats.Max(r.q.RawRowView(r.trace[i+1].Remaining))
		}
		col := d.Castle - 1
		cur := r.q.At(d.Remaining, col)
		next := cur + lr*(target-cur)
		if next < 0 {
			next = 0
		}
		r.q.Set(d.Remaining, col, next)
	}

	r.trace = nil
	return nil
}

func (r *Reinforced) normalize(reward float64) float64 {
	switch {
	case reward > 0:
		return reward / r.params.WinReward
	case reward < 0:
		return reward / r.params.LosePenalty
	default:
		return 0
	}
}

// QTable returns a copy of the learned values.
func (r *Reinforced) QTable() *mat.Dense {
	return mat.DenseCopyOf(r.q)
}

// QValue returns the learned value of sending the next army to castle when
// remaining armies are left to place.
func (r *Reinforced) QValue(remaining, castle int) float64 {
	return r.q.At(remaining, castle-1)
}

// Trace returns the decisions behind the pending allocation.
func (r *Reinforced) Trace() []Decision {
	out := make([]Decision, len(r.trace))
	copy(out, r.trace)
	return out
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
