package strategy

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/mitchelldurbincs/CastleBlottoRL/internal/game"
)

const (
	recentWeight   = 0.7
	winRatioWeight = 0.3
)

// Genetic plays by sampling from its chromosome. It does not learn on its
// own; rewards only feed Fitness, and adaptation happens through selection
// in the trainer.
type Genetic struct {
	id         string
	rules      game.Rules
	params     GeneticParams
	chromosome *Chromosome
	rewards    []float64
	cycle
}

// NewGenetic creates an individual with a random chromosome.
func NewGenetic(rules game.Rules, params GeneticParams, rng *rand.Rand) *Genetic {
	return NewGeneticFromChromosome(rules, params, NewChromosome(rules.NumCastles, rng))
}

// NewGeneticFromChromosome wraps an existing chromosome, taking ownership.
func NewGeneticFromChromosome(rules game.Rules, params GeneticParams, c *Chromosome) *Genetic {
	return &Genetic{
		id:         newID(),
		rules:      rules,
		params:     params,
		chromosome: c,
	}
}

func (g *Genetic) ID() string { return g.id }
func (g *Genetic) Kind() Kind { return KindGenetic }

// Allocate samples budget armies from the chromosome weights.
func (g *Genetic) Allocate(rng *rand.Rand) (game.Allocation, error) {
	counts := Sanitize(g.chromosome.Sample(g.rules.Budget, rng), g.rules.Budget)
	a := game.FromCounts(counts)
	g.begin(a)
	return a, nil
}

// AbsorbReward records the reward for fitness evaluation.
func (g *Genetic) AbsorbReward(reward, progress float64) error {
	if _, err := g.finish(g.id); err != nil {
		return err
	}
	g.rewards = append(g.rewards, reward)
	return nil
}

// Fitness blends the mean of the most recent rewards (70%) with the
// all-time fraction of positive rewards (30%). No history scores 0.
func (g *Genetic) Fitness() float64 {
	if len(g.rewards) == 0 {
		return 0
	}

	start := len(g.rewards) - g.params.RecentWindow
	if start < 0 {
		start = 0
	}
	recent := stat.Mean(g.rewards[start:], nil)

	wins := 0
	for _, r := range g.rewards {
		if r > 0 {
			wins++
		}
	}
	winRatio := float64(wins) / float64(len(g.rewards))

	return recent*recentWeight + winRatio*winRatioWeight
}

// Mutate perturbs the chromosome in place.
func (g *Genetic) Mutate(rng *rand.Rand, rate, amount float64) {
	g.chromosome.Mutate(rng, rate, amount)
}

// MutateDefault mutates with the individual's configured rate and amount.
func (g *Genetic) MutateDefault(rng *rand.Rand) {
	g.Mutate(rng, g.params.MutationRate, g.params.MutationAmount)
}

// Crossover breeds a new individual from g's chromosome prefix and the
// partner's suffix. Both parents are left untouched and the child starts
// with no reward history.
func (g *Genetic) Crossover(partner Evolvable, rng *rand.Rand) (Evolvable, error) {
	other, ok := partner.(*Genetic)
	if !ok || other == nil {
		return nil, fmt.Errorf("%w: partner is not a genetic strategy", ErrIncompatibleChromosome)
	}
	child, err := g.chromosome.Crossover(other.chromosome, rng)
	if err != nil {
		return nil, err
	}
	return NewGeneticFromChromosome(g.rules, g.params, child), nil
}

// Clone copies the individual under a new id with an empty history.
func (g *Genetic) Clone() *Genetic {
	return NewGeneticFromChromosome(g.rules, g.params, g.chromosome.Clone())
}

// Chromosome returns a copy of the chromosome.
func (g *Genetic) Chromosome() *Chromosome {
	return g.chromosome.Clone()
}

// Rewards returns a copy of the reward history.
func (g *Genetic) Rewards() []float64 {
	return append([]float64(nil), g.rewards...)
}

// Params returns the individual's parameters.
func (g *Genetic) Params() GeneticParams {
	return g.params
}

func (g *Genetic) String() string {
	return fmt.Sprintf("Genetic(%s, %s)", g.id[:8], g.chromosome)
}
