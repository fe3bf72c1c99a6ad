package strategy

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Chromosome is a point on the probability simplex over castles: one
// non-negative weight per castle, summing to 1.
type Chromosome struct {
	genes []float64
}

// NewChromosome draws uniform random weights and normalizes them.
func NewChromosome(n int, rng *rand.Rand) *Chromosome {
	genes := make([]float64, n)
	for i := range genes {
		genes[i] = rng.Float64()
	}
	c := &Chromosome{genes: genes}
	c.Normalize()
	return c
}

// ChromosomeFromGenes copies genes into a normalized chromosome.
func ChromosomeFromGenes(genes []float64) *Chromosome {
	c := &Chromosome{genes: append([]float64(nil), genes...)}
	c.Normalize()
	return c
}

// Len returns the number of castles covered.
func (c *Chromosome) Len() int { return len(c.genes) }

// Genes returns a copy of the weights.
func (c *Chromosome) Genes() []float64 {
	return append([]float64(nil), c.genes...)
}

// Clone returns an independent copy.
func (c *Chromosome) Clone() *Chromosome {
	return &Chromosome{genes: c.Genes()}
}

// Normalize rescales the weights to sum to 1. Negative or non-finite
// weights are zeroed; an all-zero vector becomes uniform.
func (c *Chromosome) Normalize() {
	for i, g := range c.genes {
		if g < 0 || math.IsNaN(g) || math.IsInf(g, 0) {
			c.genes[i] = 0
		}
	}
	sum := floats.Sum(c.genes)
	if sum <= 0 {
		copy(c.genes, uniform(len(c.genes)))
		return
	}
	floats.Scale(1/sum, c.genes)
}

// Mutate perturbs each weight with probability rate by Gaussian noise of
// scale amount, clipping to [0,1]. If no weight was picked, one random
// weight is perturbed anyway. Returns how many weights were perturbed.
func (c *Chromosome) Mutate(rng *rand.Rand, rate, amount float64) int {
	if len(c.genes) == 0 {
		return 0
	}

	mutated := 0
	for i := range c.genes {
		if rng.Float64() < rate {
			c.perturb(i, rng, amount)
			mutated++
		}
	}
	if mutated == 0 {
		c.perturb(rng.Intn(len(c.genes)), rng, amount)
		mutated = 1
	}
	c.Normalize()
	return mutated
}

func (c *Chromosome) perturb(i int, rng *rand.Rand, amount float64) {
	g := c.genes[i] + rng.NormFloat64()*amount
	c.genes[i] = math.Max(0, math.Min(1, g))
}

// Crossover splices c's prefix onto other's suffix at a random point in
// [1, N-1]. Neither parent is modified.
func (c *Chromosome) Crossover(other *Chromosome, rng *rand.Rand) (*Chromosome, error) {
	if other == nil || other.Len() != c.Len() {
		return nil, fmt.Errorf("%w: lengths differ", ErrIncompatibleChromosome)
	}
	n := c.Len()
	if n < 2 {
		return c.Clone(), nil
	}

	split := 1 + rng.Intn(n-1)
	genes := make([]float64, 0, n)
	genes = append(genes, c.genes[:split]...)
	genes = append(genes, other.genes[split:]...)

	child := &Chromosome{genes: genes}
	child.Normalize()
	return child, nil
}

// Sample draws a multinomial allocation of budget armies from the weights.
// The result is zero-indexed by castle.
func (c *Chromosome) Sample(budget int, rng *rand.Rand) []int {
	return sampleCounts(budget, c.genes, rng)
}

func (c *Chromosome) String() string {
	return fmt.Sprintf("Chromosome(%.3f)", c.genes)
}
