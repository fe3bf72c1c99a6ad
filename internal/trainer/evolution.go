package trainer

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/mitchelldurbincs/CastleBlottoRL/internal/strategy"
)

// generationStats summarizes one evolution step.
type generationStats struct {
	best        strategy.Evolvable
	bestFitness float64
	meanFitness float64
	eliteCount  int
}

type ranked struct {
	member  strategy.Evolvable
	fitness float64
}

// eliteCount is ceil(rate * size), at least 1 and at most size.
func eliteCount(size int, rate float64) int {
	n := int(math.Ceil(rate * float64(size)))
	if n < 1 {
		n = 1
	}
	if n > size {
		n = size
	}
	return n
}

// evolve replaces members with the next generation: elites carried over
// unchanged, the rest bred from a tournament winner and a random elite.
func evolve(members []strategy.Strategy, opts Options, rng *rand.Rand) ([]strategy.Strategy, generationStats, error) {
	pool := make([]ranked, len(members))
	fitness := make([]float64, len(members))
	for i, m := range members {
		e, ok := m.(strategy.Evolvable)
		if !ok {
			return nil, generationStats{}, fmt.Errorf("member %s (%s) cannot evolve", m.ID(), m.Kind())
		}
		pool[i] = ranked{member: e, fitness: e.Fitness()}
		fitness[i] = pool[i].fitness
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].fitness > pool[j].fitness
	})

	size := len(pool)
	elites := eliteCount(size, opts.ElitismRate)

	next := make([]strategy.Strategy, 0, size)
	for i := 0; i < elites; i++ {
		next = append(next, pool[i].member)
	}

	k := opts.TournamentSize
	if k > size {
		k = size
	}
	genetic := opts.Params.Genetic
	for len(next) < size {
		a := tournament(pool, k, rng)
		b := pool[rng.Intn(elites)].member

		child, err := a.Crossover(b, rng)
		if err != nil {
			return nil, generationStats{}, fmt.Errorf("crossover: %w", err)
		}
		child.Mutate(rng, genetic.MutationRate, genetic.MutationAmount)
		next = append(next, child)
	}

	return next, generationStats{
		best:        pool[0].member,
		bestFitness: pool[0].fitness,
		meanFitness: stat.Mean(fitness, nil),
		eliteCount:  elites,
	}, nil
}

// tournament draws k distinct members and returns the fittest. pool is
// sorted, so on equal fitness the lower index wins.
func tournament(pool []ranked, k int, rng *rand.Rand) strategy.Evolvable {
	contenders := rng.Perm(len(pool))[:k]
	winner := contenders[0]
	for _, idx := range contenders[1:] {
		if pool[idx].fitness > pool[winner].fitness ||
			(pool[idx].fitness == pool[winner].fitness && idx < winner) {
			winner = idx
		}
	}
	return pool[winner].member
}
