package trainer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/CastleBlottoRL/internal/game"
	"github.com/mitchelldurbincs/CastleBlottoRL/internal/strategy"
	"github.com/mitchelldurbincs/CastleBlottoRL/internal/testutil"
)

// geneticPool builds individuals whose single recorded reward is given.
func geneticPool(t *testing.T, rewards []float64) []strategy.Strategy {
	t.Helper()
	rng := testutil.NewTestRNG(1)
	rules := testutil.SmallRules()
	params := strategy.DefaultParams().Genetic

	members := make([]strategy.Strategy, len(rewards))
	for i, r := range rewards {
		g := strategy.NewGenetic(rules, params, rng)
		_, err := g.Allocate(rng)
		require.NoError(t, err)
		require.NoError(t, g.AbsorbReward(r, 0.5))
		members[i] = g
	}
	return members
}

func TestEliteCount(t *testing.T) {
	tests := []struct {
		size int
		rate float64
		want int
	}{
		{50, 0.1, 5},
		{10, 0.1, 1},
		{11, 0.1, 2},
		{3, 0.1, 1},
		{1, 0.1, 1},
		{4, 1, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, eliteCount(tt.size, tt.rate), "size=%d rate=%v", tt.size, tt.rate)
	}
}

func TestEvolve_KeepsBestUnchanged(t *testing.T) {
	members := geneticPool(t, []float64{-10, 5, 80, 20, -3, 0, 15, 40, 60, 1})
	champion := members[2]
	championGenes := champion.(*strategy.Genetic).Chromosome().Genes()

	opts := smallOptions()
	next, stats, err := evolve(members, opts, testutil.NewTestRNG(7))
	require.NoError(t, err)

	assert.Len(t, next, len(members))
	assert.Same(t, champion, next[0], "fittest member leads the next generation")
	assert.Same(t, champion, stats.best)
	assert.Equal(t, championGenes, champion.(*strategy.Genetic).Chromosome().Genes())
	assert.Equal(t, 1, stats.eliteCount)
	assert.InDelta(t, champion.(*strategy.Genetic).Fitness(), stats.bestFitness, 1e-12)

	for _, m := range next[1:] {
		assert.NotSame(t, champion, m)
		assert.Equal(t, strategy.KindGenetic, m.Kind())
		g := m.(*strategy.Genetic)
		assert.Empty(t, g.Rewards(), "offspring start with no history")
	}
}

func TestEvolve_ElitesInFitnessOrder(t *testing.T) {
	members := geneticPool(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20})
	opts := smallOptions()
	opts.ElitismRate = 0.2

	next, stats, err := evolve(members, opts, testutil.NewTestRNG(3))
	require.NoError(t, err)
	require.Equal(t, 4, stats.eliteCount)

	for i := 0; i < 4; i++ {
		assert.Same(t, members[len(members)-1-i], next[i])
	}
}

func TestEvolve_TiesKeepOriginalOrder(t *testing.T) {
	members := geneticPool(t, []float64{10, 10, 10, 10})
	opts := smallOptions()
	opts.ElitismRate = 0.5

	next, stats, err := evolve(members, opts, testutil.NewTestRNG(3))
	require.NoError(t, err)
	assert.Same(t, members[0], stats.best)
	assert.Same(t, members[0], next[0])
	assert.Same(t, members[1], next[1])
}

func TestEvolve_RejectsNonEvolvable(t *testing.T) {
	members := []strategy.Strategy{strategy.NewRandom(testutil.SmallRules())}
	_, _, err := evolve(members, smallOptions(), testutil.NewTestRNG(1))
	assert.Error(t, err)
}

func TestTournament_FullDrawPicksFittest(t *testing.T) {
	members := geneticPool(t, []float64{50, 40, 30})
	pool := make([]ranked, len(members))
	for i, m := range members {
		e := m.(strategy.Evolvable)
		pool[i] = ranked{member: e, fitness: e.Fitness()}
	}

	rng := testutil.NewTestRNG(11)
	for i := 0; i < 10; i++ {
		assert.Same(t, pool[0].member, tournament(pool, len(pool), rng))
	}
}

func TestRewards(t *testing.T) {
	tests := []struct {
		name      string
		outcome   game.Outcome
		wantLeft  float64
		wantRight float64
	}{
		{
			name:      "left wins",
			outcome:   game.Outcome{LeftWon: true, LeftScore: 10, RightScore: 5},
			wantLeft:  110,
			wantRight: -45,
		},
		{
			name:      "right wins",
			outcome:   game.Outcome{LeftWon: false, LeftScore: 3, RightScore: 12},
			wantLeft:  -47,
			wantRight: 112,
		},
		{
			name:      "tie goes to right",
			outcome:   game.Outcome{LeftWon: false, LeftScore: 5, RightScore: 5},
			wantLeft:  -45,
			wantRight: 105,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, r := rewards(tt.outcome, 100, 50)
			assert.Equal(t, tt.wantLeft, l)
			assert.Equal(t, tt.wantRight, r)
		})
	}
}

func TestPairings_CyclesSmallerSide(t *testing.T) {
	ps := pairings(3, 5, testutil.NewTestRNG(5))
	require.Len(t, ps, 5)

	leftSeen := map[int]int{}
	rightSeen := map[int]int{}
	for _, p := range ps {
		leftSeen[p.left]++
		rightSeen[p.right]++
	}
	assert.Len(t, rightSeen, 5, "every member of the larger side plays")
	assert.Len(t, leftSeen, 3, "every member of the smaller side plays")
	for _, n := range leftSeen {
		assert.LessOrEqual(t, n, 2)
	}
}
