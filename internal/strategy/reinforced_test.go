package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/mitchelldurbincs/CastleBlottoRL/internal/game"
	"github.com/mitchelldurbincs/CastleBlottoRL/internal/testutil"
)

func greedyParams() ReinforcedParams {
	return ReinforcedParams{
		LearningRate:   0.5,
		DiscountFactor: 0.5,
		Epsilon:        0,
		WinReward:      10,
		LosePenalty:    5,
	}
}

func TestReinforced_SmallBudgetUpdatesTable(t *testing.T) {
	rules := game.Rules{NumCastles: 2, Budget: 3}
	rng := testutil.NewTestRNG(42)
	r := NewReinforced(rules, DefaultParams().Reinforced)

	a, err := r.Allocate(rng)
	require.NoError(t, err)
	assert.Len(t, a, 2)
	assert.Contains(t, a, 1)
	assert.Contains(t, a, 2)
	assert.Equal(t, 3, a.Total())

	before := r.QTable()
	require.NoError(t, r.AbsorbReward(10, 0.5))
	after := r.QTable()

	assert.False(t, mat.Equal(before, after), "absorbing a reward should change the table")
}

func TestReinforced_GreedyTiesPickLowestCastle(t *testing.T) {
	rules := game.Rules{NumCastles: 3, Budget: 3}
	rng := testutil.NewTestRNG(1)
	r := NewReinforced(rules, greedyParams())

	a, err := r.Allocate(rng)
	require.NoError(t, err)
	assert.Equal(t, game.Allocation{1: 3, 2: 0, 3: 0}, a)
	assert.Equal(t, []Decision{
		{Remaining: 3, Castle: 1},
		{Remaining: 2, Castle: 1},
		{Remaining: 1, Castle: 1},
	}, r.Trace())
}

func TestReinforced_BackwardUpdate(t *testing.T) {
	rules := game.Rules{NumCastles: 2, Budget: 2}
	rng := testutil.NewTestRNG(1)
	r := NewReinforced(rules, greedyParams())

	_, err := r.Allocate(rng)
	require.NoError(t, err)

	// Normalized reward is 10/10 = 1 and the learning rate is 0.5.
	require.NoError(t, r.AbsorbReward(10, 0))

	// Last decision: target 1, value stays 1.
	assert.InDelta(t, 1.0, r.QValue(1, 1), 1e-12)
	// First decision: target 1 + 0.5*max(row 1) = 1.5, value 1 + 0.5*0.5.
	assert.InDelta(t, 1.25, r.QValue(2, 1), 1e-12)
	// Untouched entries keep their initial value.
	assert.InDelta(t, 1.0, r.QValue(2, 2), 1e-12)
	assert.InDelta(t, 1.0, r.QValue(0, 1), 1e-12)
	assert.Empty(t, r.Trace())
}

func TestReinforced_ValuesNeverNegative(t *testing.T) {
	rules := game.Rules{NumCastles: 2, Budget: 2}
	rng := testutil.NewTestRNG(1)
	params := greedyParams()
	params.LearningRate = 1
	params.DiscountFactor = 0
	r := NewReinforced(rules, params)

	_, err := r.Allocate(rng)
	require.NoError(t, err)
	// Normalized reward is -50/5 = -10, far below zero.
	require.NoError(t, r.AbsorbReward(-50, 0))

	assert.Equal(t, 0.0, r.QValue(2, 1))
	assert.Equal(t, 0.0, r.QValue(1, 1))

	q := r.QTable()
	rows, cols := q.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			assert.GreaterOrEqual(t, q.At(i, j), 0.0)
		}
	}

	// The punished castle is now avoided at both rows.
	a, err := r.Allocate(rng)
	require.NoError(t, err)
	assert.Equal(t, game.Allocation{1: 0, 2: 2}, a)
}

func TestReinforced_LearningRateAnnealsToZero(t *testing.T) {
	rules := game.Rules{NumCastles: 2, Budget: 4}
	rng := testutil.NewTestRNG(9)
	r := NewReinforced(rules, greedyParams())

	_, err := r.Allocate(rng)
	require.NoError(t, err)
	before := r.QTable()
	require.NoError(t, r.AbsorbReward(100, 1))

	assert.True(t, mat.Equal(before, r.QTable()))
}

func TestReinforced_FinalDecisionLearnsRewardAlone(t *testing.T) {
	rules := game.Rules{NumCastles: 1, Budget: 1}
	rng := testutil.NewTestRNG(2)
	r := NewReinforced(rules, greedyParams())

	_, err := r.Allocate(rng)
	require.NoError(t, err)
	require.NoError(t, r.AbsorbReward(0, 0))

	assert.InDelta(t, 0.5, r.QValue(1, 1), 1e-12)
}

func TestReinforced_ExplorationStillSpendsBudget(t *testing.T) {
	rules := testutil.StandardRules()
	rng := testutil.NewTestRNG(4)
	params := greedyParams()
	params.Epsilon = 1
	r := NewReinforced(rules, params)

	a, err := r.Allocate(rng)
	require.NoError(t, err)
	testutil.AssertValidAllocation(t, a, rules)
	assert.Len(t, r.Trace(), rules.Budget)

	// Fully random placement of 100 armies on 10 castles touches more than one castle.
	used := 0
	for _, n := range a {
		if n > 0 {
			used++
		}
	}
	assert.Greater(t, used, 1)
}
