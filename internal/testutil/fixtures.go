package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/CastleBlottoRL/internal/game"
)

// SmallRules is a quick-to-play contest: 5 castles, 20 armies.
func SmallRules() game.Rules {
	return game.Rules{NumCastles: 5, Budget: 20}
}

// StandardRules matches the configuration defaults: 10 castles, 100 armies.
func StandardRules() game.Rules {
	return game.Rules{NumCastles: 10, Budget: 100}
}

// AssertValidAllocation checks an allocation covers every castle with a
// non-negative count and spends the budget exactly.
func AssertValidAllocation(t *testing.T, a game.Allocation, rules game.Rules) {
	t.Helper()
	require.NotNil(t, a)
	require.NoError(t, a.Validate(rules))
	assert.Len(t, a, rules.NumCastles)
	for _, c := range rules.Castles() {
		_, ok := a[c]
		assert.True(t, ok, "castle %d missing from allocation", c)
		assert.GreaterOrEqual(t, a[c], 0)
	}
	assert.Equal(t, rules.Budget, a.Total())
}
