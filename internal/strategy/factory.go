package strategy

import (
	"fmt"
	"math/rand"

	"github.com/mitchelldurbincs/CastleBlottoRL/internal/game"
)

// New builds a fresh strategy of the given kind. Unknown kinds and bad
// parameters are rejected here so nothing fails mid-training.
func New(kind Kind, rules game.Rules, params Params, rng *rand.Rand) (Strategy, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	switch kind {
	case KindRandom:
		return NewRandom(rules), nil
	case KindReinforced:
		if err := params.Reinforced.Validate(); err != nil {
			return nil, err
		}
		return NewReinforced(rules, params.Reinforced), nil
	case KindGenetic:
		if err := params.Genetic.Validate(); err != nil {
			return nil, err
		}
		return NewGenetic(rules, params.Genetic, rng), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}
