package trainer

import (
	"fmt"

	"github.com/mitchelldurbincs/CastleBlottoRL/internal/game"
	"github.com/mitchelldurbincs/CastleBlottoRL/internal/strategy"
)

// Options configures a training run. Everything is copied at construction.
type Options struct {
	Rules  game.Rules
	Params strategy.Params

	// WinBonus is added to the winner's score, LosePenalty subtracted from
	// the loser's.
	WinBonus    float64
	LosePenalty float64

	PopulationSize int
	ElitismRate    float64
	TournamentSize int

	NumTrainingGames int
	// PopulationKinds get PopulationSize members; every other kind plays
	// as a single member.
	PopulationKinds []strategy.Kind
	Parallelism     int
	// Seed 0 seeds from the clock.
	Seed int64
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		Rules:            game.Rules{NumCastles: 10, Budget: 100},
		Params:           strategy.DefaultParams(),
		WinBonus:         100,
		LosePenalty:      50,
		PopulationSize:   50,
		ElitismRate:      0.1,
		TournamentSize:   5,
		NumTrainingGames: 10000,
		PopulationKinds:  []strategy.Kind{strategy.KindGenetic},
		Parallelism:      1,
	}
}

// PopulationCapable reports whether a kind may be trained as a population.
func PopulationCapable(k strategy.Kind) bool {
	return k == strategy.KindGenetic || k == strategy.KindReinforced
}

// Validate checks the options before any population is built.
func (o Options) Validate() error {
	if err := o.Rules.Validate(); err != nil {
		return err
	}
	if o.WinBonus < 0 || o.LosePenalty < 0 {
		return fmt.Errorf("%w: win bonus and lose penalty must be non-negative", ErrInvalidOptions)
	}
	if o.PopulationSize < 1 {
		return fmt.Errorf("%w: population size must be at least 1, got %d", ErrInvalidOptions, o.PopulationSize)
	}
	if o.ElitismRate <= 0 || o.ElitismRate > 1 {
		return fmt.Errorf("%w: elitism rate %v not in (0,1]", ErrInvalidOptions, o.ElitismRate)
	}
	if o.TournamentSize < 1 {
		return fmt.Errorf("%w: tournament size must be at least 1, got %d", ErrInvalidOptions, o.TournamentSize)
	}
	if o.NumTrainingGames < 1 {
		return fmt.Errorf("%w: number of training games must be at least 1, got %d", ErrInvalidOptions, o.NumTrainingGames)
	}
	if o.Parallelism < 1 {
		return fmt.Errorf("%w: parallelism must be at least 1, got %d", ErrInvalidOptions, o.Parallelism)
	}
	for _, k := range o.PopulationKinds {
		if !k.Valid() {
			return fmt.Errorf("%w: %s", strategy.ErrUnknownKind, k)
		}
		if !PopulationCapable(k) {
			return fmt.Errorf("%w: %s cannot be trained as a population", ErrInvalidOptions, k)
		}
	}
	return nil
}

func (o Options) isPopulationKind(k strategy.Kind) bool {
	for _, pk := range o.PopulationKinds {
		if pk == k {
			return true
		}
	}
	return false
}
