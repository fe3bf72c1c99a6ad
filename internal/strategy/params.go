package strategy

import "fmt"

// ReinforcedParams tunes the tabular learner.
type ReinforcedParams struct {
	LearningRate   float64
	DiscountFactor float64
	Epsilon        float64
	// WinReward and LosePenalty scale raw rewards into roughly [-1, 1].
	WinReward   float64
	LosePenalty float64
}

// GeneticParams tunes a genetic individual.
type GeneticParams struct {
	MutationRate   float64
	MutationAmount float64
	// RecentWindow is how many of the latest rewards feed recent performance.
	RecentWindow int
}

// Params bundles per-variant parameters for the factory.
type Params struct {
	Reinforced ReinforcedParams
	Genetic    GeneticParams
}

// DefaultParams mirrors the configuration defaults.
func DefaultParams() Params {
	return Params{
		Reinforced: ReinforcedParams{
			LearningRate:   0.05,
			DiscountFactor: 0.95,
			Epsilon:        0.3,
			WinReward:      100,
			LosePenalty:    50,
		},
		Genetic: GeneticParams{
			MutationRate:   0.1,
			MutationAmount: 0.1,
			RecentWindow:   10,
		},
	}
}

func (p ReinforcedParams) Validate() error {
	if p.LearningRate < 0 || p.LearningRate > 1 {
		return fmt.Errorf("%w: learning rate %v not in [0,1]", ErrInvalidParams, p.LearningRate)
	}
	if p.DiscountFactor < 0 || p.DiscountFactor > 1 {
		return fmt.Errorf("%w: discount factor %v not in [0,1]", ErrInvalidParams, p.DiscountFactor)
	}
	if p.Epsilon < 0 || p.Epsilon > 1 {
		return fmt.Errorf("%w: epsilon %v not in [0,1]", ErrInvalidParams, p.Epsilon)
	}
	if p.WinReward <= 0 || p.LosePenalty <= 0 {
		return fmt.Errorf("%w: win reward and lose penalty must be positive", ErrInvalidParams)
	}
	return nil
}

func (p GeneticParams) Validate() error {
	if p.MutationRate < 0 || p.MutationRate > 1 {
		return fmt.Errorf("%w: mutation rate %v not in [0,1]", ErrInvalidParams, p.MutationRate)
	}
	if p.MutationAmount < 0 {
		return fmt.Errorf("%w: mutation amount must be non-negative", ErrInvalidParams)
	}
	if p.RecentWindow < 1 {
		return fmt.Errorf("%w: recent window must be at least 1", ErrInvalidParams)
	}
	return nil
}
