// Package trainer pits two populations of strategies against each other
// round after round, feeding rewards back and evolving population-based
// sides between rounds.
package trainer

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/mitchelldurbincs/CastleBlottoRL/internal/events"
	"github.com/mitchelldurbincs/CastleBlottoRL/internal/game"
	"github.com/mitchelldurbincs/CastleBlottoRL/internal/strategy"
)

// RoundResult summarizes one round. Positive counts are the number of
// strictly positive rewards each side earned, which can exceed wins when
// a loser's score beats the lose penalty.
type RoundResult struct {
	Round           int
	Matches         int
	LeftWins        int
	RightWins       int
	LeftPositive    int
	RightPositive   int
	LeftMeanReward  float64
	RightMeanReward float64
}

type nopPublisher struct{}

func (nopPublisher) Publish(events.Event) {}

// Trainer runs a single training session. Apart from Phase it is not safe
// for concurrent use.
type Trainer struct {
	opts   Options
	runID  string
	rng    *rand.Rand
	values game.PointValues
	logger zerolog.Logger
	bus    events.Publisher

	mu    sync.RWMutex
	phase Phase

	left   *population
	right  *population
	rounds int
}

// New validates opts and builds both populations. Unknown kinds and bad
// parameters fail here, before any round is played. bus may be nil.
func New(opts Options, left, right strategy.Kind, logger zerolog.Logger, bus events.Publisher) (*Trainer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.PopulationKinds = append([]strategy.Kind(nil), opts.PopulationKinds...)

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	if bus == nil {
		bus = nopPublisher{}
	}

	t := &Trainer{
		opts:   opts,
		runID:  uuid.NewString(),
		rng:    rng,
		values: opts.Rules.PointValues(),
		bus:    bus,
		phase:  PhaseIdle,
	}
	t.logger = logger.With().Str("component", "trainer").Str("run_id", t.runID).Logger()

	var err error
	if t.left, err = newPopulation(Left, left, opts, rng); err != nil {
		return nil, err
	}
	if t.right, err = newPopulation(Right, right, opts, rng); err != nil {
		return nil, err
	}

	largest := t.left.size()
	if t.right.size() > largest {
		largest = t.right.size()
	}
	t.rounds = (opts.NumTrainingGames + largest - 1) / largest

	t.logger.Info().
		Str("left_kind", left.String()).
		Int("left_size", t.left.size()).
		Bool("left_evolving", t.left.evolving).
		Str("right_kind", right.String()).
		Int("right_size", t.right.size()).
		Bool("right_evolving", t.right.evolving).
		Int("rounds", t.rounds).
		Int64("seed", seed).
		Msg("Populations created")

	return t, nil
}

// RunID identifies this session in logs, events and reports.
func (t *Trainer) RunID() string { return t.runID }

// Rounds is ceil(training games / largest population size).
func (t *Trainer) Rounds() int { return t.rounds }

// Phase returns the current lifecycle phase.
func (t *Trainer) Phase() Phase {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.phase
}

func (t *Trainer) transition(to Phase) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.phase.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.phase, to)
	}
	t.logger.Debug().Str("from", t.phase.String()).Str("to", to.String()).Msg("Phase transition")
	t.phase = to
	return nil
}

// Train plays every round and returns their results. It may only be
// called once. Cancellation is checked between rounds; the rounds already
// completed are returned alongside ctx.Err().
func (t *Trainer) Train(ctx context.Context) ([]RoundResult, error) {
	if err := t.transition(PhaseRunning); err != nil {
		return nil, fmt.Errorf("%w: phase is %s", ErrAlreadyTrained, t.Phase())
	}

	start := time.Now()
	t.bus.Publish(events.NewTrainingStartedEvent(t.runID, t.left.kind.String(), t.right.kind.String(),
		t.left.size(), t.right.size(), t.rounds))

	results := make([]RoundResult, 0, t.rounds)
	leftWins, rightWins := 0, 0
	for r := 0; r < t.rounds; r++ {
		if err := ctx.Err(); err != nil {
			t.fail(r, err)
			return results, err
		}

		res, err := t.playRound(ctx, r)
		if err != nil {
			t.fail(r, err)
			return results, fmt.Errorf("round %d: %w", r, err)
		}
		results = append(results, res)
		leftWins += res.LeftWins
		rightWins += res.RightWins

		t.bus.Publish(events.NewRoundCompletedEvent(t.runID, r, t.rounds, res.Matches,
			res.LeftWins, res.RightWins, res.LeftMeanReward, res.RightMeanReward))
		t.logger.Debug().
			Int("round", r).
			Int("left_wins", res.LeftWins).
			Int("right_wins", res.RightWins).
			Int("left_positive", res.LeftPositive).
			Int("right_positive", res.RightPositive).
			Float64("left_mean_reward", res.LeftMeanReward).
			Float64("right_mean_reward", res.RightMeanReward).
			Msg("Round completed")

		if err := t.evolveSides(r); err != nil {
			t.fail(r, err)
			return results, fmt.Errorf("round %d: %w", r, err)
		}
	}

	if err := t.transition(PhaseDone); err != nil {
		return results, err
	}
	elapsed := time.Since(start)
	t.bus.Publish(events.NewTrainingCompletedEvent(t.runID, t.rounds, leftWins, rightWins, elapsed))
	t.logger.Info().
		Int("rounds", t.rounds).
		Int("left_wins", leftWins).
		Int("right_wins", rightWins).
		Dur("duration", elapsed).
		Msg("Training completed")

	return results, nil
}

func (t *Trainer) fail(round int, err error) {
	if terr := t.transition(PhaseFailed); terr != nil {
		t.logger.Error().Err(terr).Msg("Could not mark trainer failed")
	}
	t.logger.Warn().Err(err).Int("round", round).Msg("Training stopped")
}

type matchOutcome struct {
	leftWon     bool
	leftReward  float64
	rightReward float64
}

func (t *Trainer) playRound(ctx context.Context, r int) (RoundResult, error) {
	t.left.resetRound()
	t.right.resetRound()

	ps := pairings(t.left.size(), t.right.size(), t.rng)
	progress := float64(r+1) / float64(t.rounds)
	outcomes := make([]matchOutcome, len(ps))

	// Concurrency is only safe when no member appears in two pairings.
	if t.opts.Parallelism > 1 && t.left.size() == t.right.size() {
		seeds := make([]int64, len(ps))
		for i := range seeds {
			seeds[i] = t.rng.Int63()
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(t.opts.Parallelism)
		for i, p := range ps {
			i, p := i, p
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				o, err := t.playPairing(p, progress, rand.New(rand.NewSource(seeds[i])))
				if err != nil {
					return err
				}
				outcomes[i] = o
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return RoundResult{}, err
		}
	} else {
		for i, p := range ps {
			o, err := t.playPairing(p, progress, t.rng)
			if err != nil {
				return RoundResult{}, err
			}
			outcomes[i] = o
		}
	}

	res := RoundResult{Round: r, Matches: len(ps)}
	leftRewards := make([]float64, len(ps))
	rightRewards := make([]float64, len(ps))
	for i, o := range outcomes {
		if o.leftWon {
			res.LeftWins++
		} else {
			res.RightWins++
		}
		if o.leftReward > 0 {
			res.LeftPositive++
			t.left.positives[ps[i].left]++
		}
		if o.rightReward > 0 {
			res.RightPositive++
			t.right.positives[ps[i].right]++
		}
		leftRewards[i] = o.leftReward
		rightRewards[i] = o.rightReward
	}
	res.LeftMeanReward = stat.Mean(leftRewards, nil)
	res.RightMeanReward = stat.Mean(rightRewards, nil)
	return res, nil
}

func (t *Trainer) playPairing(p pairing, progress float64, rng *rand.Rand) (matchOutcome, error) {
	l := t.left.members[p.left]
	r := t.right.members[p.right]

	m, err := game.Play(l, r, t.values, rng)
	if err != nil {
		return matchOutcome{}, err
	}
	lr, rr := rewards(m.Outcome, t.opts.WinBonus, t.opts.LosePenalty)
	if err := l.AbsorbReward(lr, progress); err != nil {
		return matchOutcome{}, err
	}
	if err := r.AbsorbReward(rr, progress); err != nil {
		return matchOutcome{}, err
	}
	return matchOutcome{leftWon: m.LeftWon, leftReward: lr, rightReward: rr}, nil
}

func (t *Trainer) evolveSides(r int) error {
	for _, pop := range []*population{t.left, t.right} {
		if !pop.evolving {
			if pop.size() > 1 {
				pop.trackMostPositive()
			}
			continue
		}

		next, stats, err := evolve(pop.members, t.opts, t.rng)
		if err != nil {
			return fmt.Errorf("%s side: %w", pop.side, err)
		}
		pop.members = next
		pop.best = stats.best

		t.bus.Publish(events.NewGenerationEvolvedEvent(t.runID, r, pop.side.String(), stats.best.ID(),
			stats.bestFitness, stats.meanFitness, stats.eliteCount))
		t.logger.Debug().
			Int("round", r).
			Str("side", pop.side.String()).
			Str("best_id", stats.best.ID()).
			Float64("best_fitness", stats.bestFitness).
			Float64("mean_fitness", stats.meanFitness).
			Msg("Generation evolved")
	}
	return nil
}

func (t *Trainer) population(side Side) (*population, error) {
	switch side {
	case Left:
		return t.left, nil
	case Right:
		return t.right, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidSide, side)
	}
}

// Best returns the tracked best member of a side: the sole member of a
// singleton side, the top-ranked member after the latest evolution, or
// for a non-evolving population the member with the most positive
// rewards in the latest round.
func (t *Trainer) Best(side Side) (strategy.Strategy, error) {
	pop, err := t.population(side)
	if err != nil {
		return nil, err
	}
	if pop.best == nil {
		return nil, fmt.Errorf("%w: %s side", ErrNoBest, side)
	}
	return pop.best, nil
}

// Population returns a copy of a side's current member list.
func (t *Trainer) Population(side Side) ([]strategy.Strategy, error) {
	pop, err := t.population(side)
	if err != nil {
		return nil, err
	}
	return append([]strategy.Strategy(nil), pop.members...), nil
}

// Kind returns the strategy kind playing a side.
func (t *Trainer) Kind(side Side) (strategy.Kind, error) {
	pop, err := t.population(side)
	if err != nil {
		return 0, err
	}
	return pop.kind, nil
}
