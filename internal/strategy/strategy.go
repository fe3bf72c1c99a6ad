// Package strategy holds the players of a castle contest: anything that can
// place a fixed budget of armies and learn from the reward it earns.
package strategy

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/mitchelldurbincs/CastleBlottoRL/internal/game"
)

var (
	ErrUnknownKind            = errors.New("unknown strategy kind")
	ErrNoPendingAllocation    = errors.New("reward absorbed with no pending allocation")
	ErrIncompatibleChromosome = errors.New("incompatible chromosome")
	ErrInvalidParams          = errors.New("invalid strategy parameters")
)

// Strategy is the capability every player provides. Allocate must be called
// before each AbsorbReward; the reward is attributed to the most recent
// allocation.
type Strategy interface {
	game.Allocator
	ID() string
	Kind() Kind
	// AbsorbReward feeds back the reward for the last allocation.
	// progress is the fraction of training completed, in [0,1].
	AbsorbReward(reward, progress float64) error
}

// Evolvable strategies can be ranked and bred by a population trainer.
type Evolvable interface {
	Strategy
	Fitness() float64
	Mutate(rng *rand.Rand, rate, amount float64)
	Crossover(partner Evolvable, rng *rand.Rand) (Evolvable, error)
}

// Kind names a strategy variant.
type Kind int

const (
	KindRandom Kind = iota
	KindReinforced
	KindGenetic
)

// Kinds lists every known variant.
func Kinds() []Kind {
	return []Kind{KindRandom, KindReinforced, KindGenetic}
}

func (k Kind) String() string {
	switch k {
	case KindRandom:
		return "random"
	case KindReinforced:
		return "reinforced"
	case KindGenetic:
		return "genetic"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Valid reports whether k is one of the known variants.
func (k Kind) Valid() bool {
	return k >= KindRandom && k <= KindGenetic
}

// ParseKind converts a user-facing name into a Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds() {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

type cycleState int

const (
	stateIdle cycleState = iota
	stateAwaitingReward
)

func (s cycleState) String() string {
	if s == stateAwaitingReward {
		return "AwaitingReward"
	}
	return "Idle"
}

// cycle tracks the allocate -> reward handshake. A second Allocate before a
// reward simply replaces the pending allocation.
type cycle struct {
	state cycleState
	last  game.Allocation
}

func (c *cycle) begin(a game.Allocation) {
	c.last = a
	c.state = stateAwaitingReward
}

func (c *cycle) finish(id string) (game.Allocation, error) {
	if c.state != stateAwaitingReward {
		return nil, fmt.Errorf("%w: strategy %s is %s", ErrNoPendingAllocation, id, c.state)
	}
	c.state = stateIdle
	return c.last, nil
}

// LastAllocation returns the most recent allocation, or nil before the first.
func (c *cycle) LastAllocation() game.Allocation {
	if c.last == nil {
		return nil
	}
	return c.last.Clone()
}

// AwaitingReward reports whether an allocation is waiting for its reward.
func (c *cycle) AwaitingReward() bool {
	return c.state == stateAwaitingReward
}

func newID() string {
	return uuid.NewString()
}
