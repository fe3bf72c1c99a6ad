package trainer

import "fmt"

// Phase is where a Trainer is in its lifecycle
type Phase int

const (
	// PhaseIdle - populations built, no round played
	PhaseIdle Phase = iota

	// PhaseRunning - rounds in progress
	PhaseRunning

	// PhaseDone - every round completed
	PhaseDone

	// PhaseFailed - a round errored or the run was cancelled
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseRunning:
		return "Running"
	case PhaseDone:
		return "Done"
	case PhaseFailed:
		return "Failed"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if no further rounds can run
func (p Phase) IsTerminal() bool {
	return p == PhaseDone || p == PhaseFailed
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p Phase) AllowedTransitions() []Phase {
	switch p {
	case PhaseIdle:
		return []Phase{PhaseRunning}
	case PhaseRunning:
		return []Phase{PhaseDone, PhaseFailed}
	default:
		return []Phase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}
