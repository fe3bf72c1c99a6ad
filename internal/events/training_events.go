package events

import "time"

// Event type constants
const (
	TypeTrainingStarted   = "training.started"
	TypeRoundCompleted    = "round.completed"
	TypeGenerationEvolved = "generation.evolved"
	TypeTrainingCompleted = "training.completed"
)

// TrainingStartedEvent is published once populations exist and before the first round
type TrainingStartedEvent struct {
	BaseEvent
	LeftKind  string `json:"left_kind"`
	RightKind string `json:"right_kind"`
	LeftSize  int    `json:"left_size"`
	RightSize int    `json:"right_size"`
	Rounds    int    `json:"rounds"`
}

// NewTrainingStartedEvent creates a new TrainingStartedEvent
func NewTrainingStartedEvent(runID, leftKind, rightKind string, leftSize, rightSize, rounds int) *TrainingStartedEvent {
	return &TrainingStartedEvent{
		BaseEvent: newBase(TypeTrainingStarted, runID),
		LeftKind:  leftKind,
		RightKind: rightKind,
		LeftSize:  leftSize,
		RightSize: rightSize,
		Rounds:    rounds,
	}
}

// RoundCompletedEvent is published after every pairing of a round has been played and rewarded
type RoundCompletedEvent struct {
	BaseEvent
	Round           int     `json:"round"`
	Rounds          int     `json:"rounds"`
	Matches         int     `json:"matches"`
	LeftWins        int     `json:"left_wins"`
	RightWins       int     `json:"right_wins"`
	LeftMeanReward  float64 `json:"left_mean_reward"`
	RightMeanReward float64 `json:"right_mean_reward"`
}

// NewRoundCompletedEvent creates a new RoundCompletedEvent
func NewRoundCompletedEvent(runID string, round, rounds, matches, leftWins, rightWins int, leftMean, rightMean float64) *RoundCompletedEvent {
	return &RoundCompletedEvent{
		BaseEvent:       newBase(TypeRoundCompleted, runID),
		Round:           round,
		Rounds:          rounds,
		Matches:         matches,
		LeftWins:        leftWins,
		RightWins:       rightWins,
		LeftMeanReward:  leftMean,
		RightMeanReward: rightMean,
	}
}

// GenerationEvolvedEvent is published when a population has been replaced by its next generation
type GenerationEvolvedEvent struct {
	BaseEvent
	Round       int     `json:"round"`
	Side        string  `json:"side"`
	BestID      string  `json:"best_id"`
	BestFitness float64 `json:"best_fitness"`
	MeanFitness float64 `json:"mean_fitness"`
	EliteCount  int     `json:"elite_count"`
}

// NewGenerationEvolvedEvent creates a new GenerationEvolvedEvent
func NewGenerationEvolvedEvent(runID string, round int, side, bestID string, bestFitness, meanFitness float64, eliteCount int) *GenerationEvolvedEvent {
	return &GenerationEvolvedEvent{
		BaseEvent:   newBase(TypeGenerationEvolved, runID),
		Round:       round,
		Side:        side,
		BestID:      bestID,
		BestFitness: bestFitness,
		MeanFitness: meanFitness,
		EliteCount:  eliteCount,
	}
}

// TrainingCompletedEvent is published when every round has run
type TrainingCompletedEvent struct {
	BaseEvent
	Rounds    int           `json:"rounds"`
	LeftWins  int           `json:"left_wins"`
	RightWins int           `json:"right_wins"`
	Duration  time.Duration `json:"duration"`
}

// NewTrainingCompletedEvent creates a new TrainingCompletedEvent
func NewTrainingCompletedEvent(runID string, rounds, leftWins, rightWins int, duration time.Duration) *TrainingCompletedEvent {
	return &TrainingCompletedEvent{
		BaseEvent: newBase(TypeTrainingCompleted, runID),
		Rounds:    rounds,
		LeftWins:  leftWins,
		RightWins: rightWins,
		Duration:  duration,
	}
}
