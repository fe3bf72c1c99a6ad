package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/CastleBlottoRL/internal/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("run_id", event.RunID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	var logEvent *zerolog.Event
	switch ls.logLevel {
	case zerolog.TraceLevel:
		logEvent = eventLogger.Trace()
	case zerolog.DebugLevel:
		logEvent = eventLogger.Debug()
	case zerolog.WarnLevel:
		logEvent = eventLogger.Warn()
	case zerolog.ErrorLevel:
		logEvent = eventLogger.Error()
	default:
		logEvent = eventLogger.Info()
	}

	switch e := event.(type) {
	case *events.TrainingStartedEvent:
		logEvent.
			Str("left_kind", e.LeftKind).
			Str("right_kind", e.RightKind).
			Int("left_size", e.LeftSize).
			Int("right_size", e.RightSize).
			Int("rounds", e.Rounds)

	case *events.RoundCompletedEvent:
		logEvent.
			Int("round", e.Round).
			Int("rounds", e.Rounds).
			Int("matches", e.Matches).
			Int("left_wins", e.LeftWins).
			Int("right_wins", e.RightWins).
			Float64("left_mean_reward", e.LeftMeanReward).
			Float64("right_mean_reward", e.RightMeanReward)

	case *events.GenerationEvolvedEvent:
		logEvent.
			Int("round", e.Round).
			Str("side", e.Side).
			Str("best_id", e.BestID).
			Float64("best_fitness", e.BestFitness).
			Float64("mean_fitness", e.MeanFitness).
			Int("elite_count", e.EliteCount)

	case *events.TrainingCompletedEvent:
		logEvent.
			Int("rounds", e.Rounds).
			Int("left_wins", e.LeftWins).
			Int("right_wins", e.RightWins).
			Dur("duration", e.Duration)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Training event")
}
