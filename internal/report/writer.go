// Package report writes training progress as JSON lines, one object per
// completed round plus a final summary.
package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/CastleBlottoRL/internal/events"
)

const writerID = "report_writer"

// Writer is an event subscriber that serializes round and completion events.
// Write failures are logged and remembered; the first one is returned by Err.
type Writer struct {
	out    io.Writer
	logger zerolog.Logger

	mu      sync.Mutex
	written int
	err     error
}

// NewWriter creates a report writer emitting to out.
func NewWriter(out io.Writer, logger zerolog.Logger) *Writer {
	return &Writer{
		out:    out,
		logger: logger.With().Str("component", "report").Logger(),
	}
}

func (w *Writer) ID() string { return writerID }

func (w *Writer) InterestedIn(eventType string) bool {
	return eventType == events.TypeRoundCompleted || eventType == events.TypeTrainingCompleted
}

func (w *Writer) HandleEvent(event events.Event) {
	fields, ok := recordFields(event)
	if !ok {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writeRecord(fields); err != nil {
		w.logger.Error().Err(err).Str("event_type", event.Type()).Msg("Failed to write report line")
		if w.err == nil {
			w.err = err
		}
		return
	}
	w.written++
}

// Written returns the number of lines emitted so far.
func (w *Writer) Written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Writer) writeRecord(fields map[string]interface{}) error {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return fmt.Errorf("build report record: %w", err)
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal report record: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.out.Write(data); err != nil {
		return fmt.Errorf("write report record: %w", err)
	}
	return nil
}

func recordFields(event events.Event) (map[string]interface{}, bool) {
	fields := map[string]interface{}{
		"type":      event.Type(),
		"run_id":    event.RunID(),
		"timestamp": event.Timestamp().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}

	switch e := event.(type) {
	case *events.RoundCompletedEvent:
		fields["round"] = e.Round
		fields["rounds"] = e.Rounds
		fields["matches"] = e.Matches
		fields["left_wins"] = e.LeftWins
		fields["right_wins"] = e.RightWins
		fields["left_mean_reward"] = e.LeftMeanReward
		fields["right_mean_reward"] = e.RightMeanReward
	case *events.TrainingCompletedEvent:
		fields["rounds"] = e.Rounds
		fields["left_wins"] = e.LeftWins
		fields["right_wins"] = e.RightWins
		fields["duration_seconds"] = e.Duration.Seconds()
	default:
		return nil, false
	}
	return fields, true
}
