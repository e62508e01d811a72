// Package events delivers named events from the core to the presentation layer.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/idlewatch/pkg/interfaces"
	"github.com/Veraticus/idlewatch/pkg/types"
)

// ErrEmitFailed means an event could not be handed to the channel.
var ErrEmitFailed = errors.New("event emit failed")

// Envelope is the wire form of an emitted event.
type Envelope struct {
	ID        string          `json:"id"`
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp string          `json:"ts"`
}

// NewEnvelope encodes payload into an envelope stamped with now.
func NewEnvelope(name string, payload any, now time.Time) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %s: %w", ErrEmitFailed, name, err)
	}

	return Envelope{
		ID:        uuid.NewString(),
		Event:     name,
		Payload:   data,
		Timestamp: types.Timestamp(now),
	}, nil
}

// Multi fans an event out to every sink. All sinks are tried; failures are
// joined.
type Multi []interfaces.EventSink

// Ensure Multi implements EventSink
var _ interfaces.EventSink = Multi(nil)

// Emit sends the event to each sink in order.
func (m Multi) Emit(name string, payload any) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Emit(name, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogSink writes every event to a structured logger at debug level.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a log sink. A nil logger uses slog.Default at emit time.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit logs the event.
func (s *LogSink) Emit(name string, payload any) error {
	logger := s.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("event emitted", "event", name, "payload", payload)
	return nil
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(name string, payload any) error

// Emit calls f.
func (f SinkFunc) Emit(name string, payload any) error {
	return f(name, payload)
}
