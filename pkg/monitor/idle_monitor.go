// Package monitor samples an idle source on a fixed period and reports
// idle/active transitions to an event sink.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/Veraticus/idlewatch/pkg/interfaces"
	"github.com/Veraticus/idlewatch/pkg/types"
)

// Event names emitted by the monitor.
const (
	EventStatusChanged = "idle-status-changed"
	EventStatusUpdate  = "idle-status-update"
)

// Default timing used when Options leaves a field zero.
const (
	DefaultThreshold = 3 * time.Second
	DefaultInterval  = 10 * time.Second
)

// Options configures a Monitor.
type Options struct {
	Threshold time.Duration
	Interval  time.Duration
	// Clock overrides time.Now, mostly for tests.
	Clock func() time.Time
}

// Monitor owns the idle state. Tick must only be called from one goroutine;
// Run does that for the life of the process.
type Monitor struct {
	source    interfaces.IdleSource
	sink      interfaces.EventSink
	threshold time.Duration
	interval  time.Duration
	now       func() time.Time

	state types.IdleState
}

// New creates a monitor. The initial state is active with the session
// starting now.
func New(source interfaces.IdleSource, sink interfaces.EventSink, opts Options) *Monitor {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Monitor{
		source:    source,
		sink:      sink,
		threshold: opts.Threshold,
		interval:  opts.Interval,
		now:       opts.Clock,
		state: types.IdleState{
			IsIdle:       false,
			SessionStart: opts.Clock(),
		},
	}
}

// Threshold returns the idle classification threshold.
func (m *Monitor) Threshold() time.Duration {
	return m.threshold
}

// Interval returns the polling period.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// Run ticks immediately and then once per interval until ctx is done.
// A failed tick is logged and never ends the loop.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("idle monitor started", "threshold", m.threshold, "interval", m.interval)

	for {
		if err := m.Tick(); err != nil {
			slog.Warn("idle sample failed, skipping tick", "error", err)
		}

		select {
		case <-ctx.Done():
			slog.Info("idle monitor stopped")
			return
		case <-ticker.C:
		}
	}
}

// Tick takes one sample and emits the resulting events. It returns the
// source error when no sample could be taken; the state is then unchanged.
func (m *Monitor) Tick() error {
	sample, err := m.sample()
	if err != nil {
		return err
	}

	isIdle := m.classify(sample.IdleSeconds)

	if isIdle != m.state.IsIdle {
		activity := types.ActivityBecameActive
		if isIdle {
			activity = types.ActivityBecameIdle
		}

		// The transition reports the session as it was before any reset.
		changed := m.event(sample, isIdle, activity)

		if !isIdle {
			m.state.SessionStart = sample.SampledAt
		}
		m.state.IsIdle = isIdle

		slog.Info("activity state changed", "state", activity, "idle_seconds", sample.IdleSeconds)
		m.emit(EventStatusChanged, changed)
	}

	activity := types.ActivityActive
	if isIdle {
		activity = types.ActivityIdle
	}
	m.emit(EventStatusUpdate, m.event(sample, isIdle, activity))

	return nil
}

// Status samples the source without touching the monitor's state.
func (m *Monitor) Status() (types.IdleStatus, error) {
	sample, err := m.sample()
	if err != nil {
		return types.IdleStatus{}, err
	}

	return types.IdleStatus{
		IsIdle:          m.classify(sample.IdleSeconds),
		IdleTimeSeconds: sample.IdleSeconds,
		LastUpdate:      types.Timestamp(sample.SampledAt),
	}, nil
}

func (m *Monitor) sample() (types.IdleSample, error) {
	d, err := m.source.IdleDuration()
	if err != nil {
		return types.IdleSample{}, err
	}
	if d < 0 {
		d = 0
	}

	return types.IdleSample{
		IdleSeconds: uint64(d / time.Second),
		SampledAt:   m.now(),
	}, nil
}

func (m *Monitor) classify(idleSeconds uint64) bool {
	return time.Duration(idleSeconds)*time.Second >= m.threshold
}

func (m *Monitor) event(sample types.IdleSample, isIdle bool, activity string) types.IdleEvent {
	session := sample.SampledAt.Sub(m.state.SessionStart)
	if session < 0 {
		session = 0
	}

	return types.IdleEvent{
		IsIdle:                 isIdle,
		IdleTimeSeconds:        sample.IdleSeconds,
		ActivityState:          activity,
		SessionDurationSeconds: uint64(session / time.Second),
		Timestamp:              types.Timestamp(sample.SampledAt),
	}
}

func (m *Monitor) emit(name string, payload types.IdleEvent) {
	if m.sink == nil {
		return
	}
	if err := m.sink.Emit(name, payload); err != nil {
		level := slog.LevelWarn
		if name == EventStatusUpdate {
			level = slog.LevelDebug
		}
		slog.Log(context.Background(), level, "failed to emit idle event", "event", name, "error", err)
	}
}
