package testutil

import (
	"sync"
	"time"

	"github.com/Veraticus/idlewatch/pkg/types"
)

// Emitted is one event recorded by RecordingSink.
type Emitted struct {
	Name    string
	Payload any
}

// RecordingSink is a thread-safe EventSink that records every emission.
type RecordingSink struct {
	mu      sync.Mutex
	events  []Emitted
	emitErr error
}

// NewRecordingSink creates an empty recording sink
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

// Emit implements the EventSink interface. The event is recorded even when
// an error is configured.
func (s *RecordingSink) Emit(name string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, Emitted{Name: name, Payload: payload})
	return s.emitErr
}

// SetError sets the error returned by Emit
func (s *RecordingSink) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emitErr = err
}

// Events returns a copy of all recorded events
func (s *RecordingSink) Events() []Emitted {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]Emitted, len(s.events))
	copy(result, s.events)
	return result
}

// Named returns the recorded events with the given name, in order.
func (s *RecordingSink) Named(name string) []Emitted {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []Emitted
	for _, e := range s.events {
		if e.Name == name {
			result = append(result, e)
		}
	}
	return result
}

// Clear drops all recorded events
func (s *RecordingSink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

// ToneCall records one synthesized tone.
type ToneCall struct {
	Frequency float64
	Duration  time.Duration
	Amplitude float64
}

// MockAudioOutput records playback requests. Every call, successful or not,
// is also signalled on Done so tests can wait for detached playback.
type MockAudioOutput struct {
	mu      sync.Mutex
	played  []string
	tones   []ToneCall
	playErr error
	toneErr error

	Done chan struct{}
}

// NewMockAudioOutput creates a mock with a buffered Done channel
func NewMockAudioOutput() *MockAudioOutput {
	return &MockAudioOutput{Done: make(chan struct{}, 16)}
}

// Play implements the AudioOutput interface
func (m *MockAudioOutput) Play(path string) error {
	m.mu.Lock()
	m.played = append(m.played, path)
	err := m.playErr
	m.mu.Unlock()

	m.signal()
	return err
}

// PlayTone implements the AudioOutput interface
func (m *MockAudioOutput) PlayTone(frequency float64, duration time.Duration, amplitude float64) error {
	m.mu.Lock()
	m.tones = append(m.tones, ToneCall{Frequency: frequency, Duration: duration, Amplitude: amplitude})
	err := m.toneErr
	m.mu.Unlock()

	m.signal()
	return err
}

func (m *MockAudioOutput) signal() {
	select {
	case m.Done <- struct{}{}:
	default:
	}
}

// SetPlayError sets the error returned by Play
func (m *MockAudioOutput) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

// SetToneError sets the error returned by PlayTone
func (m *MockAudioOutput) SetToneError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toneErr = err
}

// GetPlayed returns a copy of the paths passed to Play
func (m *MockAudioOutput) GetPlayed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]string, len(m.played))
	copy(result, m.played)
	return result
}

// GetTones returns a copy of the tones requested
func (m *MockAudioOutput) GetTones() []ToneCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]ToneCall, len(m.tones))
	copy(result, m.tones)
	return result
}

// MockSoundPlayer records requested cues and signals each on Played.
type MockSoundPlayer struct {
	mu        sync.Mutex
	requested []types.NotificationType

	Played chan types.NotificationType
}

// NewMockSoundPlayer creates a mock with a buffered Played channel
func NewMockSoundPlayer() *MockSoundPlayer {
	return &MockSoundPlayer{Played: make(chan types.NotificationType, 16)}
}

// PlayNotificationSound implements the SoundPlayer interface
func (m *MockSoundPlayer) PlayNotificationSound(t types.NotificationType) {
	m.mu.Lock()
	m.requested = append(m.requested, t)
	m.mu.Unlock()

	select {
	case m.Played <- t:
	default:
	}
}

// GetTypes returns a copy of the requested types
func (m *MockSoundPlayer) GetTypes() []types.NotificationType {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]types.NotificationType, len(m.requested))
	copy(result, m.requested)
	return result
}
