// Package interfaces defines the core interfaces used throughout the application.
package interfaces

import (
	"time"

	"github.com/Veraticus/idlewatch/pkg/types"
)

// IdleSource reports how long the user has been idle.
type IdleSource interface {
	IdleDuration() (time.Duration, error)
}

// EventSink delivers named events to listeners.
// Implementations must be safe for concurrent use.
type EventSink interface {
	Emit(name string, payload any) error
}

// NativeNotifier shows a notification directly through the host OS.
type NativeNotifier interface {
	Notify(title, body string, importance int) error
}

// AudioOutput plays audio on the shared output device.
// Both calls return once playback has started.
type AudioOutput interface {
	Play(path string) error
	PlayTone(frequency float64, duration time.Duration, amplitude float64) error
}

// SoundPlayer plays the cue for a notification type.
type SoundPlayer interface {
	PlayNotificationSound(t types.NotificationType)
}

// RateLimiter limits notification frequency.
type RateLimiter interface {
	Allow() bool
	Reset()
}

// StatusReporter reports notification delivery status.
type StatusReporter interface {
	ReportSending()
	ReportSuccess()
	ReportFailure()
}
