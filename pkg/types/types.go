// Package types contains shared data structures used across the application.
package types

import (
	"strings"
	"time"
)

// NotificationType is the closed set of notification severities.
type NotificationType int

const (
	TypeInfo NotificationType = iota
	TypeWarning
	TypeError
	TypeSuccess
	TypeCritical
	TypeOther
)

var typeNames = map[NotificationType]string{
	TypeInfo:     "INFO",
	TypeWarning:  "WARNING",
	TypeError:    "ERROR",
	TypeSuccess:  "SUCCESS",
	TypeCritical: "CRITICAL",
	TypeOther:    "OTHER",
}

// String returns the canonical upper-case name of the type.
func (t NotificationType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "OTHER"
}

// ParseNotificationType matches s case-sensitively against the known names.
// Anything unrecognized, including "OTHER" itself, becomes TypeOther.
func ParseNotificationType(s string) NotificationType {
	switch s {
	case "INFO":
		return TypeInfo
	case "WARNING":
		return TypeWarning
	case "ERROR":
		return TypeError
	case "SUCCESS":
		return TypeSuccess
	case "CRITICAL":
		return TypeCritical
	default:
		return TypeOther
	}
}

// NormalizeNotificationType upper-cases s before parsing it.
func NormalizeNotificationType(s string) NotificationType {
	return ParseNotificationType(strings.ToUpper(strings.TrimSpace(s)))
}

// NotificationRequest is a single request to show a notification.
type NotificationRequest struct {
	Title string
	Body  string
	Type  string
}

// IdleSample is one reading from an idle source.
type IdleSample struct {
	IdleSeconds uint64
	SampledAt   time.Time
}

// IdleState is owned by the idle monitor and mutated once per tick.
type IdleState struct {
	IsIdle       bool
	SessionStart time.Time
}

// Activity states carried by idle events.
const (
	ActivityBecameIdle   = "became_idle"
	ActivityBecameActive = "became_active"
	ActivityIdle         = "idle"
	ActivityActive       = "active"
)

// IdleEvent is the payload of idle-status-changed and idle-status-update.
type IdleEvent struct {
	IsIdle                 bool   `json:"is_idle"`
	IdleTimeSeconds        uint64 `json:"idle_time_seconds"`
	ActivityState          string `json:"activity_state"`
	SessionDurationSeconds uint64 `json:"session_duration_seconds"`
	Timestamp              string `json:"timestamp"`
}

// IdleStatus answers a direct idle status query.
type IdleStatus struct {
	IsIdle          bool   `json:"is_idle"`
	IdleTimeSeconds uint64 `json:"idle_time_seconds"`
	LastUpdate      string `json:"last_update"`
}

// ActivityLog is a point-in-time activity record built on request.
type ActivityLog struct {
	Timestamp              string `json:"timestamp"`
	IdleTimeSeconds        uint64 `json:"idle_time_seconds"`
	IsIdle                 bool   `json:"is_idle"`
	SessionDurationSeconds uint64 `json:"session_duration_seconds"`
	ActivityState          string `json:"activity_state"`
}

// DisplayPayload is handed to the presentation layer to render a notification.
type DisplayPayload struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Body             string `json:"body"`
	ChannelID        string `json:"channelId"`
	NotificationType string `json:"notificationType"`
	SourceTitle      string `json:"sourceTitle,omitempty"`
}

// ChannelPayload asks the presentation layer to register a notification channel.
type ChannelPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Importance  int    `json:"importance"`
	Sound       string `json:"sound"`
	Vibration   bool   `json:"vibration"`
	Lights      bool   `json:"lights"`
	LightColor  string `json:"lightColor"`
}

// Timestamp formats t the way every event payload carries it.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
