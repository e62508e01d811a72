// Package server exposes the command surface and event stream over WebSocket.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Veraticus/idlewatch/pkg/notification"
	"github.com/Veraticus/idlewatch/pkg/types"
)

// Command types.
const (
	CmdShowNotification  = "show_notification"
	CmdGetIdleStatus     = "get_idle_status"
	CmdGetIdleTime       = "get_idle_time"
	CmdIsUserIdle        = "is_user_idle"
	CmdCreateActivityLog = "create_activity_log"
	CmdGetChannels       = "get_channels"
	CmdReportActivity    = "report_activity"
)

// ResultSuffix is appended to a command type to form its response type.
const ResultSuffix = "_result"

// ErrUnknownCommand is returned for an unrecognized command type.
var ErrUnknownCommand = errors.New("unknown command")

// validate is the shared validator instance for request validation.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names in error messages instead of struct field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
}

// WSCommand is a command received from a WebSocket client.
type WSCommand struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Response answers one WSCommand.
type Response struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Sender queues a message for one client without blocking.
type Sender interface {
	Send(msg any) bool
}

// Notifier accepts notification requests.
type Notifier interface {
	Show(req types.NotificationRequest) error
}

// StatusProvider samples the current idle status.
type StatusProvider interface {
	Status() (types.IdleStatus, error)
}

// ActivityRecorder accepts user activity reported by the client.
type ActivityRecorder interface {
	RecordActivity() time.Time
}

// CommandHandler processes WebSocket commands.
type CommandHandler struct {
	notifier Notifier
	status   StatusProvider
	activity ActivityRecorder
	now      func() time.Time
}

// NewCommandHandler creates a command handler.
func NewCommandHandler(notifier Notifier, status StatusProvider) *CommandHandler {
	return &CommandHandler{
		notifier: notifier,
		status:   status,
		now:      time.Now,
	}
}

// SetActivityRecorder enables report_activity. Without a recorder the
// command fails because idle time comes from the desktop session.
func (h *CommandHandler) SetActivityRecorder(activity ActivityRecorder) {
	h.activity = activity
}

// Handle runs cmd and sends exactly one response to send.
func (h *CommandHandler) Handle(cmd WSCommand, send Sender) {
	switch cmd.Type {
	case CmdShowNotification:
		h.handleShowNotification(cmd, send)
	case CmdGetIdleStatus:
		h.handleStatus(cmd, send, func(s types.IdleStatus) any { return s })
	case CmdGetIdleTime:
		h.handleStatus(cmd, send, func(s types.IdleStatus) any { return s.IdleTimeSeconds })
	case CmdIsUserIdle:
		h.handleStatus(cmd, send, func(s types.IdleStatus) any { return s.IsIdle })
	case CmdCreateActivityLog:
		h.handleCreateActivityLog(cmd, send)
	case CmdGetChannels:
		SendSuccess(send, cmd, notification.Channels())
	case CmdReportActivity:
		h.handleReportActivity(cmd, send)
	default:
		slog.Warn("unknown WebSocket command", "type", cmd.Type)
		SendError(send, cmd, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type))
	}
}

func (h *CommandHandler) handleShowNotification(cmd WSCommand, send Sender) {
	var data ShowNotificationRequest
	if !DecodeAndValidate(cmd, send, &data) {
		return
	}

	// The native path may block on the desktop bus.
	HandleActionAsync(cmd, send, func() (any, error) {
		if h.notifier == nil {
			return nil, errors.New("notifications unavailable")
		}
		return nil, h.notifier.Show(types.NotificationRequest{
			Title: data.Title,
			Body:  data.Body,
			Type:  data.NotificationType,
		})
	})
}

func (h *CommandHandler) handleStatus(cmd WSCommand, send Sender, project func(types.IdleStatus) any) {
	if h.status == nil {
		SendError(send, cmd, errors.New("idle status unavailable"))
		return
	}

	status, err := h.status.Status()
	if err != nil {
		SendError(send, cmd, err)
		return
	}
	SendSuccess(send, cmd, project(status))
}

func (h *CommandHandler) handleCreateActivityLog(cmd WSCommand, send Sender) {
	var data CreateActivityLogRequest
	if !DecodeAndValidate(cmd, send, &data) {
		return
	}

	state := types.ActivityActive
	if *data.IsIdle {
		state = types.ActivityIdle
	}

	SendSuccess(send, cmd, types.ActivityLog{
		Timestamp:              types.Timestamp(h.now()),
		IdleTimeSeconds:        *data.IdleTimeSeconds,
		IsIdle:                 *data.IsIdle,
		SessionDurationSeconds: *data.IdleTimeSeconds,
		ActivityState:          state,
	})
}

func (h *CommandHandler) handleReportActivity(cmd WSCommand, send Sender) {
	if h.activity == nil {
		SendError(send, cmd, errors.New("activity reporting unsupported: idle time comes from the desktop session"))
		return
	}

	at := h.activity.RecordActivity()
	SendSuccess(send, cmd, ReportActivityResult{LastActivity: types.Timestamp(at)})
}

// DecodeAndValidate decodes the command data into data and validates it.
// It reports false after sending an error response.
func DecodeAndValidate[T any](cmd WSCommand, send Sender, data *T) bool {
	raw := cmd.Data
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, data); err != nil {
		SendError(send, cmd, fmt.Errorf("invalid JSON: %w", err))
		return false
	}

	if err := validate.Struct(data); err != nil {
		SendError(send, cmd, validationError(err))
		return false
	}

	return true
}

// HandleActionAsync runs a command action asynchronously with panic recovery.
func HandleActionAsync(cmd WSCommand, send Sender, action func() (any, error)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic in async handler", "command", cmd.Type, "panic", r)
				SendError(send, cmd, fmt.Errorf("internal error"))
			}
		}()

		result, err := action()
		if err != nil {
			SendError(send, cmd, err)
			return
		}
		SendSuccess(send, cmd, result)
	}()
}

// SendSuccess sends a success response for a command.
func SendSuccess(send Sender, cmd WSCommand, data any) {
	trySend(send, cmd.Type, Response{
		Type:    cmd.Type + ResultSuffix,
		ID:      cmd.ID,
		Success: true,
		Data:    data,
	})
}

// SendError sends an error response for a command.
func SendError(send Sender, cmd WSCommand, err error) {
	trySend(send, cmd.Type, Response{
		Type:    cmd.Type + ResultSuffix,
		ID:      cmd.ID,
		Success: false,
		Error:   err.Error(),
	})
}

// trySend queues msg, logging a warning if the client cannot take it.
func trySend(send Sender, cmdType string, msg any) {
	if !send.Send(msg) {
		slog.Warn("failed to send response: queue full or closed", "type", cmdType)
	}
}

// validationError flattens validator errors into one message.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, e.Field()+" "+formatValidationMessage(e))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

// formatValidationMessage creates a human-readable message from a validator error.
func formatValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
