package notification

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Veraticus/idlewatch/pkg/interfaces"
	"github.com/Veraticus/idlewatch/pkg/types"
)

// Options configures a Manager.
type Options struct {
	AppName string
	// Quiet suppresses the direct native notification.
	Quiet bool
	// Mute suppresses the sound cue.
	Mute bool
}

// Manager turns notification requests into a channelled display event, a
// direct native notification and a detached sound cue.
type Manager struct {
	appName     string
	quiet       bool
	mute        bool
	sink        interfaces.EventSink
	native      interfaces.NativeNotifier
	sound       interfaces.SoundPlayer
	rateLimiter interfaces.RateLimiter
	reporter    interfaces.StatusReporter
	newID       func() string

	mu              sync.Mutex
	channelsCreated bool
	sounds          sync.WaitGroup
}

// NewManager creates a new notification manager. Any collaborator may be nil.
func NewManager(sink interfaces.EventSink, native interfaces.NativeNotifier, sound interfaces.SoundPlayer, rateLimiter interfaces.RateLimiter, opts Options) *Manager {
	if opts.AppName == "" {
		opts.AppName = "Time Tracker"
	}
	return &Manager{
		appName:     opts.AppName,
		quiet:       opts.Quiet,
		mute:        opts.Mute,
		sink:        sink,
		native:      native,
		sound:       sound,
		rateLimiter: rateLimiter,
		newID:       uuid.NewString,
	}
}

// SetStatusReporter sets the reporter notified around direct notifications.
func (m *Manager) SetStatusReporter(reporter interfaces.StatusReporter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reporter = reporter
}

// InitChannels emits one create-notification-channel event per channel.
// Only the first call emits; failures are logged and returned joined, but
// the channels are still considered created.
func (m *Manager) InitChannels() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.channelsCreated {
		return nil
	}

	err := m.RegisterChannels(m.sink)
	m.channelsCreated = true
	return err
}

// RegisterChannels emits the channel registrations to sink. It is used for
// presentation clients that connect after InitChannels has run.
func (m *Manager) RegisterChannels(sink interfaces.EventSink) error {
	if sink == nil {
		return nil
	}

	var errs []error
	for _, payload := range ChannelPayloads(m.appName) {
		if err := sink.Emit(EventCreateChannel, payload); err != nil {
			slog.Warn("failed to register notification channel", "channel", payload.ID, "error", err)
			errs = append(errs, err)
		}
	}
	slog.Debug("notification channels registered", "count", len(channels), "failed", len(errs))

	return errors.Join(errs...)
}

// ChannelsCreated reports whether InitChannels has run.
func (m *Manager) ChannelsCreated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channelsCreated
}

// ShowNotification is Show for loose arguments.
func (m *Manager) ShowNotification(title, body, notificationType string) error {
	return m.Show(types.NotificationRequest{Title: title, Body: body, Type: notificationType})
}

// Show dispatches a notification request. Every request is accepted and the
// body is passed through as given; delivery failures are logged.
func (m *Manager) Show(req types.NotificationRequest) error {
	res := ResolveType(types.ParseNotificationType(req.Type))
	title := DisplayTitle(m.appName, res.Suffix)
	body := req.Body

	payload := types.DisplayPayload{
		ID:               m.newID(),
		Title:            title,
		Body:             body,
		ChannelID:        res.Channel.ID,
		NotificationType: res.Type.String(),
		SourceTitle:      req.Title,
	}
	if err := m.emit(EventShow, payload); err != nil {
		slog.Warn("failed to emit notification event", "channel", res.Channel.ID, "error", err)
	}

	m.showNative(title, body, res.Channel.Importance)
	m.playSound(types.NormalizeNotificationType(req.Type))

	return nil
}

// Wait blocks until every sound cue started so far has returned.
func (m *Manager) Wait() {
	m.sounds.Wait()
}

// showNative is the direct path that keeps the notification visible when the
// presentation layer has no channel support.
func (m *Manager) showNative(title, body string, importance int) {
	if m.quiet || m.native == nil {
		return
	}

	if m.rateLimiter != nil && !m.rateLimiter.Allow() {
		slog.Debug("native notification rate limited", "title", title)
		return
	}

	m.mu.Lock()
	reporter := m.reporter
	m.mu.Unlock()

	if reporter != nil {
		reporter.ReportSending()
	}

	if err := m.native.Notify(title, body, importance); err != nil {
		slog.Warn("native notification failed", "title", title, "error", err)
		if reporter != nil {
			reporter.ReportFailure()
		}
		return
	}

	if reporter != nil {
		reporter.ReportSuccess()
	}
}

// playSound starts the cue on its own goroutine and does not wait for it.
func (m *Manager) playSound(t types.NotificationType) {
	if m.mute || m.sound == nil {
		return
	}

	m.sounds.Add(1)
	go func() {
		defer m.sounds.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic while playing notification sound", "type", t.String(), "panic", r)
			}
		}()

		m.sound.PlayNotificationSound(t)
	}()
}

func (m *Manager) emit(name string, payload any) error {
	if m.sink == nil {
		return nil
	}
	return m.sink.Emit(name, payload)
}
