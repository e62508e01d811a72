package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/Veraticus/idlewatch/pkg/audio"
	"github.com/Veraticus/idlewatch/pkg/config"
	"github.com/Veraticus/idlewatch/pkg/events"
	"github.com/Veraticus/idlewatch/pkg/idle"
	"github.com/Veraticus/idlewatch/pkg/interfaces"
	"github.com/Veraticus/idlewatch/pkg/monitor"
	"github.com/Veraticus/idlewatch/pkg/notification"
	"github.com/Veraticus/idlewatch/pkg/server"
	"github.com/Veraticus/idlewatch/pkg/sound"
	"github.com/Veraticus/idlewatch/pkg/status"
)

// shutdownTimeout bounds Stop.
const shutdownTimeout = 5 * time.Second

// Dependencies holds all the dependencies for the application
type Dependencies struct {
	Config              *config.Config
	IdleSource          interfaces.IdleSource
	Hub                 *events.Hub
	Sink                interfaces.EventSink
	Monitor             *monitor.Monitor
	Audio               *audio.Output
	SoundManager        *sound.Manager
	NativeNotifier      interfaces.NativeNotifier
	RateLimiter         interfaces.RateLimiter
	NotificationManager *notification.Manager
	StatusIndicator     *status.Indicator
	StatusReporter      *status.Reporter
	Server              *server.Server
	stopChan            chan struct{}
}

// NewDependencies creates all dependencies with the given configuration.
// Nothing here touches the audio device or the network; Run does.
func NewDependencies(cfg *config.Config, statusOut io.Writer) (*Dependencies, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	deps := &Dependencies{
		Config:   cfg,
		stopChan: make(chan struct{}),
	}

	deps.IdleSource = idle.NewIdleSource()
	deps.Hub = events.NewHub(events.DefaultClientBuffer)

	// The status line only makes sense on a terminal
	statusEnabled := cfg.StatusLine && statusOut != nil && writerIsTerminal(statusOut)
	deps.StatusIndicator = status.NewIndicator(statusOut, statusEnabled)
	deps.StatusReporter = status.NewReporter(deps.StatusIndicator)

	deps.Sink = events.Multi{deps.Hub, events.NewLogSink(nil), deps.StatusIndicator}

	deps.Monitor = monitor.New(deps.IdleSource, deps.Sink, monitor.Options{
		Threshold: cfg.IdleThreshold,
		Interval:  cfg.PollInterval,
	})

	deps.Audio = audio.New()
	deps.SoundManager = sound.NewManager(sound.ResolveDir(cfg.SoundsDir), deps.Audio)
	for _, err := range deps.SoundManager.MissingAssets() {
		slog.Warn("configured sound will fall back", "error", err)
	}

	deps.NativeNotifier = notification.NewNativeNotifier(cfg.AppName)
	deps.RateLimiter = notification.NewWindowRateLimiter(cfg.RateLimit.MaxMessages, cfg.RateLimit.Window)
	deps.NotificationManager = notification.NewManager(
		deps.Sink,
		deps.NativeNotifier,
		deps.SoundManager,
		deps.RateLimiter,
		notification.Options{
			AppName: cfg.AppName,
			Quiet:   cfg.Quiet,
			Mute:    cfg.Mute,
		},
	)
	deps.NotificationManager.SetStatusReporter(deps.StatusReporter)

	if cfg.ListenAddr != "" {
		deps.Server = newServer(cfg.ListenAddr, deps.Hub, deps.NotificationManager, deps.Monitor, deps.IdleSource)
	}

	return deps, nil
}

// newServer builds the command server. Clients that connect after startup
// are greeted with the notification channels.
func newServer(addr string, hub *events.Hub, mgr *notification.Manager, mon *monitor.Monitor, source interfaces.IdleSource) *server.Server {
	commands := server.NewCommandHandler(mgr, mon)
	// Only the fallback source learns about activity from clients
	if recorder, ok := source.(server.ActivityRecorder); ok {
		commands.SetActivityRecorder(recorder)
	}

	srv := server.New(addr, hub, commands)
	srv.SetGreeter(mgr.RegisterChannels)
	return srv
}

// writerIsTerminal reports whether w is a terminal file.
func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty(f.Fd())
}

// Close cleans up all dependencies
func (d *Dependencies) Close() {
	if d.stopChan != nil {
		select {
		case <-d.stopChan:
			// Already closed
		default:
			close(d.stopChan)
		}
	}

	if d.StatusIndicator != nil {
		_ = d.StatusIndicator.Clear() // Best effort
	}

	if d.Hub != nil {
		d.Hub.Close()
	}
}

// Application represents the main application
type Application struct {
	deps *Dependencies

	mu    sync.Mutex
	addr  net.Addr
	ready chan struct{}
}

// NewApplication creates a new application with the given dependencies
func NewApplication(deps *Dependencies) *Application {
	return &Application{
		deps:  deps,
		ready: make(chan struct{}),
	}
}

// Ready is closed once Run has started the monitor and, if configured, is
// accepting connections.
func (a *Application) Ready() <-chan struct{} {
	return a.ready
}

// Addr returns the address the server listens on, or nil if it is disabled
// or not started yet.
func (a *Application) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addr
}

// Run initializes channels and audio, starts the server and blocks in the
// idle monitor until ctx is done or the server fails.
func (a *Application) Run(ctx context.Context) error {
	d := a.deps

	var ln net.Listener
	if d.Server != nil {
		var err error
		ln, err = net.Listen("tcp", d.Config.ListenAddr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", d.Config.ListenAddr, err)
		}
		a.mu.Lock()
		a.addr = ln.Addr()
		a.mu.Unlock()
	}

	if err := d.NotificationManager.InitChannels(); err != nil {
		slog.Warn("notification channel setup incomplete", "error", err)
	}

	if !d.Config.Mute && d.Audio != nil {
		// The app runs without sound if no device is present
		if err := d.Audio.Initialize(); err != nil {
			slog.Warn("audio output unavailable, sounds disabled until a device appears", "error", err)
		}
	}

	if d.StatusIndicator != nil {
		d.StatusIndicator.StartAutoRefresh(d.stopChan, time.Second)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	if ln != nil {
		go func() {
			serveErr <- d.Server.Serve(ln)
		}()
	}

	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		d.Monitor.Run(ctx)
	}()

	slog.Info("idle monitor started",
		"threshold", d.Monitor.Threshold(),
		"interval", d.Monitor.Interval(),
		"listen", d.Config.ListenAddr,
		"quiet", d.Config.Quiet,
		"mute", d.Config.Mute)
	close(a.ready)

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
		if err != nil {
			err = fmt.Errorf("event server: %w", err)
		}
	}

	cancel()
	<-monitorDone
	return err
}

// Stop shuts down the server and waits for in-flight sound cues.
func (a *Application) Stop() error {
	d := a.deps

	var err error
	if d.Server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if serr := d.Server.Shutdown(ctx); serr != nil {
			err = fmt.Errorf("shutdown server: %w", serr)
		}
	}

	if d.NotificationManager != nil {
		d.NotificationManager.Wait()
	}

	d.Close()
	return err
}
