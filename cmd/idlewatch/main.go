package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/Veraticus/idlewatch/pkg/config"
	"github.com/Veraticus/idlewatch/pkg/logging"
	"github.com/Veraticus/idlewatch/pkg/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches to the daemon or the notify subcommand and returns the exit
// code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "notify":
			return runNotify(ctx, args[1:], stdout, stderr)
		case "activity":
			return runActivity(ctx, args[1:], stdout, stderr)
		}
	}
	return runDaemon(ctx, args, stdout, stderr)
}

// daemonFlags are the command line overrides for the daemon.
type daemonFlags struct {
	configPath string
	quiet      bool
	mute       bool
	listen     string
	threshold  time.Duration
	interval   time.Duration
	logLevel   string
	help       bool
}

func newDaemonFlagSet(f *daemonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("idlewatch", flag.ContinueOnError)
	fs.StringVar(&f.configPath, "config", "", "Path to config file")
	fs.BoolVar(&f.quiet, "quiet", false, "Disable direct desktop notifications")
	fs.BoolVar(&f.mute, "mute", false, "Disable notification sounds")
	fs.StringVar(&f.listen, "listen", config.DefaultListenAddr, "Event server address (empty disables it)")
	fs.DurationVar(&f.threshold, "threshold", config.DefaultIdleThreshold, "Idle time before the user counts as idle")
	fs.DurationVar(&f.interval, "interval", config.DefaultPollInterval, "How often idle time is sampled")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVarP(&f.help, "help", "h", false, "Show help message")
	return fs
}

// loadConfig loads the file and environment, then applies flags that were
// set explicitly.
func loadConfig(fs *flag.FlagSet, f *daemonFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFrom(f.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if fs.Changed("quiet") {
		cfg.Quiet = f.quiet
	}
	if fs.Changed("mute") {
		cfg.Mute = f.mute
	}
	if fs.Changed("listen") {
		cfg.ListenAddr = f.listen
	}
	if fs.Changed("threshold") {
		cfg.IdleThreshold = f.threshold
	}
	if fs.Changed("interval") {
		cfg.PollInterval = f.interval
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runDaemon(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var f daemonFlags
	fs := newDaemonFlagSet(&f)
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if f.help {
		printUsage(stdout, fs)
		return 0
	}

	cfg, err := loadConfig(fs, &f)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	level, _ := logging.ParseLevel(cfg.Log.Level)
	format, _ := logging.ParseFormat(cfg.Log.Format)
	logging.Setup(logging.Options{Level: level, Format: format, Output: stderr})

	deps, err := NewDependencies(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating dependencies: %v\n", err)
		return 1
	}

	app := NewApplication(deps)
	runErr := app.Run(ctx)

	if err := app.Stop(); err != nil {
		slog.Warn("shutdown incomplete", "error", err)
	}

	if runErr != nil {
		fmt.Fprintf(stderr, "Error: %v\n", runErr)
		return 1
	}
	slog.Info("idle monitor stopped")
	return 0
}

// runNotify sends one show_notification command to a running daemon.
func runNotify(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("idlewatch notify", flag.ContinueOnError)
	fs.SetOutput(stderr)

	addr := fs.String("addr", config.DefaultListenAddr, "Daemon address")
	notificationType := fs.StringP("type", "t", "INFO", "Notification type (INFO, WARNING, ERROR, SUCCESS, CRITICAL)")
	timeout := fs.Duration("timeout", 5*time.Second, "How long to wait for the daemon")
	help := fs.BoolP("help", "h", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *help {
		fmt.Fprintln(stdout, "Usage: idlewatch notify [OPTIONS] TITLE [BODY]")
		fmt.Fprintln(stdout)
		fmt.Fprint(stdout, fs.FlagUsages())
		return 0
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fmt.Fprintln(stderr, "Usage: idlewatch notify [OPTIONS] TITLE [BODY]")
		return 2
	}

	req := server.ShowNotificationRequest{
		Title:            fs.Arg(0),
		Body:             fs.Arg(1),
		NotificationType: *notificationType,
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	client, err := server.Dial(ctx, *addr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: is the daemon running? %v\n", err)
		return 1
	}
	defer func() { _ = client.Close() }()

	if _, err := client.Call(ctx, server.CmdShowNotification, req); err != nil {
		if errors.Is(err, server.ErrCommandFailed) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(stderr, "Error talking to daemon: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "notification sent")
	return 0
}

// runActivity reports user activity to a daemon whose idle time is not read
// from the desktop session.
func runActivity(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("idlewatch activity", flag.ContinueOnError)
	fs.SetOutput(stderr)

	addr := fs.String("addr", config.DefaultListenAddr, "Daemon address")
	timeout := fs.Duration("timeout", 5*time.Second, "How long to wait for the daemon")
	help := fs.BoolP("help", "h", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *help {
		fmt.Fprintln(stdout, "Usage: idlewatch activity [OPTIONS]")
		fmt.Fprintln(stdout)
		fmt.Fprint(stdout, fs.FlagUsages())
		return 0
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(stderr, "Usage: idlewatch activity [OPTIONS]")
		return 2
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	client, err := server.Dial(ctx, *addr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: is the daemon running? %v\n", err)
		return 1
	}
	defer func() { _ = client.Close() }()

	resp, err := client.Call(ctx, server.CmdReportActivity, nil)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	var result server.ReportActivityResult
	if raw, err := json.Marshal(resp.Data); err == nil {
		_ = json.Unmarshal(raw, &result)
	}
	fmt.Fprintf(stdout, "activity recorded at %s\n", result.LastActivity)
	return 0
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "idlewatch - idle detection and notification daemon for the time tracker")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  idlewatch [OPTIONS]")
	fmt.Fprintln(w, "  idlewatch notify [OPTIONS] TITLE [BODY]")
	fmt.Fprintln(w, "  idlewatch activity [OPTIONS]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment Variables:")
	fmt.Fprintln(w, "  IDLEWATCH_CONFIG          Path to config file")
	fmt.Fprintln(w, "  IDLEWATCH_IDLE_THRESHOLD  Idle threshold (default: 3s)")
	fmt.Fprintln(w, "  IDLEWATCH_POLL_INTERVAL   Sampling interval (default: 10s)")
	fmt.Fprintln(w, "  IDLEWATCH_APP_NAME        Name shown in notification titles")
	fmt.Fprintln(w, "  IDLEWATCH_SOUNDS_DIR      Sounds directory")
	fmt.Fprintln(w, "  IDLEWATCH_LISTEN_ADDR     Event server address")
	fmt.Fprintln(w, "  IDLEWATCH_QUIET           Disable desktop notifications (true/false)")
	fmt.Fprintln(w, "  IDLEWATCH_MUTE            Disable sounds (true/false)")
	fmt.Fprintln(w, "  IDLEWATCH_LOG_LEVEL       Log level")
	fmt.Fprintln(w, "  IDLEWATCH_DEBUG=1         Force debug logging")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration file: ~/.config/idlewatch/config.yaml")
}
