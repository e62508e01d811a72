package idle

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// TmuxIdleSource reads idle time from tmux client activity.
type TmuxIdleSource struct {
	sessionName string
	cmdExecutor func(name string, args ...string) ([]byte, error)
	now         func() time.Time
}

// NewTmuxIdleSource creates a new tmux idle source.
// If sessionName is empty, it will attempt to detect the current session.
func NewTmuxIdleSource(sessionName string) *TmuxIdleSource {
	return &TmuxIdleSource{
		sessionName: sessionName,
		cmdExecutor: defaultCmdExecutor,
		now:         time.Now,
	}
}

// IdleDuration retrieves the idle time from tmux.
func (s *TmuxIdleSource) IdleDuration() (time.Duration, error) {
	// First check if we're in a tmux session
	if !s.isInTmux() {
		return 0, fmt.Errorf("not in a tmux session")
	}

	// Get the session name if not provided
	sessionName := s.sessionName
	if sessionName == "" {
		name, err := s.getCurrentSessionName()
		if err != nil {
			return 0, fmt.Errorf("failed to get current session name: %w", err)
		}
		sessionName = name
	}

	idleTime, err := s.getSessionIdleTime(sessionName)
	if err != nil {
		return 0, fmt.Errorf("failed to get session idle time: %w", err)
	}

	return idleTime, nil
}

// isInTmux checks if we're running inside a tmux session.
func (s *TmuxIdleSource) isInTmux() bool {
	return os.Getenv("TMUX") != ""
}

// getCurrentSessionName gets the name of the current tmux session.
func (s *TmuxIdleSource) getCurrentSessionName() (string, error) {
	output, err := s.cmdExecutor("tmux", "display-message", "-p", "#{session_name}")
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(output)), nil
}

// getSessionIdleTime gets the minimum idle time across all clients in a session.
func (s *TmuxIdleSource) getSessionIdleTime(sessionName string) (time.Duration, error) {
	output, err := s.cmdExecutor("tmux", "list-clients", "-t", sessionName, "-F", "#{client_activity}")
	if err != nil {
		return 0, err
	}

	// Find the most recent activity (minimum idle time)
	var mostRecentActivity time.Time
	for _, line := range bytes.Split(bytes.TrimSpace(output), []byte("\n")) {
		if len(line) == 0 {
			continue
		}

		// client_activity is seconds since epoch
		activitySecs, err := strconv.ParseInt(string(line), 10, 64)
		if err != nil {
			continue
		}

		activityTime := time.Unix(activitySecs, 0)
		if mostRecentActivity.IsZero() || activityTime.After(mostRecentActivity) {
			mostRecentActivity = activityTime
		}
	}

	if mostRecentActivity.IsZero() {
		return 0, fmt.Errorf("no client activity found for session %s", sessionName)
	}

	return clampIdle(s.now().Sub(mostRecentActivity)), nil
}

// IsAvailable checks if tmux is available and we're in a tmux session.
func (s *TmuxIdleSource) IsAvailable() bool {
	if !s.isInTmux() {
		return false
	}

	_, err := s.cmdExecutor("tmux", "-V")
	return err == nil
}
