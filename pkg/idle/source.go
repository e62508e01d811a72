// Package idle provides idle sources that report how long the user has been inactive.
package idle

import (
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/Veraticus/idlewatch/pkg/interfaces"
)

// ErrSourceUnavailable is returned when no idle reading could be taken.
var ErrSourceUnavailable = errors.New("idle source unavailable")

// NewIdleSource creates a platform-appropriate idle source.
// It returns:
// - a chain of D-Bus, xprintidle and tmux sources on Linux
// - DarwinIdleSource on macOS (using ioreg)
// - WindowsIdleSource on Windows (using GetLastInputInfo)
// - ActivitySource on other platforms as a fallback.
func NewIdleSource() interfaces.IdleSource {
	return newPlatformSource()
}

// NamedSource pairs a source with a name used in error messages.
type NamedSource struct {
	Name   string
	Source interfaces.IdleSource
}

// ChainSource tries each source in order and returns the first reading.
type ChainSource struct {
	sources []NamedSource
}

// NewChainSource creates a chain over the given sources.
func NewChainSource(sources ...NamedSource) *ChainSource {
	return &ChainSource{sources: sources}
}

// IdleDuration returns the reading of the first source that succeeds.
func (c *ChainSource) IdleDuration() (time.Duration, error) {
	var lastErr error
	for _, s := range c.sources {
		d, err := s.Source.IdleDuration()
		if err == nil {
			return d, nil
		}
		lastErr = fmt.Errorf("%s: %w", s.Name, err)
	}

	if lastErr == nil {
		return 0, ErrSourceUnavailable
	}
	return 0, fmt.Errorf("%w: %w", ErrSourceUnavailable, lastErr)
}

// Len returns the number of sources in the chain.
func (c *ChainSource) Len() int {
	return len(c.sources)
}

// defaultCmdExecutor executes a command and returns its output.
func defaultCmdExecutor(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.Output()
}

// clampIdle guards against clock skew producing a negative idle time.
func clampIdle(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
