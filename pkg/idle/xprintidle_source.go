package idle

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// XPrintIdleSource reads the X11 screensaver idle time via xprintidle.
type XPrintIdleSource struct {
	cmdExecutor func(name string, args ...string) ([]byte, error)
}

// NewXPrintIdleSource creates a new xprintidle source.
func NewXPrintIdleSource() *XPrintIdleSource {
	return &XPrintIdleSource{
		cmdExecutor: defaultCmdExecutor,
	}
}

// IdleDuration runs xprintidle, which prints milliseconds.
func (s *XPrintIdleSource) IdleDuration() (time.Duration, error) {
	output, err := s.cmdExecutor("xprintidle")
	if err != nil {
		return 0, fmt.Errorf("failed to execute xprintidle: %w", err)
	}

	ms, err := strconv.ParseUint(strings.TrimSpace(string(output)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse xprintidle output: %w", err)
	}

	return time.Duration(ms) * time.Millisecond, nil
}
