package idle

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DarwinIdleSource reads the HID idle time reported by ioreg on macOS.
type DarwinIdleSource struct {
	cmdExecutor func(name string, args ...string) ([]byte, error)
}

// NewDarwinIdleSource creates a new Darwin (macOS) idle source.
func NewDarwinIdleSource() *DarwinIdleSource {
	return &DarwinIdleSource{
		cmdExecutor: defaultCmdExecutor,
	}
}

// IdleDuration retrieves the system idle time using ioreg.
func (s *DarwinIdleSource) IdleDuration() (time.Duration, error) {
	output, err := s.cmdExecutor("ioreg", "-c", "IOHIDSystem", "-d", "4")
	if err != nil {
		return 0, fmt.Errorf("failed to execute ioreg: %w", err)
	}

	idleNanos, err := parseHIDIdleTime(output)
	if err != nil {
		return 0, fmt.Errorf("failed to parse HIDIdleTime: %w", err)
	}

	return time.Duration(idleNanos), nil
}

// parseHIDIdleTime parses the HIDIdleTime from ioreg output.
func parseHIDIdleTime(output []byte) (int64, error) {
	for _, line := range bytes.Split(output, []byte("\n")) {
		lineStr := string(bytes.TrimSpace(line))
		if !strings.Contains(lineStr, "HIDIdleTime") {
			continue
		}

		// Format: "HIDIdleTime" = 123456789
		parts := strings.Split(lineStr, "=")
		if len(parts) != 2 {
			continue
		}

		valueStr := strings.TrimSpace(parts[1])
		valueStr = strings.Trim(valueStr, "\"")
		valueStr = strings.TrimSpace(valueStr)

		value, err := strconv.ParseInt(valueStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse idle time value: %w", err)
		}

		return value, nil
	}

	return 0, fmt.Errorf("HIDIdleTime not found in ioreg output")
}
