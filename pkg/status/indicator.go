package status

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/idlewatch/pkg/interfaces"
	"github.com/Veraticus/idlewatch/pkg/monitor"
	"github.com/Veraticus/idlewatch/pkg/types"
)

// Status represents the current notification status
type Status int

const (
	StatusIdle Status = iota
	StatusSending
	StatusSuccess
	StatusFailed
)

// resultTTL is how long a delivery result stays on the line.
const resultTTL = 30 * time.Second

// Indicator draws a one-line terminal status: the user's idle state from
// idle-status-update events plus the last native delivery result.
type Indicator struct {
	mu       sync.Mutex
	status   Status
	lastSent time.Time
	enabled  bool
	writer   io.Writer
	now      func() time.Time

	isIdle      bool
	idleSeconds uint64
	seen        bool

	refreshChan chan struct{}
}

// Ensure Indicator observes events
var _ interfaces.EventSink = (*Indicator)(nil)

// NewIndicator creates a new status indicator
func NewIndicator(writer io.Writer, enabled bool) *Indicator {
	return &Indicator{
		status:      StatusIdle,
		writer:      writer,
		enabled:     enabled,
		now:         time.Now,
		refreshChan: make(chan struct{}, 1),
	}
}

// Emit observes idle-status-update events. Every other event is ignored.
func (i *Indicator) Emit(name string, payload any) error {
	if name != monitor.EventStatusUpdate {
		return nil
	}

	var event types.IdleEvent
	switch p := payload.(type) {
	case types.IdleEvent:
		event = p
	case *types.IdleEvent:
		if p == nil {
			return nil
		}
		event = *p
	default:
		return nil
	}

	i.mu.Lock()
	i.isIdle = event.IsIdle
	i.idleSeconds = event.IdleTimeSeconds
	i.seen = true
	i.mu.Unlock()

	i.requestRefresh()
	return nil
}

// SetStatus updates the current status
func (i *Indicator) SetStatus(status Status) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.status = status
	if status == StatusSuccess || status == StatusFailed {
		i.lastSent = i.now()
	}

	// Best effort - don't fail if we can't update the display
	_ = i.draw()
}

// draw rewrites the current line in place. Callers hold mu.
func (i *Indicator) draw() error {
	if !i.enabled || i.writer == nil {
		return nil
	}

	statusText := i.getStatusText()
	if statusText == "" {
		return nil
	}

	// \r returns to column 1, \033[2K clears the line.
	_, err := fmt.Fprintf(i.writer, "\r\033[2K%s", statusText)
	return err
}

// getStatusText returns the appropriate status text with color
func (i *Indicator) getStatusText() string {
	var parts []string

	if i.seen {
		if i.isIdle {
			idle := time.Duration(i.idleSeconds) * time.Second
			parts = append(parts, fmt.Sprintf("\033[33mⓏ idle %s\033[0m", idle)) // Yellow Z for idle
		} else {
			parts = append(parts, "\033[32m▶ active\033[0m") // Green play for active
		}
	}

	elapsed := i.now().Sub(i.lastSent)
	switch i.status {
	case StatusSending:
		parts = append(parts, "\033[33m⟳ notify\033[0m")
	case StatusSuccess:
		if elapsed < resultTTL {
			parts = append(parts, "\033[32m✓ notify"+age(elapsed)+"\033[0m")
		}
	case StatusFailed:
		if elapsed < resultTTL {
			parts = append(parts, "\033[31m✗ notify"+age(elapsed)+"\033[0m")
		}
	}

	return strings.Join(parts, " ")
}

func age(d time.Duration) string {
	if d < time.Second {
		return ""
	}
	return fmt.Sprintf(" (%ds)", int(d.Seconds()))
}

// Clear removes the status indicator
func (i *Indicator) Clear() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.enabled || i.writer == nil {
		return nil
	}

	_, err := fmt.Fprint(i.writer, "\r\033[2K")
	return err
}

// StartAutoRefresh redraws every interval and on each observed event until
// stop is closed, then clears the line.
func (i *Indicator) StartAutoRefresh(stop <-chan struct{}, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				i.redraw()
			case <-i.refreshChan:
				i.redraw()
			case <-stop:
				_ = i.Clear() // Best effort
				return
			}
		}
	}()
}

func (i *Indicator) redraw() {
	i.mu.Lock()
	_ = i.draw()
	i.mu.Unlock()
}

func (i *Indicator) requestRefresh() {
	if !i.enabled {
		return
	}
	select {
	case i.refreshChan <- struct{}{}:
	default:
		// Refresh already pending
	}
}

// IdleState returns the last observed idle state and idle seconds.
func (i *Indicator) IdleState() (bool, uint64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.isIdle, i.idleSeconds
}
