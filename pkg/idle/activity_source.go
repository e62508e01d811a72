package idle

import (
	"sync"
	"time"
)

// ActivitySource measures idle time from activity reported by the
// presentation layer. It is the Idle Source on platforms without a native
// query; activity arrives through the report_activity command.
type ActivitySource struct {
	mu           sync.RWMutex
	lastActivity time.Time
	now          func() time.Time
}

// NewActivitySource creates a source that counts idle time from now.
func NewActivitySource() *ActivitySource {
	return &ActivitySource{
		lastActivity: time.Now(),
		now:          time.Now,
	}
}

// IdleDuration returns the time since activity was last recorded.
func (s *ActivitySource) IdleDuration() (time.Duration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clampIdle(s.now().Sub(s.lastActivity)), nil
}

// RecordActivity marks the user active now and returns the recorded time.
func (s *ActivitySource) RecordActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActivity = s.now()
	return s.lastActivity
}
