// Package testutil provides thread-safe mocks shared by package tests.
package testutil

import (
	"sync"
	"time"
)

// NativeCall records one direct notification.
type NativeCall struct {
	Title      string
	Body       string
	Importance int
}

// MockNativeNotifier is a thread-safe mock implementation of interfaces.NativeNotifier
type MockNativeNotifier struct {
	mu        sync.Mutex
	calls     []NativeCall
	attempts  []NativeCall // Track all attempts, including failures
	notifyErr error
	delay     time.Duration
}

// NewMockNativeNotifier creates a new mock native notifier
func NewMockNativeNotifier() *MockNativeNotifier {
	return &MockNativeNotifier{}
}

// Notify implements the NativeNotifier interface
func (m *MockNativeNotifier) Notify(title, body string, importance int) error {
	m.mu.Lock()
	delay := m.delay
	m.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	call := NativeCall{Title: title, Body: body, Importance: importance}
	m.attempts = append(m.attempts, call)

	if m.notifyErr != nil {
		return m.notifyErr
	}

	m.calls = append(m.calls, call)
	return nil
}

// GetCalls returns a copy of successful notifications
func (m *MockNativeNotifier) GetCalls() []NativeCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]NativeCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// GetAttempts returns a copy of all attempts (including failures)
func (m *MockNativeNotifier) GetAttempts() []NativeCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]NativeCall, len(m.attempts))
	copy(result, m.attempts)
	return result
}

// SetError sets the error to return on Notify calls
func (m *MockNativeNotifier) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifyErr = err
}

// SetDelay sets a delay before each Notify call
func (m *MockNativeNotifier) SetDelay(delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = delay
}

// Clear resets the mock state
func (m *MockNativeNotifier) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.attempts = nil
	m.notifyErr = nil
	m.delay = 0
}

// IdleReading is one scripted result for MockIdleSource.
type IdleReading struct {
	Idle time.Duration
	Err  error
}

// MockIdleSource returns scripted readings in order, repeating the last one
// once the script is exhausted.
type MockIdleSource struct {
	mu        sync.Mutex
	readings  []IdleReading
	callCount int
}

// NewMockIdleSource creates a source that replays the given readings.
func NewMockIdleSource(readings ...IdleReading) *MockIdleSource {
	return &MockIdleSource{readings: readings}
}

// NewMockIdleSourceSeconds scripts successful readings in whole seconds.
func NewMockIdleSourceSeconds(seconds ...uint64) *MockIdleSource {
	readings := make([]IdleReading, len(seconds))
	for i, s := range seconds {
		readings[i] = IdleReading{Idle: time.Duration(s) * time.Second}
	}
	return NewMockIdleSource(readings...)
}

// IdleDuration implements the IdleSource interface
func (m *MockIdleSource) IdleDuration() (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.readings) == 0 {
		m.callCount++
		return 0, nil
	}

	idx := m.callCount
	if idx >= len(m.readings) {
		idx = len(m.readings) - 1
	}
	m.callCount++

	r := m.readings[idx]
	return r.Idle, r.Err
}

// SetReadings replaces the script and rewinds it.
func (m *MockIdleSource) SetReadings(readings ...IdleReading) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readings = readings
	m.callCount = 0
}

// GetCallCount returns how many times IdleDuration was called
func (m *MockIdleSource) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// MockRateLimiter is a mock implementation of interfaces.RateLimiter for testing
type MockRateLimiter struct {
	mu          sync.Mutex
	allowResult bool
	allowCount  int
	resetCount  int
}

// NewMockRateLimiter creates a new mock rate limiter
func NewMockRateLimiter(allowResult bool) *MockRateLimiter {
	return &MockRateLimiter{
		allowResult: allowResult,
	}
}

// Allow implements the RateLimiter interface
func (m *MockRateLimiter) Allow() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allowCount++
	return m.allowResult
}

// Reset implements the RateLimiter interface
func (m *MockRateLimiter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCount++
}

// SetAllowResult sets the result that Allow() will return
func (m *MockRateLimiter) SetAllowResult(allow bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allowResult = allow
}

// GetAllowCount returns how many times Allow was called
func (m *MockRateLimiter) GetAllowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allowCount
}

// GetResetCount returns how many times Reset was called
func (m *MockRateLimiter) GetResetCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resetCount
}

// MockStatusReporter counts status reports.
type MockStatusReporter struct {
	mu      sync.Mutex
	sending int
	success int
	failure int
}

// ReportSending implements the StatusReporter interface
func (m *MockStatusReporter) ReportSending() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sending++
}

// ReportSuccess implements the StatusReporter interface
func (m *MockStatusReporter) ReportSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.success++
}

// ReportFailure implements the StatusReporter interface
func (m *MockStatusReporter) ReportFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failure++
}

// Counts returns the sending, success and failure counts.
func (m *MockStatusReporter) Counts() (sending, success, failure int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sending, m.success, m.failure
}
