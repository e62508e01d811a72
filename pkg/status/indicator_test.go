package status

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/idlewatch/pkg/monitor"
	"github.com/Veraticus/idlewatch/pkg/types"
)

func TestNewIndicator(t *testing.T) {
	buf := &bytes.Buffer{}
	indicator := NewIndicator(buf, true)

	if indicator.status != StatusIdle {
		t.Errorf("expected initial status to be StatusIdle, got %v", indicator.status)
	}
	if indicator.writer != buf {
		t.Errorf("expected writer to be set")
	}
	if !indicator.enabled {
		t.Errorf("expected indicator to be enabled")
	}
}

func TestIndicatorSetStatus(t *testing.T) {
	tests := []struct {
		name           string
		status         Status
		expectedOutput string
		enabled        bool
	}{
		{name: "sending status", status: StatusSending, expectedOutput: "⟳ notify", enabled: true},
		{name: "success status", status: StatusSuccess, expectedOutput: "✓ notify", enabled: true},
		{name: "failed status", status: StatusFailed, expectedOutput: "✗ notify", enabled: true},
		{name: "idle status shows nothing", status: StatusIdle, expectedOutput: "", enabled: true},
		{name: "disabled indicator shows nothing", status: StatusSuccess, expectedOutput: "", enabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			indicator := NewIndicator(buf, tt.enabled)

			indicator.SetStatus(tt.status)

			output := buf.String()
			if tt.expectedOutput != "" {
				if !strings.Contains(output, tt.expectedOutput) {
					t.Errorf("expected output to contain %q, got %q", tt.expectedOutput, output)
				}
				return
			}
			if output != "" {
				t.Errorf("expected no output, got %q", output)
			}
		})
	}
}

func TestIndicatorResultAge(t *testing.T) {
	buf := &bytes.Buffer{}
	indicator := NewIndicator(buf, true)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	indicator.now = func() time.Time { return now }

	indicator.SetStatus(StatusSuccess)
	if out := buf.String(); !strings.Contains(out, "✓ notify\033[0m") {
		t.Errorf("expected fresh result without age, got %q", out)
	}

	tests := []struct {
		elapsed time.Duration
		want    string
		visible bool
	}{
		{elapsed: 10 * time.Second, want: "✓ notify (10s)", visible: true},
		{elapsed: 29 * time.Second, want: "✓ notify (29s)", visible: true},
		{elapsed: 35 * time.Second, visible: false},
	}

	for _, tt := range tests {
		buf.Reset()
		indicator.mu.Lock()
		indicator.now = func() time.Time { return now.Add(tt.elapsed) }
		_ = indicator.draw()
		indicator.mu.Unlock()

		out := buf.String()
		if tt.visible && !strings.Contains(out, tt.want) {
			t.Errorf("after %v: expected %q, got %q", tt.elapsed, tt.want, out)
		}
		if !tt.visible && strings.Contains(out, "notify") {
			t.Errorf("after %v: expected result to expire, got %q", tt.elapsed, out)
		}
	}
}

func TestIndicatorObservesIdleUpdates(t *testing.T) {
	tests := []struct {
		name     string
		event    string
		payload  any
		want     string
		wantNone bool
	}{
		{
			name:    "idle update",
			event:   monitor.EventStatusUpdate,
			payload: types.IdleEvent{IsIdle: true, IdleTimeSeconds: 125, ActivityState: types.ActivityIdle},
			want:    "Ⓩ idle 2m5s",
		},
		{
			name:    "active update by pointer",
			event:   monitor.EventStatusUpdate,
			payload: &types.IdleEvent{IsIdle: false, IdleTimeSeconds: 1, ActivityState: types.ActivityActive},
			want:    "▶ active",
		},
		{
			name:     "transition events are ignored",
			event:    monitor.EventStatusChanged,
			payload:  types.IdleEvent{IsIdle: true, IdleTimeSeconds: 9},
			wantNone: true,
		},
		{
			name:     "foreign payload ignored",
			event:    monitor.EventStatusUpdate,
			payload:  map[string]any{"is_idle": true},
			wantNone: true,
		},
		{
			name:     "nil pointer ignored",
			event:    monitor.EventStatusUpdate,
			payload:  (*types.IdleEvent)(nil),
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			indicator := NewIndicator(buf, true)

			if err := indicator.Emit(tt.event, tt.payload); err != nil {
				t.Fatalf("Emit returned error: %v", err)
			}

			indicator.redraw()
			out := buf.String()

			if tt.wantNone {
				if out != "" {
					t.Errorf("expected nothing drawn, got %q", out)
				}
				return
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected output to contain %q, got %q", tt.want, out)
			}
		})
	}
}

func TestIndicatorIdleState(t *testing.T) {
	indicator := NewIndicator(nil, false)

	_ = indicator.Emit(monitor.EventStatusUpdate, types.IdleEvent{IsIdle: true, IdleTimeSeconds: 42})

	idle, secs := indicator.IdleState()
	if !idle || secs != 42 {
		t.Errorf("expected idle with 42s, got idle=%v secs=%d", idle, secs)
	}
}

func TestIndicatorClear(t *testing.T) {
	buf := &bytes.Buffer{}
	indicator := NewIndicator(buf, true)

	indicator.SetStatus(StatusSuccess)

	buf.Reset()
	if err := indicator.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if strings.Contains(output, "notify") {
		t.Errorf("expected cleared output to not contain notify text, got %q", output)
	}
	if !strings.Contains(output, "\033[2K") {
		t.Errorf("expected clear-line sequence in output, got %q", output)
	}
}

func TestIndicatorClearDisabled(t *testing.T) {
	buf := &bytes.Buffer{}
	indicator := NewIndicator(buf, false)

	if err := indicator.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestIndicatorAutoRefresh(t *testing.T) {
	type safeBuffer struct {
		mu  sync.Mutex
		buf bytes.Buffer
	}
	sb := &safeBuffer{}

	writer := writerFunc(func(p []byte) (n int, err error) {
		sb.mu.Lock()
		defer sb.mu.Unlock()
		return sb.buf.Write(p)
	})

	indicator := NewIndicator(writer, true)
	indicator.SetStatus(StatusSending)

	stop := make(chan struct{})
	indicator.StartAutoRefresh(stop, 20*time.Millisecond)

	_ = indicator.Emit(monitor.EventStatusUpdate, types.IdleEvent{IsIdle: true, IdleTimeSeconds: 3})

	time.Sleep(150 * time.Millisecond)
	close(stop)
	time.Sleep(50 * time.Millisecond)

	sb.mu.Lock()
	output := sb.buf.String()
	sb.mu.Unlock()

	if draws := strings.Count(output, "⟳ notify"); draws < 2 {
		t.Errorf("expected at least 2 draws, got %d", draws)
	}
	if !strings.Contains(output, "Ⓩ idle 3s") {
		t.Errorf("expected idle state to be drawn, got %q", output)
	}
	if !strings.HasSuffix(output, "\r\033[2K") {
		t.Errorf("expected line to be cleared on stop, got %q", output)
	}
}

// writerFunc is an adapter to allow functions to implement io.Writer
type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) {
	return f(p)
}
