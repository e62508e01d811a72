package idle

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestNewTmuxIdleSource(t *testing.T) {
	tests := []struct {
		name        string
		sessionName string
	}{
		{
			name:        "With session name",
			sessionName: "main",
		},
		{
			name:        "Without session name",
			sessionName: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := NewTmuxIdleSource(tt.sessionName)

			if source == nil {
				t.Fatal("NewTmuxIdleSource returned nil")
			}

			if source.sessionName != tt.sessionName {
				t.Errorf("sessionName = %v, want %v", source.sessionName, tt.sessionName)
			}

			if source.cmdExecutor == nil {
				t.Error("cmdExecutor should not be nil")
			}
		})
	}
}

func TestTmuxIdleSource_isInTmux(t *testing.T) {
	tests := []struct {
		name     string
		tmuxEnv  string
		expected bool
	}{
		{
			name:     "In tmux session",
			tmuxEnv:  "/tmp/tmux-1000/default,12345,0",
			expected: true,
		},
		{
			name:     "Not in tmux session",
			tmuxEnv:  "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TMUX", tt.tmuxEnv)

			source := NewTmuxIdleSource("")
			if got := source.isInTmux(); got != tt.expected {
				t.Errorf("isInTmux() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTmuxIdleSource_IdleDuration(t *testing.T) {
	now := time.Unix(1700000000, 0)

	tests := []struct {
		name         string
		tmuxEnv      string
		sessionName  string
		outputs      map[string]string
		errors       map[string]error
		expectedIdle time.Duration
		expectError  bool
	}{
		{
			name:        "Not in tmux",
			tmuxEnv:     "",
			expectError: true,
		},
		{
			name:        "Named session with single client",
			tmuxEnv:     "/tmp/tmux-1000/default,1,0",
			sessionName: "work",
			outputs: map[string]string{
				"list-clients": "1699999970\n",
			},
			expectedIdle: 30 * time.Second,
		},
		{
			name:    "Detected session picks most recent client",
			tmuxEnv: "/tmp/tmux-1000/default,1,0",
			outputs: map[string]string{
				"display-message": "main\n",
				"list-clients":    "1699999900\n1699999995\n1699999950\n",
			},
			expectedIdle: 5 * time.Second,
		},
		{
			name:        "Garbage lines are skipped",
			tmuxEnv:     "/tmp/tmux-1000/default,1,0",
			sessionName: "work",
			outputs: map[string]string{
				"list-clients": "garbage\n1699999990\n",
			},
			expectedIdle: 10 * time.Second,
		},
		{
			name:        "No clients",
			tmuxEnv:     "/tmp/tmux-1000/default,1,0",
			sessionName: "work",
			outputs: map[string]string{
				"list-clients": "",
			},
			expectError: true,
		},
		{
			name:    "Session name lookup fails",
			tmuxEnv: "/tmp/tmux-1000/default,1,0",
			errors: map[string]error{
				"display-message": fmt.Errorf("no server running"),
			},
			expectError: true,
		},
		{
			name:        "Future activity clamps to zero",
			tmuxEnv:     "/tmp/tmux-1000/default,1,0",
			sessionName: "work",
			outputs: map[string]string{
				"list-clients": "1700000010\n",
			},
			expectedIdle: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TMUX", tt.tmuxEnv)

			source := NewTmuxIdleSource(tt.sessionName)
			source.now = func() time.Time { return now }
			source.cmdExecutor = func(name string, args ...string) ([]byte, error) {
				if name != "tmux" || len(args) == 0 {
					return nil, fmt.Errorf("unexpected command %s %s", name, strings.Join(args, " "))
				}
				if err, ok := tt.errors[args[0]]; ok {
					return nil, err
				}
				return []byte(tt.outputs[args[0]]), nil
			}

			idle, err := source.IdleDuration()
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error, got idle %v", idle)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if idle != tt.expectedIdle {
				t.Errorf("IdleDuration() = %v, want %v", idle, tt.expectedIdle)
			}
		})
	}
}

func TestTmuxIdleSource_IsAvailable(t *testing.T) {
	tests := []struct {
		name     string
		tmuxEnv  string
		cmdErr   error
		expected bool
	}{
		{name: "Not in tmux", tmuxEnv: "", expected: false},
		{name: "In tmux with binary", tmuxEnv: "/tmp/tmux", expected: true},
		{name: "In tmux without binary", tmuxEnv: "/tmp/tmux", cmdErr: fmt.Errorf("not found"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TMUX", tt.tmuxEnv)

			source := NewTmuxIdleSource("")
			source.cmdExecutor = func(name string, args ...string) ([]byte, error) {
				return []byte("tmux 3.4"), tt.cmdErr
			}

			if got := source.IsAvailable(); got != tt.expected {
				t.Errorf("IsAvailable() = %v, want %v", got, tt.expected)
			}
		})
	}
}
