package notification

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/idlewatch/pkg/sound"
	"github.com/Veraticus/idlewatch/pkg/testutil"
	"github.com/Veraticus/idlewatch/pkg/types"
)

// Show through a real sound manager down to a recording audio output.
func TestShowPlaysConfiguredSound(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "warn.wav"), []byte("RIFF"), 0o600); err != nil {
		t.Fatal(err)
	}
	config := "[settings]\nenabled = true\ndefault_volume = 0.5\n\n[sounds]\nWARNING = \"warn.wav\"\n\n[fallbacks]\ndefault = \"generated\"\n"
	if err := os.WriteFile(filepath.Join(dir, sound.ConfigFileName), []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		typ        string
		wantPlayed []string
		wantTones  int
	}{
		{name: "mapped file present", typ: "WARNING", wantPlayed: []string{filepath.Join(dir, "warn.wav")}},
		{name: "lowercase type still finds the cue", typ: "warning", wantPlayed: []string{filepath.Join(dir, "warn.wav")}},
		{name: "unmapped type synthesizes", typ: "SUCCESS", wantTones: 1},
		{name: "unknown type synthesizes", typ: "garbage", wantTones: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := testutil.NewMockAudioOutput()
			sounds := sound.NewManager(dir, output)
			native := testutil.NewMockNativeNotifier()

			m := NewManager(testutil.NewRecordingSink(), native, sounds, nil, Options{AppName: "Focus"})
			if err := m.ShowNotification("t", "b", tt.typ); err != nil {
				t.Fatalf("ShowNotification returned error: %v", err)
			}
			m.Wait()

			played := output.GetPlayed()
			if len(played) != len(tt.wantPlayed) {
				t.Fatalf("expected %d file plays, got %v", len(tt.wantPlayed), played)
			}
			for i := range played {
				if played[i] != tt.wantPlayed[i] {
					t.Errorf("played %q, want %q", played[i], tt.wantPlayed[i])
				}
			}
			if got := len(output.GetTones()); got != tt.wantTones {
				t.Errorf("expected %d tones, got %d", tt.wantTones, got)
			}
			if got := len(native.GetCalls()); got != 1 {
				t.Errorf("expected 1 native notification, got %d", got)
			}
		})
	}
}

func TestShowMutedPlaysNothing(t *testing.T) {
	output := testutil.NewMockAudioOutput()
	sounds := sound.NewManagerWithConfig(t.TempDir(), sound.DefaultConfig(), output)

	m := NewManager(testutil.NewRecordingSink(), nil, sounds, nil, Options{Mute: true})
	if err := m.Show(types.NotificationRequest{Title: "t", Body: "b", Type: "INFO"}); err != nil {
		t.Fatal(err)
	}
	m.Wait()

	if len(output.GetPlayed()) != 0 || len(output.GetTones()) != 0 {
		t.Errorf("expected silence when muted, got files=%v tones=%v", output.GetPlayed(), output.GetTones())
	}
}
