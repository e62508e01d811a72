package notification

import (
	"fmt"
	"os/exec"
	"strconv"
)

// OSAScriptNotifier shows notifications through macOS Notification Center.
type OSAScriptNotifier struct {
	cmdExecutor func(name string, args ...string) ([]byte, error)
}

// NewOSAScriptNotifier creates a new osascript notifier.
func NewOSAScriptNotifier() *OSAScriptNotifier {
	return &OSAScriptNotifier{
		cmdExecutor: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).CombinedOutput()
		},
	}
}

// Notify runs `display notification`. Importance has no equivalent here.
func (n *OSAScriptNotifier) Notify(title, body string, _ int) error {
	script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(body), strconv.Quote(title))
	if output, err := n.cmdExecutor("osascript", "-e", script); err != nil {
		return fmt.Errorf("osascript failed: %w (%s)", err, output)
	}
	return nil
}
