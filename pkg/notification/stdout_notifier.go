package notification

import (
	"fmt"
	"io"
	"os"
)

// StdoutNotifier prints notifications to a writer. It is the direct path on
// platforms without a native notification service.
type StdoutNotifier struct {
	out io.Writer
}

// NewStdoutNotifier creates a notifier writing to stdout
func NewStdoutNotifier() *StdoutNotifier {
	return &StdoutNotifier{out: os.Stdout}
}

// NewWriterNotifier creates a notifier writing to w
func NewWriterNotifier(w io.Writer) *StdoutNotifier {
	return &StdoutNotifier{out: w}
}

// Notify prints the notification
func (n *StdoutNotifier) Notify(title, body string, importance int) error {
	_, err := fmt.Fprintf(n.out, "[NOTIFICATION] %s: %s (importance %d)\n", title, body, importance)
	return err
}
