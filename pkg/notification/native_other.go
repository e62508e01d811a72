//go:build !linux && !darwin
// +build !linux,!darwin

package notification

import "github.com/Veraticus/idlewatch/pkg/interfaces"

// NewNativeNotifier falls back to printing on stdout.
func NewNativeNotifier(_ string) interfaces.NativeNotifier {
	return NewStdoutNotifier()
}
