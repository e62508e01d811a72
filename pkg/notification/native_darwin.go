//go:build darwin
// +build darwin

package notification

import "github.com/Veraticus/idlewatch/pkg/interfaces"

// NewNativeNotifier returns a Notification Center notifier.
func NewNativeNotifier(_ string) interfaces.NativeNotifier {
	return NewOSAScriptNotifier()
}
