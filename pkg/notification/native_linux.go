//go:build linux
// +build linux

package notification

import "github.com/Veraticus/idlewatch/pkg/interfaces"

// NewNativeNotifier returns the desktop notification service client.
func NewNativeNotifier(appName string) interfaces.NativeNotifier {
	return NewDBusNotifier(appName)
}
