//go:build !linux && !darwin && !windows
// +build !linux,!darwin,!windows

package idle

import (
	"github.com/Veraticus/idlewatch/pkg/interfaces"
)

// newPlatformSource creates a fallback source for unsupported platforms.
func newPlatformSource() interfaces.IdleSource {
	return NewActivitySource()
}
