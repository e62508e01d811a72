//go:build darwin
// +build darwin

package idle

import (
	"github.com/Veraticus/idlewatch/pkg/interfaces"
)

// newPlatformSource creates a Darwin-specific idle source.
func newPlatformSource() interfaces.IdleSource {
	return NewDarwinIdleSource()
}
