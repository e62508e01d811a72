//go:build linux
// +build linux

package idle

import (
	"os/exec"

	"github.com/Veraticus/idlewatch/pkg/interfaces"
)

// newPlatformSource creates a Linux-specific idle source.
func newPlatformSource() interfaces.IdleSource {
	return NewLinuxIdleSource()
}

// NewLinuxIdleSource chains the session-bus services, xprintidle and tmux.
// The bus sources are always tried; the command sources only when present.
func NewLinuxIdleSource() *ChainSource {
	sources := []NamedSource{
		{Name: "mutter", Source: NewMutterIdleSource()},
		{Name: "screensaver", Source: NewScreenSaverIdleSource()},
	}

	if _, err := exec.LookPath("xprintidle"); err == nil {
		sources = append(sources, NamedSource{Name: "xprintidle", Source: NewXPrintIdleSource()})
	}

	if tmux := NewTmuxIdleSource(""); tmux.IsAvailable() {
		sources = append(sources, NamedSource{Name: "tmux", Source: tmux})
	}

	return NewChainSource(sources...)
}
