//go:build windows
// +build windows

package idle

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/Veraticus/idlewatch/pkg/interfaces"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetLastInputInfo = user32.NewProc("GetLastInputInfo")
)

// lastInputInfo mirrors the Win32 LASTINPUTINFO struct.
type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

// newPlatformSource creates a Windows-specific idle source.
func newPlatformSource() interfaces.IdleSource {
	return NewWindowsIdleSource()
}

// WindowsIdleSource reads the tick count of the last input event.
type WindowsIdleSource struct{}

// NewWindowsIdleSource creates a new Windows idle source.
func NewWindowsIdleSource() *WindowsIdleSource {
	return &WindowsIdleSource{}
}

// IdleDuration returns the time since the last keyboard or mouse input.
func (s *WindowsIdleSource) IdleDuration() (time.Duration, error) {
	if err := procGetLastInputInfo.Find(); err != nil {
		return 0, fmt.Errorf("GetLastInputInfo unavailable: %w", err)
	}

	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	ret, _, err := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info))) // #nosec G103 -- Win32 API call
	if ret == 0 {
		return 0, fmt.Errorf("GetLastInputInfo failed: %w", err)
	}

	// Tick counts are 32-bit and wrap every ~49.7 days; unsigned subtraction handles the wrap.
	now := uint32(windows.GetTickCount64())
	return time.Duration(now-info.dwTime) * time.Millisecond, nil
}
