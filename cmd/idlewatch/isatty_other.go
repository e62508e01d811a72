//go:build !linux && !darwin && !windows
// +build !linux,!darwin,!windows

package main

// isatty reports false; the status line stays off on other platforms.
func isatty(uintptr) bool {
	return false
}
