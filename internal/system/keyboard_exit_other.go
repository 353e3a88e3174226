//go:build !linux

package system

import "context"

// WatchExitKey needs Linux evdev; elsewhere it only logs.
func WatchExitKey(ctx context.Context, l logger, onExit func()) {
	if l != nil {
		l.Infof("input", "F4 exit not supported on this platform")
	}
}
