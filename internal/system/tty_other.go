//go:build !linux

package system

// EnterGraphics is a no-op where there is no Linux virtual console.
func EnterGraphics(l logger) (restore func()) {
	if l != nil {
		l.Infof("tty", "console mode switching not supported on this platform")
	}
	return func() {}
}
