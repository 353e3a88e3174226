//go:build linux

package system

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// KD console modes from linux/kd.h
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A
)

var consolePaths = []string{"/dev/tty", "/dev/tty0"}

// SetGraphicsMode switches the active virtual terminal to KD_GRAPHICS so the
// kernel console stops drawing over the framebuffer.
func SetGraphicsMode() error { return setConsoleMode(kdGraphics) }

// RestoreTextMode switches the console back to KD_TEXT.
func RestoreTextMode() error { return setConsoleMode(kdText) }

func setConsoleMode(mode int) error {
	var errs []error
	for _, p := range consolePaths {
		fd, err := unix.Open(p, unix.O_RDONLY, 0)
		if err != nil {
			errs = append(errs, fmt.Errorf("open %s: %w", p, err))
			continue
		}
		err = unix.IoctlSetInt(fd, kdSetMode, mode)
		_ = unix.Close(fd)
		if err == nil {
			return nil
		}
		errs = append(errs, fmt.Errorf("KDSETMODE %d on %s: %w", mode, p, err))
	}
	return errors.Join(errs...)
}

func HideCursor() error { return writeVT("\x1b[?25l") }
func ShowCursor() error { return writeVT("\x1b[?25h") }

func writeVT(s string) error {
	var errs []error
	for _, p := range consolePaths {
		f, err := os.OpenFile(p, os.O_WRONLY, 0)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		_, err = f.WriteString(s)
		_ = f.Close()
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return fmt.Errorf("write vt: %w", errors.Join(errs...))
}

// EnterGraphics hides the console cursor and text for the lifetime of a
// framebuffer sink. The returned func restores the console. Failures are
// logged and otherwise ignored: the display still works with a cursor.
func EnterGraphics(l logger) (restore func()) {
	_ = logResult(l, "KD_GRAPHICS set", SetGraphicsMode())
	_ = logResult(l, "cursor hidden", HideCursor())
	return func() {
		_ = logResult(l, "cursor shown", ShowCursor())
		_ = logResult(l, "KD_TEXT set", RestoreTextMode())
	}
}
