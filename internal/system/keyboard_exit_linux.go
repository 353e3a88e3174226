//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

const (
	evKey = 0x01
	// KeyF4 from linux/input-event-codes.h
	KeyF4 = 62

	keyPressed = 1
)

// timevalSize is the width of struct timeval at the head of input_event.
var timevalSize = binary.Size(unix.Timeval{})

// inputEventSize is sizeof(struct input_event): timeval, u16 type, u16 code, s32 value.
func inputEventSize() int { return timevalSize + 2 + 2 + 4 }

// pressedKey reports whether buf, a run of input_event records, contains a
// press of code.
func pressedKey(buf []byte, code uint16) bool {
	size := inputEventSize()
	for off := 0; off+size <= len(buf); off += size {
		rec := buf[off : off+size]
		typ := binary.LittleEndian.Uint16(rec[timevalSize:])
		c := binary.LittleEndian.Uint16(rec[timevalSize+2:])
		value := int32(binary.LittleEndian.Uint32(rec[timevalSize+4:]))
		if typ == evKey && c == code && value == keyPressed {
			return true
		}
	}
	return false
}

// WatchExitKey watches every /dev/input/event* device and calls onExit once
// when F4 is pressed. Missing or unreadable devices are skipped; the
// watchers stop when ctx is done.
func WatchExitKey(ctx context.Context, l logger, onExit func()) {
	if onExit == nil {
		return
	}
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if l != nil {
			l.Infof("input", "no evdev devices found for F4 exit")
		}
		return
	}

	var once sync.Once
	trigger := func() {
		once.Do(func() {
			if l != nil {
				l.Infof("input", "F4 pressed: exiting")
			}
			onExit()
		})
	}
	for _, p := range paths {
		go watchDevice(ctx, p, trigger)
	}
}

func watchDevice(ctx context.Context, path string, trigger func()) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	defer unix.Close(fd)

	buf := make([]byte, 64*inputEventSize())
	for ctx.Err() == nil {
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(fds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			return
		}
		if fds[0].Revents&unix.POLLIN == 0 {
			continue
		}
		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}
		if pressedKey(buf[:n], KeyF4) {
			trigger()
			return
		}
	}
}
