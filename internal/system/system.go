// Package system wraps the Linux console and input devices of a kiosk display.
package system

type logger interface {
	Infof(component, format string, args ...interface{})
	Errorf(component, format string, args ...interface{})
}

func logResult(l logger, ok string, err error) error {
	if l == nil {
		return err
	}
	if err != nil {
		l.Errorf("tty", "%s failed: %v", ok, err)
	} else {
		l.Infof("tty", "%s", ok)
	}
	return err
}
