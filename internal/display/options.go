package display

import (
	"errors"
	"fmt"
	"strings"
)

// MatrixOptions describes the LED panel geometry and driver settings.
type MatrixOptions struct {
	Rows            int    `mapstructure:"rows" yaml:"rows"`
	Cols            int    `mapstructure:"cols" yaml:"cols"`
	ChainLength     int    `mapstructure:"chain-length" yaml:"chain-length"`
	Parallel        int    `mapstructure:"parallel" yaml:"parallel"`
	HardwareMapping string `mapstructure:"hardware-mapping" yaml:"hardware-mapping"`
	GPIOSlowdown    int    `mapstructure:"gpio-slowdown" yaml:"gpio-slowdown"`
	PWMBits         int    `mapstructure:"pwm-bits" yaml:"pwm-bits"`
	Brightness      int    `mapstructure:"brightness" yaml:"brightness"`
}

func DefaultMatrixOptions() MatrixOptions {
	return MatrixOptions{
		Rows:            32,
		Cols:            64,
		ChainLength:     1,
		Parallel:        1,
		HardwareMapping: "adafruit-hat",
		GPIOSlowdown:    2,
		PWMBits:         11,
		Brightness:      70,
	}
}

// Width is the frame width in pixels across the whole chain.
func (o MatrixOptions) Width() int { return o.Cols * o.ChainLength }

// Height is the frame height in pixels across parallel chains.
func (o MatrixOptions) Height() int { return o.Rows * o.Parallel }

// ClampedBrightness returns Brightness limited to [1,100].
func (o MatrixOptions) ClampedBrightness() int {
	switch {
	case o.Brightness < 1:
		return 1
	case o.Brightness > 100:
		return 100
	}
	return o.Brightness
}

// Validate reports every invalid field at once. Brightness is clamped, never rejected.
func (o MatrixOptions) Validate() error {
	var errs []error
	if o.Rows <= 0 {
		errs = append(errs, fmt.Errorf("rows must be positive (got %d)", o.Rows))
	}
	if o.Cols <= 0 {
		errs = append(errs, fmt.Errorf("cols must be positive (got %d)", o.Cols))
	}
	if o.ChainLength <= 0 {
		errs = append(errs, fmt.Errorf("chain-length must be positive (got %d)", o.ChainLength))
	}
	if o.Parallel <= 0 {
		errs = append(errs, fmt.Errorf("parallel must be positive (got %d)", o.Parallel))
	}
	if strings.TrimSpace(o.HardwareMapping) == "" {
		errs = append(errs, errors.New("hardware-mapping must be set"))
	}
	if o.GPIOSlowdown < 0 || o.GPIOSlowdown > 5 {
		errs = append(errs, fmt.Errorf("gpio-slowdown must be within 0..5 (got %d)", o.GPIOSlowdown))
	}
	if o.PWMBits < 1 || o.PWMBits > 11 {
		errs = append(errs, fmt.Errorf("pwm-bits must be within 1..11 (got %d)", o.PWMBits))
	}
	return errors.Join(errs...)
}
