// Package gpio drives a single status LED on a GPIO line. The LED has no
// color, so any active color lights it.
package gpio

import (
	"fmt"

	"github.com/ericogr/aht20-udp-node/pkg/indicator"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

type LEDIndicator struct {
	pin gpio.PinOut
}

// NewByName initializes host drivers and opens the named pin, e.g. "GPIO17".
func NewByName(name string) (indicator.Indicator, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio: unknown pin %q", name)
	}
	return New(p)
}

// New drives pin, starting with the LED off.
func New(pin gpio.PinOut) (*LEDIndicator, error) {
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("gpio %s: %w", pin, err)
	}
	return &LEDIndicator{pin: pin}, nil
}

func (l *LEDIndicator) SetActive(indicator.Color) error { return l.pin.Out(gpio.High) }

func (l *LEDIndicator) SetIdle() error { return l.pin.Out(gpio.Low) }

func (l *LEDIndicator) Close() error { return l.pin.Out(gpio.Low) }
