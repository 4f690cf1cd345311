//go:build !tinygo

package sensor

import (
	"fmt"

	"github.com/ericogr/aht20-udp-node/pkg/config"
	"github.com/golang/glog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// OpenBus initializes periph host drivers and opens the named bus. An empty
// name selects the first registered bus. It runs once before the first Read.
func OpenBus(name string, speedHz int) (i2c.BusCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open i2c: %w", err)
	}
	if speedHz > 0 {
		// not every bus driver can change clock; keep its default
		if err := bus.SetSpeed(physic.Frequency(speedHz) * physic.Hertz); err != nil {
			glog.Warningf("i2c %s: set speed %dHz: %v", bus, speedHz, err)
		}
	}
	glog.Infof("i2c bus %s opened", bus)
	return bus, nil
}

// NewAHT20Sensor initializes the host bus and binds the driver to it.
func NewAHT20Sensor(cfg config.Config) (Sensor, error) {
	bus, err := OpenBus(cfg.I2CBus, cfg.I2CSpeedHz)
	if err != nil {
		return nil, err
	}
	opts := DefaultAHT20Options()
	opts.Address = uint16(cfg.I2CAddress)
	opts.Settle = cfg.SettleDelay()
	s := NewAHT20(bus, opts)
	s.bus = bus
	return s, nil
}
