package sensor

import (
	"errors"

	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"
)

// errFixedSpeed is returned by SetSpeed on MCU buses; their clock is set when
// the peripheral is configured.
var errFixedSpeed = errors.New("sensor: bus speed is fixed by the MCU bus configuration")

// TinyGoBus adapts a TinyGo drivers.I2C (machine.I2C0 and friends) to the
// periph i2c.Bus shape so the same driver runs on MCU and host buses.
type TinyGoBus struct {
	Name string
	Bus  drivers.I2C
}

func FromTinyGo(name string, bus drivers.I2C) *TinyGoBus {
	return &TinyGoBus{Name: name, Bus: bus}
}

func (t *TinyGoBus) String() string { return t.Name }

func (t *TinyGoBus) Tx(addr uint16, w, r []byte) error {
	return t.Bus.Tx(addr, w, r)
}

func (t *TinyGoBus) SetSpeed(physic.Frequency) error { return errFixedSpeed }
