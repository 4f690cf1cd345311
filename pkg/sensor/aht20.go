package sensor

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
)

const (
	// Address is the fixed 7-bit bus address of the AHT20.
	Address = 0x38

	cmdTrigger = 0xAC
	frameLen   = 7 // status + 5 data + checksum
)

var triggerCmd = [...]byte{cmdTrigger, 0x33, 0x00}

type AHT20Options struct {
	Address      uint16
	Settle       time.Duration
	WriteTimeout time.Duration
	ReadTimeout  time.Duration
}

func DefaultAHT20Options() AHT20Options {
	return AHT20Options{
		Address:      Address,
		Settle:       100 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
		ReadTimeout:  time.Second,
	}
}

type AHT20Sensor struct {
	dev  *i2c.Dev
	bus  i2c.BusCloser
	opts AHT20Options
	gate busGate
}

// NewAHT20 binds the driver to an already initialized bus. The caller keeps
// ownership of bus.
func NewAHT20(bus i2c.Bus, opts AHT20Options) *AHT20Sensor {
	if opts.Address == 0 {
		opts.Address = Address
	}
	return &AHT20Sensor{dev: &i2c.Dev{Addr: opts.Address, Bus: bus}, opts: opts, gate: newBusGate()}
}

func (s *AHT20Sensor) Close() error {
	if s.bus != nil {
		return s.bus.Close()
	}
	return nil
}

// Read runs one full transaction: trigger, settle, status poll, payload read
// and checksum validation.
func (s *AHT20Sensor) Read(ctx context.Context) (Reading, error) {
	if err := s.tx(ctx, "trigger", s.opts.WriteTimeout, triggerCmd[:], nil); err != nil {
		return Reading{}, err
	}

	// conversion dead time, not a poll interval
	if err := sleep(ctx, s.opts.Settle); err != nil {
		return Reading{}, err
	}

	var status [1]byte
	if err := s.tx(ctx, "read status", s.opts.ReadTimeout, nil, status[:]); err != nil {
		return Reading{}, err
	}
	if !IsMeasurementReady(DecodeStatus(status[0])) {
		return Reading{}, ErrNotReady
	}

	var frame [frameLen]byte
	if err := s.tx(ctx, "read data", s.opts.ReadTimeout, nil, frame[:]); err != nil {
		return Reading{}, err
	}
	return decodeFrame(frame[:])
}

func (s *AHT20Sensor) tx(ctx context.Context, op string, timeout time.Duration, w, r []byte) error {
	if err := s.gate.tx(ctx, s.dev, timeout, w, r); err != nil {
		return &BusError{Op: op, Err: err}
	}
	return nil
}

func (s *AHT20Sensor) String() string {
	return fmt.Sprintf("aht20@%s/0x%02X", s.dev.Bus, s.dev.Addr)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
