package sensor

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned when the status byte shows the conversion has not
// finished. It is expected and the caller retries on its next cycle.
var ErrNotReady = errors.New("aht20: measurement not ready")

// ErrBusBusy is returned while an earlier transaction that timed out is
// still running on the bus.
var ErrBusBusy = errors.New("aht20: previous bus transaction still in progress")

// BusError is a failed or timed out bus transaction.
type BusError struct {
	Op  string
	Err error
}

func (e *BusError) Error() string { return fmt.Sprintf("aht20: %s: %v", e.Op, e.Err) }

func (e *BusError) Unwrap() error { return e.Err }

// ChecksumError reports a payload whose CRC does not match the checksum byte.
type ChecksumError struct {
	Got  byte
	Want byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("aht20: checksum mismatch: sensor sent 0x%02X, computed 0x%02X", e.Got, e.Want)
}
