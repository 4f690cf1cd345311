package sensor

import (
	"context"
	"time"

	"periph.io/x/conn/v3/i2c"
)

// busGate admits one bus transaction at a time. Its token is held until
// dev.Tx returns, so a transaction abandoned on timeout keeps the gate
// closed for as long as it occupies the bus.
type busGate chan struct{}

func newBusGate() busGate { return make(busGate, 1) }

// tx bounds a bus transaction by timeout and ctx. Bus drivers do not take a
// context, so the transaction runs on its own goroutine; r must not be
// reused by the caller after a timeout.
func (g busGate) tx(ctx context.Context, dev *i2c.Dev, timeout time.Duration, w, r []byte) error {
	select {
	case g <- struct{}{}:
	default:
		return ErrBusBusy
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	done := make(chan error, 1)
	go func() {
		err := dev.Tx(w, r)
		<-g
		done <- err
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
