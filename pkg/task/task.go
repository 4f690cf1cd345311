// Package task holds the two long-running loops of the node: Acquisition
// samples the sensor into the queue and Delivery drains the queue to the
// collector.
package task

import (
	"context"
	"time"
)

// sleep waits d or until ctx is done. It reports whether the loop should go on.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
