package task

import (
	"context"
	"errors"
	"time"

	"github.com/golang/glog"

	"github.com/ericogr/aht20-udp-node/pkg/queue"
	"github.com/ericogr/aht20-udp-node/pkg/sensor"
)

type Acquisition struct {
	Sensor      sensor.Sensor
	Queue       *queue.Queue
	Period      time.Duration
	PushTimeout time.Duration
}

// Run samples once per Period until ctx is done.
func (a *Acquisition) Run(ctx context.Context) {
	glog.Infof("acquisition task started, period %s", a.Period)
	for {
		a.Cycle(ctx)
		if !sleep(ctx, a.Period) {
			glog.Infof("acquisition task stopped")
			return
		}
	}
}

// Cycle performs one read and, on success, one push. Every failure is
// logged here and never returned.
func (a *Acquisition) Cycle(ctx context.Context) {
	r, err := a.Sensor.Read(ctx)
	if err != nil {
		logReadError(ctx, err)
		return
	}
	glog.Infof("read %s", r)

	switch err := a.Queue.TryPush(r, a.PushTimeout); {
	case errors.Is(err, queue.ErrFull):
		glog.V(1).Infof("queue full, dropping %s", r)
	case err != nil:
		glog.Errorf("queue push: %v", err)
	}
}

func logReadError(ctx context.Context, err error) {
	var (
		busErr *sensor.BusError
		crcErr *sensor.ChecksumError
	)
	switch {
	case ctx.Err() != nil:
		glog.V(1).Infof("read interrupted: %v", err)
	case errors.Is(err, sensor.ErrNotReady):
		glog.Infof("sensor not ready, retrying next cycle")
	case errors.As(err, &crcErr):
		glog.Errorf("discarding sample: %v", crcErr)
	case errors.As(err, &busErr):
		glog.Errorf("sensor bus failure during %s: %v", busErr.Op, busErr.Err)
	default:
		glog.Errorf("sensor read: %v", err)
	}
}
