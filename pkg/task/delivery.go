package task

import (
	"context"
	"errors"
	"time"

	"github.com/golang/glog"

	"github.com/ericogr/aht20-udp-node/pkg/clock"
	"github.com/ericogr/aht20-udp-node/pkg/delivery"
	"github.com/ericogr/aht20-udp-node/pkg/indicator"
	"github.com/ericogr/aht20-udp-node/pkg/queue"
	"github.com/ericogr/aht20-udp-node/pkg/record"
)

// Transport is the datagram side of the Delivery task; *delivery.Sender
// implements it.
type Transport interface {
	Deliver(ctx context.Context, payload []byte) (int, error)
}

type Delivery struct {
	Queue     *queue.Queue
	Transport Transport
	Clock     clock.Clock
	Indicator indicator.Indicator
	Period    time.Duration
	// Hold is how long the indicator shows ColorTransmit before the record
	// is built.
	Hold time.Duration
}

// Run drains the queue once per Period until ctx is done.
func (d *Delivery) Run(ctx context.Context) {
	glog.Infof("delivery task started, period %s", d.Period)
	for {
		d.Cycle(ctx)
		if !sleep(ctx, d.Period) {
			glog.Infof("delivery task stopped")
			return
		}
	}
}

// Cycle delivers at most one pending reading. It reports whether a reading
// was acknowledged.
func (d *Delivery) Cycle(ctx context.Context) bool {
	r, err := d.Queue.TryPop()
	if err != nil {
		glog.V(2).Infof("nothing to deliver")
		return false
	}

	d.setActive()
	defer d.setIdle()
	if !sleep(ctx, d.Hold) {
		return false
	}

	rec := record.New(r, d.Clock.Now())
	payload, err := record.Encode(rec)
	if err != nil {
		glog.Errorf("encode record: %v", err)
		return false
	}

	sent, err := d.Transport.Deliver(ctx, payload)
	var sockErr *delivery.SocketError
	switch {
	case err == nil:
		glog.Infof("delivered temp_c=%.2f hmd=%.2f time=%d in %d attempt(s)", rec.TempC, rec.Humidity, rec.Time, sent)
		return true
	case ctx.Err() != nil:
		glog.V(1).Infof("delivery interrupted: %v", err)
	case errors.Is(err, delivery.ErrDeliveryExhausted):
		glog.Errorf("reading lost: %v", err)
	case errors.As(err, &sockErr):
		glog.Errorf("reading lost, %v", sockErr)
	default:
		glog.Errorf("deliver: %v", err)
	}
	return false
}

func (d *Delivery) setActive() {
	if d.Indicator == nil {
		return
	}
	if err := d.Indicator.SetActive(indicator.ColorTransmit); err != nil {
		glog.Warningf("indicator: %v", err)
	}
}

func (d *Delivery) setIdle() {
	if d.Indicator == nil {
		return
	}
	if err := d.Indicator.SetIdle(); err != nil {
		glog.Warningf("indicator: %v", err)
	}
}
