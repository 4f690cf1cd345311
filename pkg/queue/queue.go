// Package queue is the bounded single-producer/single-consumer handoff
// between the acquisition and delivery tasks. Values are copied in and out;
// neither side ever holds a reference into the queue.
package queue

import (
	"errors"
	"time"

	"github.com/ericogr/aht20-udp-node/pkg/sensor"
)

var (
	// ErrFull is returned by TryPush when the queue stayed full for the whole
	// push timeout. The rejected reading is dropped (reject-newest).
	ErrFull = errors.New("queue: full")
	// ErrEmpty is returned by TryPop when no reading is pending.
	ErrEmpty = errors.New("queue: empty")
)

type Queue struct {
	ch chan sensor.Reading
}

// New creates a queue holding at most capacity readings. Capacity below 1 is
// raised to 1.
func New(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{ch: make(chan sensor.Reading, capacity)}
}

// TryPush enqueues r, waiting at most timeout for space.
func (q *Queue) TryPush(r sensor.Reading, timeout time.Duration) error {
	select {
	case q.ch <- r:
		return nil
	default:
	}
	if timeout <= 0 {
		return ErrFull
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case q.ch <- r:
		return nil
	case <-t.C:
		return ErrFull
	}
}

// TryPop takes the oldest pending reading without blocking.
func (q *Queue) TryPop() (sensor.Reading, error) {
	select {
	case r := <-q.ch:
		return r, nil
	default:
		return sensor.Reading{}, ErrEmpty
	}
}

func (q *Queue) Cap() int { return cap(q.ch) }
