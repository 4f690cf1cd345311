package delivery

import (
	"errors"
	"fmt"
)

// ErrDeliveryExhausted means every attempt went unacknowledged. The record is
// lost.
var ErrDeliveryExhausted = errors.New("delivery: no acknowledgment")

var errBackoff = errors.New("waiting before next socket attempt")

// SocketError is a failure to create, bind, connect or write the socket.
type SocketError struct {
	Op  string
	Err error
}

func (e *SocketError) Error() string { return fmt.Sprintf("delivery: socket %s: %v", e.Op, e.Err) }

func (e *SocketError) Unwrap() error { return e.Err }
