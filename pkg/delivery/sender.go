// Package delivery sends serialized records to the collector over UDP and
// waits for an application-level acknowledgment, retrying a bounded number
// of times.
package delivery

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	"github.com/golang/glog"
)

// AckToken is the only reply payload accepted as an acknowledgment.
const AckToken = "ACK"

const (
	ackBufSize = 64

	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

type Options struct {
	Server      string // collector host:port
	LocalPort   int    // 0 picks an ephemeral port
	Timeout     time.Duration
	MaxAttempts int
}

// Sender owns one long-lived UDP socket bound to the local port and connected
// to the collector. It is not safe for concurrent use.
type Sender struct {
	opts Options
	conn *net.UDPConn
	buf  [ackBufSize]byte

	now     func() time.Time
	backoff time.Duration
	retryAt time.Time
}

func NewSender(opts Options) *Sender {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &Sender{opts: opts, now: time.Now}
}

// Connect creates, binds and connects the socket if that has not happened
// yet. After a failure further attempts are refused until a backoff delay,
// doubling from 1s up to 30s, has passed.
func (s *Sender) Connect() error {
	if s.conn != nil {
		return nil
	}
	now := s.now()
	if now.Before(s.retryAt) {
		return &SocketError{Op: "dial", Err: errBackoff}
	}
	conn, err := s.dial()
	if err != nil {
		s.backoff = nextBackoff(s.backoff)
		s.retryAt = now.Add(s.backoff)
		glog.Errorf("%v; next attempt in %s", err, s.backoff)
		return err
	}
	s.backoff = 0
	s.retryAt = time.Time{}
	s.conn = conn
	glog.Infof("udp socket %s -> %s ready", conn.LocalAddr(), conn.RemoteAddr())
	return nil
}

func (s *Sender) dial() (*net.UDPConn, error) {
	raddr, err := net.ResolveUDPAddr("udp", s.opts.Server)
	if err != nil {
		return nil, &SocketError{Op: "resolve", Err: err}
	}
	conn, err := net.DialUDP("udp", &net.UDPAddr{Port: s.opts.LocalPort}, raddr)
	if err != nil {
		return nil, &SocketError{Op: "dial", Err: err}
	}
	return conn, nil
}

func nextBackoff(d time.Duration) time.Duration {
	if d < minBackoff {
		return minBackoff
	}
	if d *= 2; d > maxBackoff {
		return maxBackoff
	}
	return d
}

// Deliver sends payload as one datagram per attempt and waits up to the
// configured timeout for the acknowledgment. It returns the number of
// datagrams sent.
func (s *Sender) Deliver(ctx context.Context, payload []byte) (int, error) {
	if err := s.Connect(); err != nil {
		return 0, err
	}
	sent := 0
	for sent < s.opts.MaxAttempts {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		glog.Infof("sending record (%d bytes), attempt %d/%d", len(payload), sent+1, s.opts.MaxAttempts)
		if _, err := s.conn.Write(payload); err != nil {
			return sent, &SocketError{Op: "send", Err: err}
		}
		sent++

		ok, err := s.awaitAck(ctx)
		switch {
		case ok:
			glog.Infof("ACK received after %d attempt(s)", sent)
			return sent, nil
		case err != nil:
			glog.Infof("no ACK received (%v), resending", err)
		default:
			glog.Infof("reply is not an ACK, resending")
		}
	}
	return sent, fmt.Errorf("%w after %d attempts", ErrDeliveryExhausted, sent)
}

// awaitAck reads one reply datagram. A cancelled ctx unblocks the read.
func (s *Sender) awaitAck(ctx context.Context) (bool, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(s.opts.Timeout)); err != nil {
		return false, err
	}
	stop := context.AfterFunc(ctx, func() {
		_ = s.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	n, err := s.conn.Read(s.buf[:])
	if err != nil {
		return false, err
	}
	return IsAck(s.buf[:n]), nil
}

// IsAck reports whether a reply payload, read up to its first NUL byte,
// equals AckToken exactly.
func IsAck(p []byte) bool {
	if i := bytes.IndexByte(p, 0); i >= 0 {
		p = p[:i]
	}
	return string(p) == AckToken
}

func (s *Sender) LocalAddr() net.Addr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

func (s *Sender) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
