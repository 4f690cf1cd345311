// Package collector is the receiving end of the node protocol: it decodes
// each record datagram and answers it with the acknowledgment token.
package collector

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/golang/glog"

	"github.com/ericogr/aht20-udp-node/pkg/delivery"
	"github.com/ericogr/aht20-udp-node/pkg/record"
)

type Collector struct {
	conn net.PacketConn
	// OnRecord, when set, is called for every decoded record before the
	// acknowledgment is sent.
	OnRecord func(rec record.Record, from net.Addr)
}

func Listen(addr string) (*Collector, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

func New(conn net.PacketConn) *Collector { return &Collector{conn: conn} }

func (c *Collector) Addr() net.Addr { return c.conn.LocalAddr() }

// Serve handles datagrams until ctx is done. Malformed records are logged
// and left unacknowledged so the node retries them.
func (c *Collector) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, record.MaxSize+1)
	for {
		n, from, err := c.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return err
		}
		rec, err := record.Decode(buf[:n])
		if err != nil {
			glog.Warningf("%s: bad record (%d bytes): %v", from, n, err)
			continue
		}
		glog.Infof("%s: temp_c=%.2f hmd=%.2f time=%s", from, rec.TempC, rec.Humidity, rec.Timestamp().UTC().Format(time.RFC3339))
		if c.OnRecord != nil {
			c.OnRecord(rec, from)
		}
		if _, err := c.conn.WriteTo([]byte(delivery.AckToken), from); err != nil {
			glog.Errorf("%s: ack: %v", from, err)
		}
	}
}

func (c *Collector) Close() error { return c.conn.Close() }
