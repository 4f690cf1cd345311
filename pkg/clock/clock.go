// Package clock synchronizes wall-clock time over NTP. The node may not be
// allowed to set the system clock, so the measured offset is applied on read.
package clock

import (
	"context"
	"time"

	"github.com/beevik/ntp"
	"github.com/golang/glog"
)

type Clock interface {
	Now() time.Time
}

// System is the unsynchronized host clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Synced is the host clock corrected by an NTP offset in a fixed location.
type Synced struct {
	offset time.Duration
	loc    *time.Location
}

func (c *Synced) Now() time.Time { return time.Now().Add(c.offset).In(c.loc) }

func (c *Synced) Offset() time.Duration { return c.offset }

func (c *Synced) Location() *time.Location { return c.loc }

type Syncer struct {
	Server   string
	Attempts int
	Timeout  time.Duration
	Timezone string

	query func(server string, timeout time.Duration) (time.Duration, error)
}

func NewSyncer(server string, attempts int, timeout time.Duration, timezone string) *Syncer {
	return &Syncer{Server: server, Attempts: attempts, Timeout: timeout, Timezone: timezone, query: queryOffset}
}

// Sync tries the time server up to Attempts times, then applies Timezone.
// Failure is not fatal: the returned clock then runs on host time.
func (s *Syncer) Sync(ctx context.Context) *Synced {
	glog.Infof("synchronizing time with %s", s.Server)
	c := &Synced{loc: s.location()}
	attempts := s.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	for i := 1; i <= attempts; i++ {
		if ctx.Err() != nil {
			break
		}
		offset, err := s.query(s.Server, s.Timeout)
		if err == nil {
			c.offset = offset
			glog.Infof("time synchronized, offset %s", offset)
			return c
		}
		glog.Infof("waiting for system time to be set... (%d/%d): %v", i, attempts, err)
	}
	glog.Warningf("time sync with %s failed, using host clock", s.Server)
	return c
}

func (s *Syncer) location() *time.Location {
	if s.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		glog.Warningf("timezone %q: %v, using local", s.Timezone, err)
		return time.Local
	}
	return loc
}

func queryOffset(server string, timeout time.Duration) (time.Duration, error) {
	resp, err := ntp.QueryWithOptions(server, ntp.QueryOptions{Timeout: timeout})
	if err != nil {
		return 0, err
	}
	if err := resp.Validate(); err != nil {
		return 0, err
	}
	return resp.ClockOffset, nil
}
