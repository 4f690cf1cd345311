// Package link waits for the network link the node reports over.
package link

import (
	"context"
	"net"
	"time"

	"github.com/golang/glog"
)

// Manager probes for a usable link with a bounded retry budget.
type Manager struct {
	Attempts   int
	RetryDelay time.Duration
	// Probe reports the name of a usable interface. It defaults to
	// UpInterface.
	Probe func() (string, bool)
}

func NewManager(attempts int, retryDelay time.Duration) *Manager {
	return &Manager{Attempts: attempts, RetryDelay: retryDelay, Probe: UpInterface}
}

// EnsureConnected blocks until a link is up or the attempts are spent.
func (m *Manager) EnsureConnected(ctx context.Context) bool {
	attempts := m.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	probe := m.Probe
	if probe == nil {
		probe = UpInterface
	}
	for i := 1; ; i++ {
		if name, ok := probe(); ok {
			glog.Infof("link up on %s", name)
			return true
		}
		if i >= attempts {
			glog.Warningf("link not available after %d attempts", i)
			return false
		}
		glog.Infof("link retry: %d/%d", i, attempts)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(m.RetryDelay):
		}
	}
}

// UpInterface finds an up, non-loopback interface holding an address.
func UpInterface() (string, bool) {
	ifaces, err := net.Interfaces()
	if err != nil {
		glog.Errorf("list interfaces: %v", err)
		return "", false
	}
	for _, ifc := range ifaces {
		if ifc.Flags&net.FlagUp == 0 || ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		if addrs, err := ifc.Addrs(); err == nil && len(addrs) > 0 {
			return ifc.Name, true
		}
	}
	return "", false
}
