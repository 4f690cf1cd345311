package link

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEnsureConnectedRetriesUntilUp(t *testing.T) {
	calls := 0
	m := &Manager{Attempts: 5, RetryDelay: time.Millisecond, Probe: func() (string, bool) {
		calls++
		return "wlan0", calls == 3
	}}
	require.True(t, m.EnsureConnected(context.Background()))
	require.Equal(t, 3, calls)
}

func TestEnsureConnectedGivesUp(t *testing.T) {
	calls := 0
	m := &Manager{Attempts: 5, RetryDelay: time.Millisecond, Probe: func() (string, bool) {
		calls++
		return "", false
	}}
	require.False(t, m.EnsureConnected(context.Background()))
	require.Equal(t, 5, calls)
}

func TestEnsureConnectedCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := &Manager{Attempts: 5, RetryDelay: time.Hour, Probe: func() (string, bool) { return "", false }}
	require.False(t, m.EnsureConnected(ctx))
}
