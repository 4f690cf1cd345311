package indicator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []string
	err    error
}

func (r *recorder) SetActive(c Color) error { r.events = append(r.events, "active"); return r.err }
func (r *recorder) SetIdle() error          { r.events = append(r.events, "idle"); return r.err }
func (r *recorder) Close() error            { r.events = append(r.events, "close"); return nil }

func TestMultiCallsEveryMember(t *testing.T) {
	boom := errors.New("boom")
	a, b := &recorder{err: boom}, &recorder{}
	m := Multi{a, b}

	require.ErrorIs(t, m.SetActive(ColorTransmit), boom)
	require.ErrorIs(t, m.SetIdle(), boom)
	require.NoError(t, m.Close())

	want := []string{"active", "idle", "close"}
	require.Equal(t, want, a.events)
	require.Equal(t, want, b.events)
}

func TestMultiEmpty(t *testing.T) {
	require.NoError(t, Multi{}.SetActive(ColorReadSensor))
	require.NoError(t, Multi(nil).SetIdle())
}
