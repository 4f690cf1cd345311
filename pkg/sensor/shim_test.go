package sensor

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"tinygo.org/x/drivers"
)

var _ drivers.I2C = (*scriptedAHT20)(nil)

// scriptedAHT20 answers like the chip: busy for the first status polls after
// a trigger, then ready with a fixed frame.
type scriptedAHT20 struct {
	mu        sync.Mutex
	busyPolls int
	triggers  int
	reads     int
	frame     []byte
}

func (f *scriptedAHT20) Tx(addr uint16, w, r []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if addr != Address {
		return errFixedSpeed
	}
	if len(w) == 3 && w[0] == 0xAC {
		f.triggers++
		return nil
	}
	f.reads++
	if f.busyPolls > 0 {
		f.busyPolls--
		r[0] = 0x98
		return nil
	}
	copy(r, f.frame)
	return nil
}

func TestTinyGoBusDrivesAHT20(t *testing.T) {
	dev := &scriptedAHT20{busyPolls: 1, frame: frame25C45}
	bus := FromTinyGo("I2C0", dev)
	require.Equal(t, "I2C0", bus.String())
	require.ErrorIs(t, bus.SetSpeed(0), errFixedSpeed)

	s := NewAHT20(bus, testOptions())
	ctx := context.Background()

	_, err := s.Read(ctx)
	require.ErrorIs(t, err, ErrNotReady)

	r, err := s.Read(ctx)
	require.NoError(t, err)
	require.InDelta(t, 25.0, r.TemperatureC, 0.001)
	require.InDelta(t, 45.0, r.RelativeHumidity, 0.001)

	require.Equal(t, 2, dev.triggers)
	// busy: status only; ready: status + frame
	require.Equal(t, 3, dev.reads)
}

func TestFakeSensorRange(t *testing.T) {
	s := NewFakeSensor(1)
	defer s.Close()
	for i := 0; i < 20; i++ {
		r, err := s.Read(context.Background())
		require.NoError(t, err)
		require.InDelta(t, 22.5, r.TemperatureC, 1.6)
		require.InDelta(t, 45.0, r.RelativeHumidity, 5.1)
	}
}
