package sensor

import (
	"context"
	"math/rand"
	"sync"
)

// FakeSensor produces plausible indoor readings without hardware.
type FakeSensor struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewFakeSensor(seed int64) Sensor {
	return &FakeSensor{rnd: rand.New(rand.NewSource(seed))}
}

func (f *FakeSensor) Read(ctx context.Context) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	// quantize through the sensor transfer function so values look like real samples
	traw := uint32((22.5 + f.rnd.Float64()*3 - 1.5 + 50) / 200 * fullScale)
	hraw := uint32((45 + f.rnd.Float64()*10 - 5) / 100 * fullScale)
	return Reading{
		TemperatureC:     float32(traw)*200/fullScale - 50,
		RelativeHumidity: float32(hraw) * 100 / fullScale,
	}, nil
}

func (f *FakeSensor) Close() error { return nil }
