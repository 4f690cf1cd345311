package sensor

import (
	"context"
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Reading is one decoded measurement. It is a plain value and is copied,
// never shared, between tasks.
type Reading struct {
	TemperatureC     float32 `json:"temp_c"`
	RelativeHumidity float32 `json:"hmd"`
}

// Env converts the reading into periph physical units.
func (r Reading) Env() physic.Env {
	return physic.Env{
		Temperature: physic.ZeroCelsius + physic.Temperature(float64(r.TemperatureC)*float64(physic.Celsius)),
		Humidity:    physic.RelativeHumidity(float64(r.RelativeHumidity) * float64(physic.PercentRH)),
	}
}

func (r Reading) String() string {
	e := r.Env()
	return fmt.Sprintf("temperature=%s humidity=%s", e.Temperature, e.Humidity)
}

type Sensor interface {
	Read(ctx context.Context) (Reading, error)
	Close() error
}
