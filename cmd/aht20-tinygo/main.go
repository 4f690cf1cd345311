//go:build tinygo

// Command aht20-tinygo samples the AHT20 on an MCU's first I2C peripheral
// and prints each reading on the serial console.
package main

import (
	"context"
	"machine"
	"time"

	"github.com/ericogr/aht20-udp-node/pkg/sensor"
)

const sampleInterval = 5 * time.Second

func main() {
	if err := machine.I2C0.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz}); err != nil {
		println("i2c configure:", err.Error())
		return
	}
	s := sensor.NewAHT20(sensor.FromTinyGo("I2C0", machine.I2C0), sensor.DefaultAHT20Options())

	ctx := context.Background()
	for {
		r, err := s.Read(ctx)
		if err != nil {
			println("read:", err.Error())
		} else {
			println(r.String())
		}
		time.Sleep(sampleInterval)
	}
}
