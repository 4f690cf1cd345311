package console

import (
	"fmt"
	"time"

	"github.com/ericogr/aht20-udp-node/pkg/indicator"
)

type ConsoleIndicator struct {
	now func() time.Time
}

func NewConsole() indicator.Indicator { return &ConsoleIndicator{now: time.Now} }

func (c *ConsoleIndicator) SetActive(col indicator.Color) error {
	fmt.Printf("%s indicator=active hue=%d saturation=%d value=%d\n", c.now().Format(time.RFC3339), col.Hue, col.Saturation, col.Value)
	return nil
}

func (c *ConsoleIndicator) SetIdle() error {
	fmt.Printf("%s indicator=idle\n", c.now().Format(time.RFC3339))
	return nil
}

func (c *ConsoleIndicator) Close() error { return nil }
