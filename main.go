package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/golang/glog"

	"github.com/ericogr/aht20-udp-node/pkg/clock"
	"github.com/ericogr/aht20-udp-node/pkg/config"
	"github.com/ericogr/aht20-udp-node/pkg/delivery"
	"github.com/ericogr/aht20-udp-node/pkg/indicator"
	"github.com/ericogr/aht20-udp-node/pkg/indicator/console"
	"github.com/ericogr/aht20-udp-node/pkg/indicator/gpio"
	"github.com/ericogr/aht20-udp-node/pkg/indicator/mqtt"
	"github.com/ericogr/aht20-udp-node/pkg/link"
	"github.com/ericogr/aht20-udp-node/pkg/queue"
	"github.com/ericogr/aht20-udp-node/pkg/sensor"
	"github.com/ericogr/aht20-udp-node/pkg/task"
)

// time for the link to settle before the first NTP query
const startupSettle = 2 * time.Second

func main() {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		glog.Exitf("config: %v", err)
	}
	defer glog.Flush()
	glog.Info("starting...")

	ind, err := initIndicators(cfg)
	if err != nil {
		glog.Exitf("indicators: %v", err)
	}
	defer ind.Close()

	s, err := initSensor(cfg)
	if err != nil {
		glog.Exitf("sensor: %v", err)
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !link.NewManager(cfg.LinkAttempts, cfg.LinkRetry()).EnsureConnected(ctx) {
		glog.Warning("no link, continuing; delivery will retry")
	}
	select {
	case <-ctx.Done():
		return
	case <-time.After(startupSettle):
	}
	clk := clock.NewSyncer(cfg.NTPServer, cfg.NTPAttempts, cfg.NTPTimeout(), cfg.Timezone).Sync(ctx)
	glog.Infof("local time %s", clk.Now().Format(time.RFC3339))

	sender := delivery.NewSender(delivery.Options{
		Server:      cfg.Server,
		LocalPort:   cfg.LocalPort,
		Timeout:     cfg.UDPTimeout(),
		MaxAttempts: cfg.UDPMaxAttempts,
	})
	defer sender.Close()
	if err := sender.Connect(); err != nil {
		glog.Errorf("socket not ready yet: %v", err)
	}

	q := queue.New(cfg.QueueLength)
	acq := &task.Acquisition{
		Sensor:      s,
		Queue:       q,
		Period:      cfg.SampleInterval(),
		PushTimeout: cfg.QueuePushTimeout(),
	}
	del := &task.Delivery{
		Queue:     q,
		Transport: sender,
		Clock:     clk,
		Indicator: ind,
		Period:    cfg.DeliveryInterval(),
		Hold:      cfg.IndicatorHold(),
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); acq.Run(ctx) }()
	go func() { defer wg.Done(); del.Run(ctx) }()
	wg.Wait()
	glog.Info("stopped")
}

// initIndicators builds every configured indicator. On error the ones
// already opened are closed.
func initIndicators(cfg config.Config) (indicator.Multi, error) {
	var out indicator.Multi
	for i, ic := range cfg.Indicators {
		ind, err := newIndicator(ic)
		if err != nil {
			_ = out.Close()
			return nil, fmt.Errorf("indicator %d (%s): %w", i, ic.Type, err)
		}
		out = append(out, ind)
	}
	return out, nil
}

func newIndicator(ic config.IndicatorConfig) (indicator.Indicator, error) {
	switch ic.Type {
	case config.IndicatorConsole:
		return console.NewConsole(), nil
	case config.IndicatorGPIO:
		return gpio.NewByName(ic.Pin)
	case config.IndicatorMQTT:
		if ic.MQTT == nil {
			return nil, fmt.Errorf("missing mqtt settings")
		}
		return mqtt.NewMQTT(*ic.MQTT)
	default:
		return nil, fmt.Errorf("unknown indicator type %q", ic.Type)
	}
}

func initSensor(cfg config.Config) (sensor.Sensor, error) {
	switch cfg.SensorType {
	case config.SensorSimulation:
		glog.Info("using simulated sensor")
		return sensor.NewFakeSensor(time.Now().UnixNano()), nil
	case config.SensorReal, "":
		return sensor.NewAHT20Sensor(cfg)
	default:
		return nil, fmt.Errorf("unknown sensor type %q", cfg.SensorType)
	}
}
