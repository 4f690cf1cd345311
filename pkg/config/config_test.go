package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseIntOrHex(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"56", 56, true},
		{"0x38", 0x38, true},
		{"0X38", 0x38, true},
		{"0xZZ", 0, false},
		{"bad", 0, false},
	}
	for _, tt := range tests {
		got, err := parseIntOrHex(tt.in)
		if !tt.ok {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseCSV(t *testing.T) {
	require.Equal(t, []string{"console", "gpio"}, parseCSV(" console, ,gpio "))
	require.Empty(t, parseCSV(""))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newFlagSet(), nil)
	require.NoError(t, err)
	require.Equal(t, 0x38, cfg.I2CAddress)
	require.Equal(t, 1, cfg.QueueLength)
	require.Equal(t, 9999, cfg.LocalPort)
	require.Equal(t, 3, cfg.UDPMaxAttempts)
	require.Equal(t, 5*time.Second, cfg.UDPTimeout())
	require.Equal(t, 100*time.Millisecond, cfg.SettleDelay())
	require.Equal(t, 5, cfg.LinkAttempts)
}

func TestLoadFlagsOverride(t *testing.T) {
	cfg, err := Load(newFlagSet(), []string{
		"-i2c-address", "0x39",
		"-server", "10.0.0.5:7000",
		"-udp-max-attempts", "5",
		"-queue-length", "4",
		"-indicators", "console,gpio",
		"-led-pin", "GPIO17",
	})
	require.NoError(t, err)
	require.Equal(t, 0x39, cfg.I2CAddress)
	require.Equal(t, "10.0.0.5:7000", cfg.Server)
	require.Equal(t, 5, cfg.UDPMaxAttempts)
	require.Equal(t, 4, cfg.QueueLength)
	require.Len(t, cfg.Indicators, 2)
	require.Equal(t, IndicatorGPIO, cfg.Indicators[1].Type)
	require.Equal(t, "GPIO17", cfg.Indicators[1].Pin)
}

func TestLoadMQTTDefaults(t *testing.T) {
	cfg, err := Load(newFlagSet(), []string{"-indicators", "mqtt", "-mqtt-server", "tcp://broker:1883"})
	require.NoError(t, err)
	m := cfg.Indicators[0].MQTT
	require.NotNil(t, m)
	require.Equal(t, "tcp://broker:1883", m.Server)
	require.NotEmpty(t, m.ClientID)
	require.Equal(t, "aht20/"+m.ClientID+"/status", m.Topic)
}

func TestLoadFileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.json")
	js := `{"server": "192.168.1.10:4000", "udp_timeout_ms": 2000, "timezone": "Europe/Lisbon"}`
	require.NoError(t, os.WriteFile(path, []byte(js), 0o600))

	cfg, err := Load(newFlagSet(), []string{"-config", path, "-udp-timeout-ms", "3000"})
	require.NoError(t, err)
	require.Equal(t, "192.168.1.10:4000", cfg.Server)
	require.Equal(t, 3*time.Second, cfg.UDPTimeout())
	require.Equal(t, "Europe/Lisbon", cfg.Timezone)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"address too large", func(c *Config) { c.I2CAddress = 0x80 }},
		{"sensor type", func(c *Config) { c.SensorType = "other" }},
		{"queue length", func(c *Config) { c.QueueLength = 0 }},
		{"attempts", func(c *Config) { c.UDPMaxAttempts = 0 }},
		{"server", func(c *Config) { c.Server = "no-port" }},
		{"gpio pin", func(c *Config) { c.Indicators = []IndicatorConfig{{Type: IndicatorGPIO}} }},
		{"mqtt server", func(c *Config) { c.Indicators = []IndicatorConfig{{Type: IndicatorMQTT}} }},
		{"indicator type", func(c *Config) { c.Indicators = []IndicatorConfig{{Type: "buzzer"}} }},
	}
	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(&cfg)
		require.Error(t, cfg.Validate(), tt.name)
	}
}
