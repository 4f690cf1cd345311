package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/denisbrodbeck/machineid"
)

const (
	IndicatorConsole = "console"
	IndicatorGPIO    = "gpio"
	IndicatorMQTT    = "mqtt"

	SensorReal       = "real"
	SensorSimulation = "simulation"

	machineIDApp = "aht20-udp-node"
)

type MQTTConfig struct {
	Server   string `json:"server"`
	Username string `json:"username"`
	Password string `json:"password"`
	ClientID string `json:"client_id"`
	Topic    string `json:"topic"`
}

type IndicatorConfig struct {
	Type string      `json:"type"`
	Pin  string      `json:"pin,omitempty"`
	MQTT *MQTTConfig `json:"mqtt,omitempty"`
}

type Config struct {
	I2CBus     string `json:"i2c_bus"`
	I2CAddress int    `json:"i2c_address"`
	I2CSpeedHz int    `json:"i2c_speed_hz"`
	SensorType string `json:"sensor_type"`
	SettleMs   int    `json:"settle_ms"`

	SampleIntervalMs   int `json:"sample_interval_ms"`
	DeliveryIntervalMs int `json:"delivery_interval_ms"`
	QueueLength        int `json:"queue_length"`
	QueuePushTimeoutMs int `json:"queue_push_timeout_ms"`

	Server         string `json:"server"`
	LocalPort      int    `json:"local_port"`
	UDPTimeoutMs   int    `json:"udp_timeout_ms"`
	UDPMaxAttempts int    `json:"udp_max_attempts"`

	NTPServer    string `json:"ntp_server"`
	NTPAttempts  int    `json:"ntp_attempts"`
	NTPTimeoutMs int    `json:"ntp_timeout_ms"`
	Timezone     string `json:"timezone"`

	LinkAttempts int `json:"link_attempts"`
	LinkRetryMs  int `json:"link_retry_ms"`

	IndicatorHoldMs int               `json:"indicator_hold_ms"`
	Indicators      []IndicatorConfig `json:"indicators"`
}

func DefaultConfig() Config {
	return Config{
		I2CBus:             "",
		I2CAddress:         0x38,
		I2CSpeedHz:         400000,
		SensorType:         SensorReal,
		SettleMs:           100,
		SampleIntervalMs:   5000,
		DeliveryIntervalMs: 1000,
		QueueLength:        1,
		QueuePushTimeoutMs: 10,
		Server:             "127.0.0.1:5683",
		LocalPort:          9999,
		UDPTimeoutMs:       5000,
		UDPMaxAttempts:     3,
		NTPServer:          "pool.ntp.org",
		NTPAttempts:        15,
		NTPTimeoutMs:       2000,
		Timezone:           "UTC",
		LinkAttempts:       5,
		LinkRetryMs:        1000,
		IndicatorHoldMs:    100,
		Indicators:         []IndicatorConfig{{Type: IndicatorConsole}},
	}
}

// Durations used by the tasks.
func (c Config) SettleDelay() time.Duration      { return ms(c.SettleMs) }
func (c Config) SampleInterval() time.Duration   { return ms(c.SampleIntervalMs) }
func (c Config) DeliveryInterval() time.Duration { return ms(c.DeliveryIntervalMs) }
func (c Config) QueuePushTimeout() time.Duration { return ms(c.QueuePushTimeoutMs) }
func (c Config) UDPTimeout() time.Duration       { return ms(c.UDPTimeoutMs) }
func (c Config) NTPTimeout() time.Duration       { return ms(c.NTPTimeoutMs) }
func (c Config) LinkRetry() time.Duration        { return ms(c.LinkRetryMs) }
func (c Config) IndicatorHold() time.Duration    { return ms(c.IndicatorHoldMs) }

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

// LoadFromFlags loads configuration from the process command line.
func LoadFromFlags() (Config, error) {
	return Load(flag.CommandLine, os.Args[1:])
}

// Load loads configuration from a JSON file (optional) and flags defined on fs.
// Flags override values present in the JSON file.
func Load(fs *flag.FlagSet, args []string) (Config, error) {
	cfgPath := fs.String("config", "", "Path to JSON config file")
	flagI2CBus := fs.String("i2c-bus", "", "I2C bus (e.g., '1' -> /dev/i2c-1; empty selects the first bus)")
	flagI2CAddStr := fs.String("i2c-address", "", "I2C address (decimal or 0x hex)")
	flagSensorType := fs.String("sensor-type", "", "sensor type: real|simulation")
	flagSampleInterval := fs.Int("sample-interval-ms", -1, "Sampling period in ms")
	flagDeliveryInterval := fs.Int("delivery-interval-ms", -1, "Delivery polling period in ms")
	flagQueueLength := fs.Int("queue-length", -1, "Sample queue capacity")
	flagServer := fs.String("server", "", "Collector address (host:port)")
	flagLocalPort := fs.Int("local-port", -1, "Local UDP port to bind")
	flagUDPTimeout := fs.Int("udp-timeout-ms", -1, "Acknowledgment wait per attempt in ms")
	flagUDPAttempts := fs.Int("udp-max-attempts", -1, "Send attempts per reading")
	flagNTPServer := fs.String("ntp-server", "", "NTP server used for time sync")
	flagTimezone := fs.String("timezone", "", "IANA timezone name, e.g. Europe/Lisbon")
	flagIndicators := fs.String("indicators", "", "Comma-separated indicators (console,gpio,mqtt)")
	flagLEDPin := fs.String("led-pin", "", "GPIO pin name for the gpio indicator")
	flagMQTTServer := fs.String("mqtt-server", "", "MQTT server (tcp://host:port)")
	flagMQTTUser := fs.String("mqtt-user", "", "MQTT username")
	flagMQTTPass := fs.String("mqtt-pass", "", "MQTT password")
	flagClientID := fs.String("mqtt-client-id", "", "MQTT client id")
	flagTopic := fs.String("mqtt-topic", "", "MQTT status topic")

	if err := fs.Parse(args); err != nil {
		return DefaultConfig(), err
	}

	cfg := DefaultConfig()

	if *cfgPath != "" {
		b, err := os.ReadFile(*cfgPath)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if *flagI2CBus != "" {
		cfg.I2CBus = *flagI2CBus
	}
	if *flagI2CAddStr != "" {
		v, err := parseIntOrHex(*flagI2CAddStr)
		if err != nil {
			return cfg, fmt.Errorf("i2c-address: %w", err)
		}
		cfg.I2CAddress = v
	}
	if *flagSensorType != "" {
		cfg.SensorType = *flagSensorType
	}
	if *flagSampleInterval != -1 {
		cfg.SampleIntervalMs = *flagSampleInterval
	}
	if *flagDeliveryInterval != -1 {
		cfg.DeliveryIntervalMs = *flagDeliveryInterval
	}
	if *flagQueueLength != -1 {
		cfg.QueueLength = *flagQueueLength
	}
	if *flagServer != "" {
		cfg.Server = *flagServer
	}
	if *flagLocalPort != -1 {
		cfg.LocalPort = *flagLocalPort
	}
	if *flagUDPTimeout != -1 {
		cfg.UDPTimeoutMs = *flagUDPTimeout
	}
	if *flagUDPAttempts != -1 {
		cfg.UDPMaxAttempts = *flagUDPAttempts
	}
	if *flagNTPServer != "" {
		cfg.NTPServer = *flagNTPServer
	}
	if *flagTimezone != "" {
		cfg.Timezone = *flagTimezone
	}
	if *flagIndicators != "" {
		// convert simple CSV of types into structured IndicatorConfig entries
		parts := parseCSV(*flagIndicators)
		inds := make([]IndicatorConfig, 0, len(parts))
		for _, p := range parts {
			inds = append(inds, IndicatorConfig{Type: strings.ToLower(p)})
		}
		cfg.Indicators = inds
	}
	if *flagLEDPin != "" {
		for i := range cfg.Indicators {
			if cfg.Indicators[i].Type == IndicatorGPIO {
				cfg.Indicators[i].Pin = *flagLEDPin
			}
		}
	}
	// Apply MQTT flags to all mqtt indicators.
	if *flagMQTTServer != "" || *flagMQTTUser != "" || *flagMQTTPass != "" || *flagClientID != "" || *flagTopic != "" {
		for i := range cfg.Indicators {
			if cfg.Indicators[i].Type != IndicatorMQTT {
				continue
			}
			if cfg.Indicators[i].MQTT == nil {
				cfg.Indicators[i].MQTT = &MQTTConfig{}
			}
			m := cfg.Indicators[i].MQTT
			if *flagMQTTServer != "" {
				m.Server = *flagMQTTServer
			}
			if *flagMQTTUser != "" {
				m.Username = *flagMQTTUser
			}
			if *flagMQTTPass != "" {
				m.Password = *flagMQTTPass
			}
			if *flagClientID != "" {
				m.ClientID = *flagClientID
			}
			if *flagTopic != "" {
				m.Topic = *flagTopic
			}
		}
	}
	applyMQTTDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.I2CAddress <= 0 || c.I2CAddress > 0x7F {
		return fmt.Errorf("i2c-address 0x%X is not a 7-bit address", c.I2CAddress)
	}
	if c.SensorType != SensorReal && c.SensorType != SensorSimulation {
		return fmt.Errorf("unknown sensor type %q", c.SensorType)
	}
	if c.SampleIntervalMs <= 0 || c.DeliveryIntervalMs <= 0 {
		return errors.New("sample and delivery intervals must be > 0")
	}
	if c.QueueLength <= 0 {
		return errors.New("queue-length must be > 0")
	}
	if c.UDPMaxAttempts <= 0 {
		return errors.New("udp-max-attempts must be > 0")
	}
	if c.UDPTimeoutMs <= 0 {
		return errors.New("udp-timeout-ms must be > 0")
	}
	if c.LocalPort < 0 || c.LocalPort > 65535 {
		return fmt.Errorf("local-port %d out of range", c.LocalPort)
	}
	if _, _, err := net.SplitHostPort(c.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	for _, ind := range c.Indicators {
		switch ind.Type {
		case IndicatorConsole:
		case IndicatorGPIO:
			if ind.Pin == "" {
				return errors.New("gpio indicator requires a pin")
			}
		case IndicatorMQTT:
			if ind.MQTT == nil || ind.MQTT.Server == "" {
				return errors.New("mqtt indicator requires a server")
			}
		default:
			return fmt.Errorf("unknown indicator %q", ind.Type)
		}
	}
	return nil
}

func applyMQTTDefaults(cfg *Config) {
	for i := range cfg.Indicators {
		m := cfg.Indicators[i].MQTT
		if cfg.Indicators[i].Type != IndicatorMQTT || m == nil {
			continue
		}
		if m.ClientID == "" {
			m.ClientID = defaultClientID()
		}
		if m.Topic == "" {
			m.Topic = "aht20/" + m.ClientID + "/status"
		}
	}
}

// defaultClientID derives a stable per-machine id; the raw machine id is never exposed.
func defaultClientID() string {
	id, err := machineid.ProtectedID(machineIDApp)
	if err != nil || len(id) < 8 {
		return "aht20-node"
	}
	return "aht20-" + id[:8]
}

func parseIntOrHex(s string) (int, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseInt(s[2:], 16, 0)
		return int(v), err
	}
	v, err := strconv.Atoi(s)
	return v, err
}

func parseCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
