// Package mqtt publishes the node status to a broker as a retained JSON state
// so dashboards mirror the status LED.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/ericogr/aht20-udp-node/pkg/config"
	"github.com/ericogr/aht20-udp-node/pkg/indicator"
	"github.com/golang/glog"
)

const (
	stateActive  = "active"
	stateIdle    = "idle"
	stateOffline = "offline"

	publishTimeout = 2 * time.Second
	disconnectMs   = 250
)

type statusPayload struct {
	State string           `json:"state"`
	Color *indicator.Color `json:"color,omitempty"`
}

type MQTTIndicator struct {
	client mqtt.Client
	topic  string
}

func NewMQTT(cfg config.MQTTConfig) (indicator.Indicator, error) {
	offline, err := statusJSON(stateOffline, nil)
	if err != nil {
		return nil, err
	}
	opts := mqtt.NewClientOptions().AddBroker(cfg.Server).SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetBinaryWill(cfg.Topic, offline, 0, true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		glog.Warningf("mqtt indicator: connection lost: %v", err)
	})
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	m := &MQTTIndicator{client: client, topic: cfg.Topic}
	if err := m.SetIdle(); err != nil {
		glog.Warningf("mqtt indicator: initial state: %v", err)
	}
	return m, nil
}

func (m *MQTTIndicator) SetActive(c indicator.Color) error {
	return m.publish(stateActive, &c)
}

func (m *MQTTIndicator) SetIdle() error {
	return m.publish(stateIdle, nil)
}

func (m *MQTTIndicator) Close() error {
	if m.client == nil {
		return nil
	}
	err := m.publish(stateOffline, nil)
	m.client.Disconnect(disconnectMs)
	return err
}

func (m *MQTTIndicator) publish(state string, c *indicator.Color) error {
	if m.client == nil {
		return fmt.Errorf("mqtt client not connected")
	}
	b, err := statusJSON(state, c)
	if err != nil {
		return err
	}
	token := m.client.Publish(m.topic, 0, true, b)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt publish %s: timeout", m.topic)
	}
	return token.Error()
}

func statusJSON(state string, c *indicator.Color) ([]byte, error) {
	return json.Marshal(statusPayload{State: state, Color: c})
}
