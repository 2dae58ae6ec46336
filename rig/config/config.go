/*
NAME
  config.go

DESCRIPTION
  config.go provides configuration for a decoy board rig: transport
  selection, LED output and buffering parameters, with validation and
  defaulting.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for a decoy
// board rig.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ausocean/luz/board"
	"github.com/ausocean/utils/logging"
)

// Default values for configurable fields.
const (
	defaultBLEName         = "Decoy Board"
	defaultLEDDevice       = "/dev/spidev0.0"
	defaultNumLEDs         = board.NumLEDs
	defaultPoolElements    = 16
	defaultPoolElementSize = 512
	defaultWriteTimeout    = Duration(5 * time.Second)
	defaultFailureCycles   = 10
)

// Duration wraps time.Duration so durations can be given in files in
// forms like 2s or 500ms.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	td, err := time.ParseDuration(value.Value)
	if err != nil {
		return errors.Wrap(err, "could not parse duration")
	}
	*d = Duration(td)
	return nil
}

// Config provides parameters relevant to one rig instance. A new
// config must be passed to the rig constructor.
type Config struct {
	// Logger is the logger used by the rig and everything it owns.
	// It must be set by the caller and does not come from file.
	Logger logging.Logger `yaml:"-"`

	// TCPAddr is the listen address of the TCP transport. The
	// transport is disabled when empty.
	TCPAddr string `yaml:"tcp_addr"`

	// MQTTBroker and MQTTTopic configure the MQTT transport, e.g.
	// tcp://broker.local:1883 and decoy/problem. The transport is
	// disabled when the broker is empty.
	MQTTBroker string `yaml:"mqtt_broker"`
	MQTTTopic  string `yaml:"mqtt_topic"`

	// BLE enables the BLE peripheral transport, advertising as
	// BLEName.
	BLE     bool   `yaml:"ble"`
	BLEName string `yaml:"ble_name"`

	// LEDDevice is the SPI device node driving the strip.
	LEDDevice string `yaml:"led_device"`

	// NumLEDs is the strip length.
	NumLEDs uint16 `yaml:"num_leds"`

	// PoolElements and PoolElementSize size the fragment queue
	// between the transports and the decode loop.
	PoolElements    int `yaml:"pool_elements"`
	PoolElementSize int `yaml:"pool_element_size"`

	// WriteTimeout bounds a transport's wait for queue space.
	WriteTimeout Duration `yaml:"write_timeout"`

	// FailureCycles is the number of flash cycles of the failure
	// indicator shown for an undisplayable problem.
	FailureCycles int `yaml:"failure_cycles"`
}

// Load reads a Config from a YAML file at path. The Logger field is
// left for the caller to set.
func Load(path string) (Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "could not read config file")
	}
	err = yaml.Unmarshal(b, &c)
	if err != nil {
		return c, errors.Wrap(err, "could not parse config file")
	}
	return c, nil
}

// Validate checks c for errors and fills defaults, logging each
// defaulted field.
func (c *Config) Validate() error {
	if c.Logger == nil {
		return errors.New("no logger set in config")
	}

	if c.TCPAddr == "" && c.MQTTBroker == "" && !c.BLE {
		return errors.New("no transport configured")
	}
	if c.MQTTBroker != "" && c.MQTTTopic == "" {
		return errors.New("mqtt broker configured without a topic")
	}

	if c.BLE && c.BLEName == "" {
		c.logDefault("ble_name", defaultBLEName)
		c.BLEName = defaultBLEName
	}
	if c.LEDDevice == "" {
		c.logDefault("led_device", defaultLEDDevice)
		c.LEDDevice = defaultLEDDevice
	}
	if c.NumLEDs == 0 {
		c.logDefault("num_leds", defaultNumLEDs)
		c.NumLEDs = defaultNumLEDs
	}
	if c.PoolElements <= 0 {
		c.logDefault("pool_elements", defaultPoolElements)
		c.PoolElements = defaultPoolElements
	}
	if c.PoolElementSize <= 0 {
		c.logDefault("pool_element_size", defaultPoolElementSize)
		c.PoolElementSize = defaultPoolElementSize
	}
	if c.WriteTimeout <= 0 {
		c.logDefault("write_timeout", defaultWriteTimeout)
		c.WriteTimeout = defaultWriteTimeout
	}
	if c.FailureCycles <= 0 {
		c.logDefault("failure_cycles", defaultFailureCycles)
		c.FailureCycles = defaultFailureCycles
	}
	return nil
}

// logDefault notes the use of a default for an unset or invalid
// field.
func (c *Config) logDefault(name string, def interface{}) {
	c.Logger.Info("config field unset or invalid, using default", "field", name, "default", def)
}
