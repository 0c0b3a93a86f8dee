// internal/config/config.go
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Transport TransportConfig `yaml:"transport"`
	Board     BoardConfig     `yaml:"board"`
	Publish   PublishConfig   `yaml:"publish"`

	// LockDir enables the advisory read-modify-write lock. Empty disables it.
	LockDir string `yaml:"lock_dir"`
	// Trace is the path of the CBOR bus capture. Empty disables tracing.
	Trace    string `yaml:"trace"`
	LogLevel string `yaml:"log_level"`
}

// ---- TRANSPORT ----

type TransportConfig struct {
	Kind      string `yaml:"kind"`     // i2c | modbus-rtu | modbus-tcp | sim
	Bus       string `yaml:"bus"`      // periph bus name
	Endpoint  string `yaml:"endpoint"` // serial device or host:port
	BaudRate  int    `yaml:"baud_rate"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- BOARD ----

type BoardConfig struct {
	AddressBase uint16          `yaml:"address_base"`
	StackLevels int             `yaml:"stack_levels"`
	Channels    int             `yaml:"channels"`
	Scale       float64         `yaml:"scale"`
	RangeMin    int             `yaml:"range_min"`
	RangeMax    int             `yaml:"range_max"`
	Registers   RegistersConfig `yaml:"registers"`
}

// RegistersConfig overrides register bases. Zero keeps the default.
type RegistersConfig struct {
	Current    uint8 `yaml:"current"`
	CurrentRMS uint8 `yaml:"current_rms"`
	Range      uint8 `yaml:"range"`
	SensorType uint8 `yaml:"sensor_type"`
}

// ---- PUBLISH ----

// PublishConfig mirrors watch output into a Modbus TCP server.
// Board at stack level L uses unit_id+L and status_slot+L.
type PublishConfig struct {
	Endpoint  string `yaml:"endpoint"` // empty = disabled
	UnitID    uint8  `yaml:"unit_id"`
	DataAddr  uint16 `yaml:"data_address"`
	TimeoutMs int    `yaml:"timeout_ms"`

	// Status block (optional, opt-in)
	StatusSlot *uint16 `yaml:"status_slot"`
	DeviceName string  `yaml:"device_name"`
}

// Load reads a YAML config file. Unknown keys are rejected.
// The result is neither validated nor normalized.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML config bytes. Empty input yields a zero Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if len(bytes.TrimSpace(data)) == 0 {
		return &cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
