// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/sm8crt/crt8/internal/bus"
)

const (
	// maxI2CAddr is the highest 7-bit I2C address.
	maxI2CAddr = 0x7F
	// maxUnitID is the highest Modbus slave id.
	maxUnitID = 247
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}

	// ------------------------------------------------------------
	// TRANSPORT
	// ------------------------------------------------------------

	t := cfg.Transport
	switch bus.Kind(strings.ToLower(t.Kind)) {
	case "", bus.KindI2C, bus.KindSim:
	case bus.KindModbusRTU, bus.KindModbusTCP:
		if t.Endpoint == "" {
			return fmt.Errorf("transport %q: endpoint is required", t.Kind)
		}
	default:
		return fmt.Errorf("transport: unsupported kind %q", t.Kind)
	}
	if t.BaudRate < 0 {
		return fmt.Errorf("transport: baud_rate must be >= 0, got %d", t.BaudRate)
	}
	if t.TimeoutMs < 0 {
		return fmt.Errorf("transport: timeout_ms must be >= 0, got %d", t.TimeoutMs)
	}

	// ------------------------------------------------------------
	// BOARD ADDRESSING
	// ------------------------------------------------------------

	b := cfg.Board
	if b.StackLevels < 0 {
		return fmt.Errorf("board: stack_levels must be >= 0, got %d", b.StackLevels)
	}
	base, levels := cfg.addressing()
	if int(base)+levels-1 > maxI2CAddr {
		return fmt.Errorf(
			"board: address_base=0x%02X with stack_levels=%d exceeds 7-bit address space",
			base,
			levels,
		)
	}

	// ------------------------------------------------------------
	// PROFILE
	// ------------------------------------------------------------

	if b.Channels < 0 {
		return fmt.Errorf("board: channels must be >= 0, got %d", b.Channels)
	}
	if b.Scale < 0 {
		return fmt.Errorf("board: scale must be >= 0, got %v", b.Scale)
	}
	if err := cfg.Profile().Validate(); err != nil {
		return fmt.Errorf("board: %w", err)
	}

	// ------------------------------------------------------------
	// PUBLISH (OPT-IN)
	// ------------------------------------------------------------

	pub := cfg.Publish
	if pub.Endpoint == "" {
		if pub.StatusSlot != nil {
			return fmt.Errorf("publish: status_slot is set but no endpoint is defined")
		}
	} else {
		if pub.TimeoutMs < 0 {
			return fmt.Errorf("publish: timeout_ms must be >= 0, got %d", pub.TimeoutMs)
		}
		if int(pub.UnitID)+levels-1 > maxUnitID {
			return fmt.Errorf("publish: unit_id=%d with stack_levels=%d exceeds %d", pub.UnitID, levels, maxUnitID)
		}
		// data block of the last level must fit the register space
		p := cfg.Profile()
		if int(pub.DataAddr)+2*p.Channels > 0x10000 {
			return fmt.Errorf("publish: data_address=%d overruns the register space", pub.DataAddr)
		}
	}
	for i := 0; i < len(pub.DeviceName); i++ {
		if pub.DeviceName[i] > 0x7F {
			return fmt.Errorf("publish: device_name must contain ASCII characters only")
		}
	}

	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return err
	}

	return nil
}
