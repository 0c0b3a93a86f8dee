// internal/config/normalize.go
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sm8crt/crt8/internal/board"
	"github.com/sm8crt/crt8/internal/bus"
	"github.com/sm8crt/crt8/internal/crt"
	"github.com/sm8crt/crt8/internal/status"
	"github.com/sm8crt/crt8/internal/writer"
)

const (
	DefaultBus       = "1"
	DefaultBaudRate  = 9600
	DefaultTimeoutMs = 1000
	DefaultLogLevel  = "warn"
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	t := &cfg.Transport
	t.Kind = strings.ToLower(t.Kind)
	if t.Kind == "" {
		t.Kind = string(bus.KindI2C)
	}
	if t.Bus == "" {
		t.Bus = DefaultBus
	}
	if t.BaudRate == 0 {
		t.BaudRate = DefaultBaudRate
	}
	if t.TimeoutMs == 0 {
		t.TimeoutMs = DefaultTimeoutMs
	}

	b := &cfg.Board
	b.AddressBase, b.StackLevels = cfg.addressing()

	p := cfg.Profile()
	b.Channels = p.Channels
	b.Scale = p.Scale
	b.RangeMin = p.RangeMin
	b.RangeMax = p.RangeMax
	b.Registers = RegistersConfig(p.Registers)

	pub := &cfg.Publish
	if pub.Endpoint != "" {
		if pub.TimeoutMs == 0 {
			pub.TimeoutMs = DefaultTimeoutMs
		}
		if pub.UnitID == 0 {
			pub.UnitID = 1
		}
	}
	// ASCII already validated; truncate to what the status block holds.
	if len(pub.DeviceName) > status.DeviceNameMaxChars {
		pub.DeviceName = pub.DeviceName[:status.DeviceNameMaxChars]
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

// PublishPlan returns where the board at level is mirrored.
// ok is false when publishing is disabled.
func (cfg *Config) PublishPlan(level int) (plan writer.Plan, timeout time.Duration, ok bool) {
	pub := cfg.Publish
	if pub.Endpoint == "" {
		return writer.Plan{}, 0, false
	}
	p := cfg.Profile()
	plan = writer.Plan{
		Endpoint: pub.Endpoint,
		UnitID:   pub.UnitID + uint8(level),
		DataAddr: pub.DataAddr,
		Channels: p.Channels,
		Scale:    p.Scale,
	}
	if pub.StatusSlot != nil {
		name := pub.DeviceName
		if name == "" {
			name = fmt.Sprintf("crt8-%d", level)
		}
		plan.Status = &writer.StatusPlan{
			BaseSlot:   *pub.StatusSlot + uint16(level),
			DeviceName: name,
		}
	}
	return plan, time.Duration(pub.TimeoutMs) * time.Millisecond, true
}

func (cfg *Config) addressing() (uint16, int) {
	base, levels := cfg.Board.AddressBase, cfg.Board.StackLevels
	if base == 0 {
		base = board.DefaultAddressBase
	}
	if levels == 0 {
		levels = board.DefaultStackLevels
	}
	return base, levels
}

// Profile returns the board profile with defaults filled in.
func (cfg *Config) Profile() crt.Profile {
	p := crt.DefaultProfile()
	b := cfg.Board
	if b.Channels != 0 {
		p.Channels = b.Channels
	}
	if b.Scale != 0 {
		p.Scale = b.Scale
	}
	if b.RangeMin != 0 {
		p.RangeMin = b.RangeMin
	}
	if b.RangeMax != 0 {
		p.RangeMax = b.RangeMax
	}

	r := b.Registers
	if r.Current != 0 {
		p.Registers.Current = r.Current
	}
	if r.CurrentRMS != 0 {
		p.Registers.CurrentRMS = r.CurrentRMS
	}
	if r.Range != 0 {
		p.Registers.Range = r.Range
	}
	if r.SensorType != 0 {
		p.Registers.SensorType = r.SensorType
	}
	return p
}

// BusConfig returns the transport settings.
func (cfg *Config) BusConfig() bus.Config {
	t := cfg.Transport
	return bus.Config{
		Kind:     bus.Kind(strings.ToLower(t.Kind)),
		Bus:      t.Bus,
		Endpoint: t.Endpoint,
		BaudRate: t.BaudRate,
		Timeout:  time.Duration(t.TimeoutMs) * time.Millisecond,
	}
}

// BoardOptions returns board acquisition options.
func (cfg *Config) BoardOptions(log *slog.Logger) board.Options {
	base, levels := cfg.addressing()
	return board.Options{
		AddressBase: base,
		StackLevels: levels,
		LockDir:     cfg.LockDir,
		BusName:     cfg.busName(),
		Logger:      log,
	}
}

// busName identifies the shared medium for lock file naming.
func (cfg *Config) busName() string {
	t := cfg.Transport
	switch bus.Kind(strings.ToLower(t.Kind)) {
	case bus.KindModbusRTU, bus.KindModbusTCP:
		return t.Endpoint
	default:
		return "i2c-" + t.Bus
	}
}

// ParseLevel maps log_level to a slog level. Empty means the default.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		s = DefaultLogLevel
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return lvl, nil
}
