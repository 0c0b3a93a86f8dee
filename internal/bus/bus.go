// internal/bus/bus.go
package bus

import (
	"errors"
	"fmt"
	"time"

	"tinygo.org/x/drivers"
)

// Kind selects the transport carrying board register transactions.
type Kind string

const (
	KindI2C       Kind = "i2c"
	KindModbusRTU Kind = "modbus-rtu"
	KindModbusTCP Kind = "modbus-tcp"
	KindSim       Kind = "sim"
)

// Config is the minimal transport config.
type Config struct {
	Kind     Kind
	Bus      string // I2C bus name, e.g. "1" for /dev/i2c-1
	Endpoint string // serial device or host:port for Modbus gateways
	BaudRate int
	Timeout  time.Duration
}

// ErrNoDevice is returned when nothing acknowledges an address.
var ErrNoDevice = errors.New("bus: no device at address")

// Open builds the transport described by cfg.
// The returned closer releases it; it is never nil on success.
func Open(cfg Config) (drivers.I2C, func() error, error) {
	switch cfg.Kind {
	case KindI2C, "":
		return openI2C(cfg.Bus)
	case KindModbusRTU, KindModbusTCP:
		g, err := NewGateway(cfg)
		if err != nil {
			return nil, nil, err
		}
		return g, g.Close, nil
	case KindSim:
		m := NewMemory()
		m.AttachAll()
		return m, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("bus: unsupported transport %q", cfg.Kind)
	}
}
