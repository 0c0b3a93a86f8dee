// internal/bus/i2c.go
package bus

import (
	"fmt"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"
)

// openI2C opens a Linux I2C bus through periph.io.
// periph's i2c.Bus already has the drivers.I2C Tx shape.
func openI2C(name string) (drivers.I2C, func() error, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("bus: host init: %w", err)
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("bus: open i2c %q: %w", name, err)
	}
	return b, b.Close, nil
}
