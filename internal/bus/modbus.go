// internal/bus/modbus.go
package bus

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goburrow/modbus"
)

// Gateway carries board transactions over a Modbus bridge.
// The bridge mirrors each board's memory map one byte per holding register
// (low byte used); the Modbus slave id is the board's I2C address.
// It serializes requests because it mutates SlaveId per transaction.
type Gateway struct {
	mu       sync.Mutex
	handler  modbus.ClientHandler
	closer   func() error
	setSlave func(id byte)
	client   modbus.Client
}

// NewGateway connects to an RTU or TCP bridge.
func NewGateway(cfg Config) (*Gateway, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("bus modbus: endpoint required")
	}

	g := &Gateway{}

	switch cfg.Kind {
	case KindModbusRTU:
		h := modbus.NewRTUClientHandler(cfg.Endpoint)
		if cfg.BaudRate > 0 {
			h.BaudRate = cfg.BaudRate
		}
		h.DataBits = 8
		h.Parity = "N"
		h.StopBits = 1
		h.Timeout = cfg.Timeout
		if err := h.Connect(); err != nil {
			return nil, fmt.Errorf("bus modbus: connect %s: %w", cfg.Endpoint, err)
		}
		g.handler, g.closer = h, h.Close
		g.setSlave = func(id byte) { h.SlaveId = id }

	case KindModbusTCP:
		h := modbus.NewTCPClientHandler(cfg.Endpoint)
		h.Timeout = cfg.Timeout
		if err := h.Connect(); err != nil {
			return nil, fmt.Errorf("bus modbus: connect %s: %w", cfg.Endpoint, err)
		}
		g.handler, g.closer = h, h.Close
		g.setSlave = func(id byte) { h.SlaveId = id }

	default:
		return nil, fmt.Errorf("bus modbus: unsupported kind %q", cfg.Kind)
	}

	g.client = modbus.NewClient(g.handler)
	return g, nil
}

func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closer()
}

// Tx implements drivers.I2C. w[0] is the register pointer; any further
// bytes of w are written from there, then len(r) bytes are read back.
func (g *Gateway) Tx(addr uint16, w, r []byte) error {
	if len(w) == 0 {
		return errors.New("bus modbus: register pointer required")
	}
	if addr > 0xFF {
		return fmt.Errorf("bus modbus: address 0x%X does not fit a slave id", addr)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.setSlave(byte(addr))
	reg := uint16(w[0])

	if data := w[1:]; len(data) > 0 {
		if _, err := g.client.WriteMultipleRegisters(reg, uint16(len(data)), packBytes(data)); err != nil {
			return err
		}
	}

	if len(r) > 0 {
		res, err := g.client.ReadHoldingRegisters(reg, uint16(len(r)))
		if err != nil {
			return err
		}
		return unpackBytes(res, r)
	}
	return nil
}

// packBytes spreads bytes over big-endian registers, one byte each.
func packBytes(data []byte) []byte {
	out := make([]byte, len(data)*2)
	for i, b := range data {
		out[2*i] = 0
		out[2*i+1] = b
	}
	return out
}

// unpackBytes takes the low byte of each big-endian register into dst.
func unpackBytes(regs []byte, dst []byte) error {
	if len(regs) < len(dst)*2 {
		return fmt.Errorf("bus modbus: short read: got %d bytes, want %d", len(regs), len(dst)*2)
	}
	for i := range dst {
		dst[i] = regs[2*i+1]
	}
	return nil
}
