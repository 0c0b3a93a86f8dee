// internal/bus/memory.go
package bus

import (
	"sync"
)

// Memory is an in-process register file per bus address.
// It implements drivers.I2C for dry runs and host-side tests.
type Memory struct {
	mu   sync.Mutex
	all  bool
	devs map[uint16]*[256]byte

	// Txs counts every transaction, including failed ones.
	Txs int
}

func NewMemory() *Memory {
	return &Memory{devs: make(map[uint16]*[256]byte)}
}

// Attach makes addr acknowledge transactions.
func (m *Memory) Attach(addr uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attach(addr)
}

// AttachAll makes every address acknowledge.
func (m *Memory) AttachAll() {
	m.mu.Lock()
	m.all = true
	m.mu.Unlock()
}

func (m *Memory) attach(addr uint16) *[256]byte {
	d, ok := m.devs[addr]
	if !ok {
		d = new([256]byte)
		m.devs[addr] = d
	}
	return d
}

// Tx writes w[1:] starting at register w[0], then reads len(r) bytes from
// the same register. The pointer wraps at 0xFF.
func (m *Memory) Tx(addr uint16, w, r []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Txs++

	d, ok := m.devs[addr]
	if !ok {
		if !m.all {
			return ErrNoDevice
		}
		d = m.attach(addr)
	}
	if len(w) == 0 {
		return nil
	}

	reg := w[0]
	for i, b := range w[1:] {
		d[reg+uint8(i)] = b
	}
	for i := range r {
		r[i] = d[reg+uint8(i)]
	}
	return nil
}

// Poke stores data at reg without counting a transaction.
func (m *Memory) Poke(addr uint16, reg uint8, data ...byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.attach(addr)
	for i, b := range data {
		d[reg+uint8(i)] = b
	}
}

// Peek returns n bytes from reg without counting a transaction.
func (m *Memory) Peek(addr uint16, reg uint8, n int) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, n)
	d, ok := m.devs[addr]
	if !ok {
		return out
	}
	for i := range out {
		out[i] = d[reg+uint8(i)]
	}
	return out
}
