// internal/board/board.go
package board

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sm8crt/crt8/internal/crt"
	"tinygo.org/x/drivers"
)

const (
	// DefaultAddressBase is the I2C address of stack level 0.
	DefaultAddressBase = 0x26

	// DefaultStackLevels is the number of boards that can share a bus.
	DefaultStackLevels = 8
)

// Options configures board acquisition.
type Options struct {
	AddressBase uint16
	StackLevels int

	// LockDir enables an advisory lock around read-modify-write cycles.
	// Empty disables locking.
	LockDir string
	BusName string

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.AddressBase == 0 {
		o.AddressBase = DefaultAddressBase
	}
	if o.StackLevels <= 0 {
		o.StackLevels = DefaultStackLevels
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Board is the device handle for one stacked board.
// It holds no device state between calls.
type Board struct {
	bus   drivers.I2C
	addr  uint16
	level int
	opts  Options
	log   *slog.Logger
}

// Open acquires the board at stack level and probes it.
// Any failure is a *crt.DeviceError.
func Open(ctx context.Context, bus drivers.I2C, level int, opts Options) (*Board, error) {
	opts = opts.withDefaults()

	if level < 0 || level >= opts.StackLevels {
		return nil, &crt.DeviceError{
			Op:  "init board",
			Err: fmt.Errorf("invalid stack level %d, must be 0..%d", level, opts.StackLevels-1),
		}
	}

	b := &Board{
		bus:   bus,
		addr:  opts.AddressBase + uint16(level),
		level: level,
		opts:  opts,
		log:   opts.Logger.With("board", level),
	}

	var probe [1]byte
	if err := b.ReadMem(ctx, crt.RegRevisionHWMajor, probe[:]); err != nil {
		return nil, &crt.DeviceError{
			Op:  "init board",
			Err: fmt.Errorf("board #%d not detected at 0x%02X: %w", level, b.addr, err),
		}
	}

	b.log.Debug("board detected", "addr", fmt.Sprintf("0x%02X", b.addr))
	return b, nil
}

func (b *Board) Addr() uint16 { return b.addr }
func (b *Board) Level() int   { return b.level }

// ReadMem reads len(buf) bytes starting at reg.
func (b *Board) ReadMem(ctx context.Context, reg uint8, buf []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.bus.Tx(b.addr, []byte{reg}, buf)
	b.log.Debug("read", "reg", reg, "n", len(buf), "err", err)
	return crt.Device("read", err)
}

// WriteMem writes data starting at reg.
func (b *Board) WriteMem(ctx context.Context, reg uint8, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w := make([]byte, 0, len(data)+1)
	w = append(w, reg)
	w = append(w, data...)
	err := b.bus.Tx(b.addr, w, nil)
	b.log.Debug("write", "reg", reg, "n", len(data), "err", err)
	return crt.Device("write", err)
}

// UpdateByte runs a read-modify-write cycle on one register byte.
// fn receives the current value and returns the value to store.
// The cycle is only atomic against other crt8 processes when LockDir is set.
func (b *Board) UpdateByte(ctx context.Context, reg uint8, fn func(byte) byte) error {
	unlock, err := b.lock()
	if err != nil {
		return &crt.DeviceError{Op: "lock board", Err: err}
	}
	defer unlock()

	var cur [1]byte
	if err := b.ReadMem(ctx, reg, cur[:]); err != nil {
		return err
	}
	next := fn(cur[0])
	b.log.Debug("update", "reg", reg, "from", cur[0], "to", next)
	return b.WriteMem(ctx, reg, []byte{next})
}

// Version is a major.minor revision pair.
type Version struct {
	Major, Minor uint8
}

func (v Version) String() string { return fmt.Sprintf("%d.%02d", v.Major, v.Minor) }

// Info reads the hardware and firmware revisions.
func (b *Board) Info(ctx context.Context) (hw, fw Version, err error) {
	var buf [4]byte
	if err := b.ReadMem(ctx, crt.RegRevisionHWMajor, buf[:]); err != nil {
		return Version{}, Version{}, err
	}
	hw = Version{Major: buf[0], Minor: buf[1]}
	fw = Version{Major: buf[2], Minor: buf[3]}
	return hw, fw, nil
}

// Scan probes every stack level and returns those that answer.
func Scan(ctx context.Context, bus drivers.I2C, opts Options) ([]int, error) {
	opts = opts.withDefaults()
	var found []int
	for level := 0; level < opts.StackLevels; level++ {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		if _, err := Open(ctx, bus, level, opts); err == nil {
			found = append(found, level)
		}
	}
	return found, nil
}
