// internal/board/board_test.go
package board

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sm8crt/crt8/internal/bus"
	"github.com/sm8crt/crt8/internal/crt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_AddressFromStackLevel(t *testing.T) {
	m := bus.NewMemory()
	m.Attach(DefaultAddressBase + 3)

	b, err := Open(context.Background(), m, 3, Options{})
	require.NoError(t, err)
	assert.Equal(t, uint16(DefaultAddressBase+3), b.Addr())
	assert.Equal(t, 3, b.Level())
	assert.Equal(t, 1, m.Txs, "open probes the board once")
}

func TestOpen_InvalidStackLevel(t *testing.T) {
	m := bus.NewMemory()
	m.AttachAll()

	for _, level := range []int{-1, 8} {
		_, err := Open(context.Background(), m, level, Options{})
		assert.ErrorIs(t, err, crt.ErrDevice, "level=%d", level)
	}
	assert.Zero(t, m.Txs)
}

func TestOpen_NotDetected(t *testing.T) {
	_, err := Open(context.Background(), bus.NewMemory(), 0, Options{})
	require.ErrorIs(t, err, crt.ErrDevice)
	assert.ErrorIs(t, err, bus.ErrNoDevice)
}

func TestReadMem_CanceledContext(t *testing.T) {
	m := bus.NewMemory()
	m.AttachAll()
	b, err := Open(context.Background(), m, 0, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, b.ReadMem(ctx, 0, make([]byte, 1)), context.Canceled)
}

func TestUpdateByte_PreservesOtherBits(t *testing.T) {
	m := bus.NewMemory()
	m.Attach(DefaultAddressBase)
	m.Poke(DefaultAddressBase, crt.RegSensorType, 0b00000001)

	b, err := Open(context.Background(), m, 0, Options{})
	require.NoError(t, err)

	err = b.UpdateByte(context.Background(), crt.RegSensorType, func(v byte) byte {
		return crt.SetBit(v, 3)
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{0b00000101}, m.Peek(DefaultAddressBase, crt.RegSensorType, 1))
}

func TestUpdateByte_WithLockDir(t *testing.T) {
	dir := t.TempDir()
	m := bus.NewMemory()
	m.AttachAll()

	b, err := Open(context.Background(), m, 0, Options{LockDir: dir, BusName: "/dev/i2c-1"})
	require.NoError(t, err)

	require.NoError(t, b.UpdateByte(context.Background(), crt.RegSensorType, func(v byte) byte { return 0xFF }))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "crt8-_dev_i2c-1-26.lock", entries[0].Name())
}

func TestUpdateByte_BadLockDir(t *testing.T) {
	m := bus.NewMemory()
	m.AttachAll()

	b, err := Open(context.Background(), m, 0, Options{LockDir: filepath.Join(t.TempDir(), "missing")})
	require.NoError(t, err)

	err = b.UpdateByte(context.Background(), crt.RegSensorType, func(v byte) byte { return v })
	assert.ErrorIs(t, err, crt.ErrDevice)
}

func TestInfo(t *testing.T) {
	m := bus.NewMemory()
	m.Poke(DefaultAddressBase, crt.RegRevisionHWMajor, 1, 2, 3, 14)

	b, err := Open(context.Background(), m, 0, Options{})
	require.NoError(t, err)

	hw, fw, err := b.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.02", hw.String())
	assert.Equal(t, "3.14", fw.String())
}

func TestCalibSet_Layout(t *testing.T) {
	m := bus.NewMemory()
	m.Attach(DefaultAddressBase)
	b, err := Open(context.Background(), m, 0, Options{})
	require.NoError(t, err)

	require.NoError(t, b.CalibSet(context.Background(), crt.CalibChannel(2), 5.5))

	raw := m.Peek(DefaultAddressBase, crt.RegCalibValue, 6)
	assert.Equal(t, float32(5.5), math.Float32frombits(binary.LittleEndian.Uint32(raw[:4])))
	assert.Equal(t, crt.CalibChannel(2), raw[4])
	assert.Equal(t, byte(crt.CalibrationKey), raw[5])
}

func TestCalibReset_Layout(t *testing.T) {
	m := bus.NewMemory()
	m.Attach(DefaultAddressBase)
	b, err := Open(context.Background(), m, 0, Options{})
	require.NoError(t, err)

	require.NoError(t, b.CalibReset(context.Background(), crt.CalibChannel(8)))
	assert.Equal(t,
		[]byte{crt.CalibChannel(8), crt.CalibrationKey},
		m.Peek(DefaultAddressBase, crt.RegCalibChannel, 2),
	)
}

func TestCalibStatus(t *testing.T) {
	m := bus.NewMemory()
	m.Poke(DefaultAddressBase, crt.RegCalibStatus, byte(CalibDone))
	b, err := Open(context.Background(), m, 0, Options{})
	require.NoError(t, err)

	st, err := b.CalibStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CalibDone, st)
	assert.Equal(t, "done", st.String())
}

func TestScan(t *testing.T) {
	m := bus.NewMemory()
	m.Attach(DefaultAddressBase + 0)
	m.Attach(DefaultAddressBase + 5)

	found, err := Scan(context.Background(), m, Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 5}, found)
}
