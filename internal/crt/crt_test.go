// internal/crt/crt_test.go
package crt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_PerChannelStride(t *testing.T) {
	p := DefaultProfile()

	for ch := 1; ch <= p.Channels; ch++ {
		off := uint8((ch - 1) * 2)

		a, err := p.Address(KindCurrent, ch)
		require.NoError(t, err)
		assert.Equal(t, uint8(RegCurrent)+off, a, "current ch=%d", ch)

		a, err = p.Address(KindCurrentRMS, ch)
		require.NoError(t, err)
		assert.Equal(t, uint8(RegCurrentRMS)+off, a, "rms ch=%d", ch)

		a, err = p.Address(KindRange, ch)
		require.NoError(t, err)
		assert.Equal(t, uint8(RegRange)+off, a, "range ch=%d", ch)

		a, err = p.Address(KindSensorType, ch)
		require.NoError(t, err)
		assert.Equal(t, uint8(RegSensorType), a, "sensor type ch=%d", ch)
	}
}

func TestAddress_ChannelOneIsBase(t *testing.T) {
	p := DefaultProfile()

	a, err := p.Address(KindCurrent, 1)
	require.NoError(t, err)
	assert.Equal(t, uint8(RegCurrent), a)

	// channel 2 is exactly one stride above channel 1
	b, err := p.Address(KindCurrent, 2)
	require.NoError(t, err)
	assert.Equal(t, a+Stride, b)
}

func TestAddress_UnknownKind(t *testing.T) {
	_, err := DefaultProfile().Address(Kind(99), 1)
	assert.Error(t, err)
}

func TestCheckChannel(t *testing.T) {
	p := DefaultProfile()
	p.Channels = 6

	for _, ch := range []int{1, 3, 6} {
		assert.NoError(t, p.CheckChannel(ch), "ch=%d", ch)
	}
	for _, ch := range []int{-1, 0, 7, 100} {
		err := p.CheckChannel(ch)
		require.Error(t, err, "ch=%d", ch)
		assert.True(t, errors.Is(err, ErrRange))
		assert.Contains(t, err.Error(), "1..6")
	}
}

func TestParseChannel_NotANumber(t *testing.T) {
	_, err := DefaultProfile().ParseChannel("two")
	assert.ErrorIs(t, err, ErrRange)
}

func TestCalibChannel(t *testing.T) {
	assert.Equal(t, uint8(CalibChannelBase), CalibChannel(1))
	assert.Equal(t, uint8(CalibChannelBase+7), CalibChannel(8))
}

func TestDecodeCurrent_Signed(t *testing.T) {
	p := DefaultProfile()

	v, err := p.DecodeCurrent([]byte{0xFF, 0xFF}) // -1
	require.NoError(t, err)
	assert.Less(t, v, 0.0)
	assert.InDelta(t, -0.01, v, 1e-9)

	v, err = p.DecodeCurrent([]byte{0xFF, 0x7F}) // 0x7FFF
	require.NoError(t, err)
	assert.InDelta(t, 327.67, v, 1e-9)

	_, err = p.DecodeCurrent([]byte{0x01})
	assert.Error(t, err)
}

func TestDecodeRMS_Unsigned(t *testing.T) {
	p := DefaultProfile()

	v, err := p.DecodeRMS([]byte{0xFF, 0xFF})
	require.NoError(t, err)
	assert.InDelta(t, 655.35, v, 1e-9)

	v, err = p.DecodeRMS([]byte{0xE8, 0x03}) // 1000
	require.NoError(t, err)
	assert.InDelta(t, 10.0, v, 1e-9)
}

func TestEncodeRange_DecodesBack(t *testing.T) {
	p := DefaultProfile()

	for amps := p.RangeMin; amps <= p.RangeMax; amps++ {
		raw, err := p.EncodeRange(amps)
		require.NoError(t, err)
		require.Len(t, raw, Stride)

		got, err := DecodeRange(raw)
		require.NoError(t, err)
		require.Equal(t, amps, got)
	}
}

func TestEncodeRange_Bounds(t *testing.T) {
	p := DefaultProfile()

	for _, amps := range []int{0, 501, -5} {
		_, err := p.EncodeRange(amps)
		assert.ErrorIs(t, err, ErrRange, "amps=%d", amps)
	}

	p.RangeMax = 300
	_, err := p.EncodeRange(301)
	assert.ErrorIs(t, err, ErrRange)
	_, err = p.EncodeRange(300)
	assert.NoError(t, err)
}

func TestBits_ReadModifyWrite(t *testing.T) {
	b := SetBit(0b00000000, 3)
	assert.Equal(t, byte(0b00000100), b)
	assert.Equal(t, byte(0b00000000), ClearBit(b, 3))

	// other channels untouched
	assert.Equal(t, byte(0b00000101), SetBit(0b00000001, 3))
	assert.Equal(t, byte(0b11111011), ClearBit(0b11111111, 3))

	assert.True(t, BitSet(0b00000100, 3))
	assert.False(t, BitSet(0b00000100, 2))
	assert.Equal(t, byte(0b10000000), WithBit(0, 8, true))
}

func TestSensorTypes_ChannelOrder(t *testing.T) {
	p := DefaultProfile()
	p.Channels = 6

	got := p.SensorTypes(0b00101001)
	assert.Equal(t, []bool{true, false, false, true, false, true}, got)

	// bits above the channel count are ignored
	got = p.SensorTypes(0b11000000)
	assert.Equal(t, make([]bool, 6), got)
}

func TestParseMask(t *testing.T) {
	p := DefaultProfile()
	p.Channels = 6

	m, err := p.ParseMask("63")
	require.NoError(t, err)
	assert.Equal(t, byte(63), m)

	for _, arg := range []string{"64", "-1", "x"} {
		_, err := p.ParseMask(arg)
		assert.ErrorIs(t, err, ErrRange, "arg=%s", arg)
	}
}

func TestProfileValidate(t *testing.T) {
	assert.NoError(t, DefaultProfile().Validate())

	p := DefaultProfile()
	p.Channels = 9
	assert.Error(t, p.Validate())

	p = DefaultProfile()
	p.RangeMin, p.RangeMax = 10, 5
	assert.Error(t, p.Validate())

	p = DefaultProfile()
	p.Registers.Range = 0xF8
	assert.Error(t, p.Validate())
}

func TestErrorTaxonomy(t *testing.T) {
	dev := Device("read", errors.New("nack"))
	assert.ErrorIs(t, dev, ErrDevice)
	assert.Contains(t, dev.Error(), "nack")

	// already classified errors are not wrapped twice
	assert.Same(t, dev, Device("write", dev))
	assert.NoError(t, Device("read", nil))

	assert.ErrorIs(t, &ArgCountError{Verb: "rd", Got: 3}, ErrArgCount)
}
