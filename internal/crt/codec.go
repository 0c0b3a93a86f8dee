// internal/crt/codec.go
package crt

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// Raw samples are Stride bytes, little-endian (LOW then HIGH).

// DecodeCurrent interprets raw as signed and scales it to amperes.
// Instantaneous current can be negative.
func (p Profile) DecodeCurrent(raw []byte) (float64, error) {
	if len(raw) < Stride {
		return 0, fmt.Errorf("crt: short current sample: %d bytes", len(raw))
	}
	v := int16(binary.LittleEndian.Uint16(raw))
	return float64(v) / p.Scale, nil
}

// DecodeRMS interprets raw as unsigned and scales it to amperes.
func (p Profile) DecodeRMS(raw []byte) (float64, error) {
	if len(raw) < Stride {
		return 0, fmt.Errorf("crt: short rms sample: %d bytes", len(raw))
	}
	v := binary.LittleEndian.Uint16(raw)
	return float64(v) / p.Scale, nil
}

// DecodeRange interprets raw as an unsigned whole number of amperes.
// Range registers are not scaled.
func DecodeRange(raw []byte) (int, error) {
	if len(raw) < Stride {
		return 0, fmt.Errorf("crt: short range sample: %d bytes", len(raw))
	}
	return int(binary.LittleEndian.Uint16(raw)), nil
}

// CheckRange rejects amperages outside [RangeMin, RangeMax].
func (p Profile) CheckRange(amps int) error {
	if amps < p.RangeMin || amps > p.RangeMax {
		return p.rangeErr(strconv.Itoa(amps))
	}
	return nil
}

// ParseRange parses and validates a sensing range argument.
func (p Profile) ParseRange(arg string) (int, error) {
	amps, err := strconv.Atoi(arg)
	if err != nil {
		return 0, p.rangeErr(strconv.Quote(arg))
	}
	if err := p.CheckRange(amps); err != nil {
		return 0, err
	}
	return amps, nil
}

func (p Profile) rangeErr(got string) error {
	return &RangeError{
		What:   "Invalid amperage value",
		Got:    got,
		Domain: fmt.Sprintf("%d..%d", p.RangeMin, p.RangeMax),
	}
}

// EncodeRange encodes a validated amperage as a 2-byte unsigned value.
// The device reads range registers as whole amperes, so no scaling applies.
func (p Profile) EncodeRange(amps int) ([]byte, error) {
	if err := p.CheckRange(amps); err != nil {
		return nil, err
	}
	buf := make([]byte, Stride)
	binary.LittleEndian.PutUint16(buf, uint16(amps))
	return buf, nil
}

// ---- sensor type bitmask ----

// BitSet reports whether channel's bit is set in b.
func BitSet(b byte, ch int) bool {
	return (b>>(ch-1))&1 == 1
}

// SetBit returns b with channel's bit set; other bits are preserved.
func SetBit(b byte, ch int) byte {
	return b | 1<<(ch-1)
}

// ClearBit returns b with channel's bit cleared; other bits are preserved.
func ClearBit(b byte, ch int) byte {
	return b &^ (1 << (ch - 1))
}

// WithBit sets or clears channel's bit.
func WithBit(b byte, ch int, on bool) byte {
	if on {
		return SetBit(b, ch)
	}
	return ClearBit(b, ch)
}

// SensorTypes expands b into one flag per channel, channel 1 first.
// Bits at or above Channels are ignored.
func (p Profile) SensorTypes(b byte) []bool {
	out := make([]bool, p.Channels)
	for ch := 1; ch <= p.Channels; ch++ {
		out[ch-1] = BitSet(b, ch)
	}
	return out
}

// ParseMask parses and validates a whole-board sensor type bitmask.
func (p Profile) ParseMask(arg string) (byte, error) {
	mask, err := strconv.Atoi(arg)
	if err != nil || mask < 0 || mask > p.MaskMax() {
		return 0, &RangeError{
			What:   "Sensor type mask",
			Got:    arg,
			Domain: fmt.Sprintf("0..%d", p.MaskMax()),
		}
	}
	return byte(mask), nil
}
