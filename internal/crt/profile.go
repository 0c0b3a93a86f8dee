// internal/crt/profile.go
package crt

import "fmt"

// Kind selects which per-channel quantity a register address refers to.
type Kind uint8

const (
	KindCurrent Kind = iota + 1
	KindCurrentRMS
	KindRange
	KindSensorType
)

func (k Kind) String() string {
	switch k {
	case KindCurrent:
		return "current"
	case KindCurrentRMS:
		return "current_rms"
	case KindRange:
		return "range"
	case KindSensorType:
		return "sensor_type"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ---- DEFAULT MEMORY MAP ----

// Stride is the byte width of one channel's value field.
// It is the same for current, RMS and range registers.
const Stride = 2

// MaxChannels is the upper bound for Profile.Channels.
// Sensor type is one bit per channel in a single byte.
const MaxChannels = 8

const (
	RegCurrent    = 0x03
	RegCurrentRMS = 0x13
	RegRange      = 0x23
	RegSensorType = 0x33

	RegCalibValue   = 0x34 // float32 LE + channel + key
	RegCalibChannel = 0x38 // channel + key (reset)
	RegCalibKey     = 0x39
	RegCalibStatus  = 0x3A

	RegRevisionHWMajor = 0x78
	RegRevisionHWMinor = 0x79
	RegRevisionFWMajor = 0x7A
	RegRevisionFWMinor = 0x7B
)

const (
	// DefaultScale converts raw current counts into amperes (raw / 100).
	DefaultScale = 100

	// DefaultRangeMin and DefaultRangeMax bound sensing range writes.
	// The upstream firmware has not settled this bound; keep it configurable.
	DefaultRangeMin = 1
	DefaultRangeMax = 500

	// CalibChannelBase is the calibration channel id of input channel 1.
	CalibChannelBase = 1

	// CalibrationKey unlocks a calibration write.
	CalibrationKey = 0xAA
)

// Registers holds the base offset of each addressable quantity.
type Registers struct {
	Current    uint8
	CurrentRMS uint8
	Range      uint8
	SensorType uint8
}

// Profile is the fixed description of one board model.
// It is a value type; nothing in it changes at runtime.
type Profile struct {
	Channels  int
	Scale     float64
	RangeMin  int
	RangeMax  int
	Registers Registers
}

// DefaultProfile returns the eight-channel board layout.
func DefaultProfile() Profile {
	return Profile{
		Channels: MaxChannels,
		Scale:    DefaultScale,
		RangeMin: DefaultRangeMin,
		RangeMax: DefaultRangeMax,
		Registers: Registers{
			Current:    RegCurrent,
			CurrentRMS: RegCurrentRMS,
			Range:      RegRange,
			SensorType: RegSensorType,
		},
	}
}

// Address returns the register offset of kind for channel.
// The channel must already have passed CheckChannel.
//
//	offset = base(kind) + (channel-1)*Stride
//
// SensorType is bit-packed, so its offset does not depend on channel.
func (p Profile) Address(kind Kind, channel int) (uint8, error) {
	var base uint8
	switch kind {
	case KindCurrent:
		base = p.Registers.Current
	case KindCurrentRMS:
		base = p.Registers.CurrentRMS
	case KindRange:
		base = p.Registers.Range
	case KindSensorType:
		return p.Registers.SensorType, nil
	default:
		return 0, fmt.Errorf("crt: unknown register kind %s", kind)
	}
	return base + uint8((channel-1)*Stride), nil
}

// MaskMax is the largest sensor-type bitmask accepted for this profile.
func (p Profile) MaskMax() int {
	return 1<<p.Channels - 1
}

// Validate checks the profile is usable. It does not mutate it.
func (p Profile) Validate() error {
	if p.Channels < 1 || p.Channels > MaxChannels {
		return fmt.Errorf("crt: channels must be 1..%d, got %d", MaxChannels, p.Channels)
	}
	if p.Scale <= 0 {
		return fmt.Errorf("crt: scale must be > 0, got %v", p.Scale)
	}
	if p.RangeMin < 0 || p.RangeMax > 0xFFFF || p.RangeMin > p.RangeMax {
		return fmt.Errorf("crt: invalid range bound %d..%d", p.RangeMin, p.RangeMax)
	}
	end := func(base uint8) int { return int(base) + p.Channels*Stride - 1 }
	for _, b := range []uint8{p.Registers.Current, p.Registers.CurrentRMS, p.Registers.Range} {
		if end(b) > 0xFF {
			return fmt.Errorf("crt: register block at 0x%02X overruns the memory map", b)
		}
	}
	return nil
}
