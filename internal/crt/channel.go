// internal/crt/channel.go
package crt

import (
	"fmt"
	"strconv"
	"strings"
)

// CheckChannel rejects channels outside [1, Channels].
// No register address may be computed for a channel that fails here.
func (p Profile) CheckChannel(ch int) error {
	if ch < 1 || ch > p.Channels {
		return &RangeError{
			What:   "Current input channel",
			Got:    strconv.Itoa(ch),
			Domain: fmt.Sprintf("1..%d", p.Channels),
		}
	}
	return nil
}

// ParseChannel parses a 1-based channel argument and validates it.
// Text that is not an integer is reported as out of range.
func (p Profile) ParseChannel(arg string) (int, error) {
	ch, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, &RangeError{
			What:   "Current input channel",
			Got:    strconv.Quote(arg),
			Domain: fmt.Sprintf("1..%d", p.Channels),
		}
	}
	if err := p.CheckChannel(ch); err != nil {
		return 0, err
	}
	return ch, nil
}

// CalibChannel is the opaque calibration service key for channel.
func CalibChannel(ch int) uint8 {
	return uint8(CalibChannelBase + (ch - 1))
}
