// internal/board/calib.go
package board

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/sm8crt/crt8/internal/crt"
)

// CalibStatus is the firmware's report on the last calibration write.
type CalibStatus uint8

const (
	CalibInProgress CalibStatus = iota
	CalibDone
	CalibError
)

func (s CalibStatus) String() string {
	switch s {
	case CalibInProgress:
		return "in progress"
	case CalibDone:
		return "done"
	case CalibError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// CalibSet records one calibration point for channel id ch.
// Layout at CALIB_VALUE: float32 LE, channel id, key.
// The firmware computes the correction after the second point.
func (b *Board) CalibSet(ctx context.Context, ch uint8, value float32) error {
	var buf [6]byte
	binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(value))
	buf[4] = ch
	buf[5] = crt.CalibrationKey
	return b.WriteMem(ctx, crt.RegCalibValue, buf[:])
}

// CalibReset restores the factory calibration of channel id ch.
func (b *Board) CalibReset(ctx context.Context, ch uint8) error {
	return b.WriteMem(ctx, crt.RegCalibChannel, []byte{ch, crt.CalibrationKey})
}

// CalibStatus reads the calibration status byte.
func (b *Board) CalibStatus(ctx context.Context) (CalibStatus, error) {
	var buf [1]byte
	if err := b.ReadMem(ctx, crt.RegCalibStatus, buf[:]); err != nil {
		return 0, err
	}
	return CalibStatus(buf[0]), nil
}
