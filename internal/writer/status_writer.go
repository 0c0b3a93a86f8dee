// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sm8crt/crt8/internal/status"
)

// statusWriter delivers board health snapshots into the status block.
// Only changed slots are written, except after a failure or on the
// first write, when the whole block is re-asserted.
type statusWriter struct {
	plan   *StatusPlan
	unitID uint8
	cli    endpointClient

	needFull bool
	last     status.Snapshot
	nameRegs []uint16
}

func newStatusWriter(plan Plan, cli endpointClient) *statusWriter {
	if plan.Status == nil {
		return nil
	}
	return &statusWriter{
		plan:     plan.Status,
		unitID:   plan.UnitID,
		cli:      cli,
		needFull: true,
		nameRegs: encodeDeviceNameRegs(plan.Status.DeviceName),
	}
}

func (sw *statusWriter) WriteStatus(s status.Snapshot) error {
	base := sw.baseAddr()

	if sw.needFull {
		if err := sw.cli.WriteRegisters(sw.unitID, base, sw.fullBlockRegs(s)); err != nil {
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}
		sw.needFull = false
		sw.last = s
		return nil
	}

	var errs []string
	write := func(slot uint16, v uint16, name string) bool {
		if err := sw.cli.WriteRegisters(sw.unitID, base+slot, []uint16{v}); err != nil {
			errs = append(errs, fmt.Sprintf("%s write failed: %v", name, err))
			return false
		}
		return true
	}

	if sw.last.Health != s.Health && write(status.SlotHealthCode, s.Health, "health") {
		sw.last.Health = s.Health
	}
	if sw.last.LastError != s.LastError && write(status.SlotLastErrorCode, uint16(s.LastError), "last_error") {
		sw.last.LastError = s.LastError
	}
	if sw.last.SecondsInError != s.SecondsInError && write(status.SlotSecondsInError, s.SecondsInError, "seconds_in_error") {
		sw.last.SecondsInError = s.SecondsInError
	}

	if len(errs) > 0 {
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}
	return nil
}

func (sw *statusWriter) baseAddr() uint16 {
	return sw.plan.BaseSlot * status.SlotsPerDevice
}

func (sw *statusWriter) fullBlockRegs(s status.Snapshot) []uint16 {
	regs := make([]uint16, status.SlotsPerDevice)
	regs[status.SlotHealthCode] = s.Health
	regs[status.SlotLastErrorCode] = uint16(s.LastError)
	regs[status.SlotSecondsInError] = s.SecondsInError
	copy(regs[status.SlotDeviceNameStart:], sw.nameRegs)
	return regs
}

// encodeDeviceNameRegs packs up to DeviceNameMaxChars printable ASCII
// characters, two per register, big-endian.
func encodeDeviceNameRegs(name string) []uint16 {
	out := make([]uint16, status.SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > status.DeviceNameMaxChars {
		b = b[:status.DeviceNameMaxChars]
	}
	for i := range b {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < len(b); i += 2 {
		hi := b[i]
		var lo byte
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}
	return out
}
