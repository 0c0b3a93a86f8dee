// internal/writer/writer.go
package writer

import (
	"fmt"
	"math"

	"github.com/sm8crt/crt8/internal/monitor"
)

// endpointClient is the exact contract the writers use.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// dataWriter mirrors poll snapshots into the data block.
type dataWriter struct {
	plan Plan
	cli  endpointClient
}

// Write delivers one poll result. Failed polls are not written, so the
// target keeps the last good values and the status block carries the error.
func (w *dataWriter) Write(res monitor.PollResult) error {
	if res.Err != nil {
		return nil
	}
	if len(res.Samples) != w.plan.Channels {
		return fmt.Errorf("writer: got %d samples, plan has %d channels", len(res.Samples), w.plan.Channels)
	}

	regs := make([]uint16, 2*w.plan.Channels)
	for i, s := range res.Samples {
		regs[i] = uint16(toRaw(s.Current*w.plan.Scale, math.MinInt16, math.MaxInt16))
		regs[w.plan.Channels+i] = uint16(toRaw(s.RMS*w.plan.Scale, 0, math.MaxUint16))
	}

	if err := w.cli.WriteRegisters(w.plan.UnitID, w.plan.DataAddr, regs); err != nil {
		return fmt.Errorf("writer: ep=%s unit=%d addr=%d err=%w",
			w.plan.Endpoint, w.plan.UnitID, w.plan.DataAddr, err)
	}
	return nil
}

// toRaw rounds v back to board counts, clamped to [lo, hi].
func toRaw(v float64, lo, hi int) int {
	r := int(math.Round(v))
	if r < lo {
		return lo
	}
	if r > hi {
		return hi
	}
	return r
}
