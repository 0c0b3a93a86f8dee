// internal/monitor/poller.go
package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/sm8crt/crt8/internal/crt"
)

// Reader is the register access the poller needs.
type Reader interface {
	ReadMem(ctx context.Context, reg uint8, buf []byte) error
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Level    int
	Interval time.Duration
	Profile  crt.Profile
}

// Poller is a dumb, clock-driven reader of every channel.
type Poller struct {
	cfg Config
	dev Reader
}

// New creates a poller with immutable config.
func New(cfg Config, dev Reader) (*Poller, error) {
	if dev == nil {
		return nil, errors.New("monitor: device required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("monitor: interval must be > 0")
	}
	if err := cfg.Profile.Validate(); err != nil {
		return nil, err
	}
	return &Poller{cfg: cfg, dev: dev}, nil
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: any failure aborts the cycle.
func (p *Poller) PollOnce(ctx context.Context) PollResult {
	res := PollResult{
		Level: p.cfg.Level,
		At:    time.Now(),
	}

	cur, err := p.readBlock(ctx, crt.KindCurrent)
	if err != nil {
		res.Err = err
		return res
	}
	rms, err := p.readBlock(ctx, crt.KindCurrentRMS)
	if err != nil {
		res.Err = err
		return res
	}

	prof := p.cfg.Profile
	samples := make([]Sample, 0, prof.Channels)
	for ch := 1; ch <= prof.Channels; ch++ {
		off := (ch - 1) * crt.Stride
		c, err := prof.DecodeCurrent(cur[off : off+crt.Stride])
		if err != nil {
			res.Err = err
			return res
		}
		r, err := prof.DecodeRMS(rms[off : off+crt.Stride])
		if err != nil {
			res.Err = err
			return res
		}
		samples = append(samples, Sample{Channel: ch, Current: c, RMS: r})
	}

	// Commit only if all reads succeeded
	res.Samples = samples
	return res
}

// readBlock reads every channel of kind in one transaction.
func (p *Poller) readBlock(ctx context.Context, kind crt.Kind) ([]byte, error) {
	addr, err := p.cfg.Profile.Address(kind, 1)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, p.cfg.Profile.Channels*crt.Stride)
	if err := p.dev.ReadMem(ctx, addr, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
