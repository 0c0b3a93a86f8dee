// internal/monitor/runner.go
package monitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/sm8crt/crt8/internal/status"
)

// Run polls once immediately, then on every tick, emitting each result.
// One goroutine per board. No overlap. No retries.
func (p *Poller) Run(ctx context.Context, out chan<- PollResult) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case out <- p.PollOnce(ctx):
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Sink receives what Watch observes, alongside the printed output.
type Sink interface {
	Write(res PollResult) error
	WriteStatus(s status.Snapshot) error
}

// Watch prints every poll result to w until ctx is done.
// Health transitions are logged; a failed cycle does not stop the watch.
// If sink is non-nil, results and status changes are delivered to it;
// delivery failures are logged only.
func Watch(ctx context.Context, p *Poller, w io.Writer, log *slog.Logger, sink Sink) error {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("board", p.cfg.Level)

	// Stops the poller on every return path.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := make(chan PollResult)
	go p.Run(ctx, out)

	var snap status.Snapshot
	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	writeStatus := func() {
		if sink == nil {
			return
		}
		if err := sink.WriteStatus(snap); err != nil {
			log.Warn("status publish failed", "err", err)
		}
	}

	// Full block on start.
	writeStatus()

	for {
		select {
		case <-ctx.Done():
			return nil

		case res := <-out:
			if sink != nil {
				if err := sink.Write(res); err != nil {
					log.Warn("publish failed", "err", err)
				}
			}
			if snap.Observe(res.Err) {
				if res.Err != nil {
					log.Warn("poll failed", "err", res.Err, "code", snap.LastError)
				} else {
					log.Info("board healthy")
				}
				writeStatus()
			}
			if err := printResult(w, res); err != nil {
				return err
			}

		case <-secTicker.C:
			if snap.Health != status.HealthOK {
				snap.Tick()
				writeStatus()
			}
		}
	}
}

func printResult(w io.Writer, res PollResult) error {
	ts := res.At.Format("15:04:05.000")
	if res.Err != nil {
		_, err := fmt.Fprintf(w, "%s error: %v\n", ts, res.Err)
		return err
	}
	cur := make([]string, len(res.Samples))
	rms := make([]string, len(res.Samples))
	for i, s := range res.Samples {
		cur[i] = fmt.Sprintf("%0.2f", s.Current)
		rms[i] = fmt.Sprintf("%0.2f", s.RMS)
	}
	_, err := fmt.Fprintf(w, "%s crt: %s rms: %s\n", ts, strings.Join(cur, " "), strings.Join(rms, " "))
	return err
}
