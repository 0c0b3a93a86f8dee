// internal/command/board.go
package command

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/sm8crt/crt8/internal/crt"
	"github.com/sm8crt/crt8/internal/monitor"
)

// DefaultWatchInterval is the poll period of "watch" without an argument.
const DefaultWatchInterval = time.Second

func doBoardInfo(ctx context.Context, env *Env, level int, _ []string) error {
	dev, err := env.Open(ctx, level)
	if err != nil {
		return err
	}
	hw, fw, err := dev.Info(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(env.Out, "Hardware %s, Firmware %s, %d current inputs\n", hw, fw, env.Profile.Channels)
	return err
}

func doCalibStatus(ctx context.Context, env *Env, level int, _ []string) error {
	dev, err := env.Open(ctx, level)
	if err != nil {
		return err
	}
	st, err := dev.CalibStatus(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(env.Out, st)
	return err
}

func doWatchDefault(ctx context.Context, env *Env, level int, _ []string) error {
	return watch(ctx, env, level, DefaultWatchInterval)
}

func doWatch(ctx context.Context, env *Env, level int, args []string) error {
	ms, err := strconv.Atoi(args[0])
	if err != nil || ms < 10 {
		return &crt.RangeError{What: "Poll interval", Got: strconv.Quote(args[0]), Domain: ">=10 ms"}
	}
	return watch(ctx, env, level, time.Duration(ms)*time.Millisecond)
}

func watch(ctx context.Context, env *Env, level int, interval time.Duration) error {
	dev, err := env.Open(ctx, level)
	if err != nil {
		return err
	}
	p, err := monitor.New(monitor.Config{
		Level:    level,
		Interval: interval,
		Profile:  env.Profile,
	}, dev)
	if err != nil {
		return err
	}
	var sink monitor.Sink
	if env.Publish != nil {
		s, closeSink, err := env.Publish(level)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeSink(); err != nil {
				slog.Warn("close publisher", "err", err)
			}
		}()
		sink = s
	}
	return monitor.Watch(ctx, p, env.Out, slog.Default(), sink)
}
