// cmd/crt8/runtime.go
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"tinygo.org/x/drivers"

	"github.com/sm8crt/crt8/internal/board"
	"github.com/sm8crt/crt8/internal/bus"
	"github.com/sm8crt/crt8/internal/command"
	"github.com/sm8crt/crt8/internal/config"
	"github.com/sm8crt/crt8/internal/monitor"
	"github.com/sm8crt/crt8/internal/writer"
)

// v layers flags over CRT8_* environment over the config file.
var v = viper.New()

// overrides maps config keys onto the flags that set them.
var overrides = map[string]string{
	"config":             "config",
	"transport.kind":     "transport",
	"transport.bus":      "bus",
	"transport.endpoint": "endpoint",
	"publish.endpoint":   "publish",
	"lock_dir":           "lock-dir",
	"trace":              "trace",
	"log_level":          "log-level",
}

func bindFlags(fs *pflag.FlagSet) {
	v.SetEnvPrefix("CRT8")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, flag := range overrides {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

// loadConfig reads the file named by --config, applies flag and
// environment overrides, then validates and normalizes.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if path := v.GetString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	set := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	set("transport.kind", &cfg.Transport.Kind)
	set("transport.bus", &cfg.Transport.Bus)
	set("transport.endpoint", &cfg.Transport.Endpoint)
	set("publish.endpoint", &cfg.Publish.Endpoint)
	set("lock_dir", &cfg.LockDir)
	set("trace", &cfg.Trace)
	set("log_level", &cfg.LogLevel)

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// runtime owns the process-wide transport.
type runtime struct {
	cfg     *config.Config
	log     *slog.Logger
	bus     drivers.I2C
	closers []func() error
}

func setup() (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(log)

	b, closeBus, err := bus.Open(cfg.BusConfig())
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, log: log, bus: b, closers: []func() error{closeBus}}

	if cfg.Trace != "" {
		rec, err := bus.NewRecorder(b, cfg.Trace)
		if err != nil {
			_ = rt.Close()
			return nil, err
		}
		log.Debug("bus trace enabled", "path", cfg.Trace, "session", rec.Session())
		rt.bus = rec
		rt.closers = append(rt.closers, rec.Close)
	}

	log.Debug("transport open", "kind", cfg.Transport.Kind)
	return rt, nil
}

// setLogOutput redirects diagnostics, including board logs, to w.
func (rt *runtime) setLogOutput(w io.Writer) error {
	log, err := newLogger(rt.cfg, w)
	if err != nil {
		return err
	}
	rt.log = log
	slog.SetDefault(log)
	return nil
}

func (rt *runtime) boardOptions() board.Options {
	return rt.cfg.BoardOptions(rt.log)
}

// Env wires the command handlers to this runtime.
func (rt *runtime) Env(out io.Writer) *command.Env {
	return &command.Env{
		Profile: rt.cfg.Profile(),
		Out:     out,
		Open: func(ctx context.Context, level int) (command.Device, error) {
			b, err := board.Open(ctx, rt.bus, level, rt.boardOptions())
			if err != nil {
				return nil, err
			}
			return b, nil
		},
		Publish: rt.publisher,
	}
}

// publisher dials the Modbus target of the board at level, if any.
func (rt *runtime) publisher(level int) (monitor.Sink, func() error, error) {
	plan, timeout, ok := rt.cfg.PublishPlan(level)
	if !ok {
		return nil, func() error { return nil }, nil
	}
	p, closeFn, err := writer.Dial(plan, timeout)
	if err != nil {
		return nil, nil, err
	}
	rt.log.Info("publishing watch output", "endpoint", plan.Endpoint, "unit", plan.UnitID)
	return p, closeFn, nil
}

// Close releases the trace file and the transport, newest first.
func (rt *runtime) Close() error {
	var err error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, rt.closers[i]())
	}
	rt.closers = nil
	return err
}

func (rt *runtime) closeLogged() {
	if err := rt.Close(); err != nil {
		rt.log.Warn("close failed", "err", err)
	}
}
