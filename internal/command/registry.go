// internal/command/registry.go
package command

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sm8crt/crt8/internal/board"
	"github.com/sm8crt/crt8/internal/crt"
	"github.com/sm8crt/crt8/internal/monitor"
)

// ProgramName is used in usage and example lines.
const ProgramName = "crt8"

// Device is the board handle the handlers drive.
// *board.Board implements it.
type Device interface {
	ReadMem(ctx context.Context, reg uint8, buf []byte) error
	WriteMem(ctx context.Context, reg uint8, data []byte) error
	UpdateByte(ctx context.Context, reg uint8, fn func(byte) byte) error

	Calibrator

	Info(ctx context.Context) (hw, fw board.Version, err error)
	CalibStatus(ctx context.Context) (board.CalibStatus, error)
}

// Calibrator is the external calibration service.
type Calibrator interface {
	CalibSet(ctx context.Context, ch uint8, value float32) error
	CalibReset(ctx context.Context, ch uint8) error
}

// Opener acquires the board at a stack level.
type Opener func(ctx context.Context, level int) (Device, error)

// Publisher connects the watch output of one board to a Modbus target.
// A nil Publisher disables publishing.
type Publisher func(level int) (monitor.Sink, func() error, error)

// Env is everything a handler needs from the process.
type Env struct {
	Profile crt.Profile
	Open    Opener
	Publish Publisher
	Out     io.Writer
}

// Handler runs one operation. args excludes the board id and verb,
// and its length already matches the variant's arity.
type Handler func(ctx context.Context, env *Env, level int, args []string) error

// Variant is one argument shape of a verb.
type Variant struct {
	Args  int
	Usage string
	Run   Handler
}

// Command describes one verb.
type Command struct {
	Verb     string
	Help     string
	Example  string
	Variants []Variant
}

// Select picks the variant matching n arguments.
// The arity branch lives here so each handler body has one shape.
func (c *Command) Select(n int) (Variant, error) {
	for _, v := range c.Variants {
		if v.Args == n {
			return v, nil
		}
	}
	return Variant{}, &crt.ArgCountError{Verb: c.Verb, Got: n}
}

// Usage renders the usage lines of every variant.
func (c *Command) Usage() string {
	var sb strings.Builder
	for i, v := range c.Variants {
		label := "Usage:"
		if len(c.Variants) > 1 {
			label = fmt.Sprintf("Usage %d:", i+1)
		}
		line := strings.TrimSpace(fmt.Sprintf("%s <id> %s %s", ProgramName, c.Verb, v.Usage))
		fmt.Fprintf(&sb, "  %-16s %s\n", label, line)
	}
	return sb.String()
}

// Lookup finds a verb. Verbs are matched case-insensitively.
func Lookup(verb string) (*Command, bool) {
	for i := range commands {
		if strings.EqualFold(commands[i].Verb, verb) {
			return &commands[i], true
		}
	}
	return nil, false
}

// Commands returns the verbs in help order.
func Commands() []Command {
	out := make([]Command, len(commands))
	copy(out, commands[:])
	return out
}

// Run dispatches argv = <id> <verb> [args...].
// Arity is checked first, before the board id is parsed or the board touched.
func Run(ctx context.Context, env *Env, argv []string) error {
	if len(argv) < 2 {
		return &crt.ArgCountError{Verb: ProgramName, Got: len(argv)}
	}

	cmd, ok := Lookup(argv[1])
	if !ok {
		return fmt.Errorf("invalid command %q, type \"%s -h\" for help", argv[1], ProgramName)
	}

	args := argv[2:]
	v, err := cmd.Select(len(args))
	if err != nil {
		return err
	}

	level, err := strconv.Atoi(argv[0])
	if err != nil {
		return &crt.RangeError{What: "Board id", Got: strconv.Quote(argv[0]), Domain: "stack level number"}
	}

	return v.Run(ctx, env, level, args)
}
