// internal/command/handlers.go
package command

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sm8crt/crt8/internal/crt"
)

// Every channel handler follows the same linear sequence:
// validate arguments, acquire the board, compute the address,
// do the bus I/O, then decode and print. Any failure short-circuits.

// readChannel validates arg, acquires the board and reads one
// Stride-wide sample of kind.
func readChannel(ctx context.Context, env *Env, level int, kind crt.Kind, arg string) ([]byte, error) {
	ch, err := env.Profile.ParseChannel(arg)
	if err != nil {
		return nil, err
	}
	dev, err := env.Open(ctx, level)
	if err != nil {
		return nil, err
	}
	addr, err := env.Profile.Address(kind, ch)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, crt.Stride)
	if err := dev.ReadMem(ctx, addr, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func doCurrentRead(ctx context.Context, env *Env, level int, args []string) error {
	raw, err := readChannel(ctx, env, level, crt.KindCurrent, args[0])
	if err != nil {
		return err
	}
	v, err := env.Profile.DecodeCurrent(raw)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(env.Out, "%0.2f\n", v)
	return err
}

func doCurrentRMSRead(ctx context.Context, env *Env, level int, args []string) error {
	raw, err := readChannel(ctx, env, level, crt.KindCurrentRMS, args[0])
	if err != nil {
		return err
	}
	v, err := env.Profile.DecodeRMS(raw)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(env.Out, "%0.2f\n", v)
	return err
}

func doRangeRead(ctx context.Context, env *Env, level int, args []string) error {
	raw, err := readChannel(ctx, env, level, crt.KindRange, args[0])
	if err != nil {
		return err
	}
	v, err := crt.DecodeRange(raw)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(env.Out, "%d\n", v)
	return err
}

func doRangeWrite(ctx context.Context, env *Env, level int, args []string) error {
	ch, err := env.Profile.ParseChannel(args[0])
	if err != nil {
		return err
	}
	amps, err := env.Profile.ParseRange(args[1])
	if err != nil {
		return err
	}
	raw, err := env.Profile.EncodeRange(amps)
	if err != nil {
		return err
	}
	dev, err := env.Open(ctx, level)
	if err != nil {
		return err
	}
	addr, err := env.Profile.Address(crt.KindRange, ch)
	if err != nil {
		return err
	}
	return dev.WriteMem(ctx, addr, raw)
}

// resetToken selects the calibration reset path.
const resetToken = "reset"

func doCalibrate(ctx context.Context, env *Env, level int, args []string) error {
	ch, err := env.Profile.ParseChannel(args[0])
	if err != nil {
		return err
	}

	reset := strings.EqualFold(args[1], resetToken)
	var value float64
	if !reset {
		value, err = strconv.ParseFloat(args[1], 32)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return &crt.RangeError{
				What:   "Calibration value",
				Got:    strconv.Quote(args[1]),
				Domain: "amperes or \"reset\"",
			}
		}
	}

	dev, err := env.Open(ctx, level)
	if err != nil {
		return err
	}
	id := crt.CalibChannel(ch)
	if reset {
		return dev.CalibReset(ctx, id)
	}
	return dev.CalibSet(ctx, id, float32(value))
}

// readSensorTypes reads the whole sensor type byte.
func readSensorTypes(ctx context.Context, dev Device, p crt.Profile) (byte, error) {
	var buf [1]byte
	if err := dev.ReadMem(ctx, p.Registers.SensorType, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func typeToken(set bool) string {
	if set {
		return "1"
	}
	return "0"
}

func doSensorTypeReadAll(ctx context.Context, env *Env, level int, _ []string) error {
	dev, err := env.Open(ctx, level)
	if err != nil {
		return err
	}
	b, err := readSensorTypes(ctx, dev, env.Profile)
	if err != nil {
		return err
	}
	types := env.Profile.SensorTypes(b)
	tokens := make([]string, len(types))
	for i, t := range types {
		tokens[i] = typeToken(t)
	}
	_, err = fmt.Fprintln(env.Out, strings.Join(tokens, " "))
	return err
}

func doSensorTypeRead(ctx context.Context, env *Env, level int, args []string) error {
	ch, err := env.Profile.ParseChannel(args[0])
	if err != nil {
		return err
	}
	dev, err := env.Open(ctx, level)
	if err != nil {
		return err
	}
	addr, err := env.Profile.Address(crt.KindSensorType, ch)
	if err != nil {
		return err
	}
	var buf [1]byte
	if err := dev.ReadMem(ctx, addr, buf[:]); err != nil {
		return err
	}
	_, err = fmt.Fprintln(env.Out, typeToken(crt.BitSet(buf[0], ch)))
	return err
}

func doSensorTypeWriteMask(ctx context.Context, env *Env, level int, args []string) error {
	mask, err := env.Profile.ParseMask(args[0])
	if err != nil {
		return err
	}
	dev, err := env.Open(ctx, level)
	if err != nil {
		return err
	}
	return dev.WriteMem(ctx, env.Profile.Registers.SensorType, []byte{mask})
}

func doSensorTypeWrite(ctx context.Context, env *Env, level int, args []string) error {
	ch, err := env.Profile.ParseChannel(args[0])
	if err != nil {
		return err
	}
	state, err := strconv.Atoi(args[1])
	if err != nil {
		return &crt.RangeError{What: "Sensor type state", Got: strconv.Quote(args[1]), Domain: "0/1"}
	}
	dev, err := env.Open(ctx, level)
	if err != nil {
		return err
	}
	addr, err := env.Profile.Address(crt.KindSensorType, ch)
	if err != nil {
		return err
	}
	return dev.UpdateByte(ctx, addr, func(b byte) byte {
		return crt.WithBit(b, ch, state != 0)
	})
}
