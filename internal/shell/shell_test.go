// internal/shell/shell_test.go
package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sm8crt/crt8/internal/board"
	"github.com/sm8crt/crt8/internal/bus"
	"github.com/sm8crt/crt8/internal/command"
	"github.com/sm8crt/crt8/internal/crt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simEnv(m *bus.Memory) (*command.Env, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &command.Env{
		Profile: crt.DefaultProfile(),
		Out:     out,
		Open: func(ctx context.Context, level int) (command.Device, error) {
			b, err := board.Open(ctx, m, level, board.Options{})
			if err != nil {
				return nil, err
			}
			return b, nil
		},
	}, out
}

func TestExec_BoardCommand(t *testing.T) {
	m := bus.NewMemory()
	m.Poke(board.DefaultAddressBase+1, crt.RegRange+2, 0x32, 0x00)
	env, out := simEnv(m)

	require.NoError(t, Exec(context.Background(), env, "  1 rrd   2 "))
	assert.Equal(t, "50\n", out.String())
}

func TestExec_Blank(t *testing.T) {
	env, out := simEnv(bus.NewMemory())
	require.NoError(t, Exec(context.Background(), env, "   "))
	assert.Empty(t, out.String())
}

func TestExec_Quit(t *testing.T) {
	env, _ := simEnv(bus.NewMemory())
	for _, line := range []string{"quit", "EXIT", "q"} {
		assert.ErrorIs(t, Exec(context.Background(), env, line), errQuit)
	}
}

func TestExec_Help(t *testing.T) {
	env, out := simEnv(bus.NewMemory())
	require.NoError(t, Exec(context.Background(), env, "help rd"))
	assert.Contains(t, out.String(), "crt8 <id> rd <channel>")
}

func TestExec_ErrorsPassThrough(t *testing.T) {
	m := bus.NewMemory()
	m.AttachAll()
	env, _ := simEnv(m)

	assert.ErrorIs(t, Exec(context.Background(), env, "0 rd 9"), crt.ErrRange)
	assert.ErrorIs(t, Exec(context.Background(), env, "0 rd"), crt.ErrArgCount)
	assert.Zero(t, m.Txs)
}

func TestCompleter_OffersConfiguredLevels(t *testing.T) {
	var names []string
	for _, c := range completer(3).GetChildren() {
		names = append(names, strings.TrimSpace(string(c.GetName())))
	}
	assert.Contains(t, names, "0")
	assert.Contains(t, names, "2")
	assert.NotContains(t, names, "3")
	assert.Contains(t, names, "help")
}
