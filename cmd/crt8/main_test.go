// cmd/crt8/main_test.go
package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sm8crt/crt8/internal/bus"
	"github.com/sm8crt/crt8/internal/config"
	"github.com/sm8crt/crt8/internal/crt"
	"github.com/sm8crt/crt8/internal/status"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		v.Set("trace", "")
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRoot_SimBoardCommand(t *testing.T) {
	out, err := execute(t, "--transport", "sim", "0", "rrd", "1")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestRoot_NegativeChannelIsRangeError(t *testing.T) {
	_, err := execute(t, "--transport", "sim", "0", "rd", "-1")
	assert.ErrorIs(t, err, crt.ErrRange)
	assert.Equal(t, status.ArgRange, status.FromError(err))
}

func TestRoot_ArgCountExitCode(t *testing.T) {
	_, err := execute(t, "--transport", "sim", "0", "rwr", "1")
	assert.Equal(t, status.ArgCount, status.FromError(err))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "crt8 vdev\n", out)
}

func TestHelp_Verb(t *testing.T) {
	out, err := execute(t, "help", "cal")
	require.NoError(t, err)
	assert.Contains(t, out, "crt8 <id> cal <channel> <value(A)|reset>")
}

func TestList_Sim(t *testing.T) {
	out, err := execute(t, "--transport", "sim", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "8 board(s) detected")
}

func TestTrace_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bus.cbor")

	_, err := execute(t, "--transport", "sim", "--trace", path, "0", "rwr", "3", "20")
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var events []bus.Event
	require.NoError(t, bus.ReadTrace(f, func(ev bus.Event) error {
		events = append(events, ev)
		return nil
	}))
	// probe then range write
	require.Len(t, events, 2)
	assert.Equal(t, []byte{crt.RegRange + 4, 20, 0}, events[1].Write)

	out, err := execute(t, "trace", path)
	require.NoError(t, err)
	assert.Contains(t, out, "0x26 w=27 14 00")
}

func TestFormatEvent(t *testing.T) {
	ev := bus.Event{
		Time:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Session: "0123456789abcdef",
		Addr:    0x27,
		Write:   []byte{0x03},
		Read:    []byte{0x10, 0x00},
	}
	assert.Equal(t, "2024-01-02T03:04:05Z 01234567 0x27 w=03 r=10 00", formatEvent(ev))
}

func TestSetLogOutput_RedirectsBoardLogs(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	rt := &runtime{cfg: &config.Config{LogLevel: "info"}, log: prev}
	var buf bytes.Buffer
	require.NoError(t, rt.setLogOutput(&buf))

	slog.Info("shell started")
	rt.boardOptions().Logger.Info("board detected")
	assert.Contains(t, buf.String(), "shell started")
	assert.Contains(t, buf.String(), "board detected")
}
