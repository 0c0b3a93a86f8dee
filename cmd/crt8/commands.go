// cmd/crt8/commands.go
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sm8crt/crt8/internal/board"
	"github.com/sm8crt/crt8/internal/bus"
	"github.com/sm8crt/crt8/internal/command"
	"github.com/sm8crt/crt8/internal/shell"
)

// version is set at link time with -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the program version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", command.ProgramName, version)
	},
}

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "List board commands or show the usage of one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			fmt.Fprintf(out, "Usage: %s <id> <command> [args]\n\nBoard commands:\n", command.ProgramName)
			command.PrintList(out)
			fmt.Fprintln(out)
			return cmd.Root().Usage()
		}
		return command.Help(out, args[0])
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stack levels of every board that answers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := setup()
		if err != nil {
			return err
		}
		defer rt.closeLogged()

		levels, err := board.Scan(cmd.Context(), rt.bus, rt.boardOptions())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d board(s) detected\n", len(levels))
		for _, l := range levels {
			fmt.Fprintf(out, "Id: %d\n", l)
		}
		return nil
	},
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run board commands interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := setup()
		if err != nil {
			return err
		}
		defer rt.closeLogged()

		sh, err := shell.New(*rt.Env(nil), rt.boardOptions().StackLevels)
		if err != nil {
			return err
		}
		// Keep diagnostics from tearing the prompt.
		if err := rt.setLogOutput(sh.Stderr()); err != nil {
			return err
		}
		return sh.Run(cmd.Context())
	},
}

var traceCmd = &cobra.Command{
	Use:   "trace <file>",
	Short: "Print a CBOR bus capture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		out := cmd.OutOrStdout()
		return bus.ReadTrace(f, func(ev bus.Event) error {
			_, err := fmt.Fprintln(out, formatEvent(ev))
			return err
		})
	},
}

func formatEvent(ev bus.Event) string {
	line := fmt.Sprintf("%s %.8s 0x%02X w=% X",
		ev.Time.Format(time.RFC3339Nano), ev.Session, ev.Addr, ev.Write)
	if len(ev.Read) > 0 {
		line += fmt.Sprintf(" r=% X", ev.Read)
	}
	if ev.Err != "" {
		line += " err=" + ev.Err
	}
	return line
}
