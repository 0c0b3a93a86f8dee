// cmd/crt8/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sm8crt/crt8/internal/command"
	"github.com/sm8crt/crt8/internal/status"
)

var rootCmd = &cobra.Command{
	Use:   command.ProgramName + " <id> <command> [args]",
	Short: "Current sensing board command-line tool",
	Long: `crt8 reads and configures the eight-channel current sensing board.
Boards are addressed by stack level (0..7). Run "crt8 help" for the
list of board commands or "crt8 help <command>" for one of them.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBoardCommand,
}

func init() {
	// Board commands are positional: stop flag parsing at the board id
	// so a negative channel reaches the range check.
	rootCmd.Flags().SetInterspersed(false)

	pf := rootCmd.PersistentFlags()
	pf.StringP("config", "c", "", "YAML config file")
	pf.String("transport", "", "transport: i2c, modbus-rtu, modbus-tcp or sim")
	pf.String("bus", "", "I2C bus name")
	pf.String("endpoint", "", "Modbus gateway serial device or host:port")
	pf.String("publish", "", "mirror watch output to this Modbus TCP host:port")
	pf.String("lock-dir", "", "directory for read-modify-write lock files")
	pf.String("trace", "", "append a CBOR capture of every bus transaction to this file")
	pf.String("log-level", "", "debug, info, warn or error")

	bindFlags(pf)

	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(listCmd, shellCmd, traceCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		command.Report(os.Stderr, err)
		os.Exit(int(status.FromError(err)))
	}
}

func runBoardCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.closeLogged()

	return command.Run(cmd.Context(), rt.Env(cmd.OutOrStdout()), args)
}
