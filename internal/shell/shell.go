// internal/shell/shell.go
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sm8crt/crt8/internal/command"
	"github.com/sm8crt/crt8/internal/status"
)

// Prompt is shown before every input line.
const Prompt = command.ProgramName + "> "

// errQuit ends the loop without an error.
var errQuit = errors.New("quit")

// Shell runs board commands interactively against one open bus.
type Shell struct {
	rl  *readline.Instance
	env command.Env
}

// New creates a shell over env. env.Out is replaced by the
// readline-aware stdout. levels is the number of stack levels offered
// by tab completion.
func New(env command.Env, levels int) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          Prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(levels),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	env.Out = rl.Stdout()
	return &Shell{rl: rl, env: env}, nil
}

// Stderr returns a writer that coordinates with the prompt.
// Loggers used while the shell runs should write here.
func (s *Shell) Stderr() io.Writer {
	return s.rl.Stderr()
}

// Run reads lines until EOF, "quit" or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	defer s.rl.Close()

	fmt.Fprintln(s.rl.Stdout(), "Type 'help' for commands, 'quit' to leave.")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}

		if err := Exec(ctx, &s.env, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			command.Report(s.rl.Stdout(), err)
			slog.Debug("command failed", "line", line, "code", status.FromError(err))
		}
	}
}

// Exec runs one input line:
//
//	<id> <verb> [args...]
//	help [verb]
//	quit | exit
func Exec(ctx context.Context, env *command.Env, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		verb := ""
		if len(fields) > 1 {
			verb = fields[1]
		}
		return command.Help(env.Out, verb)
	}

	return command.Run(ctx, env, fields)
}

func completer(levels int) *readline.PrefixCompleter {
	verbs := make([]readline.PrefixCompleterInterface, 0, len(command.Commands()))
	for _, c := range command.Commands() {
		verbs = append(verbs, readline.PcItem(c.Verb))
	}
	items := []readline.PrefixCompleterInterface{
		readline.PcItem("help", verbs...),
		readline.PcItem("quit"),
	}
	for level := 0; level < levels; level++ {
		items = append(items, readline.PcItem(fmt.Sprint(level), verbs...))
	}
	return readline.NewPrefixCompleter(items...)
}
