// internal/command/help.go
package command

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sm8crt/crt8/internal/crt"
)

// PrintUsage writes the help block of one command.
func PrintUsage(w io.Writer, c *Command) {
	fmt.Fprintf(w, "  %-16s %s\n", c.Verb, c.Help)
	fmt.Fprint(w, c.Usage())
	fmt.Fprintf(w, "  %-16s %s\n", "Example:", c.Example)
}

// PrintList writes a one-line summary of every command.
func PrintList(w io.Writer) {
	for _, c := range Commands() {
		fmt.Fprintf(w, "  %-16s %s\n", c.Verb, c.Help)
	}
}

// Help writes the usage of verb, or the command list when verb is empty.
func Help(w io.Writer, verb string) error {
	verb = strings.TrimSpace(verb)
	if verb == "" {
		PrintList(w)
		return nil
	}
	c, ok := Lookup(verb)
	if !ok {
		return fmt.Errorf("no help for unknown command %q", verb)
	}
	PrintUsage(w, c)
	return nil
}

// Report writes err for a user. Arity errors are followed by the
// usage of the verb, or by the command list.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, err)

	var ace *crt.ArgCountError
	if !errors.As(err, &ace) {
		return
	}
	if c, ok := Lookup(ace.Verb); ok {
		PrintUsage(w, c)
		return
	}
	fmt.Fprintf(w, "Usage: %s <id> <command> [args]\n", ProgramName)
	PrintList(w)
}
