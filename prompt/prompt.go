// Package prompt runs the interactive read-dispatch-print loop.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"todolist/commands"
)

// LineReader reads one line of user input per call
type LineReader interface {
	Readline() (string, error)
}

// Run feeds lines from reader into d and writes each result to out.
// It returns nil when the user exits, input ends, or Ctrl-C is pressed on
// an empty line.
func Run(reader LineReader, d *commands.Dispatcher, out io.Writer) error {
	for {
		line, err := reader.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if strings.TrimSpace(line) == "" {
				return nil
			}
			// Ctrl-C on a partial line discards it
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		result := d.ExecuteLine(line)
		if result.Output != "" {
			fmt.Fprintln(out, result.Output)
		}
		if result.Quit {
			return nil
		}
	}
}

// NewReadline creates a readline instance with the given prompt and
// optional history file
func NewReadline(promptText, historyFile string) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          promptText,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
}
