package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"todolist/storage"
)

var (
	ErrMissingArgument = errors.New("missing argument")
	ErrInvalidID       = errors.New("invalid task id")
)

// Handler runs a command against the dispatcher's registry and returns the
// message to show the user. A non-nil error means the registry was not changed.
type Handler func(d *Dispatcher, args []string) (string, error)

// Command represents a CLI command
type Command struct {
	Name        string
	Usage       string
	Description string
	Handler     Handler
	Mutates     bool // if true, a successful run is followed by a save
	Quit        bool // if true, the session ends after this command
	Hidden      bool // if true, exclude from help output
}

// Result is the outcome of one dispatched command
type Result struct {
	Output string
	Quit   bool
	Saved  bool
}

var commandTable = make(map[string]*Command)

// Register adds a command to the command table
func Register(cmd *Command) {
	commandTable[strings.ToLower(cmd.Name)] = cmd
}

// Lookup returns the command with the given name, or nil
func Lookup(name string) *Command {
	return commandTable[strings.ToLower(name)]
}

// List returns all registered commands
func List() []*Command {
	cmds := make([]*Command, 0, len(commandTable))
	for _, cmd := range commandTable {
		cmds = append(cmds, cmd)
	}
	return cmds
}

// Dispatcher maps tokenized command lines onto registry operations
type Dispatcher struct {
	registry *storage.Registry
	store    storage.Store
	logger   *log.Logger
}

// NewDispatcher creates a dispatcher that mutates registry and persists
// through store. A nil logger discards log output.
func NewDispatcher(registry *storage.Registry, store storage.Store, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Dispatcher{
		registry: registry,
		store:    store,
		logger:   logger,
	}
}

// Registry returns the registry the dispatcher operates on
func (d *Dispatcher) Registry() *storage.Registry {
	return d.registry
}

// Tokenize splits a raw input line into a command word and its arguments
func Tokenize(line string) []string {
	return strings.Fields(line)
}

// ExecuteLine tokenizes and executes one input line
func (d *Dispatcher) ExecuteLine(line string) Result {
	return d.Execute(Tokenize(line))
}

// Execute runs one command. Unknown or empty commands resolve to help.
func (d *Dispatcher) Execute(tokens []string) Result {
	var (
		cmd  *Command
		args []string
	)
	if len(tokens) > 0 {
		cmd = Lookup(tokens[0])
		args = tokens[1:]
	}
	if cmd == nil {
		cmd = Lookup("help")
	}

	d.logger.Debug("dispatch", "command", cmd.Name, "args", len(args))

	output, err := cmd.Handler(d, args)
	if err != nil {
		return Result{Output: d.errorMessage(cmd, err)}
	}

	result := Result{Output: output, Quit: cmd.Quit}
	if !cmd.Mutates {
		return result
	}

	// Best effort: a failed save leaves the in-memory change in place
	if err := d.store.Save(d.registry.Snapshot()); err != nil {
		d.logger.Warn("changes not saved", "command", cmd.Name, "err", err)
		result.Output += fmt.Sprintf("\nWarning: changes not saved: %v", err)
		return result
	}

	result.Saved = true
	return result
}

func (d *Dispatcher) errorMessage(cmd *Command, err error) string {
	if errors.Is(err, ErrMissingArgument) {
		return "Usage: " + cmd.Usage
	}
	return fmt.Sprintf("Error: %v", err)
}

// parseID parses a task id token as an unsigned integer
func parseID(token string) (uint64, error) {
	id, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, token)
	}
	return id, nil
}
