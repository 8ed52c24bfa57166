package commands

import (
	"fmt"
	"sort"
	"strings"
)

func init() {
	Register(&Command{
		Name:        "help",
		Usage:       "help",
		Description: "Show available commands",
		Handler: func(d *Dispatcher, args []string) (string, error) {
			return HelpText(), nil
		},
	})
}

// HelpText lists the visible commands sorted by name
func HelpText() string {
	cmds := List()
	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].Name < cmds[j].Name
	})

	var b strings.Builder
	b.WriteString("Available commands:")
	for _, cmd := range cmds {
		if cmd.Hidden {
			continue
		}
		fmt.Fprintf(&b, "\n  %-36s - %s", cmd.Usage, cmd.Description)
	}
	b.WriteString("\n\ntask-id is the number shown next to each task by show.")

	return b.String()
}
