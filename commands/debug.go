package commands

import "github.com/charmbracelet/log"

func init() {
	Register(&Command{
		Name:        "debug",
		Usage:       "debug",
		Description: "Toggle debug logging",
		Hidden:      true,
		Handler: func(d *Dispatcher, args []string) (string, error) {
			if d.IsDebugMode() {
				d.logger.SetLevel(log.InfoLevel)
				return "Debug mode: OFF", nil
			}
			d.logger.SetLevel(log.DebugLevel)
			return "Debug mode: ON", nil
		},
	})
}

// IsDebugMode returns whether debug logging is enabled
func (d *Dispatcher) IsDebugMode() bool {
	return d.logger.GetLevel() <= log.DebugLevel
}
