package commands

func init() {
	Register(&Command{
		Name:        "exit",
		Usage:       "exit",
		Description: "Exit the program",
		Quit:        true,
		Handler: func(d *Dispatcher, args []string) (string, error) {
			return "Goodbye!", nil
		},
	})

	// Alias
	Register(&Command{
		Name:        "quit",
		Usage:       "quit",
		Description: "Exit the program",
		Quit:        true,
		Hidden:      true,
		Handler: func(d *Dispatcher, args []string) (string, error) {
			return "Goodbye!", nil
		},
	})
}
