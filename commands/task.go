package commands

import (
	"fmt"
	"strings"

	"todolist/storage"
)

// emptyListMessage is what show prints for a registry with no tasks
const emptyListMessage = "Empty todo list"

func init() {
	Register(&Command{
		Name:        "add",
		Usage:       "add <description>",
		Description: "Add a new task to the todo list",
		Mutates:     true,
		Handler: func(d *Dispatcher, args []string) (string, error) {
			if len(args) == 0 {
				return "", ErrMissingArgument
			}

			description := strings.Join(args, " ")
			id, err := d.registry.Add(description)
			if err != nil {
				return "", err
			}

			return fmt.Sprintf("Added task %d: %s\n%s", id, description, RenderTasks(d.registry.List())), nil
		},
	})

	Register(&Command{
		Name:        "show",
		Usage:       "show",
		Description: "Display the todo list",
		Handler: func(d *Dispatcher, args []string) (string, error) {
			return RenderTasks(d.registry.List()), nil
		},
	})

	Register(&Command{
		Name:        "delete",
		Usage:       "delete <task-id>",
		Description: "Delete a task",
		Mutates:     true,
		Handler: func(d *Dispatcher, args []string) (string, error) {
			if len(args) == 0 {
				return "", ErrMissingArgument
			}

			id, err := parseID(args[0])
			if err != nil {
				return "", err
			}

			if err := d.registry.Remove(id); err != nil {
				return "", err
			}

			return fmt.Sprintf("Deleted task %d", id), nil
		},
	})

	Register(&Command{
		Name:        "update",
		Usage:       "update <task-id> <new description>",
		Description: "Change the description of a task",
		Mutates:     true,
		Handler: func(d *Dispatcher, args []string) (string, error) {
			if len(args) < 2 {
				return "", ErrMissingArgument
			}

			id, err := parseID(args[0])
			if err != nil {
				return "", err
			}

			description := strings.Join(args[1:], " ")
			if err := d.registry.UpdateDescription(id, description); err != nil {
				return "", err
			}

			return fmt.Sprintf("Updated task %d\n%s", id, d.taskLine(id)), nil
		},
	})

	Register(&Command{
		Name:        "done",
		Usage:       "done <task-id>",
		Description: "Mark a task as completed",
		Mutates:     true,
		Handler: func(d *Dispatcher, args []string) (string, error) {
			if len(args) == 0 {
				return "", ErrMissingArgument
			}

			id, err := parseID(args[0])
			if err != nil {
				return "", err
			}

			if err := d.registry.MarkCompleted(id); err != nil {
				return "", err
			}

			return fmt.Sprintf("Marked task %d as done ✓\n%s", id, d.taskLine(id)), nil
		},
	})
}

// RenderTasks formats tasks one per line, or the empty-list message
func RenderTasks(tasks []storage.Task) string {
	if len(tasks) == 0 {
		return emptyListMessage
	}

	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, renderTask(t))
	}

	return strings.Join(lines, "\n")
}

func renderTask(t storage.Task) string {
	status := "[ ]"
	if t.Completed {
		status = "[✓]"
	}
	return fmt.Sprintf("%s %d %s", status, t.ID, t.Description)
}

// taskLine formats the current state of one task
func (d *Dispatcher) taskLine(id uint64) string {
	task, ok := d.registry.Get(id)
	if !ok {
		return ""
	}
	return renderTask(task)
}
