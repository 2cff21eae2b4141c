package main

import (
	"fmt"
	"strconv"

	"github.com/jacksmith/pace/internal/model"
	"github.com/jacksmith/pace/internal/ops"
	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress <id> <value>",
	Short: "Update a todo's progress",
	Long: `Update a todo's progress. For absolute todos the value is the new
current reading; for cumulative todos it is an increment. Reaching the
target completes the todo and bumps the project's completed count.

Examples:
  pace progress 3 120
  pace progress 7 30`,
	Args: cobra.ExactArgs(2),
	RunE: runProgress,
}

func init() {
	rootCmd.AddCommand(progressCmd)
}

func runProgress(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid todo id %q", args[0])
	}
	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid value %q: must be a number", args[1])
	}

	s, err := openStore()
	if err != nil {
		return err
	}

	todo, err := ops.UpdateProgress(s, id, value)
	if err != nil {
		return err
	}

	if todo.Completed {
		fmt.Printf("#%d %s completed (%g/%g %s)\n", todo.ID, todo.Name, todo.Progress, todo.Target, todo.Unit)
	} else {
		fmt.Printf("#%d %s: %g/%g %s\n", todo.ID, todo.Name, todo.Progress, todo.Target, todo.Unit)
	}
	return nil
}

// parseTodoID is shared by the todo-addressing commands.
func parseTodoID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid todo id %q", arg)
	}
	return id, nil
}

// parseDateFlag parses an optional YYYY-MM-DD flag, defaulting to today.
func parseDateFlag(value string) (model.Date, error) {
	if value == "" {
		return model.Today(), nil
	}
	return model.ParseDate(value)
}
