package main

import (
	"fmt"

	"github.com/jacksmith/pace/internal/model"
	"github.com/jacksmith/pace/internal/ops"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a todo",
	Long: `Edit a todo's name, target, deadline, or progress. Only the flags you
pass change; a validation failure leaves the todo untouched. Progress can
only be edited on absolute todos and is clamped to the target.

Examples:
  pace edit 3 --name="Book One"
  pace edit 3 --target=350 --progress=120`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editName     string
	editTarget   float64
	editDeadline string
	editProgress float64
)

func init() {
	editCmd.Flags().StringVar(&editName, "name", "", "new name")
	editCmd.Flags().Float64Var(&editTarget, "target", 0, "new target")
	editCmd.Flags().StringVar(&editDeadline, "deadline", "", "new deadline (YYYY-MM-DD)")
	editCmd.Flags().Float64Var(&editProgress, "progress", 0, "new progress (absolute todos only)")

	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseTodoID(args[0])
	if err != nil {
		return err
	}

	var changes ops.TodoChanges
	if cmd.Flags().Changed("name") {
		changes.Name = &editName
	}
	if cmd.Flags().Changed("target") {
		changes.Target = &editTarget
	}
	if cmd.Flags().Changed("deadline") {
		deadline, err := model.ParseDate(editDeadline)
		if err != nil {
			return err
		}
		changes.Deadline = &deadline
	}
	if cmd.Flags().Changed("progress") {
		changes.Progress = &editProgress
	}

	if changes == (ops.TodoChanges{}) {
		return fmt.Errorf("nothing to change (pass --name, --target, --deadline, or --progress)")
	}

	s, err := openStore()
	if err != nil {
		return err
	}

	if err := ops.EditTodo(s, id, changes); err != nil {
		return err
	}

	fmt.Printf("updated #%d\n", id)
	return nil
}
