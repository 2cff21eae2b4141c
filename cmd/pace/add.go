package main

import (
	"fmt"

	"github.com/jacksmith/pace/internal/model"
	"github.com/jacksmith/pace/internal/ops"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new todo",
	Long: `Add a todo under a project. The unit and progress type come from the
project; progress starts at zero.

Examples:
  pace add "Book1" -p Reading --target=300
  pace add "Marathon prep" -p Running --target=600 --deadline=2026-12-31`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var (
	addProject  string
	addTarget   float64
	addDeadline string
)

func init() {
	addCmd.Flags().StringVarP(&addProject, "project", "p", "", "project name")
	addCmd.Flags().Float64Var(&addTarget, "target", 0, "numeric target")
	addCmd.Flags().StringVar(&addDeadline, "deadline", "", "deadline (YYYY-MM-DD)")
	addCmd.MarkFlagRequired("project")
	addCmd.MarkFlagRequired("target")

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	var deadline model.Date
	if addDeadline != "" {
		deadline, err = model.ParseDate(addDeadline)
		if err != nil {
			return err
		}
	}

	todo, err := ops.AddTodo(s, args[0], addProject, addTarget, deadline)
	if err != nil {
		return err
	}

	fmt.Printf("#%d %s (target %g %s)\n", todo.ID, todo.Name, todo.Target, todo.Unit)
	return nil
}
