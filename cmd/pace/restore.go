package main

import (
	"fmt"

	"github.com/jacksmith/pace/internal/ops"
	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Reopen a completed todo",
	Long: `Reopen a completed todo. Its completion time is cleared and the
project's completed count is decremented. Progress is kept as-is.`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	id, err := parseTodoID(args[0])
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}

	if err := ops.RestoreTodo(s, id); err != nil {
		return err
	}

	fmt.Printf("restored #%d\n", id)
	return nil
}
