package main

import (
	"fmt"

	"github.com/jacksmith/pace/internal/ops"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a todo",
	Long: `Delete a todo outright. KPIs linked to it stay; their link simply
stops resolving.`,
	Args: cobra.ExactArgs(1),
	RunE: runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	id, err := parseTodoID(args[0])
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}

	if err := ops.DeleteTodo(s, id); err != nil {
		return err
	}

	fmt.Printf("deleted #%d\n", id)
	return nil
}
