package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jacksmith/pace/internal/cli"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List todos",
	Long: `List todos with their progress. Active todos are shown by default;
use --all to include completed ones.`,
	Args: cobra.NoArgs,
	RunE: runLs,
}

var lsAll bool

func init() {
	lsCmd.Flags().BoolVarP(&lsAll, "all", "a", false, "include completed todos")
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	doc, err := s.Load()
	if err != nil {
		return err
	}

	table := cli.NewTable("ID", "NAME", "PROJECT", "PROGRESS", "DEADLINE", "STATUS")
	shown := 0
	for _, t := range doc.Todos {
		if t.Completed && !lsAll {
			continue
		}
		shown++

		status := cli.Yellow("active")
		if t.Completed {
			status = cli.Green("done")
			if t.CompleteTime != nil {
				status = cli.Green("done " + t.CompleteTime.String())
			}
		}

		progress := fmt.Sprintf("%s %g/%g %s",
			cli.ProgressBar(t.Progress, t.Target, 10), t.Progress, t.Target, t.Unit)

		table.AddRow(
			strconv.Itoa(t.ID),
			cli.Truncate(t.Name, 40),
			t.Type,
			progress,
			t.Deadline.String(),
			status,
		)
	}

	if shown == 0 {
		fmt.Println("no todos")
		return nil
	}
	table.Render(os.Stdout)
	return nil
}
