package main

import (
	"fmt"

	"github.com/jacksmith/pace/internal/csvio"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import data from exported CSV files",
	Long: `Import one or more CSV files produced by export. The kind of each
file is taken from its name (projects.csv, todos.csv, kpis.csv,
kpi_records.csv). Rows merge by natural key, so importing the same file
twice is a no-op.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	for _, path := range args {
		sum, err := csvio.Import(s, path)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", path, sum)
	}
	return nil
}
