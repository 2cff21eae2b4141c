package main

import (
	"fmt"

	"github.com/jacksmith/pace/internal/csvio"
	"github.com/spf13/cobra"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export everything to CSV files",
	Long: `Export projects, todos, KPIs, and KPI records to CSV files in a
timestamped directory.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", ".", "directory to export into")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	doc, err := s.Load()
	if err != nil {
		return err
	}

	dir, err := csvio.Export(doc, exportDir)
	if err != nil {
		return err
	}

	fmt.Printf("exported to %s\n", dir)
	return nil
}
