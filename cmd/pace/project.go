package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jacksmith/pace/internal/cli"
	"github.com/jacksmith/pace/internal/model"
	"github.com/jacksmith/pace/internal/ops"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long:  `Manage projects: the categories todos are created under.`,
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new project",
	Long: `Add a new project with a unit and a progress type.

Examples:
  pace project add Reading --unit=pages
  pace project add Running --unit=minutes --cumulative`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectAdd,
}

var projectRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a project",
	Long: `Delete a project. Todos already created under it are kept and
keep working; only the project's tally disappears.`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectRm,
}

var projectLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List projects with their completed counts",
	Args:  cobra.NoArgs,
	RunE:  runProjectLs,
}

var (
	projectUnit       string
	projectCumulative bool
)

func init() {
	projectAddCmd.Flags().StringVar(&projectUnit, "unit", "", "unit of work (e.g. pages, minutes)")
	projectAddCmd.Flags().BoolVar(&projectCumulative, "cumulative", false, "progress is a running total of increments")
	projectAddCmd.MarkFlagRequired("unit")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectRmCmd)
	projectCmd.AddCommand(projectLsCmd)
	rootCmd.AddCommand(projectCmd)
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	progressType := model.ProgressAbsolute
	if projectCumulative {
		progressType = model.ProgressCumulative
	}

	if err := ops.AddProject(s, args[0], projectUnit, progressType); err != nil {
		return err
	}

	fmt.Printf("added project %s (%s, %s)\n", args[0], projectUnit, progressType)
	return nil
}

func runProjectRm(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	if err := ops.DeleteProject(s, args[0]); err != nil {
		return err
	}

	fmt.Printf("deleted project %s\n", args[0])
	return nil
}

func runProjectLs(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	doc, err := s.Load()
	if err != nil {
		return err
	}

	names := ops.ProjectNames(doc)
	if len(names) == 0 {
		fmt.Println("no projects")
		return nil
	}

	table := cli.NewTable("NAME", "UNIT", "TYPE", "COMPLETED")
	for _, name := range names {
		p := doc.Projects[name]
		table.AddRow(name, p.Unit, string(p.ProgressType), strconv.Itoa(p.Count))
	}
	table.Render(os.Stdout)
	return nil
}
