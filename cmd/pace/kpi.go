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

var kpiCmd = &cobra.Command{
	Use:   "kpi",
	Short: "Manage KPIs (daily-checkable habits)",
	Long: `Manage KPIs: recurring habits checked off per calendar day. A KPI can
link to a todo; checking it off adds the KPI's target to the todo's
progress.`,
}

var kpiAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new KPI",
	Long: `Add a KPI. Link it to a todo with --todo, or name a project with
--project to borrow its unit.

Examples:
  pace kpi add "Read daily" --todo=3 --target=50
  pace kpi add "Stretch" --project=Running --target=10 --duration=one_week
  pace kpi add "Review" --project=Reading --target=1 --period=custom --custom-days=3`,
	Args: cobra.ExactArgs(1),
	RunE: runKpiAdd,
}

var kpiLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List KPIs active on a date",
	Long: `List the KPIs active on a date (today by default), unchecked ones
first.`,
	Args: cobra.NoArgs,
	RunE: runKpiLs,
}

var kpiToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Toggle a KPI's completion for a date",
	Long: `Toggle whether a KPI was completed on a date (today by default).
Checking a linked KPI adds its target to the todo's progress; unchecking
subtracts it again, floored at zero.`,
	Args: cobra.ExactArgs(1),
	RunE: runKpiToggle,
}

var kpiRateCmd = &cobra.Command{
	Use:   "rate <id>",
	Short: "Show a KPI's completion rate over a date range",
	Args:  cobra.ExactArgs(1),
	RunE:  runKpiRate,
}

var kpiRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a KPI and its records",
	Long: `Delete a KPI and all of its completion records. Progress it already
pushed into a linked todo is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runKpiRm,
}

var (
	kpiTodoID     int
	kpiProject    string
	kpiTarget     float64
	kpiPeriod     string
	kpiCustomDays int
	kpiDuration   string
	kpiDate       string
	kpiRateStart  string
	kpiRateEnd    string
)

func init() {
	kpiAddCmd.Flags().IntVar(&kpiTodoID, "todo", 0, "todo id to link")
	kpiAddCmd.Flags().StringVar(&kpiProject, "project", "", "project to borrow the unit from")
	kpiAddCmd.Flags().Float64Var(&kpiTarget, "target", 0, "amount per check-off")
	kpiAddCmd.Flags().StringVar(&kpiPeriod, "period", "daily", "period: daily, weekly, monthly, custom")
	kpiAddCmd.Flags().IntVar(&kpiCustomDays, "custom-days", 0, "period length in days (custom period only)")
	kpiAddCmd.Flags().StringVar(&kpiDuration, "duration", "forever", "active window: one_week, one_month, forever")
	kpiAddCmd.MarkFlagRequired("target")

	kpiLsCmd.Flags().StringVar(&kpiDate, "date", "", "date to list for (YYYY-MM-DD, default today)")
	kpiToggleCmd.Flags().StringVar(&kpiDate, "date", "", "date to toggle (YYYY-MM-DD, default today)")

	kpiRateCmd.Flags().StringVar(&kpiRateStart, "from", "", "range start (YYYY-MM-DD)")
	kpiRateCmd.Flags().StringVar(&kpiRateEnd, "to", "", "range end (YYYY-MM-DD, default today)")
	kpiRateCmd.MarkFlagRequired("from")

	kpiCmd.AddCommand(kpiAddCmd)
	kpiCmd.AddCommand(kpiLsCmd)
	kpiCmd.AddCommand(kpiToggleCmd)
	kpiCmd.AddCommand(kpiRateCmd)
	kpiCmd.AddCommand(kpiRmCmd)
	rootCmd.AddCommand(kpiCmd)
}

func runKpiAdd(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}

	opts := ops.KpiOptions{
		Name:         args[0],
		PeriodType:   model.PeriodType(kpiPeriod),
		CustomDays:   kpiCustomDays,
		Target:       kpiTarget,
		ProjectName:  kpiProject,
		DurationType: model.DurationType(kpiDuration),
	}
	if cmd.Flags().Changed("todo") {
		opts.TodoID = &kpiTodoID
	}

	kpi, err := ops.AddKpi(s, opts)
	if err != nil {
		return err
	}

	fmt.Printf("kpi #%d %s (%g %s per check)\n", kpi.ID, kpi.Name, kpi.Target, kpi.Unit)
	return nil
}

func runKpiLs(cmd *cobra.Command, args []string) error {
	date, err := parseDateFlag(kpiDate)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}

	doc, err := s.Load()
	if err != nil {
		return err
	}

	kpis := ops.KpisForDate(doc, date)
	if len(kpis) == 0 {
		fmt.Printf("no KPIs active on %s\n", date)
		return nil
	}

	table := cli.NewTable("ID", "NAME", "TARGET", "PERIOD", "LINKED", "DONE")
	for _, k := range kpis {
		linked := "-"
		if todo := doc.LinkedTodo(k); todo != nil {
			linked = fmt.Sprintf("#%d %s", todo.ID, cli.Truncate(todo.Name, 20))
		}
		done := cli.Red("no")
		if doc.KpiRecords.Completed(k.ID, date) {
			done = cli.Green("yes")
		}
		period := string(k.PeriodType)
		if k.CustomDays != nil {
			period = fmt.Sprintf("every %d days", *k.CustomDays)
		}
		table.AddRow(
			strconv.Itoa(k.ID),
			cli.Truncate(k.Name, 30),
			fmt.Sprintf("%g %s", k.Target, k.Unit),
			period,
			linked,
			done,
		)
	}
	table.Render(os.Stdout)
	return nil
}

func runKpiToggle(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid kpi id %q", args[0])
	}
	date, err := parseDateFlag(kpiDate)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}

	completed, err := ops.ToggleKpi(s, id, date)
	if err != nil {
		return err
	}

	if completed {
		fmt.Printf("kpi #%d checked for %s\n", id, date)
	} else {
		fmt.Printf("kpi #%d unchecked for %s\n", id, date)
	}
	return nil
}

func runKpiRate(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid kpi id %q", args[0])
	}
	start, err := model.ParseDate(kpiRateStart)
	if err != nil {
		return err
	}
	end, err := parseDateFlag(kpiRateEnd)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}

	doc, err := s.Load()
	if err != nil {
		return err
	}

	if doc.FindKpi(id) == nil {
		return &cli.NotFoundError{Kind: "kpi", Key: args[0]}
	}

	rate, err := ops.CompletionRate(doc, id, start, end)
	if err != nil {
		return err
	}

	pct := fmt.Sprintf("%.1f%%", rate*100)
	switch {
	case rate >= 0.8:
		pct = cli.Green(pct)
	case rate >= 0.5:
		pct = cli.Yellow(pct)
	default:
		pct = cli.Red(pct)
	}
	fmt.Printf("%s to %s: %s\n", start, end, pct)
	return nil
}

func runKpiRm(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid kpi id %q", args[0])
	}

	s, err := openStore()
	if err != nil {
		return err
	}

	if err := ops.DeleteKpi(s, id); err != nil {
		return err
	}

	fmt.Printf("deleted kpi #%d\n", id)
	return nil
}
