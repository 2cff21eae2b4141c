// Package csvio implements CSV export and import of the pace document.
// Files are UTF-8 with a BOM so spreadsheet apps open them correctly.
package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/jacksmith/pace/internal/model"
	"github.com/jacksmith/pace/internal/ops"
)

// Canonical export file names. Import sniffs these to decide how to parse.
const (
	ProjectsFile   = "projects.csv"
	TodosFile      = "todos.csv"
	KpisFile       = "kpis.csv"
	KpiRecordsFile = "kpi_records.csv"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	projectHeader   = []string{"name", "unit", "progress_type", "count"}
	todoHeader      = []string{"name", "type", "target", "progress", "progress_type", "deadline", "status", "complete_time"}
	kpiHeader       = []string{"id", "name", "period_type", "custom_days", "target", "unit", "todo_id", "duration_type", "created_at"}
	kpiRecordHeader = []string{"date", "kpi_id", "kpi_name", "completed"}
)

// Status strings used in todos.csv and kpi_records.csv.
const (
	statusCompleted = "completed"
	statusActive    = "active"
)

// Export writes the four CSV files into a timestamped subdirectory of dir
// and returns the created directory.
func Export(doc *model.Document, dir string) (string, error) {
	exportDir := filepath.Join(dir, "export_"+time.Now().Format("20060102_150405"))
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	if err := writeCSV(filepath.Join(exportDir, ProjectsFile), projectHeader, projectRows(doc)); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(exportDir, TodosFile), todoHeader, todoRows(doc)); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(exportDir, KpisFile), kpiHeader, kpiRows(doc)); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(exportDir, KpiRecordsFile), kpiRecordHeader, kpiRecordRows(doc)); err != nil {
		return "", err
	}

	return exportDir, nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func projectRows(doc *model.Document) [][]string {
	var rows [][]string
	for _, name := range ops.ProjectNames(doc) {
		p := doc.Projects[name]
		rows = append(rows, []string{
			name,
			p.Unit,
			string(p.ProgressType),
			strconv.Itoa(p.Count),
		})
	}
	return rows
}

func todoRows(doc *model.Document) [][]string {
	var rows [][]string
	for _, t := range doc.Todos {
		status := statusActive
		if t.Completed {
			status = statusCompleted
		}
		completeTime := ""
		if t.CompleteTime != nil {
			completeTime = t.CompleteTime.String()
		}
		rows = append(rows, []string{
			t.Name,
			t.Type,
			formatFloat(t.Target),
			formatFloat(t.Progress),
			string(t.ProgressType),
			t.Deadline.String(),
			status,
			completeTime,
		})
	}
	return rows
}

func kpiRows(doc *model.Document) [][]string {
	var rows [][]string
	for _, k := range doc.Kpis {
		customDays := ""
		if k.CustomDays != nil {
			customDays = strconv.Itoa(*k.CustomDays)
		}
		todoID := ""
		if k.TodoID != nil {
			todoID = strconv.Itoa(*k.TodoID)
		}
		rows = append(rows, []string{
			strconv.Itoa(k.ID),
			k.Name,
			string(k.PeriodType),
			customDays,
			formatFloat(k.Target),
			k.Unit,
			todoID,
			string(k.DurationType),
			k.CreatedAt.String(),
		})
	}
	return rows
}

func kpiRecordRows(doc *model.Document) [][]string {
	dates := make([]string, 0, len(doc.KpiRecords))
	for date := range doc.KpiRecords {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var rows [][]string
	for _, date := range dates {
		day := doc.KpiRecords[date]
		ids := make([]int, 0, len(day))
		for id := range day {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			name := ""
			if k := doc.FindKpi(id); k != nil {
				name = k.Name
			}
			status := statusActive
			if day[id] {
				status = statusCompleted
			}
			rows = append(rows, []string{date, strconv.Itoa(id), name, status})
		}
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
