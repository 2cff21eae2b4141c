package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jacksmith/pace/internal/cli"
	"github.com/jacksmith/pace/internal/model"
	"github.com/jacksmith/pace/internal/storage"
)

// Summary reports what an import did.
type Summary struct {
	Added   int
	Updated int
	Skipped int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d added, %d updated, %d skipped", s.Added, s.Updated, s.Skipped)
}

// Import reads one exported CSV file, decides its kind from the filename,
// and merges it into the document. Merging is update-or-insert by natural
// key, so importing the same file twice changes nothing the second time.
func Import(s *storage.Store, path string) (Summary, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return Summary{}, err
	}

	doc, err := s.Load()
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	switch strings.ToLower(filepath.Base(path)) {
	case ProjectsFile:
		summary, err = importProjects(doc, header, rows)
	case TodosFile:
		summary, err = importTodos(doc, header, rows)
	case KpisFile:
		summary, err = importKpis(doc, header, rows)
	case KpiRecordsFile:
		summary, err = importKpiRecords(doc, header, rows)
	default:
		return Summary{}, &cli.ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("%s is not a recognized export file", filepath.Base(path)),
		}
	}
	if err != nil {
		return Summary{}, err
	}

	model.Migrate(doc) // refresh id counters after inserts by explicit id

	if err := s.Save(doc); err != nil {
		return Summary{}, err
	}
	return summary, nil
}

// readCSV loads a CSV file, strips the UTF-8 BOM, and returns the header
// and data rows.
func readCSV(path string) ([][]string, map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, &cli.ValidationError{Field: "file", Message: "missing header row"}
	}

	header := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		header[strings.TrimSpace(col)] = i
	}
	return records[1:], header, nil
}

// field returns the named column of a row, or an error naming the missing
// column.
func field(header map[string]int, row []string, name string) (string, error) {
	idx, ok := header[name]
	if !ok || idx >= len(row) {
		return "", &cli.ValidationError{Field: "column", Message: name + " is required"}
	}
	return strings.TrimSpace(row[idx]), nil
}

// optionalField returns the named column or "" when absent.
func optionalField(header map[string]int, row []string, name string) string {
	idx, ok := header[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func importProjects(doc *model.Document, header map[string]int, rows [][]string) (Summary, error) {
	var sum Summary
	for _, row := range rows {
		name, err := field(header, row, "name")
		if err != nil {
			return Summary{}, err
		}
		unit, err := field(header, row, "unit")
		if err != nil {
			return Summary{}, err
		}
		countStr, err := field(header, row, "count")
		if err != nil {
			return Summary{}, err
		}
		count, err := strconv.Atoi(countStr)
		if err != nil {
			return Summary{}, &cli.ValidationError{Field: "count", Message: "must be an integer"}
		}

		progressType := model.ProgressType(optionalField(header, row, "progress_type"))
		if progressType == "" {
			progressType = model.ProgressAbsolute
		}

		if existing, ok := doc.Projects[name]; ok {
			existing.Unit = unit
			existing.ProgressType = progressType
			existing.Count = count
			sum.Updated++
		} else {
			doc.Projects[name] = &model.Project{Unit: unit, Count: count, ProgressType: progressType}
			sum.Added++
		}
	}
	return sum, nil
}

func importTodos(doc *model.Document, header map[string]int, rows [][]string) (Summary, error) {
	var sum Summary
	for _, row := range rows {
		name, err := field(header, row, "name")
		if err != nil {
			return Summary{}, err
		}
		typeName, err := field(header, row, "type")
		if err != nil {
			return Summary{}, err
		}
		targetStr, err := field(header, row, "target")
		if err != nil {
			return Summary{}, err
		}
		deadlineStr, err := field(header, row, "deadline")
		if err != nil {
			return Summary{}, err
		}
		statusStr, err := field(header, row, "status")
		if err != nil {
			return Summary{}, err
		}

		project, ok := doc.Projects[typeName]
		if !ok {
			return Summary{}, &cli.NotFoundError{Kind: "project", Key: typeName}
		}

		target, err := strconv.ParseFloat(targetStr, 64)
		if err != nil {
			return Summary{}, &cli.ValidationError{Field: "target", Message: "must be a number"}
		}
		var deadline model.Date
		if deadlineStr != "" {
			deadline, err = model.ParseDate(deadlineStr)
			if err != nil {
				return Summary{}, &cli.ValidationError{Field: "deadline", Message: err.Error()}
			}
		}

		progress := 0.0
		if p := optionalField(header, row, "progress"); p != "" {
			progress, err = strconv.ParseFloat(p, 64)
			if err != nil {
				return Summary{}, &cli.ValidationError{Field: "progress", Message: "must be a number"}
			}
		}

		// Duplicate guard by (name, type).
		if todoExists(doc, name, typeName) {
			sum.Skipped++
			continue
		}

		completed := statusStr == statusCompleted
		todo := &model.Todo{
			ID:           doc.NextTodoID,
			Name:         name,
			Type:         typeName,
			Unit:         project.Unit,
			Target:       target,
			Progress:     progress,
			ProgressType: project.ProgressType,
			Deadline:     deadline,
			Completed:    completed,
		}
		doc.NextTodoID++

		if completed {
			completeTime := model.Today()
			if ct := optionalField(header, row, "complete_time"); ct != "" {
				completeTime, err = model.ParseDate(ct)
				if err != nil {
					return Summary{}, &cli.ValidationError{Field: "complete_time", Message: err.Error()}
				}
			}
			todo.CompleteTime = &completeTime
			project.Count++
		}

		doc.Todos = append(doc.Todos, todo)
		sum.Added++
	}
	return sum, nil
}

func importKpis(doc *model.Document, header map[string]int, rows [][]string) (Summary, error) {
	var sum Summary
	for _, row := range rows {
		idStr, err := field(header, row, "id")
		if err != nil {
			return Summary{}, err
		}
		name, err := field(header, row, "name")
		if err != nil {
			return Summary{}, err
		}
		targetStr, err := field(header, row, "target")
		if err != nil {
			return Summary{}, err
		}
		createdStr, err := field(header, row, "created_at")
		if err != nil {
			return Summary{}, err
		}

		id, err := strconv.Atoi(idStr)
		if err != nil {
			return Summary{}, &cli.ValidationError{Field: "id", Message: "must be an integer"}
		}
		target, err := strconv.ParseFloat(targetStr, 64)
		if err != nil {
			return Summary{}, &cli.ValidationError{Field: "target", Message: "must be a number"}
		}
		createdAt, err := model.ParseDate(createdStr)
		if err != nil {
			return Summary{}, &cli.ValidationError{Field: "created_at", Message: err.Error()}
		}

		// Duplicate guard by id.
		if doc.FindKpi(id) != nil {
			sum.Skipped++
			continue
		}

		kpi := &model.Kpi{
			ID:           id,
			Name:         name,
			PeriodType:   model.PeriodType(optionalField(header, row, "period_type")),
			Target:       target,
			Unit:         optionalField(header, row, "unit"),
			DurationType: model.DurationType(optionalField(header, row, "duration_type")),
			CreatedAt:    createdAt,
		}
		if kpi.PeriodType == "" {
			kpi.PeriodType = model.PeriodDaily
		}
		if kpi.DurationType == "" {
			kpi.DurationType = model.DurationForever
		}
		if cd := optionalField(header, row, "custom_days"); cd != "" {
			days, err := strconv.Atoi(cd)
			if err != nil {
				return Summary{}, &cli.ValidationError{Field: "custom_days", Message: "must be an integer"}
			}
			kpi.CustomDays = &days
		}
		if tid := optionalField(header, row, "todo_id"); tid != "" {
			todoID, err := strconv.Atoi(tid)
			if err != nil {
				return Summary{}, &cli.ValidationError{Field: "todo_id", Message: "must be an integer"}
			}
			// Kept even if the todo is gone; dangling links resolve to
			// "no link" everywhere.
			kpi.TodoID = &todoID
		}

		doc.Kpis = append(doc.Kpis, kpi)
		sum.Added++
	}
	return sum, nil
}

func importKpiRecords(doc *model.Document, header map[string]int, rows [][]string) (Summary, error) {
	var sum Summary
	for _, row := range rows {
		dateStr, err := field(header, row, "date")
		if err != nil {
			return Summary{}, err
		}
		idStr, err := field(header, row, "kpi_id")
		if err != nil {
			return Summary{}, err
		}
		statusStr, err := field(header, row, "completed")
		if err != nil {
			return Summary{}, err
		}

		date, err := model.ParseDate(dateStr)
		if err != nil {
			return Summary{}, &cli.ValidationError{Field: "date", Message: err.Error()}
		}
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return Summary{}, &cli.ValidationError{Field: "kpi_id", Message: "must be an integer"}
		}

		completed := statusStr == statusCompleted
		existing, has := doc.KpiRecords[date.String()][id]
		if has && existing == completed {
			sum.Skipped++
			continue
		}
		doc.KpiRecords.Set(id, date, completed)
		if has {
			sum.Updated++
		} else {
			sum.Added++
		}
	}
	return sum, nil
}

func todoExists(doc *model.Document, name, typeName string) bool {
	for _, t := range doc.Todos {
		if t.Name == name && t.Type == typeName {
			return true
		}
	}
	return false
}
