package ops

import (
	"strconv"
	"strings"

	"github.com/jacksmith/pace/internal/cli"
	"github.com/jacksmith/pace/internal/model"
	"github.com/jacksmith/pace/internal/storage"
)

// Duration windows in days. A KPI is active from its creation date through
// createdAt + durationDays inclusive.
const (
	oneWeekDays  = 7
	oneMonthDays = 30
)

// KpiOptions contains options for creating a new KPI.
type KpiOptions struct {
	Name         string
	PeriodType   model.PeriodType
	CustomDays   int // required iff PeriodType is custom
	Target       float64
	TodoID       *int // optional durable todo id to link
	ProjectName  string
	DurationType model.DurationType
	CreatedAt    model.Date // zero means today
}

// AddKpi creates a KPI. The unit comes from the linked todo when one is
// given, otherwise from the named project.
func AddKpi(s *storage.Store, opts KpiOptions) (*model.Kpi, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return nil, &cli.ValidationError{Field: "name", Message: "must not be empty"}
	}
	if opts.Target <= 0 {
		return nil, &cli.ValidationError{Field: "target", Message: "must be greater than zero"}
	}
	switch opts.PeriodType {
	case model.PeriodDaily, model.PeriodWeekly, model.PeriodMonthly:
	case model.PeriodCustom:
		if opts.CustomDays <= 0 {
			return nil, &cli.ValidationError{Field: "custom days", Message: "must be greater than zero for a custom period"}
		}
	default:
		return nil, &cli.ValidationError{Field: "period type", Message: string(opts.PeriodType)}
	}
	switch opts.DurationType {
	case model.DurationOneWeek, model.DurationOneMonth, model.DurationForever:
	default:
		return nil, &cli.ValidationError{Field: "duration type", Message: string(opts.DurationType)}
	}

	doc, err := s.Load()
	if err != nil {
		return nil, err
	}

	var unit string
	var todoID *int
	switch {
	case opts.TodoID != nil:
		todo := doc.FindTodo(*opts.TodoID)
		if todo == nil {
			return nil, &cli.NotFoundError{Kind: "todo", Key: strconv.Itoa(*opts.TodoID)}
		}
		if todo.Completed {
			return nil, &cli.ValidationError{Field: "todo", Message: "cannot link a completed todo"}
		}
		unit = todo.Unit
		id := todo.ID
		todoID = &id
	case opts.ProjectName != "":
		project, ok := doc.Projects[opts.ProjectName]
		if !ok {
			return nil, &cli.NotFoundError{Kind: "project", Key: opts.ProjectName}
		}
		unit = project.Unit
	default:
		return nil, &cli.ValidationError{Field: "kpi", Message: "needs a linked todo or a project for its unit"}
	}

	createdAt := opts.CreatedAt
	if createdAt.IsZero() {
		createdAt = model.Today()
	}

	kpi := &model.Kpi{
		ID:           doc.NextKpiID,
		Name:         opts.Name,
		PeriodType:   opts.PeriodType,
		Target:       opts.Target,
		Unit:         unit,
		TodoID:       todoID,
		DurationType: opts.DurationType,
		CreatedAt:    createdAt,
	}
	if opts.PeriodType == model.PeriodCustom {
		days := opts.CustomDays
		kpi.CustomDays = &days
	}
	doc.Kpis = append(doc.Kpis, kpi)
	doc.NextKpiID++

	if err := s.Save(doc); err != nil {
		return nil, err
	}
	return kpi, nil
}

// DeleteKpi removes a KPI and every one of its completion records. Progress
// already pushed into a linked todo by past toggles stays as it is.
func DeleteKpi(s *storage.Store, id int) error {
	doc, err := s.Load()
	if err != nil {
		return err
	}

	idx := -1
	for i, k := range doc.Kpis {
		if k.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &cli.NotFoundError{Kind: "kpi", Key: strconv.Itoa(id)}
	}

	doc.Kpis = append(doc.Kpis[:idx], doc.Kpis[idx+1:]...)
	doc.KpiRecords.DeleteKpi(id)

	return s.Save(doc)
}

// KpiActiveOn reports whether the KPI is inside its duration window on the
// given date. Period type and custom days are display-only and never gate
// which dates can be toggled.
func KpiActiveOn(k *model.Kpi, date model.Date) bool {
	if k.DurationType == model.DurationForever {
		return true
	}
	days := oneWeekDays
	if k.DurationType == model.DurationOneMonth {
		days = oneMonthDays
	}
	end := k.CreatedAt.AddDays(days)
	return !date.Before(k.CreatedAt) && !date.After(end)
}

// KpiCompletedOn reports completion for a date. No record means not
// completed, never an error.
func KpiCompletedOn(doc *model.Document, id int, date model.Date) bool {
	return doc.KpiRecords.Completed(id, date)
}

// ToggleKpi flips the completion flag for a KPI on a date. When the KPI
// links to a live todo, marking complete adds the KPI target to the todo's
// progress (on top of the current reading for absolute todos) and runs the
// completion check; marking incomplete subtracts it, floored at zero, and
// never reopens a completed todo.
func ToggleKpi(s *storage.Store, id int, date model.Date) (completed bool, err error) {
	doc, err := s.Load()
	if err != nil {
		return false, err
	}

	kpi := doc.FindKpi(id)
	if kpi == nil {
		return false, &cli.NotFoundError{Kind: "kpi", Key: strconv.Itoa(id)}
	}

	wasCompleted := doc.KpiRecords.Completed(id, date)
	doc.KpiRecords.Set(id, date, !wasCompleted)

	if todo := doc.LinkedTodo(kpi); todo != nil {
		if !wasCompleted {
			todo.Progress += kpi.Target
			checkCompletion(doc, todo)
		} else {
			todo.Progress -= kpi.Target
			if todo.Progress < 0 {
				todo.Progress = 0
			}
		}
	}

	if err := s.Save(doc); err != nil {
		return false, err
	}
	return !wasCompleted, nil
}

// CompletionRate returns completed days over total days for the inclusive
// range [start, end]. A single-day range is 1.0 or 0.0. An inverted range
// is rejected.
func CompletionRate(doc *model.Document, id int, start, end model.Date) (float64, error) {
	if start.After(end) {
		return 0, &cli.RangeError{Start: start.String(), End: end.String()}
	}

	total := 0
	completedDays := 0
	for d := start; !d.After(end); d = d.AddDays(1) {
		total++
		if doc.KpiRecords.Completed(id, d) {
			completedDays++
		}
	}
	if total == 0 {
		return 0, nil
	}
	return float64(completedDays) / float64(total), nil
}

// KpisForDate returns the KPIs active on a date, incomplete ones first.
// The partition is stable: insertion order is preserved within each group.
func KpisForDate(doc *model.Document, date model.Date) []*model.Kpi {
	var incomplete, complete []*model.Kpi
	for _, k := range doc.Kpis {
		if !KpiActiveOn(k, date) {
			continue
		}
		if doc.KpiRecords.Completed(k.ID, date) {
			complete = append(complete, k)
		} else {
			incomplete = append(incomplete, k)
		}
	}
	return append(incomplete, complete...)
}
