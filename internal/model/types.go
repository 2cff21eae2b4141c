// Package model defines the core data structures for pace.
package model

// ProgressType determines how a todo's progress value is interpreted.
type ProgressType string

const (
	// ProgressAbsolute means progress is a current reading (e.g. "page 120").
	ProgressAbsolute ProgressType = "absolute"
	// ProgressCumulative means progress is a running total of increments.
	ProgressCumulative ProgressType = "cumulative"
)

// PeriodType describes the cadence of a KPI. It is descriptive only and
// never gates which dates a KPI can be toggled on.
type PeriodType string

const (
	PeriodDaily   PeriodType = "daily"
	PeriodWeekly  PeriodType = "weekly"
	PeriodMonthly PeriodType = "monthly"
	PeriodCustom  PeriodType = "custom"
)

// DurationType describes how long a KPI stays active after creation.
type DurationType string

const (
	DurationOneWeek  DurationType = "one_week"
	DurationOneMonth DurationType = "one_month"
	DurationForever  DurationType = "forever"
)

// Project is a named category of recurring work with a unit and a
// completed-count tally. Projects are keyed by name in the document.
type Project struct {
	Unit         string       `json:"unit"`
	Count        int          `json:"count"`
	ProgressType ProgressType `json:"progress_type"`
}

// Todo is a goal-directed task with a numeric target and progress toward it.
// IDs are durable: assigned from the document's counter and never reused,
// so KPI links survive deletions and reorders.
type Todo struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"` // project name; may dangle after project deletion
	Unit         string       `json:"unit"`
	Target       float64      `json:"target"`
	Progress     float64      `json:"progress"`
	ProgressType ProgressType `json:"progress_type"`
	Deadline     Date         `json:"deadline"`
	Completed    bool         `json:"completed"`
	CompleteTime *Date        `json:"complete_time,omitempty"`
}

// Kpi is a recurring daily-checkable habit, optionally linked to a todo.
type Kpi struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	PeriodType   PeriodType   `json:"period_type"`
	CustomDays   *int         `json:"custom_days,omitempty"` // set only for PeriodCustom
	Target       float64      `json:"target"`
	Unit         string       `json:"unit"`
	TodoID       *int         `json:"todo_id"` // durable Todo.ID, or null
	DurationType DurationType `json:"duration_type"`
	CreatedAt    Date         `json:"created_at"`
}

// RecordSet maps "YYYY-MM-DD" date strings to per-KPI completion flags.
// An absent entry means not completed.
type RecordSet map[string]map[int]bool

// Completed reports whether the KPI was completed on the given date.
func (r RecordSet) Completed(kpiID int, date Date) bool {
	return r[date.String()][kpiID]
}

// Set records the completion flag for a KPI on a date.
func (r RecordSet) Set(kpiID int, date Date, completed bool) {
	day := r[date.String()]
	if day == nil {
		day = make(map[int]bool)
		r[date.String()] = day
	}
	day[kpiID] = completed
}

// DeleteKpi removes every record for the given KPI id.
func (r RecordSet) DeleteKpi(kpiID int) {
	for _, day := range r {
		delete(day, kpiID)
	}
}

// CurrentSchemaVersion is the document format written by this version of
// pace. Version 0 is the original desktop format with positional todo ids.
const CurrentSchemaVersion = 1

// DefaultWindowSize is the window geometry written into fresh documents,
// kept for compatibility with documents shared with the desktop app.
var DefaultWindowSize = [2]int{800, 500}

// Document is the top-level persisted aggregate. It is owned by a single
// process and saved in full after every mutation.
type Document struct {
	SchemaVersion int                 `json:"schema_version"`
	Projects      map[string]*Project `json:"projects"`
	Todos         []*Todo             `json:"todos"`
	NextTodoID    int                 `json:"next_todo_id"`
	Kpis          []*Kpi              `json:"kpis"`
	NextKpiID     int                 `json:"next_kpi_id"`
	KpiRecords    RecordSet           `json:"kpi_records"`
	WindowSize    [2]int              `json:"window_size"`
}

// NewDocument returns an empty document at the current schema version.
func NewDocument() *Document {
	return &Document{
		SchemaVersion: CurrentSchemaVersion,
		Projects:      make(map[string]*Project),
		NextTodoID:    1,
		NextKpiID:     1,
		KpiRecords:    make(RecordSet),
		WindowSize:    DefaultWindowSize,
	}
}

// FindTodo returns the todo with the given durable id, or nil.
func (d *Document) FindTodo(id int) *Todo {
	for _, t := range d.Todos {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// FindKpi returns the KPI with the given durable id, or nil.
func (d *Document) FindKpi(id int) *Kpi {
	for _, k := range d.Kpis {
		if k.ID == id {
			return k
		}
	}
	return nil
}

// LinkedTodo resolves a KPI's todo link through the durable id. A nil or
// dangling link resolves to nil, never an error.
func (d *Document) LinkedTodo(k *Kpi) *Todo {
	if k == nil || k.TodoID == nil {
		return nil
	}
	return d.FindTodo(*k.TodoID)
}
