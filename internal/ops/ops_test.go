package ops

import (
	"errors"
	"testing"

	"github.com/jacksmith/pace/internal/cli"
	"github.com/jacksmith/pace/internal/model"
	"github.com/jacksmith/pace/internal/storage"
)

// setupTestStore creates a store in a temp dir seeded with one project.
func setupTestStore(t *testing.T) *storage.Store {
	t.Helper()

	s, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := AddProject(s, "Reading", "pages", model.ProgressAbsolute); err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return s
}

func load(t *testing.T, s *storage.Store) *model.Document {
	t.Helper()
	doc, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load document: %v", err)
	}
	return doc
}

func TestAddProject(t *testing.T) {
	s := setupTestStore(t)

	// Duplicate names are rejected
	err := AddProject(s, "Reading", "books", model.ProgressAbsolute)
	var dup *cli.DuplicateError
	if !errors.As(err, &dup) {
		t.Errorf("expected DuplicateError, got %v", err)
	}

	// Empty name and unit are rejected
	if err := AddProject(s, "", "pages", model.ProgressAbsolute); err == nil {
		t.Error("expected error for empty name")
	}
	if err := AddProject(s, "Running", "", model.ProgressCumulative); err == nil {
		t.Error("expected error for empty unit")
	}
	if err := AddProject(s, "Running", "km", "sideways"); err == nil {
		t.Error("expected error for bad progress type")
	}

	if err := AddProject(s, "Running", "km", model.ProgressCumulative); err != nil {
		t.Fatalf("AddProject failed: %v", err)
	}

	doc := load(t, s)
	if doc.Projects["Running"].Unit != "km" {
		t.Errorf("expected unit km, got %q", doc.Projects["Running"].Unit)
	}
	if doc.Projects["Running"].Count != 0 {
		t.Errorf("expected count 0, got %d", doc.Projects["Running"].Count)
	}
}

func TestDeleteProject(t *testing.T) {
	s := setupTestStore(t)

	todo, err := AddTodo(s, "Book1", "Reading", 300, model.Date{})
	if err != nil {
		t.Fatalf("AddTodo failed: %v", err)
	}

	if err := DeleteProject(s, "Reading"); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}

	// The todo survives with a dangling project name.
	doc := load(t, s)
	if got := doc.FindTodo(todo.ID); got == nil || got.Type != "Reading" {
		t.Errorf("expected todo to survive with type Reading, got %+v", got)
	}

	var nf *cli.NotFoundError
	if err := DeleteProject(s, "Reading"); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError for missing project, got %v", err)
	}
}

func TestAddTodo(t *testing.T) {
	s := setupTestStore(t)

	todo, err := AddTodo(s, "Book1", "Reading", 300, model.MustParseDate("2025-12-31"))
	if err != nil {
		t.Fatalf("AddTodo failed: %v", err)
	}
	if todo.ID != 1 {
		t.Errorf("expected id 1, got %d", todo.ID)
	}
	if todo.Unit != "pages" || todo.ProgressType != model.ProgressAbsolute {
		t.Errorf("unit and progress type should come from the project, got %+v", todo)
	}
	if todo.Progress != 0 {
		t.Errorf("expected progress 0, got %g", todo.Progress)
	}

	// Unknown project
	var nf *cli.NotFoundError
	if _, err := AddTodo(s, "Run", "Running", 100, model.Date{}); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}

	// Invalid target
	if _, err := AddTodo(s, "Bad", "Reading", 0, model.Date{}); err == nil {
		t.Error("expected error for zero target")
	}
}

func TestTodoIDsAreNeverReused(t *testing.T) {
	s := setupTestStore(t)

	first, _ := AddTodo(s, "Book1", "Reading", 300, model.Date{})
	if err := DeleteTodo(s, first.ID); err != nil {
		t.Fatalf("DeleteTodo failed: %v", err)
	}

	second, err := AddTodo(s, "Book2", "Reading", 200, model.Date{})
	if err != nil {
		t.Fatalf("AddTodo failed: %v", err)
	}
	if second.ID <= first.ID {
		t.Errorf("expected a fresh id after deletion, got %d (previous %d)", second.ID, first.ID)
	}
}

func TestUpdateProgressAbsolute(t *testing.T) {
	s := setupTestStore(t)
	todo, _ := AddTodo(s, "Book1", "Reading", 300, model.Date{})

	// New value replaces the reading
	got, err := UpdateProgress(s, todo.ID, 120)
	if err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	if got.Progress != 120 {
		t.Errorf("expected progress 120, got %g", got.Progress)
	}

	// Values above target clamp and complete
	got, err = UpdateProgress(s, todo.ID, 450)
	if err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	if got.Progress != 300 {
		t.Errorf("expected progress clamped to 300, got %g", got.Progress)
	}
	if !got.Completed {
		t.Error("expected todo to complete at target")
	}
	if got.CompleteTime == nil {
		t.Error("expected completion date to be set")
	}

	doc := load(t, s)
	if doc.Projects["Reading"].Count != 1 {
		t.Errorf("expected project count 1, got %d", doc.Projects["Reading"].Count)
	}

	// Negative values are rejected
	if _, err := UpdateProgress(s, todo.ID, -5); err == nil {
		t.Error("expected error for negative value")
	}
}

func TestUpdateProgressCumulative(t *testing.T) {
	s := setupTestStore(t)
	if err := AddProject(s, "Running", "km", model.ProgressCumulative); err != nil {
		t.Fatalf("AddProject failed: %v", err)
	}
	todo, _ := AddTodo(s, "Run 100km", "Running", 100, model.Date{})

	// Increments accumulate
	got, _ := UpdateProgress(s, todo.ID, 30)
	if got.Progress != 30 {
		t.Errorf("expected progress 30, got %g", got.Progress)
	}
	got, _ = UpdateProgress(s, todo.ID, 40)
	if got.Progress != 70 {
		t.Errorf("expected progress 70, got %g", got.Progress)
	}

	// An increment past the target clamps to the remainder and completes
	got, err := UpdateProgress(s, todo.ID, 50)
	if err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	if got.Progress != 100 {
		t.Errorf("expected progress 100, got %g", got.Progress)
	}
	if !got.Completed {
		t.Error("expected todo to complete")
	}
}

func TestEditTodo(t *testing.T) {
	s := setupTestStore(t)
	todo, _ := AddTodo(s, "Book1", "Reading", 300, model.Date{})
	if _, err := UpdateProgress(s, todo.ID, 120); err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}

	name := "Book One"
	target := 100.0
	if err := EditTodo(s, todo.ID, TodoChanges{Name: &name, Target: &target}); err != nil {
		t.Fatalf("EditTodo failed: %v", err)
	}

	doc := load(t, s)
	got := doc.FindTodo(todo.ID)
	if got.Name != "Book One" {
		t.Errorf("expected renamed todo, got %q", got.Name)
	}
	// Progress re-clamps to the lowered target but the todo does not complete.
	if got.Progress != 100 {
		t.Errorf("expected progress clamped to 100, got %g", got.Progress)
	}
	if got.Completed {
		t.Error("editing must never complete a todo")
	}
}

func TestEditTodoIsAllOrNothing(t *testing.T) {
	s := setupTestStore(t)
	todo, _ := AddTodo(s, "Book1", "Reading", 300, model.Date{})

	name := "Renamed"
	badTarget := -1.0
	err := EditTodo(s, todo.ID, TodoChanges{Name: &name, Target: &badTarget})
	if err == nil {
		t.Fatal("expected error for invalid target")
	}

	// The valid name change must not have been applied.
	doc := load(t, s)
	if got := doc.FindTodo(todo.ID); got.Name != "Book1" {
		t.Errorf("failed edit must leave the todo untouched, got name %q", got.Name)
	}
}

func TestEditTodoProgressOnlyOnAbsolute(t *testing.T) {
	s := setupTestStore(t)
	if err := AddProject(s, "Running", "km", model.ProgressCumulative); err != nil {
		t.Fatalf("AddProject failed: %v", err)
	}
	todo, _ := AddTodo(s, "Run 100km", "Running", 100, model.Date{})

	progress := 10.0
	var ve *cli.ValidationError
	if err := EditTodo(s, todo.ID, TodoChanges{Progress: &progress}); !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for cumulative progress edit, got %v", err)
	}
}

func TestRestoreTodo(t *testing.T) {
	s := setupTestStore(t)
	todo, _ := AddTodo(s, "Book1", "Reading", 300, model.Date{})

	// Restoring an active todo is an error
	if err := RestoreTodo(s, todo.ID); err == nil {
		t.Error("expected error restoring an active todo")
	}

	if _, err := UpdateProgress(s, todo.ID, 300); err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	if err := RestoreTodo(s, todo.ID); err != nil {
		t.Fatalf("RestoreTodo failed: %v", err)
	}

	doc := load(t, s)
	got := doc.FindTodo(todo.ID)
	if got.Completed {
		t.Error("expected todo to be active again")
	}
	if got.CompleteTime != nil {
		t.Error("expected completion date to be cleared")
	}
	if doc.Projects["Reading"].Count != 0 {
		t.Errorf("expected count handed back, got %d", doc.Projects["Reading"].Count)
	}
	// Progress is kept so it can be adjusted before completing again.
	if got.Progress != 300 {
		t.Errorf("expected progress kept at 300, got %g", got.Progress)
	}
}

func TestAddKpi(t *testing.T) {
	s := setupTestStore(t)
	todo, _ := AddTodo(s, "Book1", "Reading", 300, model.Date{})

	kpi, err := AddKpi(s, KpiOptions{
		Name:         "Read daily",
		PeriodType:   model.PeriodDaily,
		Target:       50,
		TodoID:       &todo.ID,
		DurationType: model.DurationForever,
	})
	if err != nil {
		t.Fatalf("AddKpi failed: %v", err)
	}
	if kpi.ID != 1 {
		t.Errorf("expected id 1, got %d", kpi.ID)
	}
	if kpi.Unit != "pages" {
		t.Errorf("expected unit from linked todo, got %q", kpi.Unit)
	}
	if kpi.CreatedAt.IsZero() {
		t.Error("expected created_at to default to today")
	}

	// Unit can come from a project instead
	kpi, err = AddKpi(s, KpiOptions{
		Name:         "Skim",
		PeriodType:   model.PeriodWeekly,
		Target:       1,
		ProjectName:  "Reading",
		DurationType: model.DurationOneWeek,
	})
	if err != nil {
		t.Fatalf("AddKpi failed: %v", err)
	}
	if kpi.Unit != "pages" || kpi.TodoID != nil {
		t.Errorf("expected project unit and no link, got %+v", kpi)
	}

	// Custom period requires custom days
	_, err = AddKpi(s, KpiOptions{
		Name:         "Every3",
		PeriodType:   model.PeriodCustom,
		Target:       1,
		ProjectName:  "Reading",
		DurationType: model.DurationForever,
	})
	if err == nil {
		t.Error("expected error for custom period without days")
	}

	// A source for the unit is required
	_, err = AddKpi(s, KpiOptions{
		Name:         "Nowhere",
		PeriodType:   model.PeriodDaily,
		Target:       1,
		DurationType: model.DurationForever,
	})
	if err == nil {
		t.Error("expected error for KPI with no todo and no project")
	}
}

func TestAddKpiRejectsCompletedTodo(t *testing.T) {
	s := setupTestStore(t)
	todo, _ := AddTodo(s, "Book1", "Reading", 300, model.Date{})
	if _, err := UpdateProgress(s, todo.ID, 300); err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}

	_, err := AddKpi(s, KpiOptions{
		Name:         "Too late",
		PeriodType:   model.PeriodDaily,
		Target:       50,
		TodoID:       &todo.ID,
		DurationType: model.DurationForever,
	})
	var ve *cli.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestToggleKpiLinkedTodo(t *testing.T) {
	s := setupTestStore(t)
	todo, _ := AddTodo(s, "Book1", "Reading", 300, model.Date{})
	kpi, _ := AddKpi(s, KpiOptions{
		Name:         "Read daily",
		PeriodType:   model.PeriodDaily,
		Target:       50,
		TodoID:       &todo.ID,
		DurationType: model.DurationForever,
	})

	day := model.MustParseDate("2025-04-01")

	completed, err := ToggleKpi(s, kpi.ID, day)
	if err != nil {
		t.Fatalf("ToggleKpi failed: %v", err)
	}
	if !completed {
		t.Error("expected toggle to mark the day completed")
	}

	doc := load(t, s)
	if got := doc.FindTodo(todo.ID).Progress; got != 50 {
		t.Errorf("expected progress 50 after check, got %g", got)
	}

	// Toggling back is net neutral
	completed, err = ToggleKpi(s, kpi.ID, day)
	if err != nil {
		t.Fatalf("ToggleKpi failed: %v", err)
	}
	if completed {
		t.Error("expected toggle back to mark the day incomplete")
	}
	doc = load(t, s)
	if got := doc.FindTodo(todo.ID).Progress; got != 0 {
		t.Errorf("expected progress back at 0, got %g", got)
	}
}

func TestToggleKpiCompletesTodo(t *testing.T) {
	s := setupTestStore(t)
	todo, _ := AddTodo(s, "Book1", "Reading", 300, model.Date{})
	kpi, _ := AddKpi(s, KpiOptions{
		Name:         "Read daily",
		PeriodType:   model.PeriodDaily,
		Target:       50,
		TodoID:       &todo.ID,
		DurationType: model.DurationForever,
	})

	// Six checked days reach the 300-page target.
	day := model.MustParseDate("2025-04-01")
	for i := 0; i < 6; i++ {
		if _, err := ToggleKpi(s, kpi.ID, day.AddDays(i)); err != nil {
			t.Fatalf("ToggleKpi failed on day %d: %v", i, err)
		}
	}

	doc := load(t, s)
	got := doc.FindTodo(todo.ID)
	if got.Progress != 300 {
		t.Errorf("expected progress 300, got %g", got.Progress)
	}
	if !got.Completed {
		t.Error("expected todo to auto-complete")
	}
	if doc.Projects["Reading"].Count != 1 {
		t.Errorf("expected project count 1, got %d", doc.Projects["Reading"].Count)
	}

	// Unchecking a day subtracts progress but never reopens the todo.
	if _, err := ToggleKpi(s, kpi.ID, day); err != nil {
		t.Fatalf("ToggleKpi failed: %v", err)
	}
	doc = load(t, s)
	got = doc.FindTodo(todo.ID)
	if got.Progress != 250 {
		t.Errorf("expected progress 250, got %g", got.Progress)
	}
	if !got.Completed {
		t.Error("unchecking must not reopen a completed todo")
	}
}

func TestToggleKpiFloorsAtZero(t *testing.T) {
	s := setupTestStore(t)
	todo, _ := AddTodo(s, "Book1", "Reading", 300, model.Date{})
	kpi, _ := AddKpi(s, KpiOptions{
		Name:         "Read daily",
		PeriodType:   model.PeriodDaily,
		Target:       50,
		TodoID:       &todo.ID,
		DurationType: model.DurationForever,
	})

	day := model.MustParseDate("2025-04-01")
	if _, err := ToggleKpi(s, kpi.ID, day); err != nil {
		t.Fatalf("ToggleKpi failed: %v", err)
	}

	// Drop the reading below the KPI target, then uncheck.
	progress := 10.0
	if err := EditTodo(s, todo.ID, TodoChanges{Progress: &progress}); err != nil {
		t.Fatalf("EditTodo failed: %v", err)
	}
	if _, err := ToggleKpi(s, kpi.ID, day); err != nil {
		t.Fatalf("ToggleKpi failed: %v", err)
	}

	doc := load(t, s)
	if got := doc.FindTodo(todo.ID).Progress; got != 0 {
		t.Errorf("expected progress floored at 0, got %g", got)
	}
}

func TestToggleKpiDanglingLink(t *testing.T) {
	s := setupTestStore(t)
	todo, _ := AddTodo(s, "Book1", "Reading", 300, model.Date{})
	kpi, _ := AddKpi(s, KpiOptions{
		Name:         "Read daily",
		PeriodType:   model.PeriodDaily,
		Target:       50,
		TodoID:       &todo.ID,
		DurationType: model.DurationForever,
	})
	if err := DeleteTodo(s, todo.ID); err != nil {
		t.Fatalf("DeleteTodo failed: %v", err)
	}

	// The record still toggles; there is just no progress side effect.
	day := model.MustParseDate("2025-04-01")
	completed, err := ToggleKpi(s, kpi.ID, day)
	if err != nil {
		t.Fatalf("ToggleKpi failed: %v", err)
	}
	if !completed {
		t.Error("expected the day to be marked completed")
	}
}

func TestKpiActiveOn(t *testing.T) {
	created := model.MustParseDate("2025-04-01")

	cases := []struct {
		name     string
		duration model.DurationType
		date     string
		want     bool
	}{
		{"forever far future", model.DurationForever, "2030-01-01", true},
		{"forever before creation", model.DurationForever, "2020-01-01", true},
		{"one week creation day", model.DurationOneWeek, "2025-04-01", true},
		{"one week last day", model.DurationOneWeek, "2025-04-08", true},
		{"one week expired", model.DurationOneWeek, "2025-04-09", false},
		{"one week before creation", model.DurationOneWeek, "2025-03-31", false},
		{"one month last day", model.DurationOneMonth, "2025-05-01", true},
		{"one month expired", model.DurationOneMonth, "2025-05-02", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			k := &model.Kpi{DurationType: tc.duration, CreatedAt: created}
			if got := KpiActiveOn(k, model.MustParseDate(tc.date)); got != tc.want {
				t.Errorf("KpiActiveOn(%s) = %v, want %v", tc.date, got, tc.want)
			}
		})
	}
}

func TestCompletionRate(t *testing.T) {
	s := setupTestStore(t)
	kpi, _ := AddKpi(s, KpiOptions{
		Name:         "Skim",
		PeriodType:   model.PeriodDaily,
		Target:       1,
		ProjectName:  "Reading",
		DurationType: model.DurationForever,
	})

	for _, d := range []string{"2025-04-01", "2025-04-02", "2025-04-04"} {
		if _, err := ToggleKpi(s, kpi.ID, model.MustParseDate(d)); err != nil {
			t.Fatalf("ToggleKpi failed: %v", err)
		}
	}
	doc := load(t, s)

	// 3 completed days over a 5-day inclusive range
	rate, err := CompletionRate(doc, kpi.ID, model.MustParseDate("2025-04-01"), model.MustParseDate("2025-04-05"))
	if err != nil {
		t.Fatalf("CompletionRate failed: %v", err)
	}
	if rate != 0.6 {
		t.Errorf("expected rate 0.6, got %g", rate)
	}

	// Single-day ranges
	rate, _ = CompletionRate(doc, kpi.ID, model.MustParseDate("2025-04-01"), model.MustParseDate("2025-04-01"))
	if rate != 1.0 {
		t.Errorf("expected rate 1.0, got %g", rate)
	}
	rate, _ = CompletionRate(doc, kpi.ID, model.MustParseDate("2025-04-03"), model.MustParseDate("2025-04-03"))
	if rate != 0.0 {
		t.Errorf("expected rate 0.0, got %g", rate)
	}

	// Inverted range
	var re *cli.RangeError
	_, err = CompletionRate(doc, kpi.ID, model.MustParseDate("2025-04-05"), model.MustParseDate("2025-04-01"))
	if !errors.As(err, &re) {
		t.Errorf("expected RangeError, got %v", err)
	}
}

func TestKpisForDate(t *testing.T) {
	s := setupTestStore(t)

	created := model.MustParseDate("2025-04-01")
	mk := func(name string, duration model.DurationType) *model.Kpi {
		k, err := AddKpi(s, KpiOptions{
			Name:         name,
			PeriodType:   model.PeriodDaily,
			Target:       1,
			ProjectName:  "Reading",
			DurationType: duration,
			CreatedAt:    created,
		})
		if err != nil {
			t.Fatalf("AddKpi failed: %v", err)
		}
		return k
	}

	first := mk("first", model.DurationForever)
	expired := mk("expired", model.DurationOneWeek)
	third := mk("third", model.DurationForever)

	if _, err := ToggleKpi(s, first.ID, model.MustParseDate("2025-06-01")); err != nil {
		t.Fatalf("ToggleKpi failed: %v", err)
	}

	doc := load(t, s)
	got := KpisForDate(doc, model.MustParseDate("2025-06-01"))
	if len(got) != 2 {
		t.Fatalf("expected 2 active KPIs, got %d", len(got))
	}
	// Incomplete first, completed after; the expired one is absent.
	if got[0].ID != third.ID || got[1].ID != first.ID {
		t.Errorf("expected order [third, first], got [%s, %s]", got[0].Name, got[1].Name)
	}
	for _, k := range got {
		if k.ID == expired.ID {
			t.Error("expired KPI should not be listed")
		}
	}
}

func TestDeleteKpiRemovesRecords(t *testing.T) {
	s := setupTestStore(t)
	todo, _ := AddTodo(s, "Book1", "Reading", 300, model.Date{})
	kpi, _ := AddKpi(s, KpiOptions{
		Name:         "Read daily",
		PeriodType:   model.PeriodDaily,
		Target:       50,
		TodoID:       &todo.ID,
		DurationType: model.DurationForever,
	})

	day := model.MustParseDate("2025-04-01")
	if _, err := ToggleKpi(s, kpi.ID, day); err != nil {
		t.Fatalf("ToggleKpi failed: %v", err)
	}

	if err := DeleteKpi(s, kpi.ID); err != nil {
		t.Fatalf("DeleteKpi failed: %v", err)
	}

	doc := load(t, s)
	if doc.KpiRecords.Completed(kpi.ID, day) {
		t.Error("expected records to be gone")
	}
	// Progress already pushed into the todo stays.
	if got := doc.FindTodo(todo.ID).Progress; got != 50 {
		t.Errorf("expected progress kept at 50, got %g", got)
	}
}
