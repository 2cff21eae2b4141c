package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestMigrateV0AssignsDurableIDs(t *testing.T) {
	// A version-0 document: todos have no ids, KPI links are array positions.
	doc := &Document{
		Todos: []*Todo{
			{Name: "Book1", Type: "Reading"},
			{Name: "Run 100km", Type: "Running"},
		},
		Kpis: []*Kpi{
			{ID: 1, Name: "Read daily", TodoID: intPtr(0)},
			{ID: 2, Name: "Run daily", TodoID: intPtr(1)},
			{ID: 3, Name: "Ghost", TodoID: intPtr(7)},
			{ID: 4, Name: "Unlinked"},
		},
	}

	Migrate(doc)

	assert.Equal(t, 1, doc.SchemaVersion)
	assert.Equal(t, 1, doc.Todos[0].ID)
	assert.Equal(t, 2, doc.Todos[1].ID)

	// Positional links now point at durable ids.
	require.NotNil(t, doc.Kpis[0].TodoID)
	assert.Equal(t, 1, *doc.Kpis[0].TodoID)
	require.NotNil(t, doc.Kpis[1].TodoID)
	assert.Equal(t, 2, *doc.Kpis[1].TodoID)

	// A dangling positional link is dropped, not errored.
	assert.Nil(t, doc.Kpis[2].TodoID)
	assert.Nil(t, doc.Kpis[3].TodoID)

	// Counters sit one past the highest id in use.
	assert.Equal(t, 3, doc.NextTodoID)
	assert.Equal(t, 5, doc.NextKpiID)
}

func TestMigrateCurrentVersionIsStable(t *testing.T) {
	doc := &Document{
		SchemaVersion: 1,
		Todos:         []*Todo{{ID: 9, Name: "Later"}},
		Kpis:          []*Kpi{{ID: 4, Name: "Habit", TodoID: intPtr(9)}},
		NextTodoID:    10,
		NextKpiID:     5,
	}

	Migrate(doc)

	// Ids and links are untouched at the current version.
	assert.Equal(t, 9, doc.Todos[0].ID)
	assert.Equal(t, 9, *doc.Kpis[0].TodoID)
	assert.Equal(t, 10, doc.NextTodoID)
	assert.Equal(t, 5, doc.NextKpiID)
}

func TestMigrateDefaultsMissingFields(t *testing.T) {
	doc := &Document{SchemaVersion: 1}
	Migrate(doc)

	assert.NotNil(t, doc.Projects)
	assert.NotNil(t, doc.KpiRecords)
	assert.Equal(t, DefaultWindowSize, doc.WindowSize)
	assert.Equal(t, 1, doc.NextTodoID)
	assert.Equal(t, 1, doc.NextKpiID)
}

func TestMigrateCounterNeverRbecomesStale(t *testing.T) {
	// Hand-edited document with a counter behind the highest id.
	doc := &Document{
		SchemaVersion: 1,
		Todos:         []*Todo{{ID: 3}, {ID: 12}},
		NextTodoID:    2,
	}
	Migrate(doc)
	assert.Equal(t, 13, doc.NextTodoID)
}

func TestLinkedTodo(t *testing.T) {
	todo := &Todo{ID: 5, Name: "Book1"}
	doc := &Document{
		SchemaVersion: 1,
		Todos:         []*Todo{todo},
	}
	Migrate(doc)

	linked := &Kpi{ID: 1, TodoID: intPtr(5)}
	dangling := &Kpi{ID: 2, TodoID: intPtr(99)}
	unlinked := &Kpi{ID: 3}

	assert.Equal(t, todo, doc.LinkedTodo(linked))
	assert.Nil(t, doc.LinkedTodo(dangling))
	assert.Nil(t, doc.LinkedTodo(unlinked))
}

func TestRecordSet(t *testing.T) {
	r := make(RecordSet)
	day := MustParseDate("2025-05-01")

	// Absent record reads as not completed.
	assert.False(t, r.Completed(1, day))

	r.Set(1, day, true)
	r.Set(2, day, true)
	assert.True(t, r.Completed(1, day))

	r.Set(1, day, false)
	assert.False(t, r.Completed(1, day))

	r.DeleteKpi(2)
	assert.False(t, r.Completed(2, day))
}
