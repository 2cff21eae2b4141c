package model

// Migrate upgrades a freshly loaded document to the current schema version
// and defaults any missing fields. It is safe to call on every load.
//
// Version 0 is the format written by the original desktop app: todos carry
// no id of their own and a KPI's todo_id is the todo's array position.
// Migration assigns durable ids in array order and remaps KPI links through
// them, so later deletions and reorders cannot misdirect a link.
func Migrate(d *Document) {
	if d.Projects == nil {
		d.Projects = make(map[string]*Project)
	}
	if d.KpiRecords == nil {
		d.KpiRecords = make(RecordSet)
	}
	if d.WindowSize == [2]int{} {
		d.WindowSize = DefaultWindowSize
	}

	if d.SchemaVersion < 1 {
		migrateV0(d)
		d.SchemaVersion = 1
	}

	// Counters default to one past the highest id in use. Covers documents
	// edited by hand as well as freshly migrated ones.
	for _, t := range d.Todos {
		if t.ID >= d.NextTodoID {
			d.NextTodoID = t.ID + 1
		}
	}
	if d.NextTodoID < 1 {
		d.NextTodoID = 1
	}
	for _, k := range d.Kpis {
		if k.ID >= d.NextKpiID {
			d.NextKpiID = k.ID + 1
		}
	}
	if d.NextKpiID < 1 {
		d.NextKpiID = 1
	}
}

func migrateV0(d *Document) {
	// Positional index -> durable id, in array order.
	posToID := make(map[int]int, len(d.Todos))
	for i, t := range d.Todos {
		t.ID = i + 1
		posToID[i] = t.ID
	}

	for _, k := range d.Kpis {
		if k.TodoID == nil {
			continue
		}
		if id, ok := posToID[*k.TodoID]; ok {
			k.TodoID = &id
		} else {
			// Dangling positional reference; drop the link.
			k.TodoID = nil
		}
	}
}
