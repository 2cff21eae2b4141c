package ops

import (
	"strconv"
	"strings"

	"github.com/jacksmith/pace/internal/cli"
	"github.com/jacksmith/pace/internal/model"
	"github.com/jacksmith/pace/internal/storage"
)

// AddTodo creates a todo under an existing project. Unit and progress type
// are copied from the project; progress starts at zero for both types.
func AddTodo(s *storage.Store, name, projectName string, target float64, deadline model.Date) (*model.Todo, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &cli.ValidationError{Field: "name", Message: "must not be empty"}
	}
	if target <= 0 {
		return nil, &cli.ValidationError{Field: "target", Message: "must be greater than zero"}
	}

	doc, err := s.Load()
	if err != nil {
		return nil, err
	}

	project, ok := doc.Projects[projectName]
	if !ok {
		return nil, &cli.NotFoundError{Kind: "project", Key: projectName}
	}

	todo := &model.Todo{
		ID:           doc.NextTodoID,
		Name:         name,
		Type:         projectName,
		Unit:         project.Unit,
		Target:       target,
		Progress:     0,
		ProgressType: project.ProgressType,
		Deadline:     deadline,
	}
	doc.Todos = append(doc.Todos, todo)
	doc.NextTodoID++

	if err := s.Save(doc); err != nil {
		return nil, err
	}
	return todo, nil
}

// UpdateProgress records new progress for a todo. For absolute todos the
// value replaces the current reading, clamped to [0, target]. For
// cumulative todos the value is an increment, clamped to what remains.
// Crossing the target completes the todo.
func UpdateProgress(s *storage.Store, id int, value float64) (*model.Todo, error) {
	if value < 0 {
		return nil, &cli.ValidationError{Field: "value", Message: "must not be negative"}
	}

	doc, err := s.Load()
	if err != nil {
		return nil, err
	}

	todo := doc.FindTodo(id)
	if todo == nil {
		return nil, &cli.NotFoundError{Kind: "todo", Key: strconv.Itoa(id)}
	}

	switch todo.ProgressType {
	case model.ProgressCumulative:
		remaining := todo.Target - todo.Progress
		if remaining < 0 {
			remaining = 0
		}
		if value > remaining {
			value = remaining
		}
		todo.Progress += value
	default: // absolute
		if value > todo.Target {
			value = todo.Target
		}
		todo.Progress = value
	}

	checkCompletion(doc, todo)

	if err := s.Save(doc); err != nil {
		return nil, err
	}
	return todo, nil
}

// TodoChanges represents fields that can be updated on a todo. Nil fields
// are left unchanged.
type TodoChanges struct {
	Name     *string
	Target   *float64
	Deadline *model.Date
	Progress *float64
}

// EditTodo modifies an existing todo. All changes are validated before any
// is applied, so a failed edit leaves the todo untouched. Progress can only
// be edited on absolute todos and is re-clamped to the (possibly new)
// target. Editing never completes or reopens a todo.
func EditTodo(s *storage.Store, id int, changes TodoChanges) error {
	doc, err := s.Load()
	if err != nil {
		return err
	}

	todo := doc.FindTodo(id)
	if todo == nil {
		return &cli.NotFoundError{Kind: "todo", Key: strconv.Itoa(id)}
	}

	if changes.Name != nil && strings.TrimSpace(*changes.Name) == "" {
		return &cli.ValidationError{Field: "name", Message: "must not be empty"}
	}
	if changes.Target != nil && *changes.Target <= 0 {
		return &cli.ValidationError{Field: "target", Message: "must be greater than zero"}
	}
	if changes.Progress != nil {
		if todo.ProgressType != model.ProgressAbsolute {
			return &cli.ValidationError{Field: "progress", Message: "only editable on absolute todos"}
		}
		if *changes.Progress < 0 {
			return &cli.ValidationError{Field: "progress", Message: "must not be negative"}
		}
	}

	if changes.Name != nil {
		todo.Name = *changes.Name
	}
	if changes.Target != nil {
		todo.Target = *changes.Target
	}
	if changes.Deadline != nil {
		todo.Deadline = *changes.Deadline
	}
	if changes.Progress != nil {
		todo.Progress = *changes.Progress
	}
	if todo.ProgressType == model.ProgressAbsolute && todo.Progress > todo.Target {
		todo.Progress = todo.Target
	}

	return s.Save(doc)
}

// RestoreTodo reopens a completed todo, clearing its completion time and
// handing back the project's completed count.
func RestoreTodo(s *storage.Store, id int) error {
	doc, err := s.Load()
	if err != nil {
		return err
	}

	todo := doc.FindTodo(id)
	if todo == nil {
		return &cli.NotFoundError{Kind: "todo", Key: strconv.Itoa(id)}
	}
	if !todo.Completed {
		return &cli.ValidationError{Field: "todo", Message: "not completed"}
	}

	todo.Completed = false
	todo.CompleteTime = nil
	if project, ok := doc.Projects[todo.Type]; ok {
		project.Count--
	}

	return s.Save(doc)
}

// DeleteTodo removes a todo outright. KPIs linked to it keep their todo_id;
// the dangling link resolves to "no link" from then on.
func DeleteTodo(s *storage.Store, id int) error {
	doc, err := s.Load()
	if err != nil {
		return err
	}

	idx := -1
	for i, t := range doc.Todos {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &cli.NotFoundError{Kind: "todo", Key: strconv.Itoa(id)}
	}

	doc.Todos = append(doc.Todos[:idx], doc.Todos[idx+1:]...)

	return s.Save(doc)
}

// checkCompletion applies the one-way active -> completed transition when
// progress has reached the target. Completion sets the completion date and
// bumps the owning project's tally; a deleted project is skipped silently.
func checkCompletion(doc *model.Document, todo *model.Todo) {
	if todo.Completed || todo.Progress < todo.Target {
		return
	}
	today := model.Today()
	todo.Completed = true
	todo.CompleteTime = &today
	if project, ok := doc.Projects[todo.Type]; ok {
		project.Count++
	}
}
