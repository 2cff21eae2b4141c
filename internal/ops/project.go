// Package ops implements the business logic operations for pace. Every
// operation loads the document, validates, mutates, and saves it back;
// callers own nothing between calls.
package ops

import (
	"sort"
	"strings"

	"github.com/jacksmith/pace/internal/cli"
	"github.com/jacksmith/pace/internal/model"
	"github.com/jacksmith/pace/internal/storage"
)

// AddProject registers a new project (a todo category with a unit and a
// completed-count tally).
func AddProject(s *storage.Store, name, unit string, progressType model.ProgressType) error {
	if strings.TrimSpace(name) == "" {
		return &cli.ValidationError{Field: "name", Message: "must not be empty"}
	}
	if strings.TrimSpace(unit) == "" {
		return &cli.ValidationError{Field: "unit", Message: "must not be empty"}
	}
	if progressType != model.ProgressAbsolute && progressType != model.ProgressCumulative {
		return &cli.ValidationError{Field: "progress type", Message: string(progressType)}
	}

	doc, err := s.Load()
	if err != nil {
		return err
	}

	if _, exists := doc.Projects[name]; exists {
		return &cli.DuplicateError{Kind: "project", Key: name}
	}

	doc.Projects[name] = &model.Project{
		Unit:         unit,
		Count:        0,
		ProgressType: progressType,
	}

	return s.Save(doc)
}

// DeleteProject removes a project. Todos created under it keep their type
// reference; the dangling reference is tolerated everywhere.
func DeleteProject(s *storage.Store, name string) error {
	doc, err := s.Load()
	if err != nil {
		return err
	}

	if _, exists := doc.Projects[name]; !exists {
		return &cli.NotFoundError{Kind: "project", Key: name}
	}

	delete(doc.Projects, name)

	return s.Save(doc)
}

// ProjectNames returns the project names in sorted order for stable
// rendering.
func ProjectNames(doc *model.Document) []string {
	names := make([]string, 0, len(doc.Projects))
	for name := range doc.Projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
