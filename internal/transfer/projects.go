package transfer

import (
	"fmt"
	"io"

	"trackcore/internal/validation"
	"trackcore/pkg/domain"
)

// ProjectStore is the part of the record store the project transfers use.
type ProjectStore interface {
	NewID() string
	ListProjects() []domain.Project
	FindProject(id string) (domain.Project, bool)
	FindElement(id string) (domain.Element, bool)
	ElementsFor(projectID string) []domain.Element
	AddProject(v domain.Project) domain.Project
	AddElement(v domain.Element) domain.Element
}

// ProjectBundleFor collects a project and its elements.
func ProjectBundleFor(st ProjectStore, id string) (ProjectBundle, bool) {
	p, ok := st.FindProject(id)
	if !ok {
		return ProjectBundle{}, false
	}
	return ProjectBundle{Project: p, Elements: nonNil(st.ElementsFor(id))}, true
}

// ExportProject writes one project bundle as indented JSON.
func ExportProject(w io.Writer, st ProjectStore, id string) error {
	b, ok := ProjectBundleFor(st, id)
	if !ok {
		return fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	return writeJSON(w, b)
}

// ExportProjects writes every project bundle as an indented JSON array.
func ExportProjects(w io.Writer, st ProjectStore) error {
	projects := st.ListProjects()
	out := make([]ProjectBundle, 0, len(projects))
	for _, p := range projects {
		if b, ok := ProjectBundleFor(st, p.ID); ok {
			out = append(out, b)
		}
	}
	return writeJSON(w, out)
}

// ProjectTemplate returns a bulk import template with one example element.
func ProjectTemplate() []ProjectBundle {
	return []ProjectBundle{{
		Project:  domain.Project{Name: "Project name", Location: "Site address", Status: domain.ProjectPlanning, StartDate: "2024-03-01"},
		Elements: []domain.Element{{Name: "Slab L1", Type: "slab", Material: "concrete", Volume: 42.5, Status: domain.ElementPlanned}},
	}}
}

// WriteProjectTemplate writes ProjectTemplate as indented JSON.
func WriteProjectTemplate(w io.Writer) error { return writeJSON(w, ProjectTemplate()) }

// ImportProjects validates a project bundle document and adds its records to
// the store, re-minting colliding ids the same way ImportStudents does.
func ImportProjects(data []byte, st ProjectStore) (Result, error) {
	bundles, indexed, err := decodeBundles[ProjectBundle](data, "elements")
	if err != nil {
		return Result{}, err
	}

	projects := newPlanner(st.NewID, exists(st.FindProject))
	elements := newPlanner(st.NewID, exists(st.FindElement))

	res := Result{IDs: make([]string, 0, len(bundles))}
	var problems validation.Problems
	planned := make([]ProjectBundle, 0, len(bundles))
	for i, b := range bundles {
		prefix := bundlePrefix(indexed, i)
		problems = check(problems, prefix, b.Project)

		original := b.ID
		b.ID = projects.claim(b.ID)
		if original != "" && original != b.ID {
			res.remap(original, b.ID)
		}
		b.Elements = append([]domain.Element(nil), b.Elements...)
		for j := range b.Elements {
			b.Elements[j].ProjectID = b.ID
			b.Elements[j].ID = elements.claim(b.Elements[j].ID)
			problems = check(problems, fmt.Sprintf("%selements[%d].", prefix, j), b.Elements[j])
		}
		planned = append(planned, b)
	}
	if len(problems) > 0 {
		return Result{}, invalid(problems...)
	}

	for _, b := range planned {
		st.AddProject(b.Project)
		for _, e := range b.Elements {
			st.AddElement(e)
		}
		res.IDs = append(res.IDs, b.ID)
		res.Children += len(b.Elements)
	}
	return res, nil
}
