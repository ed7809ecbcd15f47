package core

import (
	"context"
	"fmt"
	"io"

	"trackcore/internal/transfer"
)

// Kind selects the bundle family for import and export.
type Kind string

// Bundle kinds.
const (
	KindStudents Kind = "students"
	KindClients  Kind = "clients"
	KindProjects Kind = "projects"
)

// ParseKind validates a bundle kind name.
func ParseKind(name string) (Kind, error) {
	switch k := Kind(name); k {
	case KindStudents, KindClients, KindProjects:
		return k, nil
	}
	return "", fmt.Errorf("unknown bundle kind %q", name)
}

// Export writes the bundle for id, or every bundle of kind when id is empty.
func (s *Service) Export(ctx context.Context, w io.Writer, kind Kind, id string) error {
	return s.run(ctx, "export_"+string(kind), func(context.Context) error {
		switch kind {
		case KindStudents:
			if id == "" {
				return transfer.ExportStudents(w, s.store)
			}
			return transfer.ExportStudent(w, s.store, id)
		case KindClients:
			if id == "" {
				return transfer.ExportClients(w, s.store)
			}
			return transfer.ExportClient(w, s.store, id)
		case KindProjects:
			if id == "" {
				return transfer.ExportProjects(w, s.store)
			}
			return transfer.ExportProject(w, s.store, id)
		}
		return fmt.Errorf("unknown bundle kind %q", kind)
	})
}

// Template writes the bulk import template for kind.
func (s *Service) Template(w io.Writer, kind Kind) error {
	switch kind {
	case KindStudents:
		return transfer.WriteStudentTemplate(w)
	case KindClients:
		return transfer.WriteClientTemplate(w)
	case KindProjects:
		return transfer.WriteProjectTemplate(w)
	}
	return fmt.Errorf("unknown bundle kind %q", kind)
}

// Import validates data and adds its bundles to the store. A rejected
// document returns *transfer.ValidationError and changes nothing.
func (s *Service) Import(ctx context.Context, kind Kind, data []byte) (transfer.Result, error) {
	var res transfer.Result
	err := s.run(ctx, "import_"+string(kind), func(context.Context) error {
		var err error
		switch kind {
		case KindStudents:
			res, err = transfer.ImportStudents(data, s.store)
		case KindClients:
			res, err = transfer.ImportClients(data, s.store)
		case KindProjects:
			res, err = transfer.ImportProjects(data, s.store)
		default:
			return fmt.Errorf("unknown bundle kind %q", kind)
		}
		if err != nil {
			return err
		}
		if len(res.Remapped) > 0 {
			s.log.Info("import remapped colliding ids", "kind", string(kind), "remapped", res.Remapped)
		}
		return nil
	})
	return res, err
}
