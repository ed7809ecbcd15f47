// Package transfer moves tracker records in and out of the store as JSON
// bundles: one primary record with its child rows inlined.
package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"trackcore/internal/validation"
	"trackcore/pkg/domain"
)

// ErrNotFound is returned when an export names a record that does not exist.
var ErrNotFound = errors.New("transfer: record not found")

// StudentBundle is a student with its grades, attendance and homework.
type StudentBundle struct {
	domain.Student
	Grades     []domain.Grade      `json:"grades"`
	Attendance []domain.Attendance `json:"attendance"`
	Homework   []domain.Homework   `json:"homework"`
}

// ClientBundle is a client with its measurements.
type ClientBundle struct {
	domain.Client
	Measurements []domain.Measurement `json:"measurements"`
}

// ProjectBundle is a project with its elements.
type ProjectBundle struct {
	domain.Project
	Elements []domain.Element `json:"elements"`
}

// ValidationError lists every problem found in an import document. Nothing
// is written to the store when it is returned.
type ValidationError struct {
	Problems validation.Problems
}

func (e *ValidationError) Error() string {
	return "transfer: invalid import: " + e.Problems.Error()
}

// Result summarises an applied import.
type Result struct {
	// IDs holds the stored primary ids in input order.
	IDs []string `json:"ids"`
	// Remapped maps a colliding primary id to the id it was stored under.
	Remapped map[string]string `json:"remapped,omitempty"`
	Children int               `json:"children"`
}

func (r *Result) remap(from, to string) {
	if r.Remapped == nil {
		r.Remapped = make(map[string]string)
	}
	r.Remapped[from] = to
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	return nil
}

// decodeBundles accepts a single bundle object or an array of them. Each
// element must be an object carrying every children field as a JSON array.
// indexed reports whether the document was an array.
func decodeBundles[B any](data []byte, children ...string) (bundles []B, indexed bool, err error) {
	trimmed := bytes.TrimSpace(data)
	var elems []json.RawMessage
	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil, true, invalid(problem("", "json", "document is not valid JSON: "+err.Error()))
		}
		indexed = true
	case len(trimmed) > 0 && trimmed[0] == '{':
		elems = []json.RawMessage{trimmed}
	default:
		return nil, false, invalid(problem("", "json", "document must be an object or an array of objects"))
	}

	var problems validation.Problems
	out := make([]B, 0, len(elems))
	for i, raw := range elems {
		prefix := bundlePrefix(indexed, i)
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			problems = append(problems, problem(strings.TrimSuffix(prefix, "."), "object", "bundle must be a JSON object"))
			continue
		}
		shapeOK := true
		for _, name := range children {
			value, ok := fields[name]
			if !ok || !isArray(value) {
				problems = append(problems, problem(prefix+name, "array", name+" must be an array"))
				shapeOK = false
			}
		}
		if !shapeOK {
			continue
		}
		var b B
		if err := json.Unmarshal(raw, &b); err != nil {
			problems = append(problems, problem(strings.TrimSuffix(prefix, "."), "json", err.Error()))
			continue
		}
		out = append(out, b)
	}
	if len(problems) > 0 {
		return nil, indexed, invalid(problems...)
	}
	return out, indexed, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func problem(field, tag, message string) validation.Problem {
	return validation.Problem{Field: field, Tag: tag, Message: message}
}

func invalid(problems ...validation.Problem) *ValidationError {
	return &ValidationError{Problems: problems}
}

// check validates v and appends its problems to dst with field paths
// prefixed.
func check(dst validation.Problems, prefix string, v any) validation.Problems {
	err := validation.Struct(v)
	if err == nil {
		return dst
	}
	found, ok := validation.AsProblems(err)
	if !ok {
		return append(dst, problem(strings.TrimSuffix(prefix, "."), "struct", err.Error()))
	}
	for _, p := range found {
		p.Field = prefix + p.Field
		dst = append(dst, p)
	}
	return dst
}

// idPlanner hands out ids for one collection during an import: the incoming
// id is kept unless it is empty, already stored, or claimed earlier in the
// same document.
type idPlanner struct {
	newID func() string
	taken func(string) bool
	used  map[string]struct{}
}

func newPlanner(newID func() string, taken func(string) bool) *idPlanner {
	return &idPlanner{newID: newID, taken: taken, used: make(map[string]struct{})}
}

func (p *idPlanner) claim(id string) string {
	for id == "" || p.taken(id) || p.isUsed(id) {
		id = p.newID()
	}
	p.used[id] = struct{}{}
	return id
}

func (p *idPlanner) isUsed(id string) bool {
	_, ok := p.used[id]
	return ok
}

func exists[T any](find func(string) (T, bool)) func(string) bool {
	return func(id string) bool {
		_, ok := find(id)
		return ok
	}
}

func bundlePrefix(indexed bool, i int) string {
	if indexed {
		return fmt.Sprintf("[%d].", i)
	}
	return ""
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
