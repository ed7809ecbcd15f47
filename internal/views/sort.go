package views

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownField is returned when a sort names an unregistered field.
var ErrUnknownField = errors.New("unknown sort field")

// Direction is a sort direction.
type Direction int

// Sort directions. The zero value is ascending.
const (
	Ascending Direction = iota
	Descending
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Field names a sortable column and its ascending comparator.
type Field[T any] struct {
	Name string
	Less func(a, b T) bool
}

// ByString orders by a text field, case-insensitively.
func ByString[T any](name string, get func(T) string) Field[T] {
	return Field[T]{Name: name, Less: func(a, b T) bool {
		return strings.ToLower(get(a)) < strings.ToLower(get(b))
	}}
}

// ByNumber orders by a numeric field.
func ByNumber[T any](name string, get func(T) float64) Field[T] {
	return Field[T]{Name: name, Less: func(a, b T) bool { return get(a) < get(b) }}
}

// Sorter remembers the last requested field. Requesting the same field
// twice in a row flips the direction; a new field starts ascending.
type Sorter[T any] struct {
	fields map[string]Field[T]
	field  string
	dir    Direction
}

// NewSorter registers the sortable fields.
func NewSorter[T any](fields ...Field[T]) *Sorter[T] {
	s := &Sorter[T]{fields: make(map[string]Field[T], len(fields))}
	for _, f := range fields {
		s.fields[f.Name] = f
	}
	return s
}

// Toggle updates the sort state for a request on field.
func (s *Sorter[T]) Toggle(field string) error {
	if _, ok := s.fields[field]; !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, field)
	}
	if field == s.field {
		if s.dir == Ascending {
			s.dir = Descending
		} else {
			s.dir = Ascending
		}
		return nil
	}
	s.field = field
	s.dir = Ascending
	return nil
}

// State returns the current field and direction.
func (s *Sorter[T]) State() (string, Direction) { return s.field, s.dir }

// Apply returns a stably sorted copy of items using the current state. With
// no field selected the copy keeps insertion order.
func (s *Sorter[T]) Apply(items []T) []T {
	out := append(make([]T, 0, len(items)), items...)
	f, ok := s.fields[s.field]
	if !ok {
		return out
	}
	less := f.Less
	if s.dir == Descending {
		less = func(a, b T) bool { return f.Less(b, a) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Sort toggles field and applies the resulting order.
func (s *Sorter[T]) Sort(items []T, field string) ([]T, error) {
	if err := s.Toggle(field); err != nil {
		return nil, err
	}
	return s.Apply(items), nil
}
