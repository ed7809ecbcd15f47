package views

import (
	"errors"
	"reflect"
	"testing"

	"trackcore/pkg/domain"
)

func names(students []domain.Student) []string {
	out := make([]string, 0, len(students))
	for _, s := range students {
		out = append(out, s.Name)
	}
	return out
}

func studentSorter() *Sorter[domain.Student] {
	return NewSorter(
		ByString("name", func(s domain.Student) string { return s.Name }),
		ByString("group", func(s domain.Student) string { return s.Group }),
	)
}

func TestSortSameFieldTwiceToggles(t *testing.T) {
	students := []domain.Student{{Name: "Cleo"}, {Name: "ana"}, {Name: "Ben"}}
	sorter := studentSorter()

	asc, err := sorter.Sort(students, "name")
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if !reflect.DeepEqual(names(asc), []string{"ana", "Ben", "Cleo"}) {
		t.Fatalf("unexpected ascending %v", names(asc))
	}
	desc, _ := sorter.Sort(students, "name")
	if !reflect.DeepEqual(names(desc), []string{"Cleo", "Ben", "ana"}) {
		t.Fatalf("unexpected descending %v", names(desc))
	}
	if field, dir := sorter.State(); field != "name" || dir != Descending || dir.String() != "desc" {
		t.Fatalf("unexpected state %s %s", field, dir)
	}
	if !reflect.DeepEqual(names(students), []string{"Cleo", "ana", "Ben"}) {
		t.Fatalf("sorting must not mutate input: %v", names(students))
	}
}

func TestSortNewFieldResetsAscendingAndIsStable(t *testing.T) {
	students := []domain.Student{{Name: "A", Group: "9B"}, {Name: "B", Group: "9A"}, {Name: "C", Group: "9B"}}
	sorter := studentSorter()
	_, _ = sorter.Sort(students, "name")
	_, _ = sorter.Sort(students, "name")
	byGroup, _ := sorter.Sort(students, "group")
	if !reflect.DeepEqual(names(byGroup), []string{"B", "A", "C"}) {
		t.Fatalf("expected stable ascending by group, got %v", names(byGroup))
	}
	byGroupDesc, _ := sorter.Sort(students, "group")
	if !reflect.DeepEqual(names(byGroupDesc), []string{"A", "C", "B"}) {
		t.Fatalf("expected stable descending by group, got %v", names(byGroupDesc))
	}
}

func TestSorterRejectsUnknownFieldAndDefaultsToInsertionOrder(t *testing.T) {
	sorter := NewSorter(ByNumber("priority", func(t domain.Task) float64 { return float64(t.Priority) }))
	tasks := []domain.Task{{ID: "b", Priority: 2}, {ID: "a", Priority: 1}}
	if got := sorter.Apply(tasks); got[0].ID != "b" {
		t.Fatalf("expected insertion order without a field")
	}
	if _, err := sorter.Sort(tasks, "missing"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	got, _ := sorter.Sort(tasks, "priority")
	if got[0].ID != "a" {
		t.Fatalf("expected ascending priority, got %+v", got)
	}
}
