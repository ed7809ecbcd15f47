package memory_test

import (
	"fmt"
	"reflect"
	"testing"

	"trackcore/internal/infra/persistence/memory"
	"trackcore/pkg/domain"
)

func sequentialIDs() memory.Option {
	n := 0
	return memory.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func seedStudents(t *testing.T, store *memory.Store) (string, string) {
	t.Helper()
	a := store.AddStudent(domain.Student{Name: "Ana", Group: "9A"})
	b := store.AddStudent(domain.Student{Name: "Ben", Group: "9B"})
	store.AddGrade(domain.Grade{StudentID: a.ID, Subject: "math", Score: 80, MaxScore: 100})
	store.AddGrade(domain.Grade{StudentID: b.ID, Subject: "math", Score: 70, MaxScore: 100})
	store.AddAttendance(domain.Attendance{StudentID: a.ID, Date: "2024-01-10", Status: domain.AttendancePresent})
	store.AddAttendance(domain.Attendance{StudentID: b.ID, Date: "2024-01-10", Status: domain.AttendanceAbsent})
	store.AddHomework(domain.Homework{StudentID: a.ID, Title: "Essay", Status: domain.HomeworkPending})
	return a.ID, b.ID
}

func TestAddMintsIDWhenMissing(t *testing.T) {
	store := memory.NewStore(sequentialIDs())
	s := store.AddStudent(domain.Student{Name: "Ana"})
	if s.ID != "id-1" {
		t.Fatalf("expected minted id, got %q", s.ID)
	}
	kept := store.AddStudent(domain.Student{ID: "given", Name: "Ben"})
	if kept.ID != "given" {
		t.Fatalf("expected caller id to be kept, got %q", kept.ID)
	}
	if got := store.ListStudents(); len(got) != 2 || got[0].Name != "Ana" || got[1].Name != "Ben" {
		t.Fatalf("unexpected insertion order: %+v", got)
	}
}

func TestAddThenRemoveRestoresContents(t *testing.T) {
	store := memory.NewStore()
	seedStudents(t, store)
	before := store.ExportState()

	added := store.AddTask(domain.Task{Title: "Call parents", Status: domain.TaskTodo})
	if !store.RemoveTask(added.ID) {
		t.Fatalf("expected task removal")
	}
	after := store.ExportState()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("round trip changed state\nbefore=%+v\nafter=%+v", before, after)
	}
}

func TestUpdatePatchesSingleField(t *testing.T) {
	store := memory.NewStore()
	original := store.AddGrade(domain.Grade{StudentID: "s1", Subject: "math", Title: "Quiz", Score: 70, MaxScore: 100, Date: "2024-02-01"})

	updated, ok := store.UpdateGrade(original.ID, func(g *domain.Grade) {
		g.Score = 95
		g.ID = "hijacked"
	})
	if !ok {
		t.Fatalf("expected update to succeed")
	}
	want := original
	want.Score = 95
	if updated != want {
		t.Fatalf("expected only score to change, got %+v want %+v", updated, want)
	}
	stored, _ := store.FindGrade(original.ID)
	if stored != want {
		t.Fatalf("stored grade mismatch: %+v", stored)
	}
	if _, ok := store.FindGrade("hijacked"); ok {
		t.Fatalf("mutator must not change the id")
	}
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	store := memory.NewStore()
	seedStudents(t, store)
	before := store.ExportState()
	calls := 0
	store.Subscribe(domain.ChangeObserverFunc(func([]domain.Change) { calls++ }))

	if _, ok := store.UpdateStudent("missing", func(s *domain.Student) { s.Name = "X" }); ok {
		t.Fatalf("expected not found")
	}
	if !reflect.DeepEqual(before, store.ExportState()) {
		t.Fatalf("state changed on missing update")
	}
	if calls != 0 {
		t.Fatalf("observers notified for no-op update")
	}
}

func TestRemoveStudentCascadesOnlyToOwnChildren(t *testing.T) {
	store := memory.NewStore()
	a, b := seedStudents(t, store)

	var got []domain.Change
	store.Subscribe(domain.ChangeObserverFunc(func(changes []domain.Change) { got = append(got, changes...) }))

	if !store.RemoveStudent(a) {
		t.Fatalf("expected removal")
	}
	if _, ok := store.FindStudent(a); ok {
		t.Fatalf("student still present")
	}
	for _, g := range store.ListGrades() {
		if g.StudentID == a {
			t.Fatalf("grade of removed student survived: %+v", g)
		}
	}
	if n := len(store.GradesFor(b)); n != 1 {
		t.Fatalf("expected other student's grade kept, got %d", n)
	}
	if n := len(store.AttendanceFor(b)); n != 1 {
		t.Fatalf("expected other student's attendance kept, got %d", n)
	}
	if n := len(store.ListHomework()); n != 0 {
		t.Fatalf("expected homework cascade, got %d", n)
	}
	want := []domain.Collection{domain.CollectionStudents, domain.CollectionGrades, domain.CollectionAttendance, domain.CollectionHomework}
	if touched := domain.TouchedCollections(got); !reflect.DeepEqual(touched, want) {
		t.Fatalf("unexpected touched collections %v", touched)
	}
}

func TestRemoveUnknownParentLeavesChildren(t *testing.T) {
	store := memory.NewStore()
	store.AddMeasurement(domain.Measurement{ClientID: "ghost", Date: "2024-01-01", Weight: 80})
	if store.RemoveClient("ghost") {
		t.Fatalf("expected false for unknown client")
	}
	if n := len(store.ListMeasurements()); n != 1 {
		t.Fatalf("orphan measurement must not be touched, got %d", n)
	}
}

func TestDuplicateIDsShadowOnLookup(t *testing.T) {
	store := memory.NewStore()
	store.AddProject(domain.Project{ID: "p1", Name: "First"})
	store.AddProject(domain.Project{ID: "p1", Name: "Second"})

	found, ok := store.FindProject("p1")
	if !ok || found.Name != "Second" {
		t.Fatalf("expected later project to shadow earlier, got %+v", found)
	}
	if n := len(store.ListProjects()); n != 2 {
		t.Fatalf("both duplicates must remain, got %d", n)
	}
	dups := store.DuplicateIDs()
	if !reflect.DeepEqual(dups[domain.CollectionProjects], []string{"p1"}) {
		t.Fatalf("unexpected duplicates %v", dups)
	}
	if !store.RemoveProject("p1") || len(store.ListProjects()) != 0 {
		t.Fatalf("remove must filter every record with the id")
	}
}

func TestChildQueriesFilterByParent(t *testing.T) {
	store := memory.NewStore()
	p := store.AddProject(domain.Project{Name: "Tower"})
	store.AddElement(domain.Element{ProjectID: p.ID, Name: "Slab", Material: "concrete", Volume: 12})
	store.AddElement(domain.Element{ProjectID: "other", Name: "Beam", Material: "steel", Volume: 2})
	if got := store.ElementsFor(p.ID); len(got) != 1 || got[0].Name != "Slab" {
		t.Fatalf("unexpected elements %+v", got)
	}
	if !store.RemoveProject(p.ID) {
		t.Fatalf("expected removal")
	}
	if got := store.ListElements(); len(got) != 1 || got[0].ProjectID != "other" {
		t.Fatalf("cascade removed foreign elements: %+v", got)
	}
}
