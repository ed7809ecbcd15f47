package transfer_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"trackcore/internal/infra/persistence/memory"
	"trackcore/internal/transfer"
	"trackcore/pkg/domain"
)

func newStore(prefix string) *memory.Store {
	n := 0
	return memory.NewStore(memory.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}))
}

func seededStudent(store *memory.Store) domain.Student {
	s := store.AddStudent(domain.Student{ID: "s1", Name: "Ana", Group: "9A"})
	store.AddGrade(domain.Grade{ID: "g1", StudentID: s.ID, Subject: "math", Score: 80, MaxScore: 100, Date: "2024-01-10"})
	store.AddAttendance(domain.Attendance{ID: "a1", StudentID: s.ID, Date: "2024-01-10", Status: domain.AttendancePresent})
	store.AddHomework(domain.Homework{ID: "h1", StudentID: s.ID, Title: "Essay", Status: domain.HomeworkSubmitted})
	return s
}

func validationProblems(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *transfer.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	out := make(map[string]string, len(verr.Problems))
	for _, p := range verr.Problems {
		out[p.Field] = p.Tag
	}
	return out
}

func TestExportImportStudentIntoEmptyStoreKeepsIDs(t *testing.T) {
	src := newStore("src")
	s := seededStudent(src)

	var buf bytes.Buffer
	if err := transfer.ExportStudent(&buf, src, s.ID); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"name\": \"Ana\"") {
		t.Fatalf("expected indented output, got %s", buf.String())
	}

	dst := newStore("dst")
	res, err := transfer.ImportStudents(buf.Bytes(), dst)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(res.IDs) != 1 || res.IDs[0] != "s1" || len(res.Remapped) != 0 || res.Children != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	if g, ok := dst.FindGrade("g1"); !ok || g.StudentID != "s1" || g.Score != 80 {
		t.Fatalf("grade not imported: %+v", g)
	}
}

func TestImportCollidingStudentRemapsChildren(t *testing.T) {
	store := newStore("id")
	s := seededStudent(store)

	var buf bytes.Buffer
	if err := transfer.ExportStudent(&buf, store, s.ID); err != nil {
		t.Fatalf("export: %v", err)
	}
	res, err := transfer.ImportStudents(buf.Bytes(), store)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	newID := res.IDs[0]
	if newID == "s1" || res.Remapped["s1"] != newID {
		t.Fatalf("expected fresh id for colliding student, got %+v", res)
	}
	if n := len(store.ListStudents()); n != 2 {
		t.Fatalf("expected two students, got %d", n)
	}
	grades := store.GradesFor(newID)
	if len(grades) != 1 || grades[0].ID == "g1" {
		t.Fatalf("expected re-minted child grade, got %+v", grades)
	}
	if n := len(store.GradesFor("s1")); n != 1 {
		t.Fatalf("original student's grades changed: %d", n)
	}
	if len(store.DuplicateIDs()) != 0 {
		t.Fatalf("import introduced duplicate ids: %v", store.DuplicateIDs())
	}
}

func TestImportRejectsMissingName(t *testing.T) {
	store := newStore("id")
	seededStudent(store)
	before := store.ExportState()

	doc := `{"group":"9B","grades":[],"attendance":[],"homework":[]}`
	_, err := transfer.ImportStudents([]byte(doc), store)
	problems := validationProblems(t, err)
	if problems["name"] != "required" {
		t.Fatalf("expected name problem, got %v", problems)
	}
	if got := store.ExportState(); len(got.Students) != len(before.Students) {
		t.Fatalf("store changed after rejected import")
	}
}

func TestImportRejectsNonArrayChildren(t *testing.T) {
	store := newStore("id")
	doc := `{"name":"Dana","measurements":{"weight":80}}`
	_, err := transfer.ImportClients([]byte(doc), store)
	problems := validationProblems(t, err)
	if problems["measurements"] != "array" {
		t.Fatalf("expected array problem, got %v", problems)
	}

	_, err = transfer.ImportProjects([]byte(`{"name":"Tower"}`), store)
	problems = validationProblems(t, err)
	if problems["elements"] != "array" {
		t.Fatalf("expected missing elements problem, got %v", problems)
	}
	if len(store.ListClients()) != 0 || len(store.ListProjects()) != 0 {
		t.Fatalf("rejected imports must not write")
	}
}

func TestImportReportsChildPaths(t *testing.T) {
	store := newStore("id")
	doc := `[
		{"name":"Ok","grades":[],"attendance":[],"homework":[]},
		{"name":"Bad","grades":[{"subject":"math","score":-5,"maxScore":10}],"attendance":[{"date":"2024-02-30","status":"present"}],"homework":[]}
	]`
	_, err := transfer.ImportStudents([]byte(doc), store)
	problems := validationProblems(t, err)
	if problems["[1].grades[0].score"] != "gte" {
		t.Fatalf("expected indexed score problem, got %v", problems)
	}
	if problems["[1].attendance[0].date"] != "isodate" {
		t.Fatalf("expected date problem, got %v", problems)
	}
	if len(store.ListStudents()) != 0 {
		t.Fatalf("valid bundle must not be applied when another fails")
	}
}

func TestImportRejectsNonObjectDocument(t *testing.T) {
	_, err := transfer.ImportStudents([]byte(`"text"`), newStore("id"))
	problems := validationProblems(t, err)
	if problems[""] != "json" {
		t.Fatalf("unexpected problems %v", problems)
	}
}

func TestTemplatesImportCleanly(t *testing.T) {
	store := newStore("id")
	var buf bytes.Buffer

	if err := transfer.WriteStudentTemplate(&buf); err != nil {
		t.Fatalf("template: %v", err)
	}
	if _, err := transfer.ImportStudents(buf.Bytes(), store); err != nil {
		t.Fatalf("student template: %v", err)
	}
	buf.Reset()
	if err := transfer.WriteClientTemplate(&buf); err != nil {
		t.Fatalf("template: %v", err)
	}
	res, err := transfer.ImportClients(buf.Bytes(), store)
	if err != nil {
		t.Fatalf("client template: %v", err)
	}
	if m := store.MeasurementsFor(res.IDs[0]); len(m) != 1 || m[0].ClientID != res.IDs[0] {
		t.Fatalf("measurement foreign key not set: %+v", m)
	}
	buf.Reset()
	if err := transfer.WriteProjectTemplate(&buf); err != nil {
		t.Fatalf("template: %v", err)
	}
	if _, err := transfer.ImportProjects(buf.Bytes(), store); err != nil {
		t.Fatalf("project template: %v", err)
	}
	if len(store.ListHomework()) != 1 || len(store.ListElements()) != 1 {
		t.Fatalf("template children missing")
	}
}

func TestExportAllWritesArrays(t *testing.T) {
	store := newStore("id")
	seededStudent(store)
	p := store.AddProject(domain.Project{Name: "Tower"})
	store.AddElement(domain.Element{ProjectID: p.ID, Name: "Slab", Volume: 3})

	var buf bytes.Buffer
	if err := transfer.ExportProjects(&buf, store); err != nil {
		t.Fatalf("export: %v", err)
	}
	var projects []transfer.ProjectBundle
	if err := json.Unmarshal(buf.Bytes(), &projects); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(projects) != 1 || len(projects[0].Elements) != 1 {
		t.Fatalf("unexpected export %+v", projects)
	}

	buf.Reset()
	if err := transfer.ExportClients(&buf, store); err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
}

func TestExportUnknownRecord(t *testing.T) {
	store := newStore("id")
	var buf bytes.Buffer
	if err := transfer.ExportStudent(&buf, store, "nope"); !errors.Is(err, transfer.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := transfer.ExportClient(&buf, store, "nope"); !errors.Is(err, transfer.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := transfer.ExportProject(&buf, store, "nope"); !errors.Is(err, transfer.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written for unknown records")
	}
}
