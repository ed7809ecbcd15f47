package domain

import (
	"testing"
	"time"
)

func TestDateParsing(t *testing.T) {
	d := NewDate(time.Date(2024, time.February, 29, 15, 0, 0, 0, time.UTC))
	if d != "2024-02-29" {
		t.Fatalf("unexpected date %q", d)
	}
	if !d.Valid() || d.Time().Day() != 29 {
		t.Fatalf("expected valid leap day, got %v", d.Time())
	}
	if !d.HasPrefix("2024-02") || d.HasPrefix("2024-03") {
		t.Fatalf("prefix match wrong for %q", d)
	}
	for _, bad := range []Date{"", "2023-02-29", "2024-2-01", "yesterday"} {
		if bad.Valid() {
			t.Fatalf("expected %q to be invalid", bad)
		}
		if !bad.Time().IsZero() {
			t.Fatalf("expected zero time for %q", bad)
		}
	}
}

func TestRecordAccessors(t *testing.T) {
	var g Grade
	g.SetRecordID("g1")
	g.StudentID = "s1"
	var rec ChildRecord = &g
	if rec.RecordID() != "g1" || rec.ParentID() != "s1" {
		t.Fatalf("unexpected accessors %q %q", rec.RecordID(), rec.ParentID())
	}

	parents := map[string]ChildRecord{
		"s1": &Attendance{StudentID: "s1"},
		"s2": &Homework{StudentID: "s2"},
		"c1": &Measurement{ClientID: "c1"},
		"p1": &Element{ProjectID: "p1"},
	}
	for want, child := range parents {
		if child.ParentID() != want {
			t.Fatalf("expected parent %q, got %q", want, child.ParentID())
		}
	}

	primaries := []Record{&Student{}, &Client{}, &Project{}, &Task{}}
	for _, r := range primaries {
		r.SetRecordID("x")
		if r.RecordID() != "x" {
			t.Fatalf("id not assigned on %T", r)
		}
	}
}

func TestTouchedCollectionsKeepsFirstSeenOrder(t *testing.T) {
	changes := []Change{
		{Collection: CollectionStudents, Action: ActionDelete, ID: "s1"},
		{Collection: CollectionGrades, Action: ActionDelete, ID: "g1", ParentID: "s1"},
		{Collection: CollectionGrades, Action: ActionDelete, ID: "g2", ParentID: "s1"},
		{Collection: CollectionHomework, Action: ActionDelete, ID: "h1", ParentID: "s1"},
	}
	got := TouchedCollections(changes)
	want := []Collection{CollectionStudents, CollectionGrades, CollectionHomework}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	var seen []Change
	obs := ChangeObserverFunc(func(c []Change) { seen = c })
	obs.OnChange(changes[:1])
	if len(seen) != 1 || seen[0].ID != "s1" {
		t.Fatalf("observer not invoked: %v", seen)
	}
	if len(Collections) != 9 {
		t.Fatalf("expected nine collections, got %d", len(Collections))
	}
}
