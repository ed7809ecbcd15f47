package validation

import (
	"strings"
	"testing"

	"trackcore/pkg/domain"
)

func TestStructAcceptsValidRecords(t *testing.T) {
	records := []any{
		domain.Student{Name: "Ana", Email: "ana@example.com", EnrolledAt: "2024-09-01"},
		domain.Grade{StudentID: "s1", Subject: "math", Score: 80, MaxScore: 100, Date: "2024-01-10"},
		domain.Attendance{StudentID: "s1", Date: "2024-01-10", Status: domain.AttendanceLate},
		domain.Task{Title: "Plan", Status: domain.TaskTodo},
	}
	for _, r := range records {
		if err := Struct(r); err != nil {
			t.Fatalf("%T: unexpected error %v", r, err)
		}
	}
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(domain.Grade{Subject: "math", Score: -1, MaxScore: 0})
	problems, ok := AsProblems(err)
	if !ok {
		t.Fatalf("expected problems, got %v", err)
	}
	fields := map[string]string{}
	for _, p := range problems {
		fields[p.Field] = p.Tag
	}
	want := map[string]string{"studentId": "required", "score": "gte", "maxScore": "gt"}
	for field, tag := range want {
		if fields[field] != tag {
			t.Fatalf("expected %s to fail %s, got %v", field, tag, fields)
		}
	}
	if !strings.Contains(err.Error(), "studentId is a required field") {
		t.Fatalf("expected translated message, got %q", err.Error())
	}
}

func TestStructRejectsMalformedDate(t *testing.T) {
	err := Struct(domain.Measurement{ClientID: "c1", Date: "2024-13-01", Weight: 70})
	problems, ok := AsProblems(err)
	if !ok || len(problems) != 1 {
		t.Fatalf("expected one problem, got %v", err)
	}
	if problems[0].Tag != "isodate" || problems[0].Message != "date must be a YYYY-MM-DD date" {
		t.Fatalf("unexpected problem %+v", problems[0])
	}
}

func TestStructRejectsUnknownStatus(t *testing.T) {
	err := Struct(domain.Attendance{StudentID: "s1", Date: "2024-01-10", Status: "sleeping"})
	problems, ok := AsProblems(err)
	if !ok || problems[0].Field != "status" || problems[0].Tag != "oneof" {
		t.Fatalf("unexpected result %v", err)
	}
}

func TestStructNonStructReturnsPlainError(t *testing.T) {
	err := Struct(42)
	if err == nil {
		t.Fatalf("expected error")
	}
	if _, ok := AsProblems(err); ok {
		t.Fatalf("non-struct input must not produce problems")
	}
}
