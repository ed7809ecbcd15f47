package transfer

import (
	"fmt"
	"io"

	"trackcore/internal/validation"
	"trackcore/pkg/domain"
)

// StudentStore is the part of the record store the student transfers use.
type StudentStore interface {
	NewID() string
	ListStudents() []domain.Student
	FindStudent(id string) (domain.Student, bool)
	FindGrade(id string) (domain.Grade, bool)
	FindAttendance(id string) (domain.Attendance, bool)
	FindHomework(id string) (domain.Homework, bool)
	GradesFor(studentID string) []domain.Grade
	AttendanceFor(studentID string) []domain.Attendance
	HomeworkFor(studentID string) []domain.Homework
	AddStudent(v domain.Student) domain.Student
	AddGrade(v domain.Grade) domain.Grade
	AddAttendance(v domain.Attendance) domain.Attendance
	AddHomework(v domain.Homework) domain.Homework
}

var studentChildren = []string{"grades", "attendance", "homework"}

// StudentBundleFor collects a student and its child rows.
func StudentBundleFor(st StudentStore, id string) (StudentBundle, bool) {
	s, ok := st.FindStudent(id)
	if !ok {
		return StudentBundle{}, false
	}
	return StudentBundle{
		Student:    s,
		Grades:     nonNil(st.GradesFor(id)),
		Attendance: nonNil(st.AttendanceFor(id)),
		Homework:   nonNil(st.HomeworkFor(id)),
	}, true
}

// ExportStudent writes one student bundle as indented JSON.
func ExportStudent(w io.Writer, st StudentStore, id string) error {
	b, ok := StudentBundleFor(st, id)
	if !ok {
		return fmt.Errorf("student %q: %w", id, ErrNotFound)
	}
	return writeJSON(w, b)
}

// ExportStudents writes every student bundle as an indented JSON array.
func ExportStudents(w io.Writer, st StudentStore) error {
	students := st.ListStudents()
	out := make([]StudentBundle, 0, len(students))
	for _, s := range students {
		if b, ok := StudentBundleFor(st, s.ID); ok {
			out = append(out, b)
		}
	}
	return writeJSON(w, out)
}

// StudentTemplate returns a bulk import template with one example row per
// child collection and no ids.
func StudentTemplate() []StudentBundle {
	return []StudentBundle{{
		Student:    domain.Student{Name: "Student name", Group: "9A", Email: "student@example.com", EnrolledAt: "2024-09-01"},
		Grades:     []domain.Grade{{Subject: "math", Title: "Quiz 1", Score: 8, MaxScore: 10, Date: "2024-09-15"}},
		Attendance: []domain.Attendance{{Date: "2024-09-02", Status: domain.AttendancePresent}},
		Homework:   []domain.Homework{{Title: "Exercises 1-10", Subject: "math", DueDate: "2024-09-09", Status: domain.HomeworkPending}},
	}}
}

// WriteStudentTemplate writes StudentTemplate as indented JSON.
func WriteStudentTemplate(w io.Writer) error { return writeJSON(w, StudentTemplate()) }

// ImportStudents validates a student bundle document and adds its records to
// the store. A student id that is already stored is replaced by a fresh one
// and the child foreign keys follow it. Colliding child ids are re-minted.
func ImportStudents(data []byte, st StudentStore) (Result, error) {
	bundles, indexed, err := decodeBundles[StudentBundle](data, studentChildren...)
	if err != nil {
		return Result{}, err
	}

	students := newPlanner(st.NewID, exists(st.FindStudent))
	grades := newPlanner(st.NewID, exists(st.FindGrade))
	attendance := newPlanner(st.NewID, exists(st.FindAttendance))
	homework := newPlanner(st.NewID, exists(st.FindHomework))

	res := Result{IDs: make([]string, 0, len(bundles))}
	var problems validation.Problems
	planned := make([]StudentBundle, 0, len(bundles))
	for i, b := range bundles {
		prefix := bundlePrefix(indexed, i)
		problems = check(problems, prefix, b.Student)

		original := b.ID
		b.ID = students.claim(b.ID)
		if original != "" && original != b.ID {
			res.remap(original, b.ID)
		}
		b.Grades = append([]domain.Grade(nil), b.Grades...)
		for j := range b.Grades {
			b.Grades[j].StudentID = b.ID
			b.Grades[j].ID = grades.claim(b.Grades[j].ID)
			problems = check(problems, fmt.Sprintf("%sgrades[%d].", prefix, j), b.Grades[j])
		}
		b.Attendance = append([]domain.Attendance(nil), b.Attendance...)
		for j := range b.Attendance {
			b.Attendance[j].StudentID = b.ID
			b.Attendance[j].ID = attendance.claim(b.Attendance[j].ID)
			problems = check(problems, fmt.Sprintf("%sattendance[%d].", prefix, j), b.Attendance[j])
		}
		b.Homework = append([]domain.Homework(nil), b.Homework...)
		for j := range b.Homework {
			b.Homework[j].StudentID = b.ID
			b.Homework[j].ID = homework.claim(b.Homework[j].ID)
			problems = check(problems, fmt.Sprintf("%shomework[%d].", prefix, j), b.Homework[j])
		}
		planned = append(planned, b)
	}
	if len(problems) > 0 {
		return Result{}, invalid(problems...)
	}

	for _, b := range planned {
		st.AddStudent(b.Student)
		for _, g := range b.Grades {
			st.AddGrade(g)
		}
		for _, a := range b.Attendance {
			st.AddAttendance(a)
		}
		for _, h := range b.Homework {
			st.AddHomework(h)
		}
		res.IDs = append(res.IDs, b.ID)
		res.Children += len(b.Grades) + len(b.Attendance) + len(b.Homework)
	}
	return res, nil
}
