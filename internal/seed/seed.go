// Package seed provides the fixed sample dataset written on first start.
package seed

import (
	"trackcore/internal/infra/persistence/memory"
	"trackcore/pkg/domain"
)

// Snapshot returns a fresh copy of the sample dataset. Ids are fixed so the
// seed path is reproducible.
func Snapshot() memory.Snapshot {
	return memory.Snapshot{
		Students: []domain.Student{
			{ID: "s1", Name: "Alice Johnson", Group: "10A", Email: "alice@example.com", EnrolledAt: "2023-09-01"},
			{ID: "s2", Name: "Bob Smith", Group: "10B", Email: "bob@example.com", EnrolledAt: "2023-09-01"},
		},
		Grades: []domain.Grade{
			{ID: "g1", StudentID: "s1", Subject: "math", Title: "Algebra test", Score: 80, MaxScore: 100, Date: "2024-01-15"},
			{ID: "g2", StudentID: "s1", Subject: "physics", Title: "Lab report", Score: 45, MaxScore: 50, Date: "2024-01-22"},
			{ID: "g3", StudentID: "s1", Subject: "math", Title: "Geometry quiz", Score: 9, MaxScore: 10, Date: "2024-02-05"},
			{ID: "g4", StudentID: "s2", Subject: "math", Title: "Algebra test", Score: 65, MaxScore: 100, Date: "2024-01-15"},
			{ID: "g5", StudentID: "s2", Subject: "history", Title: "Essay", Score: 38, MaxScore: 50, Date: "2024-02-01"},
		},
		Attendance: []domain.Attendance{
			{ID: "a1", StudentID: "s1", Date: "2024-01-15", Status: domain.AttendancePresent},
			{ID: "a2", StudentID: "s1", Date: "2024-01-16", Status: domain.AttendancePresent},
			{ID: "a3", StudentID: "s1", Date: "2024-01-17", Status: domain.AttendanceLate, Note: "bus delay"},
			{ID: "a4", StudentID: "s2", Date: "2024-01-15", Status: domain.AttendanceAbsent},
			{ID: "a5", StudentID: "s2", Date: "2024-01-16", Status: domain.AttendancePresent},
		},
		Homework: []domain.Homework{
			{ID: "h1", StudentID: "s1", Title: "Exercises 1-20", Subject: "math", DueDate: "2024-01-20", Status: domain.HomeworkGraded, Score: 18, MaxScore: 20},
			{ID: "h2", StudentID: "s1", Title: "Pendulum lab", Subject: "physics", DueDate: "2024-02-10", Status: domain.HomeworkPending},
			{ID: "h3", StudentID: "s2", Title: "Exercises 1-20", Subject: "math", DueDate: "2024-01-20", Status: domain.HomeworkSubmitted},
		},
		Clients: []domain.Client{
			{ID: "c1", Name: "Dana White", Phone: "+1 555 0101", Goal: "lose 6 kg", StartDate: "2024-01-02"},
		},
		Measurements: []domain.Measurement{
			{ID: "m1", ClientID: "c1", Date: "2024-01-02", Weight: 84, BodyFat: 27, Waist: 94, Chest: 104, Hips: 106},
			{ID: "m2", ClientID: "c1", Date: "2024-02-01", Weight: 82.4, BodyFat: 26, Waist: 92, Chest: 103, Hips: 105},
			{ID: "m3", ClientID: "c1", Date: "2024-03-01", Weight: 80.9, BodyFat: 24.8, Waist: 90, Chest: 102, Hips: 103},
		},
		Projects: []domain.Project{
			{ID: "p1", Name: "Riverside Office", Location: "12 River St", Status: domain.ProjectActive, StartDate: "2024-02-01"},
		},
		Elements: []domain.Element{
			{ID: "e1", ProjectID: "p1", Name: "Foundation slab", Type: "slab", Material: "concrete", Volume: 120, Status: domain.ElementVerified},
			{ID: "e2", ProjectID: "p1", Name: "Column C1", Type: "column", Material: "concrete", Volume: 4.5, Status: domain.ElementInstalled},
			{ID: "e3", ProjectID: "p1", Name: "Roof truss", Type: "beam", Material: "steel", Volume: 2.2, Status: domain.ElementPlanned},
			{ID: "e4", ProjectID: "p1", Name: "Curtain wall", Type: "wall", Material: "glass", Volume: 6, Status: domain.ElementPlanned},
		},
		Tasks: []domain.Task{
			{ID: "t1", Title: "Order rebar", Status: domain.TaskDone, Priority: 2, DueDate: "2024-02-05"},
			{ID: "t2", Title: "Schedule crane", Status: domain.TaskInProgress, Priority: 1, DueDate: "2024-02-20"},
			{ID: "t3", Title: "Parent meeting", Status: domain.TaskTodo, Priority: 3, DueDate: "2024-03-04"},
		},
	}
}
