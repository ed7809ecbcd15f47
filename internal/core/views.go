package core

import (
	"context"
	"sync"

	"trackcore/internal/views"
	"trackcore/pkg/domain"
)

// sorters keeps the table sort state per primary list.
type sorters struct {
	mu       *sync.Mutex
	students *views.Sorter[domain.Student]
	clients  *views.Sorter[domain.Client]
	projects *views.Sorter[domain.Project]
	tasks    *views.Sorter[domain.Task]
}

func newSorters() sorters {
	return sorters{
		mu: &sync.Mutex{},
		students: views.NewSorter(
			views.ByString("name", func(s domain.Student) string { return s.Name }),
			views.ByString("group", func(s domain.Student) string { return s.Group }),
			views.ByString("enrolledAt", func(s domain.Student) string { return string(s.EnrolledAt) }),
		),
		clients: views.NewSorter(
			views.ByString("name", func(c domain.Client) string { return c.Name }),
			views.ByString("goal", func(c domain.Client) string { return c.Goal }),
			views.ByString("startDate", func(c domain.Client) string { return string(c.StartDate) }),
		),
		projects: views.NewSorter(
			views.ByString("name", func(p domain.Project) string { return p.Name }),
			views.ByString("location", func(p domain.Project) string { return p.Location }),
			views.ByString("status", func(p domain.Project) string { return string(p.Status) }),
			views.ByString("startDate", func(p domain.Project) string { return string(p.StartDate) }),
		),
		tasks: views.NewSorter(
			views.ByString("title", func(t domain.Task) string { return t.Title }),
			views.ByString("status", func(t domain.Task) string { return string(t.Status) }),
			views.ByNumber("priority", func(t domain.Task) float64 { return float64(t.Priority) }),
			views.ByString("dueDate", func(t domain.Task) string { return string(t.DueDate) }),
		),
	}
}

func sortWith[T any](s *Service, sorter *views.Sorter[T], items []T, field string) ([]T, views.Direction, error) {
	s.sorters.mu.Lock()
	defer s.sorters.mu.Unlock()
	out, err := sorter.Sort(items, field)
	if err != nil {
		return nil, views.Ascending, err
	}
	_, dir := sorter.State()
	return out, dir, nil
}

// SortStudents returns the students ordered by field. Asking for the same
// field twice in a row flips the direction.
func (s *Service) SortStudents(field string) ([]domain.Student, views.Direction, error) {
	return sortWith(s, s.sorters.students, s.store.ListStudents(), field)
}

// SortClients returns the clients ordered by field.
func (s *Service) SortClients(field string) ([]domain.Client, views.Direction, error) {
	return sortWith(s, s.sorters.clients, s.store.ListClients(), field)
}

// SortProjects returns the projects ordered by field.
func (s *Service) SortProjects(field string) ([]domain.Project, views.Direction, error) {
	return sortWith(s, s.sorters.projects, s.store.ListProjects(), field)
}

// SortTasks returns the tasks ordered by field.
func (s *Service) SortTasks(field string) ([]domain.Task, views.Direction, error) {
	return sortWith(s, s.sorters.tasks, s.store.ListTasks(), field)
}

// StudentReport rolls up a student's grades, attendance and homework.
func (s *Service) StudentReport(ctx context.Context, id string) (views.StudentReport, error) {
	var report views.StudentReport
	err := s.run(ctx, "student_report", func(context.Context) error {
		student, err := s.GetStudent(id)
		if err != nil {
			return err
		}
		report = views.BuildStudentReport(student, s.store.GradesFor(id), s.store.AttendanceFor(id), s.store.HomeworkFor(id))
		return nil
	})
	return report, err
}

// MonthlyAttendance lays out a student's attendance for every day of ym.
func (s *Service) MonthlyAttendance(ctx context.Context, studentID string, ym views.YearMonth) ([]views.DayStatus, error) {
	var days []views.DayStatus
	err := s.run(ctx, "monthly_attendance", func(context.Context) error {
		if _, err := s.GetStudent(studentID); err != nil {
			return err
		}
		days = views.MonthlyAttendance(studentID, s.store.AttendanceFor(studentID), ym)
		return nil
	})
	return days, err
}

// ClientProgress summarises a client's measurements.
func (s *Service) ClientProgress(ctx context.Context, id string) (views.ClientProgress, error) {
	var progress views.ClientProgress
	err := s.run(ctx, "client_progress", func(context.Context) error {
		client, err := s.GetClient(id)
		if err != nil {
			return err
		}
		progress = views.BuildClientProgress(client, s.store.MeasurementsFor(id))
		return nil
	})
	return progress, err
}

// ProjectSummary aggregates a project's elements.
func (s *Service) ProjectSummary(ctx context.Context, id string) (views.ProjectSummary, error) {
	var summary views.ProjectSummary
	err := s.run(ctx, "project_summary", func(context.Context) error {
		project, err := s.GetProject(id)
		if err != nil {
			return err
		}
		summary = views.BuildProjectSummary(project, s.store.ElementsFor(id))
		return nil
	})
	return summary, err
}

// TaskBoard summarises the task list with the tasks due in ym.
func (s *Service) TaskBoard(ctx context.Context, ym views.YearMonth) views.TaskBoard {
	var board views.TaskBoard
	_ = s.run(ctx, "task_board", func(context.Context) error {
		board = views.BuildTaskBoard(s.store.ListTasks(), ym)
		return nil
	})
	return board
}
