package core

import (
	"context"

	"trackcore/pkg/domain"
)

// recordOps binds one collection's store methods so CRUD is written once.
type recordOps[T any] struct {
	name       string
	collection domain.Collection
	// parent is set for child collections; parentOK checks the foreign key.
	parent   domain.Collection
	parentOK func(id string) bool

	find   func(id string) (T, bool)
	list   func() []T
	add    func(v T) T
	update func(id string, mutator func(*T)) (T, bool)
	remove func(id string) bool
}

func (o recordOps[T]) checkParent(v T) error {
	if o.parentOK == nil {
		return nil
	}
	p, ok := any(v).(interface{ ParentID() string })
	if !ok {
		return nil
	}
	if id := p.ParentID(); !o.parentOK(id) {
		return ErrNotFound{Collection: o.parent, ID: id}
	}
	return nil
}

func (o recordOps[T]) create(ctx context.Context, s *Service, v T) (T, error) {
	var created T
	err := s.run(ctx, "create_"+o.name, func(context.Context) error {
		if err := s.validate(o.collection, v); err != nil {
			return err
		}
		if err := o.checkParent(v); err != nil {
			return err
		}
		created = o.add(v)
		return nil
	})
	return created, err
}

// patch applies mutator to a copy, validates the result and only then
// writes it back. The id cannot be changed.
func (o recordOps[T]) patch(ctx context.Context, s *Service, id string, mutator func(*T) error) (T, error) {
	var updated T
	err := s.run(ctx, "update_"+o.name, func(context.Context) error {
		current, ok := o.find(id)
		if !ok {
			return ErrNotFound{Collection: o.collection, ID: id}
		}
		if mutator != nil {
			if err := mutator(&current); err != nil {
				return err
			}
		}
		if err := s.validate(o.collection, current); err != nil {
			return err
		}
		if err := o.checkParent(current); err != nil {
			return err
		}
		updated, ok = o.update(id, func(t *T) { *t = current })
		if !ok {
			return ErrNotFound{Collection: o.collection, ID: id}
		}
		return nil
	})
	return updated, err
}

func (o recordOps[T]) delete(ctx context.Context, s *Service, id string) error {
	return s.run(ctx, "delete_"+o.name, func(context.Context) error {
		if !o.remove(id) {
			return ErrNotFound{Collection: o.collection, ID: id}
		}
		return nil
	})
}

func (o recordOps[T]) get(id string) (T, error) {
	v, ok := o.find(id)
	if !ok {
		return v, ErrNotFound{Collection: o.collection, ID: id}
	}
	return v, nil
}

func exists[T any](find func(string) (T, bool)) func(string) bool {
	return func(id string) bool {
		_, ok := find(id)
		return ok
	}
}

func (s *Service) students() recordOps[domain.Student] {
	return recordOps[domain.Student]{
		name: "student", collection: domain.CollectionStudents,
		find: s.store.FindStudent, list: s.store.ListStudents,
		add: s.store.AddStudent, update: s.store.UpdateStudent, remove: s.store.RemoveStudent,
	}
}

func (s *Service) grades() recordOps[domain.Grade] {
	return recordOps[domain.Grade]{
		name: "grade", collection: domain.CollectionGrades,
		parent: domain.CollectionStudents, parentOK: exists(s.store.FindStudent),
		find: s.store.FindGrade, list: s.store.ListGrades,
		add: s.store.AddGrade, update: s.store.UpdateGrade, remove: s.store.RemoveGrade,
	}
}

func (s *Service) attendance() recordOps[domain.Attendance] {
	return recordOps[domain.Attendance]{
		name: "attendance", collection: domain.CollectionAttendance,
		parent: domain.CollectionStudents, parentOK: exists(s.store.FindStudent),
		find: s.store.FindAttendance, list: s.store.ListAttendance,
		add: s.store.AddAttendance, update: s.store.UpdateAttendance, remove: s.store.RemoveAttendance,
	}
}

func (s *Service) homework() recordOps[domain.Homework] {
	return recordOps[domain.Homework]{
		name: "homework", collection: domain.CollectionHomework,
		parent: domain.CollectionStudents, parentOK: exists(s.store.FindStudent),
		find: s.store.FindHomework, list: s.store.ListHomework,
		add: s.store.AddHomework, update: s.store.UpdateHomework, remove: s.store.RemoveHomework,
	}
}

func (s *Service) clients() recordOps[domain.Client] {
	return recordOps[domain.Client]{
		name: "client", collection: domain.CollectionClients,
		find: s.store.FindClient, list: s.store.ListClients,
		add: s.store.AddClient, update: s.store.UpdateClient, remove: s.store.RemoveClient,
	}
}

func (s *Service) measurements() recordOps[domain.Measurement] {
	return recordOps[domain.Measurement]{
		name: "measurement", collection: domain.CollectionMeasurements,
		parent: domain.CollectionClients, parentOK: exists(s.store.FindClient),
		find: s.store.FindMeasurement, list: s.store.ListMeasurements,
		add: s.store.AddMeasurement, update: s.store.UpdateMeasurement, remove: s.store.RemoveMeasurement,
	}
}

func (s *Service) projects() recordOps[domain.Project] {
	return recordOps[domain.Project]{
		name: "project", collection: domain.CollectionProjects,
		find: s.store.FindProject, list: s.store.ListProjects,
		add: s.store.AddProject, update: s.store.UpdateProject, remove: s.store.RemoveProject,
	}
}

func (s *Service) elements() recordOps[domain.Element] {
	return recordOps[domain.Element]{
		name: "element", collection: domain.CollectionElements,
		parent: domain.CollectionProjects, parentOK: exists(s.store.FindProject),
		find: s.store.FindElement, list: s.store.ListElements,
		add: s.store.AddElement, update: s.store.UpdateElement, remove: s.store.RemoveElement,
	}
}

func (s *Service) tasks() recordOps[domain.Task] {
	return recordOps[domain.Task]{
		name: "task", collection: domain.CollectionTasks,
		find: s.store.FindTask, list: s.store.ListTasks,
		add: s.store.AddTask, update: s.store.UpdateTask, remove: s.store.RemoveTask,
	}
}

// CreateStudent validates and stores a new student.
func (s *Service) CreateStudent(ctx context.Context, v domain.Student) (domain.Student, error) {
	return s.students().create(ctx, s, v)
}

// UpdateStudent mutates a student using the provided mutator.
func (s *Service) UpdateStudent(ctx context.Context, id string, mutator func(*domain.Student) error) (domain.Student, error) {
	return s.students().patch(ctx, s, id, mutator)
}

// DeleteStudent removes a student together with its grades, attendance and
// homework.
func (s *Service) DeleteStudent(ctx context.Context, id string) error {
	return s.students().delete(ctx, s, id)
}

// GetStudent returns a student by id.
func (s *Service) GetStudent(id string) (domain.Student, error) { return s.students().get(id) }

// ListStudents returns every student in insertion order.
func (s *Service) ListStudents() []domain.Student { return s.store.ListStudents() }

// CreateGrade stores a grade for an existing student.
func (s *Service) CreateGrade(ctx context.Context, v domain.Grade) (domain.Grade, error) {
	return s.grades().create(ctx, s, v)
}

// UpdateGrade mutates a grade.
func (s *Service) UpdateGrade(ctx context.Context, id string, mutator func(*domain.Grade) error) (domain.Grade, error) {
	return s.grades().patch(ctx, s, id, mutator)
}

// DeleteGrade removes a grade.
func (s *Service) DeleteGrade(ctx context.Context, id string) error {
	return s.grades().delete(ctx, s, id)
}

// GetGrade returns a grade by id.
func (s *Service) GetGrade(id string) (domain.Grade, error) { return s.grades().get(id) }

// GradesFor lists a student's grades.
func (s *Service) GradesFor(studentID string) []domain.Grade { return s.store.GradesFor(studentID) }

// CreateAttendance stores an attendance mark for an existing student.
func (s *Service) CreateAttendance(ctx context.Context, v domain.Attendance) (domain.Attendance, error) {
	return s.attendance().create(ctx, s, v)
}

// UpdateAttendance mutates an attendance mark.
func (s *Service) UpdateAttendance(ctx context.Context, id string, mutator func(*domain.Attendance) error) (domain.Attendance, error) {
	return s.attendance().patch(ctx, s, id, mutator)
}

// DeleteAttendance removes an attendance mark.
func (s *Service) DeleteAttendance(ctx context.Context, id string) error {
	return s.attendance().delete(ctx, s, id)
}

// GetAttendance returns an attendance mark by id.
func (s *Service) GetAttendance(id string) (domain.Attendance, error) {
	return s.attendance().get(id)
}

// AttendanceFor lists a student's attendance marks.
func (s *Service) AttendanceFor(studentID string) []domain.Attendance {
	return s.store.AttendanceFor(studentID)
}

// CreateHomework stores a homework item for an existing student.
func (s *Service) CreateHomework(ctx context.Context, v domain.Homework) (domain.Homework, error) {
	return s.homework().create(ctx, s, v)
}

// UpdateHomework mutates a homework item.
func (s *Service) UpdateHomework(ctx context.Context, id string, mutator func(*domain.Homework) error) (domain.Homework, error) {
	return s.homework().patch(ctx, s, id, mutator)
}

// DeleteHomework removes a homework item.
func (s *Service) DeleteHomework(ctx context.Context, id string) error {
	return s.homework().delete(ctx, s, id)
}

// GetHomework returns a homework item by id.
func (s *Service) GetHomework(id string) (domain.Homework, error) { return s.homework().get(id) }

// HomeworkFor lists a student's homework.
func (s *Service) HomeworkFor(studentID string) []domain.Homework {
	return s.store.HomeworkFor(studentID)
}

// CreateClient validates and stores a new client.
func (s *Service) CreateClient(ctx context.Context, v domain.Client) (domain.Client, error) {
	return s.clients().create(ctx, s, v)
}

// UpdateClient mutates a client.
func (s *Service) UpdateClient(ctx context.Context, id string, mutator func(*domain.Client) error) (domain.Client, error) {
	return s.clients().patch(ctx, s, id, mutator)
}

// DeleteClient removes a client and its measurements.
func (s *Service) DeleteClient(ctx context.Context, id string) error {
	return s.clients().delete(ctx, s, id)
}

// GetClient returns a client by id.
func (s *Service) GetClient(id string) (domain.Client, error) { return s.clients().get(id) }

// ListClients returns every client in insertion order.
func (s *Service) ListClients() []domain.Client { return s.store.ListClients() }

// CreateMeasurement stores a measurement for an existing client.
func (s *Service) CreateMeasurement(ctx context.Context, v domain.Measurement) (domain.Measurement, error) {
	return s.measurements().create(ctx, s, v)
}

// UpdateMeasurement mutates a measurement.
func (s *Service) UpdateMeasurement(ctx context.Context, id string, mutator func(*domain.Measurement) error) (domain.Measurement, error) {
	return s.measurements().patch(ctx, s, id, mutator)
}

// DeleteMeasurement removes a measurement.
func (s *Service) DeleteMeasurement(ctx context.Context, id string) error {
	return s.measurements().delete(ctx, s, id)
}

// GetMeasurement returns a measurement by id.
func (s *Service) GetMeasurement(id string) (domain.Measurement, error) {
	return s.measurements().get(id)
}

// MeasurementsFor lists a client's measurements in insertion order.
func (s *Service) MeasurementsFor(clientID string) []domain.Measurement {
	return s.store.MeasurementsFor(clientID)
}

// CreateProject validates and stores a new project.
func (s *Service) CreateProject(ctx context.Context, v domain.Project) (domain.Project, error) {
	return s.projects().create(ctx, s, v)
}

// UpdateProject mutates a project.
func (s *Service) UpdateProject(ctx context.Context, id string, mutator func(*domain.Project) error) (domain.Project, error) {
	return s.projects().patch(ctx, s, id, mutator)
}

// DeleteProject removes a project and its elements.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	return s.projects().delete(ctx, s, id)
}

// GetProject returns a project by id.
func (s *Service) GetProject(id string) (domain.Project, error) { return s.projects().get(id) }

// ListProjects returns every project in insertion order.
func (s *Service) ListProjects() []domain.Project { return s.store.ListProjects() }

// CreateElement stores an element for an existing project.
func (s *Service) CreateElement(ctx context.Context, v domain.Element) (domain.Element, error) {
	return s.elements().create(ctx, s, v)
}

// UpdateElement mutates an element.
func (s *Service) UpdateElement(ctx context.Context, id string, mutator func(*domain.Element) error) (domain.Element, error) {
	return s.elements().patch(ctx, s, id, mutator)
}

// DeleteElement removes an element.
func (s *Service) DeleteElement(ctx context.Context, id string) error {
	return s.elements().delete(ctx, s, id)
}

// GetElement returns an element by id.
func (s *Service) GetElement(id string) (domain.Element, error) { return s.elements().get(id) }

// ElementsFor lists a project's elements.
func (s *Service) ElementsFor(projectID string) []domain.Element {
	return s.store.ElementsFor(projectID)
}

// CreateTask validates and stores a new task.
func (s *Service) CreateTask(ctx context.Context, v domain.Task) (domain.Task, error) {
	return s.tasks().create(ctx, s, v)
}

// UpdateTask mutates a task.
func (s *Service) UpdateTask(ctx context.Context, id string, mutator func(*domain.Task) error) (domain.Task, error) {
	return s.tasks().patch(ctx, s, id, mutator)
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	return s.tasks().delete(ctx, s, id)
}

// GetTask returns a task by id.
func (s *Service) GetTask(id string) (domain.Task, error) { return s.tasks().get(id) }

// ListTasks returns every task in insertion order.
func (s *Service) ListTasks() []domain.Task { return s.store.ListTasks() }
