package memory

// Typed accessors over the generic collection helpers. Every mutation is
// reported to subscribed observers once the write lock is released.

func pickStudents(s *memoryState) *collection[Student, *Student] { return &s.students }

// AddStudent appends a student, minting an id when none is set.
func (s *Store) AddStudent(v Student) Student { return addRecord(s, pickStudents, v) }

// UpdateStudent replaces the student with a copy patched by mutator. It is a
// no-op returning false when id is unknown.
func (s *Store) UpdateStudent(id string, mutator func(*Student)) (Student, bool) {
	return updateRecord(s, pickStudents, id, mutator)
}

// RemoveStudent deletes the student and cascades to its grades, attendance, homework.
func (s *Store) RemoveStudent(id string) bool {
	return s.removeParent(id,
		func(st *memoryState) []change { return st.students.remove(id) },
		func(st *memoryState, parentID string) []change { return st.grades.removeChildrenOf(parentID) },
		func(st *memoryState, parentID string) []change { return st.attendance.removeChildrenOf(parentID) },
		func(st *memoryState, parentID string) []change { return st.homework.removeChildrenOf(parentID) },
	)
}

// FindStudent returns the student with id, or false.
func (s *Store) FindStudent(id string) (Student, bool) { return findRecord(s, pickStudents, id) }

// ListStudents returns all students in insertion order.
func (s *Store) ListStudents() []Student { return listRecords(s, pickStudents) }

func pickGrades(s *memoryState) *collection[Grade, *Grade] { return &s.grades }

// AddGrade appends a grade, minting an id when none is set.
func (s *Store) AddGrade(v Grade) Grade { return addRecord(s, pickGrades, v) }

// UpdateGrade replaces the grade with a copy patched by mutator. It is a
// no-op returning false when id is unknown.
func (s *Store) UpdateGrade(id string, mutator func(*Grade)) (Grade, bool) {
	return updateRecord(s, pickGrades, id, mutator)
}

// RemoveGrade deletes every grade carrying id.
func (s *Store) RemoveGrade(id string) bool { return removeRecord(s, pickGrades, id) }

// FindGrade returns the grade with id, or false.
func (s *Store) FindGrade(id string) (Grade, bool) { return findRecord(s, pickGrades, id) }

// ListGrades returns all grades in insertion order.
func (s *Store) ListGrades() []Grade { return listRecords(s, pickGrades) }

// GradesFor returns the grades owned by the student in insertion order.
func (s *Store) GradesFor(studentID string) []Grade { return childRecords(s, pickGrades, studentID) }

func pickAttendance(s *memoryState) *collection[Attendance, *Attendance] { return &s.attendance }

// AddAttendance appends an attendance mark, minting an id when none is set.
func (s *Store) AddAttendance(v Attendance) Attendance { return addRecord(s, pickAttendance, v) }

// UpdateAttendance replaces the attendance mark with a copy patched by mutator. It is a
// no-op returning false when id is unknown.
func (s *Store) UpdateAttendance(id string, mutator func(*Attendance)) (Attendance, bool) {
	return updateRecord(s, pickAttendance, id, mutator)
}

// RemoveAttendance deletes every attendance mark carrying id.
func (s *Store) RemoveAttendance(id string) bool { return removeRecord(s, pickAttendance, id) }

// FindAttendance returns the attendance mark with id, or false.
func (s *Store) FindAttendance(id string) (Attendance, bool) { return findRecord(s, pickAttendance, id) }

// ListAttendance returns all attendance in insertion order.
func (s *Store) ListAttendance() []Attendance { return listRecords(s, pickAttendance) }

// AttendanceFor returns the attendance owned by the student in insertion order.
func (s *Store) AttendanceFor(studentID string) []Attendance { return childRecords(s, pickAttendance, studentID) }

func pickHomework(s *memoryState) *collection[Homework, *Homework] { return &s.homework }

// AddHomework appends a homework item, minting an id when none is set.
func (s *Store) AddHomework(v Homework) Homework { return addRecord(s, pickHomework, v) }

// UpdateHomework replaces the homework item with a copy patched by mutator. It is a
// no-op returning false when id is unknown.
func (s *Store) UpdateHomework(id string, mutator func(*Homework)) (Homework, bool) {
	return updateRecord(s, pickHomework, id, mutator)
}

// RemoveHomework deletes every homework item carrying id.
func (s *Store) RemoveHomework(id string) bool { return removeRecord(s, pickHomework, id) }

// FindHomework returns the homework item with id, or false.
func (s *Store) FindHomework(id string) (Homework, bool) { return findRecord(s, pickHomework, id) }

// ListHomework returns all homework in insertion order.
func (s *Store) ListHomework() []Homework { return listRecords(s, pickHomework) }

// HomeworkFor returns the homework owned by the student in insertion order.
func (s *Store) HomeworkFor(studentID string) []Homework { return childRecords(s, pickHomework, studentID) }

func pickClients(s *memoryState) *collection[Client, *Client] { return &s.clients }

// AddClient appends a client, minting an id when none is set.
func (s *Store) AddClient(v Client) Client { return addRecord(s, pickClients, v) }

// UpdateClient replaces the client with a copy patched by mutator. It is a
// no-op returning false when id is unknown.
func (s *Store) UpdateClient(id string, mutator func(*Client)) (Client, bool) {
	return updateRecord(s, pickClients, id, mutator)
}

// RemoveClient deletes the client and cascades to its measurements.
func (s *Store) RemoveClient(id string) bool {
	return s.removeParent(id,
		func(st *memoryState) []change { return st.clients.remove(id) },
		func(st *memoryState, parentID string) []change { return st.measurements.removeChildrenOf(parentID) },
	)
}

// FindClient returns the client with id, or false.
func (s *Store) FindClient(id string) (Client, bool) { return findRecord(s, pickClients, id) }

// ListClients returns all clients in insertion order.
func (s *Store) ListClients() []Client { return listRecords(s, pickClients) }

func pickMeasurements(s *memoryState) *collection[Measurement, *Measurement] { return &s.measurements }

// AddMeasurement appends a measurement, minting an id when none is set.
func (s *Store) AddMeasurement(v Measurement) Measurement { return addRecord(s, pickMeasurements, v) }

// UpdateMeasurement replaces the measurement with a copy patched by mutator. It is a
// no-op returning false when id is unknown.
func (s *Store) UpdateMeasurement(id string, mutator func(*Measurement)) (Measurement, bool) {
	return updateRecord(s, pickMeasurements, id, mutator)
}

// RemoveMeasurement deletes every measurement carrying id.
func (s *Store) RemoveMeasurement(id string) bool { return removeRecord(s, pickMeasurements, id) }

// FindMeasurement returns the measurement with id, or false.
func (s *Store) FindMeasurement(id string) (Measurement, bool) { return findRecord(s, pickMeasurements, id) }

// ListMeasurements returns all measurements in insertion order.
func (s *Store) ListMeasurements() []Measurement { return listRecords(s, pickMeasurements) }

// MeasurementsFor returns the measurements owned by the client in insertion order.
func (s *Store) MeasurementsFor(clientID string) []Measurement { return childRecords(s, pickMeasurements, clientID) }

func pickProjects(s *memoryState) *collection[Project, *Project] { return &s.projects }

// AddProject appends a project, minting an id when none is set.
func (s *Store) AddProject(v Project) Project { return addRecord(s, pickProjects, v) }

// UpdateProject replaces the project with a copy patched by mutator. It is a
// no-op returning false when id is unknown.
func (s *Store) UpdateProject(id string, mutator func(*Project)) (Project, bool) {
	return updateRecord(s, pickProjects, id, mutator)
}

// RemoveProject deletes the project and cascades to its elements.
func (s *Store) RemoveProject(id string) bool {
	return s.removeParent(id,
		func(st *memoryState) []change { return st.projects.remove(id) },
		func(st *memoryState, parentID string) []change { return st.elements.removeChildrenOf(parentID) },
	)
}

// FindProject returns the project with id, or false.
func (s *Store) FindProject(id string) (Project, bool) { return findRecord(s, pickProjects, id) }

// ListProjects returns all projects in insertion order.
func (s *Store) ListProjects() []Project { return listRecords(s, pickProjects) }

func pickElements(s *memoryState) *collection[Element, *Element] { return &s.elements }

// AddElement appends an element, minting an id when none is set.
func (s *Store) AddElement(v Element) Element { return addRecord(s, pickElements, v) }

// UpdateElement replaces the element with a copy patched by mutator. It is a
// no-op returning false when id is unknown.
func (s *Store) UpdateElement(id string, mutator func(*Element)) (Element, bool) {
	return updateRecord(s, pickElements, id, mutator)
}

// RemoveElement deletes every element carrying id.
func (s *Store) RemoveElement(id string) bool { return removeRecord(s, pickElements, id) }

// FindElement returns the element with id, or false.
func (s *Store) FindElement(id string) (Element, bool) { return findRecord(s, pickElements, id) }

// ListElements returns all elements in insertion order.
func (s *Store) ListElements() []Element { return listRecords(s, pickElements) }

// ElementsFor returns the elements owned by the project in insertion order.
func (s *Store) ElementsFor(projectID string) []Element { return childRecords(s, pickElements, projectID) }

func pickTasks(s *memoryState) *collection[Task, *Task] { return &s.tasks }

// AddTask appends a task, minting an id when none is set.
func (s *Store) AddTask(v Task) Task { return addRecord(s, pickTasks, v) }

// UpdateTask replaces the task with a copy patched by mutator. It is a
// no-op returning false when id is unknown.
func (s *Store) UpdateTask(id string, mutator func(*Task)) (Task, bool) {
	return updateRecord(s, pickTasks, id, mutator)
}

// RemoveTask deletes every task carrying id.
func (s *Store) RemoveTask(id string) bool { return removeRecord(s, pickTasks, id) }

// FindTask returns the task with id, or false.
func (s *Store) FindTask(id string) (Task, bool) { return findRecord(s, pickTasks, id) }

// ListTasks returns all tasks in insertion order.
func (s *Store) ListTasks() []Task { return listRecords(s, pickTasks) }
