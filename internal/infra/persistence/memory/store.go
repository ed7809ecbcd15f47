// Package memory provides the in-memory record store that holds the canonical
// tracker collections for one session.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"trackcore/pkg/domain"
)

type (
	// Student aliases domain.Student for store operations.
	Student = domain.Student
	// Grade aliases domain.Grade.
	Grade = domain.Grade
	// Attendance aliases domain.Attendance.
	Attendance = domain.Attendance
	// Homework aliases domain.Homework.
	Homework = domain.Homework
	// Client aliases domain.Client.
	Client = domain.Client
	// Measurement aliases domain.Measurement.
	Measurement = domain.Measurement
	// Project aliases domain.Project.
	Project = domain.Project
	// Element aliases domain.Element.
	Element = domain.Element
	// Task aliases domain.Task.
	Task = domain.Task
)

type memoryState struct {
	students     collection[Student, *Student]
	grades       collection[Grade, *Grade]
	attendance   collection[Attendance, *Attendance]
	homework     collection[Homework, *Homework]
	clients      collection[Client, *Client]
	measurements collection[Measurement, *Measurement]
	projects     collection[Project, *Project]
	elements     collection[Element, *Element]
	tasks        collection[Task, *Task]
}

func newMemoryState() memoryState {
	return memoryState{
		students:     newCollection[Student, *Student](domain.CollectionStudents),
		grades:       newCollection[Grade, *Grade](domain.CollectionGrades),
		attendance:   newCollection[Attendance, *Attendance](domain.CollectionAttendance),
		homework:     newCollection[Homework, *Homework](domain.CollectionHomework),
		clients:      newCollection[Client, *Client](domain.CollectionClients),
		measurements: newCollection[Measurement, *Measurement](domain.CollectionMeasurements),
		projects:     newCollection[Project, *Project](domain.CollectionProjects),
		elements:     newCollection[Element, *Element](domain.CollectionElements),
		tasks:        newCollection[Task, *Task](domain.CollectionTasks),
	}
}

// Snapshot is the serialisable representation of the store, one ordered
// array per collection.
type Snapshot struct {
	Students     []Student     `json:"students"`
	Grades       []Grade       `json:"grades"`
	Attendance   []Attendance  `json:"attendance"`
	Homework     []Homework    `json:"homework"`
	Clients      []Client      `json:"clients"`
	Measurements []Measurement `json:"measurements"`
	Projects     []Project     `json:"projects"`
	Elements     []Element     `json:"elements"`
	Tasks        []Task        `json:"tasks"`
}

func snapshotFromMemoryState(state *memoryState) Snapshot {
	return Snapshot{
		Students:     state.students.list(),
		Grades:       state.grades.list(),
		Attendance:   state.attendance.list(),
		Homework:     state.homework.list(),
		Clients:      state.clients.list(),
		Measurements: state.measurements.list(),
		Projects:     state.projects.list(),
		Elements:     state.elements.list(),
		Tasks:        state.tasks.list(),
	}
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	state.students.replace(s.Students)
	state.grades.replace(s.Grades)
	state.attendance.replace(s.Attendance)
	state.homework.replace(s.Homework)
	state.clients.replace(s.Clients)
	state.measurements.replace(s.Measurements)
	state.projects.replace(s.Projects)
	state.elements.replace(s.Elements)
	state.tasks.replace(s.Tasks)
	return state
}

// Normalize replaces nil collections with empty ones so the snapshot always
// serialises as arrays. No other migration is applied.
func (s Snapshot) Normalize() Snapshot {
	if s.Students == nil {
		s.Students = []Student{}
	}
	if s.Grades == nil {
		s.Grades = []Grade{}
	}
	if s.Attendance == nil {
		s.Attendance = []Attendance{}
	}
	if s.Homework == nil {
		s.Homework = []Homework{}
	}
	if s.Clients == nil {
		s.Clients = []Client{}
	}
	if s.Measurements == nil {
		s.Measurements = []Measurement{}
	}
	if s.Projects == nil {
		s.Projects = []Project{}
	}
	if s.Elements == nil {
		s.Elements = []Element{}
	}
	if s.Tasks == nil {
		s.Tasks = []Task{}
	}
	return s
}

// Collection returns the records of the named collection as an untyped value
// suitable for serialisation. Unknown names return nil.
func (s Snapshot) Collection(name domain.Collection) any {
	switch name {
	case domain.CollectionStudents:
		return s.Students
	case domain.CollectionGrades:
		return s.Grades
	case domain.CollectionAttendance:
		return s.Attendance
	case domain.CollectionHomework:
		return s.Homework
	case domain.CollectionClients:
		return s.Clients
	case domain.CollectionMeasurements:
		return s.Measurements
	case domain.CollectionProjects:
		return s.Projects
	case domain.CollectionElements:
		return s.Elements
	case domain.CollectionTasks:
		return s.Tasks
	}
	return nil
}

// Target returns a pointer to the named collection field for decoding.
func (s *Snapshot) Target(name domain.Collection) any {
	switch name {
	case domain.CollectionStudents:
		return &s.Students
	case domain.CollectionGrades:
		return &s.Grades
	case domain.CollectionAttendance:
		return &s.Attendance
	case domain.CollectionHomework:
		return &s.Homework
	case domain.CollectionClients:
		return &s.Clients
	case domain.CollectionMeasurements:
		return &s.Measurements
	case domain.CollectionProjects:
		return &s.Projects
	case domain.CollectionElements:
		return &s.Elements
	case domain.CollectionTasks:
		return &s.Tasks
	}
	return nil
}

// Take replaces the named collection with the one held by other.
func (s *Snapshot) Take(name domain.Collection, other Snapshot) {
	switch name {
	case domain.CollectionStudents:
		s.Students = other.Students
	case domain.CollectionGrades:
		s.Grades = other.Grades
	case domain.CollectionAttendance:
		s.Attendance = other.Attendance
	case domain.CollectionHomework:
		s.Homework = other.Homework
	case domain.CollectionClients:
		s.Clients = other.Clients
	case domain.CollectionMeasurements:
		s.Measurements = other.Measurements
	case domain.CollectionProjects:
		s.Projects = other.Projects
	case domain.CollectionElements:
		s.Elements = other.Elements
	case domain.CollectionTasks:
		s.Tasks = other.Tasks
	}
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.idFn = fn
		}
	}
}

// Store holds the tracker collections in memory. It performs no uniqueness or
// referential checks; callers own those guarantees.
type Store struct {
	mu    sync.RWMutex
	state memoryState
	idFn  func() string

	obsMu     sync.RWMutex
	observers map[int]domain.ChangeObserver
	nextObs   int
}

// NewStore constructs an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		state:     newMemoryState(),
		idFn:      uuid.NewString,
		observers: make(map[int]domain.ChangeObserver),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID mints a fresh record identifier.
func (s *Store) NewID() string {
	return s.idFn()
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(&s.state)
}

// ImportState replaces the store state with the provided snapshot without
// notifying observers.
func (s *Store) ImportState(snapshot Snapshot) {
	state := memoryStateFromSnapshot(snapshot.Normalize())
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Subscribe registers an observer for every subsequent mutation and returns a
// function that removes it.
func (s *Store) Subscribe(obs domain.ChangeObserver) func() {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = obs
	s.obsMu.Unlock()
	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) notify(changes []change) {
	if len(changes) == 0 {
		return
	}
	s.obsMu.RLock()
	observers := make([]domain.ChangeObserver, 0, len(s.observers))
	for i := 0; i < s.nextObs; i++ {
		if obs, ok := s.observers[i]; ok {
			observers = append(observers, obs)
		}
	}
	s.obsMu.RUnlock()
	for _, obs := range observers {
		obs.OnChange(append([]change(nil), changes...))
	}
}

// DuplicateIDs reports ids that occur more than once per collection. Add does
// not reject duplicates, so this is the only place they surface.
func (s *Store) DuplicateIDs() map[domain.Collection][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[domain.Collection][]string)
	put := func(name domain.Collection, ids []string) {
		if len(ids) > 0 {
			out[name] = ids
		}
	}
	put(domain.CollectionStudents, s.state.students.duplicates())
	put(domain.CollectionGrades, s.state.grades.duplicates())
	put(domain.CollectionAttendance, s.state.attendance.duplicates())
	put(domain.CollectionHomework, s.state.homework.duplicates())
	put(domain.CollectionClients, s.state.clients.duplicates())
	put(domain.CollectionMeasurements, s.state.measurements.duplicates())
	put(domain.CollectionProjects, s.state.projects.duplicates())
	put(domain.CollectionElements, s.state.elements.duplicates())
	put(domain.CollectionTasks, s.state.tasks.duplicates())
	return out
}

// mutate runs fn under the write lock and notifies observers afterwards.
func (s *Store) mutate(fn func(state *memoryState) []change) {
	s.mu.Lock()
	changes := fn(&s.state)
	s.mu.Unlock()
	s.notify(changes)
}

func addRecord[T any, P recordPtr[T]](s *Store, pick func(*memoryState) *collection[T, P], v T) T {
	if P(&v).RecordID() == "" {
		P(&v).SetRecordID(s.idFn())
	}
	s.mutate(func(state *memoryState) []change {
		return []change{pick(state).add(v)}
	})
	return v
}

func updateRecord[T any, P recordPtr[T]](s *Store, pick func(*memoryState) *collection[T, P], id string, mutator func(*T)) (T, bool) {
	var (
		updated T
		ok      bool
	)
	s.mutate(func(state *memoryState) []change {
		var changes []change
		updated, changes, ok = pick(state).update(id, mutator)
		return changes
	})
	return updated, ok
}

func removeRecord[T any, P recordPtr[T]](s *Store, pick func(*memoryState) *collection[T, P], id string) bool {
	var removed bool
	s.mutate(func(state *memoryState) []change {
		changes := pick(state).remove(id)
		removed = len(changes) > 0
		return changes
	})
	return removed
}

func findRecord[T any, P recordPtr[T]](s *Store, pick func(*memoryState) *collection[T, P], id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pick(&s.state).find(id)
}

func listRecords[T any, P recordPtr[T]](s *Store, pick func(*memoryState) *collection[T, P]) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pick(&s.state).list()
}

func childRecords[T any, P recordPtr[T]](s *Store, pick func(*memoryState) *collection[T, P], parentID string) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pick(&s.state).filter(func(v T) bool {
		p, ok := any(v).(parented)
		return ok && p.ParentID() == parentID
	})
}

// removeParent deletes a primary record and every child whose foreign key
// equals its id. Children are only touched when the parent existed.
func (s *Store) removeParent(id string, parent func(*memoryState) []change, children ...func(*memoryState, string) []change) bool {
	var removed bool
	s.mutate(func(state *memoryState) []change {
		changes := parent(state)
		if len(changes) == 0 {
			return nil
		}
		removed = true
		for _, child := range children {
			changes = append(changes, child(state, id)...)
		}
		return changes
	})
	return removed
}
