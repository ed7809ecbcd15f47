// Package domain defines the tracker records, value types, and change
// descriptors shared by the record store, persistence, and derived views.
package domain

import (
	"strings"
	"time"
)

// Collection identifies a top-level record collection and names its persisted slot.
type Collection string

// Supported collections. Each one is persisted under its own slot.
const (
	CollectionStudents     Collection = "students"
	CollectionGrades       Collection = "grades"
	CollectionAttendance   Collection = "attendance"
	CollectionHomework     Collection = "homework"
	CollectionClients      Collection = "clients"
	CollectionMeasurements Collection = "measurements"
	CollectionProjects     Collection = "projects"
	CollectionElements     Collection = "elements"
	CollectionTasks        Collection = "tasks"
)

// Collections lists every collection in persistence order.
var Collections = []Collection{
	CollectionStudents,
	CollectionGrades,
	CollectionAttendance,
	CollectionHomework,
	CollectionClients,
	CollectionMeasurements,
	CollectionProjects,
	CollectionElements,
	CollectionTasks,
}

// Record is implemented by every stored entity.
type Record interface {
	RecordID() string
	SetRecordID(id string)
}

// ChildRecord is a record owned by a primary entity through a foreign key.
type ChildRecord interface {
	Record
	ParentID() string
}

// DateLayout is the textual date format used by every record.
const DateLayout = "2006-01-02"

// Date is a calendar date kept in YYYY-MM-DD form.
type Date string

// NewDate formats t as a Date.
func NewDate(t time.Time) Date { return Date(t.Format(DateLayout)) }

// Time parses the date. The zero time is returned for malformed values.
func (d Date) Time() time.Time {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Valid reports whether the date parses.
func (d Date) Valid() bool {
	_, err := time.Parse(DateLayout, string(d))
	return err == nil
}

// HasPrefix reports whether the date text starts with prefix (e.g. "2024-01").
func (d Date) HasPrefix(prefix string) bool { return strings.HasPrefix(string(d), prefix) }

// AttendanceStatus captures a single attendance mark.
type AttendanceStatus string

// Attendance statuses.
const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// HomeworkStatus tracks homework progress.
type HomeworkStatus string

// Homework statuses.
const (
	HomeworkPending   HomeworkStatus = "pending"
	HomeworkSubmitted HomeworkStatus = "submitted"
	HomeworkGraded    HomeworkStatus = "graded"
)

// ProjectStatus tracks a BIM project phase.
type ProjectStatus string

// Project statuses.
const (
	ProjectPlanning ProjectStatus = "planning"
	ProjectActive   ProjectStatus = "active"
	ProjectDone     ProjectStatus = "done"
)

// ElementStatus tracks a BIM element on site.
type ElementStatus string

// Element statuses.
const (
	ElementPlanned   ElementStatus = "planned"
	ElementInstalled ElementStatus = "installed"
	ElementVerified  ElementStatus = "verified"
)

// TaskStatus tracks a task on the board.
type TaskStatus string

// Task statuses.
const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

// Student is the primary entity of the student tracker.
type Student struct {
	ID         string `json:"id"`
	Name       string `json:"name" validate:"required"`
	Group      string `json:"group,omitempty"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	EnrolledAt Date   `json:"enrolledAt,omitempty" validate:"omitempty,isodate"`
}

// Grade is a scored assessment owned by a student.
type Grade struct {
	ID        string  `json:"id"`
	StudentID string  `json:"studentId" validate:"required"`
	Subject   string  `json:"subject" validate:"required"`
	Title     string  `json:"title,omitempty"`
	Score     float64 `json:"score" validate:"gte=0"`
	MaxScore  float64 `json:"maxScore" validate:"gt=0"`
	Date      Date    `json:"date" validate:"omitempty,isodate"`
}

// Attendance is a dated presence mark owned by a student.
type Attendance struct {
	ID        string           `json:"id"`
	StudentID string           `json:"studentId" validate:"required"`
	Date      Date             `json:"date" validate:"required,isodate"`
	Status    AttendanceStatus `json:"status" validate:"required,oneof=present absent late excused"`
	Note      string           `json:"note,omitempty"`
}

// Homework is an assignment owned by a student.
type Homework struct {
	ID        string         `json:"id"`
	StudentID string         `json:"studentId" validate:"required"`
	Title     string         `json:"title" validate:"required"`
	Subject   string         `json:"subject,omitempty"`
	DueDate   Date           `json:"dueDate" validate:"omitempty,isodate"`
	Status    HomeworkStatus `json:"status" validate:"required,oneof=pending submitted graded"`
	Score     float64        `json:"score,omitempty" validate:"gte=0"`
	MaxScore  float64        `json:"maxScore,omitempty" validate:"gte=0"`
}

// Client is the primary entity of the fitness client tracker.
type Client struct {
	ID        string `json:"id"`
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone,omitempty"`
	Goal      string `json:"goal,omitempty"`
	StartDate Date   `json:"startDate,omitempty" validate:"omitempty,isodate"`
}

// Measurement is a dated body measurement owned by a client.
type Measurement struct {
	ID       string  `json:"id"`
	ClientID string  `json:"clientId" validate:"required"`
	Date     Date    `json:"date" validate:"required,isodate"`
	Weight   float64 `json:"weight" validate:"gte=0"`
	BodyFat  float64 `json:"bodyFat,omitempty" validate:"gte=0"`
	Waist    float64 `json:"waist,omitempty" validate:"gte=0"`
	Chest    float64 `json:"chest,omitempty" validate:"gte=0"`
	Hips     float64 `json:"hips,omitempty" validate:"gte=0"`
}

// Project is the primary entity of the BIM tracker.
type Project struct {
	ID        string        `json:"id"`
	Name      string        `json:"name" validate:"required"`
	Location  string        `json:"location,omitempty"`
	Status    ProjectStatus `json:"status,omitempty" validate:"omitempty,oneof=planning active done"`
	StartDate Date          `json:"startDate,omitempty" validate:"omitempty,isodate"`
}

// Element is a building element owned by a project.
type Element struct {
	ID        string        `json:"id"`
	ProjectID string        `json:"projectId" validate:"required"`
	Name      string        `json:"name" validate:"required"`
	Type      string        `json:"type,omitempty"`
	Material  string        `json:"material,omitempty"`
	Volume    float64       `json:"volume" validate:"gte=0"`
	Status    ElementStatus `json:"status,omitempty" validate:"omitempty,oneof=planned installed verified"`
}

// Task is a standalone item on the task board.
type Task struct {
	ID       string     `json:"id"`
	Title    string     `json:"title" validate:"required"`
	Status   TaskStatus `json:"status" validate:"required,oneof=todo in_progress done"`
	Priority int        `json:"priority" validate:"gte=0"`
	DueDate  Date       `json:"dueDate,omitempty" validate:"omitempty,isodate"`
}

// RecordID returns the student identifier.
func (s Student) RecordID() string { return s.ID }

// SetRecordID assigns the student identifier.
func (s *Student) SetRecordID(id string) { s.ID = id }

// RecordID returns the grade identifier.
func (g Grade) RecordID() string { return g.ID }

// SetRecordID assigns the grade identifier.
func (g *Grade) SetRecordID(id string) { g.ID = id }

// ParentID returns the owning record identifier.
func (g Grade) ParentID() string { return g.StudentID }

// RecordID returns the attendance identifier.
func (a Attendance) RecordID() string { return a.ID }

// SetRecordID assigns the attendance identifier.
func (a *Attendance) SetRecordID(id string) { a.ID = id }

// ParentID returns the owning record identifier.
func (a Attendance) ParentID() string { return a.StudentID }

// RecordID returns the homework identifier.
func (h Homework) RecordID() string { return h.ID }

// SetRecordID assigns the homework identifier.
func (h *Homework) SetRecordID(id string) { h.ID = id }

// ParentID returns the owning record identifier.
func (h Homework) ParentID() string { return h.StudentID }

// RecordID returns the client identifier.
func (c Client) RecordID() string { return c.ID }

// SetRecordID assigns the client identifier.
func (c *Client) SetRecordID(id string) { c.ID = id }

// RecordID returns the measurement identifier.
func (m Measurement) RecordID() string { return m.ID }

// SetRecordID assigns the measurement identifier.
func (m *Measurement) SetRecordID(id string) { m.ID = id }

// ParentID returns the owning record identifier.
func (m Measurement) ParentID() string { return m.ClientID }

// RecordID returns the project identifier.
func (p Project) RecordID() string { return p.ID }

// SetRecordID assigns the project identifier.
func (p *Project) SetRecordID(id string) { p.ID = id }

// RecordID returns the element identifier.
func (e Element) RecordID() string { return e.ID }

// SetRecordID assigns the element identifier.
func (e *Element) SetRecordID(id string) { e.ID = id }

// ParentID returns the owning record identifier.
func (e Element) ParentID() string { return e.ProjectID }

// RecordID returns the task identifier.
func (t Task) RecordID() string { return t.ID }

// SetRecordID assigns the task identifier.
func (t *Task) SetRecordID(id string) { t.ID = id }
