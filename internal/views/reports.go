package views

import (
	"sort"

	"trackcore/pkg/domain"
)

func gradeScore(g domain.Grade) float64 { return g.Score }
func gradeMax(g domain.Grade) float64 { return g.MaxScore }
func homeworkScore(h domain.Homework) float64 { return h.Score }
func homeworkMax(h domain.Homework) float64 { return h.MaxScore }

// StudentReport rolls up one student's grades, attendance and homework.
// Percentages are rounded to one decimal.
type StudentReport struct {
	Student            domain.Student `json:"student"`
	GradeCount         int            `json:"gradeCount"`
	GradeAverage       float64        `json:"gradeAverage"`
	SubjectAverages    []Slice        `json:"subjectAverages"`
	AttendanceCount    int            `json:"attendanceCount"`
	AttendanceRate     float64        `json:"attendanceRate"`
	LatenessRate       float64        `json:"latenessRate"`
	AbsenceCount       int            `json:"absenceCount"`
	AttendanceByStatus []Slice        `json:"attendanceByStatus"`
	HomeworkCount      int            `json:"homeworkCount"`
	HomeworkCompletion float64        `json:"homeworkCompletion"`
	HomeworkAverage    float64        `json:"homeworkAverage"`
}

// BuildStudentReport computes a StudentReport. Children whose foreign key
// does not match the student are ignored.
func BuildStudentReport(s domain.Student, grades []domain.Grade, attendance []domain.Attendance, homework []domain.Homework) StudentReport {
	grades = ownedBy(grades, s.ID)
	attendance = ownedBy(attendance, s.ID)
	homework = ownedBy(homework, s.ID)

	graded := make([]domain.Homework, 0, len(homework))
	for _, h := range homework {
		if h.Status == domain.HomeworkGraded {
			graded = append(graded, h)
		}
	}
	return StudentReport{
		Student:         s,
		GradeCount:      len(grades),
		GradeAverage:    Round1(AverageOfRatio(grades, gradeScore, gradeMax)),
		SubjectAverages: GroupAverage(grades, func(g domain.Grade) string { return g.Subject }, gradeScore, gradeMax),
		AttendanceCount: len(attendance),
		AttendanceRate: Round1(Rate(attendance, func(a domain.Attendance) bool {
			return a.Status == domain.AttendancePresent
		})),
		LatenessRate: Round1(Rate(attendance, func(a domain.Attendance) bool {
			return a.Status == domain.AttendanceLate
		})),
		AbsenceCount: Count(attendance, func(a domain.Attendance) bool {
			return a.Status == domain.AttendanceAbsent
		}),
		AttendanceByStatus: Distribution(attendance, func(a domain.Attendance) string { return string(a.Status) }),
		HomeworkCount:      len(homework),
		HomeworkCompletion: Round1(Rate(homework, func(h domain.Homework) bool {
			return h.Status == domain.HomeworkSubmitted || h.Status == domain.HomeworkGraded
		})),
		HomeworkAverage: Round1(AverageOfRatio(graded, homeworkScore, homeworkMax)),
	}
}

type parented interface{ ParentID() string }

func ownedBy[T parented](items []T, parentID string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.ParentID() == parentID {
			out = append(out, item)
		}
	}
	return out
}

// DayStatus is one cell of a month attendance grid. Status is empty when no
// record exists for the day.
type DayStatus struct {
	Date   domain.Date             `json:"date"`
	Status domain.AttendanceStatus `json:"status,omitempty"`
}

// MonthlyAttendance lays out a student's attendance for every day of ym.
// When several records share a day the later one wins.
func MonthlyAttendance(studentID string, records []domain.Attendance, ym YearMonth) []DayStatus {
	byDay := make(map[domain.Date]domain.AttendanceStatus)
	for _, a := range FilterMonth(ownedBy(records, studentID), func(a domain.Attendance) domain.Date { return a.Date }, ym) {
		byDay[a.Date] = a.Status
	}
	out := make([]DayStatus, 0, ym.Days())
	for day := 1; day <= ym.Days(); day++ {
		d := ym.Date(day)
		out = append(out, DayStatus{Date: d, Status: byDay[d]})
	}
	return out
}

// MeasurementDelta compares the first and last measurement of a client.
type MeasurementDelta struct {
	Weight  float64 `json:"weight"`
	BodyFat float64 `json:"bodyFat"`
	Waist   float64 `json:"waist"`
	Chest   float64 `json:"chest"`
	Hips    float64 `json:"hips"`
}

// MonthPoint is the mean weight recorded in one month.
type MonthPoint struct {
	Month  string  `json:"month"`
	Weight float64 `json:"weight"`
}

// ClientProgress summarises a client's measurements in date order.
type ClientProgress struct {
	Client           domain.Client       `json:"client"`
	MeasurementCount int                 `json:"measurementCount"`
	First            *domain.Measurement `json:"first,omitempty"`
	Last             *domain.Measurement `json:"last,omitempty"`
	Delta            MeasurementDelta    `json:"delta"`
	Monthly          []MonthPoint        `json:"monthly"`
}

// BuildClientProgress orders the client's measurements by date (stable for
// equal dates) and derives first/last deltas and a monthly weight series.
func BuildClientProgress(c domain.Client, measurements []domain.Measurement) ClientProgress {
	own := ownedBy(measurements, c.ID)
	sort.SliceStable(own, func(i, j int) bool { return own[i].Date < own[j].Date })
	out := ClientProgress{Client: c, MeasurementCount: len(own), Monthly: []MonthPoint{}}
	if len(own) == 0 {
		return out
	}
	first, last := own[0], own[len(own)-1]
	out.First, out.Last = &first, &last
	out.Delta = MeasurementDelta{
		Weight:  Round1(last.Weight - first.Weight),
		BodyFat: Round1(last.BodyFat - first.BodyFat),
		Waist:   Round1(last.Waist - first.Waist),
		Chest:   Round1(last.Chest - first.Chest),
		Hips:    Round1(last.Hips - first.Hips),
	}
	month := func(m domain.Measurement) string {
		if ym, err := YearMonthOf(m.Date); err == nil {
			return ym.String()
		}
		return "unknown"
	}
	counts := Distribution(own, month)
	sums := Accumulate(own, month, func(m domain.Measurement) float64 { return m.Weight })
	for i, s := range sums {
		out.Monthly = append(out.Monthly, MonthPoint{Month: s.Name, Weight: Round1(s.Value / counts[i].Value)})
	}
	return out
}

// ProjectSummary aggregates a BIM project's elements.
type ProjectSummary struct {
	Project       domain.Project `json:"project"`
	ElementCount  int            `json:"elementCount"`
	TotalVolume   float64        `json:"totalVolume"`
	ByMaterial    []Slice        `json:"byMaterial"`
	VolumeByType  []Slice        `json:"volumeByType"`
	ByStatus      []Slice        `json:"byStatus"`
	InstalledRate float64        `json:"installedRate"`
}

// BuildProjectSummary computes a ProjectSummary. Installed and verified
// elements both count as installed.
func BuildProjectSummary(p domain.Project, elements []domain.Element) ProjectSummary {
	own := ownedBy(elements, p.ID)
	volume := func(e domain.Element) float64 { return e.Volume }
	return ProjectSummary{
		Project:      p,
		ElementCount: len(own),
		TotalVolume:  Round1(Sum(own, volume)),
		ByMaterial:   Distribution(own, func(e domain.Element) string { return e.Material }),
		VolumeByType: Accumulate(own, func(e domain.Element) string { return e.Type }, volume),
		ByStatus:     Distribution(own, func(e domain.Element) string { return string(e.Status) }),
		InstalledRate: Round1(Rate(own, func(e domain.Element) bool {
			return e.Status == domain.ElementInstalled || e.Status == domain.ElementVerified
		})),
	}
}

// TaskBoard summarises the task list, optionally scoped to a due month.
type TaskBoard struct {
	Total          int           `json:"total"`
	ByStatus       []Slice       `json:"byStatus"`
	CompletionRate float64       `json:"completionRate"`
	DueInMonth     []domain.Task `json:"dueInMonth"`
}

// BuildTaskBoard computes a TaskBoard; DueInMonth lists tasks due in ym.
func BuildTaskBoard(tasks []domain.Task, ym YearMonth) TaskBoard {
	return TaskBoard{
		Total:    len(tasks),
		ByStatus: Distribution(tasks, func(t domain.Task) string { return string(t.Status) }),
		CompletionRate: Round1(Rate(tasks, func(t domain.Task) bool {
			return t.Status == domain.TaskDone
		})),
		DueInMonth: FilterMonth(tasks, func(t domain.Task) domain.Date { return t.DueDate }, ym),
	}
}
