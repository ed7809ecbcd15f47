package core

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"trackcore/internal/config"
	fsstore "trackcore/internal/infra/kv/fs"
	"trackcore/internal/platform/metrics"
	"trackcore/internal/platform/logger"
	"trackcore/internal/transfer"
	"trackcore/internal/validation"
	"trackcore/internal/views"
	"trackcore/pkg/domain"
)

type metricsCall struct {
	op      string
	success bool
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

func baseConfig() config.Config {
	return config.Config{AppPrefix: "tracker", LogMode: "off", SeedEnabled: true}
}

func fsConfig(t *testing.T, dir string) config.Config {
	t.Helper()
	cfg := baseConfig()
	cfg.Storage.Driver = "fs"
	cfg.Storage.FSRoot = dir
	return cfg
}

func openService(t *testing.T, cfg config.Config, opts ...Option) *Service {
	t.Helper()
	svc, err := Open(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestOpenSeedsThenReloadsPersistedState(t *testing.T) {
	drivers := map[string]func(dir string) config.Config{
		"fs": func(dir string) config.Config { return fsConfig(t, dir) },
		"sqlite": func(dir string) config.Config {
			cfg := baseConfig()
			cfg.Storage.Driver = "sqlite"
			cfg.Storage.SQLitePath = filepath.Join(dir, "state.db")
			return cfg
		},
	}
	for name, build := range drivers {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			cfg := build(t.TempDir())

			first, err := Open(ctx, cfg)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			if n := len(first.ListStudents()); n != 2 {
				t.Fatalf("expected seeded students, got %d", n)
			}
			created, err := first.CreateStudent(ctx, domain.Student{Name: "Cara"})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if err := first.DeleteProject(ctx, "p1"); err != nil {
				t.Fatalf("delete project: %v", err)
			}
			if err := first.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}

			second, err := Open(ctx, cfg)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer second.Close()
			if _, err := second.GetStudent(created.ID); err != nil {
				t.Fatalf("created student not persisted: %v", err)
			}
			if n := len(second.ListProjects()); n != 0 {
				t.Fatalf("deleted project came back: %d", n)
			}
			if n := len(second.Store().ListElements()); n != 0 {
				t.Fatalf("cascaded elements came back: %d", n)
			}
		})
	}
}

func TestOpenWithoutSeedStartsEmpty(t *testing.T) {
	cfg := fsConfig(t, t.TempDir())
	cfg.SeedEnabled = false
	svc := openService(t, cfg)
	snap := svc.Snapshot()
	if len(snap.Students) != 0 || len(snap.Tasks) != 0 {
		t.Fatalf("expected empty state, got %+v", snap)
	}
}

func TestOpenReseedsCorruptSlotAndCountsIt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	slots, err := fsstore.New(dir)
	if err != nil {
		t.Fatalf("fs: %v", err)
	}
	if err := slots.Set(ctx, "tracker:grades", []byte("{not json")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := slots.Set(ctx, "tracker:students", []byte(`[{"id":"x1","name":"Solo"}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	reg := prometheus.NewRegistry()
	svc := openService(t, fsConfig(t, dir), WithMetricsRecorder(metrics.New(reg)))

	if got := svc.ListStudents(); len(got) != 1 || got[0].ID != "x1" {
		t.Fatalf("expected persisted students, got %+v", got)
	}
	if n := len(svc.Store().ListGrades()); n != 5 {
		t.Fatalf("expected seeded grades after corrupt slot, got %d", n)
	}
	n, err := testutil.GatherAndCount(reg, "trackcore_slot_corrupt_total")
	if err != nil || n != 1 {
		t.Fatalf("expected one corrupt series, got %d (%v)", n, err)
	}
	raw, err := slots.Get(ctx, "tracker:grades")
	if err != nil || !bytes.HasPrefix(raw, []byte("[")) {
		t.Fatalf("corrupt slot not rewritten: %q %v", raw, err)
	}
}

func TestCreateValidatesAndChecksParent(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemoryService()

	_, err := svc.CreateStudent(ctx, domain.Student{Group: "9A"})
	if _, ok := validation.AsProblems(err); !ok {
		t.Fatalf("expected validation problems, got %v", err)
	}
	_, err = svc.CreateGrade(ctx, domain.Grade{StudentID: "ghost", Subject: "math", Score: 1, MaxScore: 10})
	var nf ErrNotFound
	if !errors.As(err, &nf) || nf.Collection != domain.CollectionStudents || nf.ID != "ghost" {
		t.Fatalf("expected missing parent, got %v", err)
	}
	s, err := svc.CreateStudent(ctx, domain.Student{Name: "Ana"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateGrade(ctx, domain.Grade{StudentID: s.ID, Subject: "math", Score: -1, MaxScore: 10}); err == nil {
		t.Fatalf("negative score must be rejected")
	}
	if len(svc.GradesFor(s.ID)) != 0 {
		t.Fatalf("rejected grade was stored")
	}
}

func TestUpdateValidatesBeforeWriting(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemoryService()
	task, err := svc.CreateTask(ctx, domain.Task{Title: "Plan", Status: domain.TaskTodo, Priority: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.UpdateTask(ctx, task.ID, func(t *domain.Task) error {
		t.Status = "blocked"
		return nil
	}); err == nil {
		t.Fatalf("expected invalid status to be rejected")
	}
	stored, _ := svc.GetTask(task.ID)
	if stored != task {
		t.Fatalf("rejected update leaked into store: %+v", stored)
	}

	updated, err := svc.UpdateTask(ctx, task.ID, func(t *domain.Task) error {
		t.Priority = 5
		t.ID = "other"
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := task
	want.Priority = 5
	if updated != want {
		t.Fatalf("expected only priority to change, got %+v", updated)
	}

	if _, err := svc.UpdateTask(ctx, "missing", nil); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	sentinel := errors.New("abort")
	if _, err := svc.UpdateTask(ctx, task.ID, func(*domain.Task) error { return sentinel }); !errors.Is(err, sentinel) {
		t.Fatalf("expected mutator error, got %v", err)
	}
}

func TestDeleteCascadesAndReportsMissing(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemoryService()
	c, _ := svc.CreateClient(ctx, domain.Client{Name: "Dana"})
	other, _ := svc.CreateClient(ctx, domain.Client{Name: "Eli"})
	if _, err := svc.CreateMeasurement(ctx, domain.Measurement{ClientID: c.ID, Date: "2024-01-01", Weight: 80}); err != nil {
		t.Fatalf("measurement: %v", err)
	}
	if _, err := svc.CreateMeasurement(ctx, domain.Measurement{ClientID: other.ID, Date: "2024-01-01", Weight: 70}); err != nil {
		t.Fatalf("measurement: %v", err)
	}

	if err := svc.DeleteClient(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := len(svc.Store().ListMeasurements()); n != 1 {
		t.Fatalf("expected only the other client's measurement, got %d", n)
	}
	if err := svc.DeleteClient(ctx, c.ID); !IsNotFound(err) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestOperationsAreObserved(t *testing.T) {
	ctx := context.Background()
	rec := &captureMetricsRecorder{}
	tracer := NewJSONTracer(nil)
	svc := NewInMemoryService(WithMetricsRecorder(rec), WithTracer(tracer))

	p, err := svc.CreateProject(ctx, domain.Project{Name: "Tower"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_ = svc.DeleteElement(ctx, "missing")
	if _, err := svc.ProjectSummary(ctx, p.ID); err != nil {
		t.Fatalf("summary: %v", err)
	}

	if !rec.has("create_project", true) || !rec.has("delete_element", false) || !rec.has("project_summary", true) {
		t.Fatalf("unexpected metrics calls %+v", rec.calls)
	}
	entries := tracer.Entries()
	if len(entries) != 3 || entries[1].Operation != "delete_element" || entries[1].Status != "error" || entries[1].Error == "" {
		t.Fatalf("unexpected spans %+v", entries)
	}
}

func TestReportsOverSeed(t *testing.T) {
	ctx := context.Background()
	svc := openService(t, fsConfig(t, t.TempDir()))

	report, err := svc.StudentReport(ctx, "s1")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.GradeAverage != 86.7 || report.AttendanceRate != 66.7 || report.LatenessRate != 33.3 || report.HomeworkCompletion != 50 {
		t.Fatalf("unexpected report %+v", report)
	}
	if _, err := svc.StudentReport(ctx, "nope"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	ym, _ := views.ParseYearMonth("2024-01")
	days, err := svc.MonthlyAttendance(ctx, "s1", ym)
	if err != nil || len(days) != 31 || days[14].Status != domain.AttendancePresent {
		t.Fatalf("unexpected month grid %+v (%v)", days, err)
	}

	progress, err := svc.ClientProgress(ctx, "c1")
	if err != nil || progress.Delta.Weight != -3.1 || len(progress.Monthly) != 3 {
		t.Fatalf("unexpected progress %+v (%v)", progress, err)
	}

	summary, err := svc.ProjectSummary(ctx, "p1")
	if err != nil || summary.InstalledRate != 50 || summary.ElementCount != 4 {
		t.Fatalf("unexpected summary %+v (%v)", summary, err)
	}

	feb, _ := views.ParseYearMonth("2024-02")
	board := svc.TaskBoard(ctx, feb)
	if board.Total != 3 || len(board.DueInMonth) != 2 || board.CompletionRate != 33.3 {
		t.Fatalf("unexpected board %+v", board)
	}
}

func TestSortTogglesDirection(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemoryService()
	for _, name := range []string{"bob", "Ana", "cara"} {
		if _, err := svc.CreateStudent(ctx, domain.Student{Name: name}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	asc, dir, err := svc.SortStudents("name")
	if err != nil || dir != views.Ascending || asc[0].Name != "Ana" || asc[2].Name != "cara" {
		t.Fatalf("unexpected ascending %+v %v %v", asc, dir, err)
	}
	desc, dir, err := svc.SortStudents("name")
	if err != nil || dir != views.Descending || desc[0].Name != "cara" || desc[2].Name != "Ana" {
		t.Fatalf("unexpected descending %+v %v %v", desc, dir, err)
	}
	if got := svc.ListStudents(); got[0].Name != "bob" {
		t.Fatalf("sorting must not reorder the store")
	}
	if _, _, err := svc.SortStudents("shoeSize"); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestImportExportThroughService(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	svc := openService(t, fsConfig(t, dir))

	var buf bytes.Buffer
	if err := svc.Export(ctx, &buf, KindStudents, "s1"); err != nil {
		t.Fatalf("export: %v", err)
	}
	before := len(svc.ListStudents())

	if _, err := svc.Import(ctx, KindStudents, []byte(`{"grades":[],"attendance":[],"homework":[]}`)); err == nil {
		t.Fatalf("expected rejection")
	} else {
		var verr *transfer.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	}
	if len(svc.ListStudents()) != before {
		t.Fatalf("rejected import changed the store")
	}

	res, err := svc.Import(ctx, KindStudents, buf.Bytes())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Remapped["s1"] == "" || res.Children != 8 {
		t.Fatalf("expected remapped import, got %+v", res)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := openService(t, fsConfig(t, dir))
	if n := len(reopened.ListStudents()); n != before+1 {
		t.Fatalf("import not persisted: %d students", n)
	}
	if n := len(reopened.GradesFor(res.IDs[0])); n != 3 {
		t.Fatalf("imported grades not persisted: %d", n)
	}
}

func TestResetClearsAndReseeds(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	svc := openService(t, fsConfig(t, dir))
	if _, err := svc.CreateTask(ctx, domain.Task{Title: "Extra", Status: domain.TaskTodo}); err != nil {
		t.Fatalf("create: %v", err)
	}

	removed, err := svc.Reset(ctx, false)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if removed != len(domain.Collections) {
		t.Fatalf("expected every slot removed, got %d", removed)
	}
	if n := len(svc.ListTasks()); n != 0 {
		t.Fatalf("expected empty tasks, got %d", n)
	}

	if _, err := svc.Reset(ctx, true); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if n := len(svc.ListTasks()); n != 3 {
		t.Fatalf("expected seeded tasks, got %d", n)
	}
}

func TestParseKindAndTemplate(t *testing.T) {
	if _, err := ParseKind("spaceships"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
	k, err := ParseKind("projects")
	if err != nil || k != KindProjects {
		t.Fatalf("unexpected kind %q %v", k, err)
	}
	var buf bytes.Buffer
	if err := NewInMemoryService().Template(&buf, k); err != nil || !bytes.Contains(buf.Bytes(), []byte(`"elements"`)) {
		t.Fatalf("unexpected template %q %v", buf.String(), err)
	}
}

func TestOpenWarnsOnceAboutDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	slots, err := fsstore.New(dir)
	if err != nil {
		t.Fatalf("fs store: %v", err)
	}
	if err := slots.Set(ctx, "tracker:students", []byte(`[{"id":"s1","name":"First"},{"id":"s1","name":"Second"}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	obs, logs := observer.New(zap.WarnLevel)
	svc := openService(t, fsConfig(t, dir), WithLogger(logger.FromZap(zap.New(obs))))

	got, err := svc.GetStudent("s1")
	if err != nil || got.Name != "Second" {
		t.Fatalf("expected later duplicate to shadow, got %+v %v", got, err)
	}
	warnings := 0
	for _, entry := range logs.All() {
		if strings.Contains(entry.Message, "duplicate ids") {
			warnings++
		}
	}
	if warnings != 1 {
		t.Fatalf("expected one duplicate id warning, got %d: %v", warnings, logs.All())
	}
}
