// Command trackerctl operates a tracker data set: it seeds and resets the
// persisted slots, moves JSON bundles in and out, and prints derived reports.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"trackcore/internal/config"
	"trackcore/internal/core"
	"trackcore/internal/platform/logger"
	"trackcore/internal/platform/metrics"
	"trackcore/internal/transfer"
	"trackcore/internal/views"
)

var exitFunc = os.Exit

const usage = `usage: trackerctl [global flags] <command> [flags]

commands:
  seed       hydrate the store (seeding absent slots) and rewrite every slot
  reset      delete every slot and reseed (-empty leaves the collections empty)
  export     write bundles as JSON (-kind, -id, -out)
  import     read a bundle document (-kind, -file)
  template   write a bulk import template (-kind)
  report     print a derived report (-student, -client, -project, -tasks, -attendance)
  months     list year-months from -from for -steps
  sort       print a primary list sorted by -field (-kind, -twice)
`

// main runs the command-line interface using the program arguments and exits
// the process with the status code returned by cli.
func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

type globals struct {
	configFile string
	envFile    string
	trace      bool
	metrics    bool
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("trackerctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { _, _ = fmt.Fprint(stderr, usage) }
	var g globals
	fs.StringVar(&g.configFile, "config", "", "optional config file (yaml, json or toml)")
	fs.StringVar(&g.envFile, "env", ".env", "optional dotenv file")
	fs.BoolVar(&g.trace, "trace", false, "write operation spans to stderr as JSON lines")
	fs.BoolVar(&g.metrics, "metrics", false, "print collected metrics to stderr on exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return 2
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n", rest[0])
		fs.Usage()
		return 2
	}
	if err := execute(g, cmd, rest[1:], stdout, stderr); err != nil {
		var usageErr usageError
		if errors.As(err, &usageErr) {
			_, _ = fmt.Fprintln(stderr, usageErr.Error())
			return 2
		}
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		_, _ = fmt.Fprintf(stderr, "%s failed: %v\n", rest[0], err)
		return 1
	}
	return 0
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

type command func(ctx context.Context, svc *core.Service, args []string, stdout, stderr io.Writer) error

var commands = map[string]command{
	"seed":     runSeed,
	"reset":    runReset,
	"export":   runExport,
	"import":   runImport,
	"template": runTemplate,
	"report":   runReport,
	"months":   runMonths,
	"sort":     runSort,
}

func execute(g globals, cmd command, args []string, stdout, stderr io.Writer) (err error) {
	cfg, err := config.Load(config.Options{DotEnvPath: g.envFile, ConfigFile: g.configFile})
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	reg := prometheus.NewRegistry()
	opts := []core.Option{core.WithLogger(log), core.WithMetricsRecorder(metrics.New(reg))}
	if g.trace {
		opts = append(opts, core.WithTracer(core.NewJSONTracer(stderr)))
	}

	ctx := context.Background()
	svc, err := core.Open(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := svc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close: %w", cerr)
		}
		if g.metrics {
			writeMetrics(reg, stderr)
		}
	}()
	return cmd(ctx, svc, args, stdout, stderr)
}

func writeMetrics(reg *prometheus.Registry, w io.Writer) {
	families, err := reg.Gather()
	if err != nil {
		_, _ = fmt.Fprintf(w, "gather metrics: %v\n", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			value := m.GetCounter().GetValue()
			if h := m.GetHistogram(); h != nil {
				value = float64(h.GetSampleCount())
			}
			_, _ = fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), value)
		}
	}
}

func newFlags(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func parseKind(name string) (core.Kind, error) {
	kind, err := core.ParseKind(name)
	if err != nil {
		return "", usageError{msg: err.Error()}
	}
	return kind, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runSeed(ctx context.Context, svc *core.Service, args []string, stdout, stderr io.Writer) error {
	if err := newFlags("seed", stderr).Parse(args); err != nil {
		return err
	}
	if err := svc.SaveAll(ctx); err != nil {
		return err
	}
	snap := svc.Snapshot()
	_, err := fmt.Fprintf(stdout, "slots written: %d students, %d clients, %d projects, %d tasks\n",
		len(snap.Students), len(snap.Clients), len(snap.Projects), len(snap.Tasks))
	return err
}

func runReset(ctx context.Context, svc *core.Service, args []string, stdout, stderr io.Writer) error {
	fs := newFlags("reset", stderr)
	empty := fs.Bool("empty", false, "leave collections empty instead of reseeding")
	if err := fs.Parse(args); err != nil {
		return err
	}
	removed, err := svc.Reset(ctx, !*empty)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "removed %d slots\n", removed)
	return err
}

func runExport(ctx context.Context, svc *core.Service, args []string, stdout, stderr io.Writer) (err error) {
	fs := newFlags("export", stderr)
	kindName := fs.String("kind", string(core.KindStudents), "students, clients or projects")
	id := fs.String("id", "", "export a single bundle (default all)")
	out := fs.String("out", "", "write to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	kind, err := parseKind(*kindName)
	if err != nil {
		return err
	}
	w := stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create %s: %w", *out, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close %s: %w", *out, cerr)
			}
		}()
		w = f
	}
	return svc.Export(ctx, w, kind, *id)
}

func runImport(ctx context.Context, svc *core.Service, args []string, stdout, stderr io.Writer) error {
	fs := newFlags("import", stderr)
	kindName := fs.String("kind", string(core.KindStudents), "students, clients or projects")
	file := fs.String("file", "", "bundle document to import (- for stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	kind, err := parseKind(*kindName)
	if err != nil {
		return err
	}
	if *file == "" {
		return usageError{msg: "import: -file is required"}
	}
	var data []byte
	if *file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(*file) // #nosec G304: operator supplied path
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", *file, err)
	}
	res, err := svc.Import(ctx, kind, data)
	if err != nil {
		var verr *transfer.ValidationError
		if errors.As(err, &verr) {
			for _, p := range verr.Problems {
				_, _ = fmt.Fprintf(stderr, "  %s: %s\n", p.Field, p.Message)
			}
		}
		return err
	}
	_, err = fmt.Fprintf(stdout, "imported %d %s with %d child records\n", len(res.IDs), kind, res.Children)
	if err != nil {
		return err
	}
	remapped := make([]string, 0, len(res.Remapped))
	for from := range res.Remapped {
		remapped = append(remapped, from)
	}
	sort.Strings(remapped)
	for _, from := range remapped {
		if _, err := fmt.Fprintf(stdout, "  id %s stored as %s\n", from, res.Remapped[from]); err != nil {
			return err
		}
	}
	return nil
}

func runTemplate(_ context.Context, svc *core.Service, args []string, stdout, stderr io.Writer) error {
	fs := newFlags("template", stderr)
	kindName := fs.String("kind", string(core.KindStudents), "students, clients or projects")
	if err := fs.Parse(args); err != nil {
		return err
	}
	kind, err := parseKind(*kindName)
	if err != nil {
		return err
	}
	return svc.Template(stdout, kind)
}

func runReport(ctx context.Context, svc *core.Service, args []string, stdout, stderr io.Writer) error {
	fs := newFlags("report", stderr)
	student := fs.String("student", "", "student report for id")
	client := fs.String("client", "", "client progress for id")
	project := fs.String("project", "", "project summary for id")
	tasks := fs.String("tasks", "", "task board for YYYY-MM")
	attendance := fs.String("attendance", "", "monthly attendance grid for student id (needs -month)")
	month := fs.String("month", "", "YYYY-MM for -attendance")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		result any
		err    error
	)
	switch {
	case *student != "":
		result, err = svc.StudentReport(ctx, *student)
	case *client != "":
		result, err = svc.ClientProgress(ctx, *client)
	case *project != "":
		result, err = svc.ProjectSummary(ctx, *project)
	case *tasks != "":
		ym, perr := views.ParseYearMonth(*tasks)
		if perr != nil {
			return usageError{msg: perr.Error()}
		}
		result = svc.TaskBoard(ctx, ym)
	case *attendance != "":
		ym, perr := views.ParseYearMonth(*month)
		if perr != nil {
			return usageError{msg: "report -attendance: " + perr.Error()}
		}
		result, err = svc.MonthlyAttendance(ctx, *attendance, ym)
	default:
		return usageError{msg: "report: one of -student, -client, -project, -tasks or -attendance is required"}
	}
	if err != nil {
		return err
	}
	return writeJSON(stdout, result)
}

func runMonths(_ context.Context, _ *core.Service, args []string, stdout, stderr io.Writer) error {
	fs := newFlags("months", stderr)
	from := fs.String("from", "", "starting YYYY-MM")
	steps := fs.Int("steps", 1, "months to step; negative walks backwards")
	if err := fs.Parse(args); err != nil {
		return err
	}
	start, err := views.ParseYearMonth(*from)
	if err != nil {
		return usageError{msg: "months: " + err.Error()}
	}
	for _, ym := range views.MonthRange(start, *steps) {
		if _, err := fmt.Fprintln(stdout, ym.String()); err != nil {
			return err
		}
	}
	return nil
}

func runSort(_ context.Context, svc *core.Service, args []string, stdout, stderr io.Writer) error {
	fs := newFlags("sort", stderr)
	kindName := fs.String("kind", "students", "students, clients, projects or tasks")
	field := fs.String("field", "name", "field to sort by")
	twice := fs.Bool("twice", false, "request the field twice to flip the direction")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sortOnce := func() (any, views.Direction, error) {
		switch *kindName {
		case "students":
			items, dir, err := svc.SortStudents(*field)
			return items, dir, err
		case "clients":
			items, dir, err := svc.SortClients(*field)
			return items, dir, err
		case "projects":
			items, dir, err := svc.SortProjects(*field)
			return items, dir, err
		case "tasks":
			items, dir, err := svc.SortTasks(*field)
			return items, dir, err
		}
		return nil, views.Ascending, usageError{msg: fmt.Sprintf("sort: unknown kind %q", *kindName)}
	}
	items, dir, err := sortOnce()
	if err == nil && *twice {
		items, dir, err = sortOnce()
	}
	if errors.Is(err, views.ErrUnknownField) {
		return usageError{msg: "sort: " + err.Error()}
	}
	if err != nil {
		return err
	}
	return writeJSON(stdout, map[string]any{"field": *field, "direction": dir.String(), "items": items})
}
