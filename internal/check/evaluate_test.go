package check

import (
	"errors"
	"strings"
	"testing"

	"github.com/jandubois/checkftp/internal/probe"
	"github.com/jandubois/checkftp/internal/threshold"
)

func ftpContexts(t *testing.T, totalWarn, totalCrit, filesWarn, filesCrit string) Contexts {
	t.Helper()
	cs, err := NewContexts(
		Context{Metric: "login_time", Format: "Login time: %.2fs"},
		Context{Metric: "dir_time", Format: "dir time: %.2fs"},
		Context{
			Metric:   "total_time",
			Warning:  threshold.MustParse(totalWarn),
			Critical: threshold.MustParse(totalCrit),
			Format:   "Total time: %.2fs",
		},
		Context{
			Metric:   "dir_count",
			Warning:  threshold.MustParse(filesWarn),
			Critical: threshold.MustParse(filesCrit),
			Format:   "Files and directories count: %.0f",
		},
	)
	if err != nil {
		t.Fatalf("NewContexts: %v", err)
	}
	return cs
}

func observation(total, login, dir, count float64) *probe.Observation {
	return &probe.Observation{
		Metrics: []probe.Metric{
			probe.NewMetric("total_time", total, "s", 0),
			probe.NewMetric("login_time", login, "s", 0),
			probe.NewMetric("dir_time", dir, "s", 0),
			probe.NewMetric("dir_count", count, "", 0),
		},
	}
}

func TestEvaluateDefaultsOK(t *testing.T) {
	out := Evaluate(observation(0.4, 0.1, 0.1, 5), ftpContexts(t, "", "", "0:", "2:"))
	if out.Overall != probe.StatusOK {
		t.Fatalf("expected overall %q, got %q", probe.StatusOK, out.Overall)
	}
	if len(out.Metrics) != 4 {
		t.Fatalf("expected 4 metric statuses, got %d", len(out.Metrics))
	}
	for _, ms := range out.Metrics {
		if ms.Status != probe.StatusOK {
			t.Errorf("metric %s: expected OK, got %q", ms.Metric.Name, ms.Status)
		}
	}
	if len(out.Problems()) != 0 {
		t.Errorf("expected no problems, got %v", out.Problems())
	}
}

func TestEvaluateTooFewEntriesIsCritical(t *testing.T) {
	out := Evaluate(observation(0.4, 0.1, 0.1, 1), ftpContexts(t, "", "", "0:", "2:"))
	if out.Overall != probe.StatusCritical {
		t.Fatalf("expected overall %q, got %q", probe.StatusCritical, out.Overall)
	}
	problems := out.Problems()
	if len(problems) != 1 || problems[0].Metric.Name != "dir_count" {
		t.Fatalf("expected dir_count to be the only problem, got %+v", problems)
	}
	if problems[0].Hint != "Files and directories count: 1 (outside range 2:)" {
		t.Errorf("unexpected hint: %s", problems[0].Hint)
	}
}

func TestEvaluateCriticalCheckedBeforeWarning(t *testing.T) {
	// total_time violates both ranges; critical must win.
	out := Evaluate(observation(1.5, 0.1, 0.1, 5), ftpContexts(t, "0:1", "0:1", "0:", "2:"))
	if out.Overall != probe.StatusCritical {
		t.Fatalf("expected overall %q, got %q", probe.StatusCritical, out.Overall)
	}

	out = Evaluate(observation(1.5, 0.1, 0.1, 5), ftpContexts(t, "", "0:1", "0:", "2:"))
	if out.Overall != probe.StatusCritical {
		t.Fatalf("expected overall %q without warning range, got %q", probe.StatusCritical, out.Overall)
	}
}

func TestEvaluateWarning(t *testing.T) {
	out := Evaluate(observation(1.5, 0.1, 0.1, 5), ftpContexts(t, "0:1", "0:2", "0:", "2:"))
	if out.Overall != probe.StatusWarning {
		t.Fatalf("expected overall %q, got %q", probe.StatusWarning, out.Overall)
	}
	problems := out.Problems()
	if len(problems) != 1 || !strings.Contains(problems[0].Hint, "outside range 0:1") {
		t.Errorf("unexpected problems: %+v", problems)
	}
}

func TestEvaluateWorstWins(t *testing.T) {
	// total_time warns, dir_count is critical.
	out := Evaluate(observation(1.5, 0.1, 0.1, 1), ftpContexts(t, "0:1", "", "0:", "2:"))
	if out.Overall != probe.StatusCritical {
		t.Fatalf("expected overall %q, got %q", probe.StatusCritical, out.Overall)
	}
	problems := out.Problems()
	if len(problems) != 2 {
		t.Fatalf("expected 2 problems, got %d", len(problems))
	}
	if problems[0].Status != probe.StatusCritical || problems[1].Status != probe.StatusWarning {
		t.Errorf("expected problems ordered worst first, got %q then %q", problems[0].Status, problems[1].Status)
	}
}

func TestEvaluateFailureIsUnknown(t *testing.T) {
	cause := errors.New("connection refused")
	obs := &probe.Observation{Err: cause}

	// Even thresholds that every metric would violate cannot change the verdict.
	out := Evaluate(obs, ftpContexts(t, "@0:", "@0:", "@0:", "@0:"))
	if out.Overall != probe.StatusUnknown {
		t.Fatalf("expected overall %q, got %q", probe.StatusUnknown, out.Overall)
	}
	if !errors.Is(out.Err, cause) {
		t.Errorf("expected failure cause to be preserved, got %v", out.Err)
	}
	if len(out.Metrics) != 0 {
		t.Errorf("expected no metric statuses, got %d", len(out.Metrics))
	}
}

func TestEvaluateNilObservation(t *testing.T) {
	out := Evaluate(nil, nil)
	if out.Overall != probe.StatusUnknown || out.Err == nil {
		t.Errorf("expected UNKNOWN with an error, got %q / %v", out.Overall, out.Err)
	}
}

func TestEvaluateMetricWithoutContext(t *testing.T) {
	obs := &probe.Observation{
		Metrics: []probe.Metric{probe.NewMetric("extra", 99, "s", 0)},
	}
	out := Evaluate(obs, Contexts{})
	if out.Overall != probe.StatusOK {
		t.Fatalf("expected informational metric to be OK, got %q", out.Overall)
	}
	if out.Metrics[0].Context != nil {
		t.Error("expected nil context for unbound metric")
	}
	if out.Metrics[0].Hint != "extra is 99s" {
		t.Errorf("unexpected hint: %s", out.Metrics[0].Hint)
	}
}

func TestNewContextsRejectsDuplicates(t *testing.T) {
	_, err := NewContexts(Context{Metric: "dir_count"}, Context{Metric: "dir_count"})
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("expected duplicate error, got %v", err)
	}

	_, err = NewContexts(Context{})
	if err == nil {
		t.Error("expected error for unnamed context")
	}
}

func TestContextsValidate(t *testing.T) {
	cs := ftpContexts(t, "", "", "0:", "2:")
	if err := cs.Validate("total_time", "login_time", "dir_time", "dir_count"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := cs.Validate("total_time", "login_time", "dir_time"); err == nil || !strings.Contains(err.Error(), "dir_count") {
		t.Errorf("expected error naming dir_count, got %v", err)
	}
}

func TestContextDisplay(t *testing.T) {
	c := &Context{Format: "Total time: %.2fs"}
	if got := c.Display(0.4); got != "Total time: 0.40s" {
		t.Errorf("unexpected display: %s", got)
	}
	var none *Context
	if got := none.Display(3); got != "3" {
		t.Errorf("unexpected display for nil context: %s", got)
	}
}
