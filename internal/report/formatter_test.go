package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jandubois/checkftp/internal/check"
	"github.com/jandubois/checkftp/internal/probe"
	"github.com/jandubois/checkftp/internal/probes/ftp"
	"github.com/jandubois/checkftp/internal/threshold"
)

func contexts(t *testing.T, totalWarn, totalCrit string) check.Contexts {
	t.Helper()
	cs, err := check.NewContexts(
		check.Context{Metric: "login_time", Format: "Login time: %.2fs"},
		check.Context{Metric: "dir_time", Format: "dir time: %.2fs"},
		check.Context{
			Metric:   "total_time",
			Warning:  threshold.MustParse(totalWarn),
			Critical: threshold.MustParse(totalCrit),
			Format:   "Total time: %.2fs",
		},
		check.Context{
			Metric:   "dir_count",
			Warning:  threshold.MustParse("0:"),
			Critical: threshold.MustParse("2:"),
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
		Data: map[string]any{"host": "ftp.example.com", "listed_size": "50B"},
	}
}

func render(t *testing.T, format Format, verbose int, out *check.Outcome) (string, int) {
	t.Helper()
	var buf bytes.Buffer
	f := NewFormatter(format, &buf, "FTP")
	f.SetVerbose(verbose)
	f.SetSummary(ftp.Summary)
	code := f.Render(out)
	return buf.String(), code
}

func TestRenderNagiosOK(t *testing.T) {
	out := check.Evaluate(observation(0.4, 0.1, 0.1, 5), contexts(t, "", ""))
	text, code := render(t, FormatNagios, 0, out)

	expected := "FTP OK - ftp login time: 0.10s, dir time: 0.10s, total time: 0.40s, directory entries: 5" +
		" | total_time=0.4s;;;0 login_time=0.1s;;;0 dir_time=0.1s;;;0 dir_count=5;0:;2:;0\n"
	if text != expected {
		t.Errorf("unexpected output:\n got: %q\nwant: %q", text, expected)
	}
	if code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
}

func TestRenderNagiosCritical(t *testing.T) {
	out := check.Evaluate(observation(0.4, 0.1, 0.1, 1), contexts(t, "", ""))
	text, code := render(t, FormatNagios, 0, out)

	if code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.HasPrefix(text, "FTP CRITICAL - Files and directories count: 1 (outside range 2:); ftp login time: 0.10s") {
		t.Errorf("unexpected status line: %s", text)
	}
	if !strings.Contains(text, "dir_count=1;0:;2:;0") {
		t.Errorf("expected perfdata with original range specs, got: %s", text)
	}
}

func TestRenderNagiosTotalCritical(t *testing.T) {
	out := check.Evaluate(observation(1.5, 0.1, 0.1, 5), contexts(t, "0:2", "0:1"))
	text, code := render(t, FormatNagios, 0, out)

	if code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(text, "total_time=1.5s;0:2;0:1;0") {
		t.Errorf("unexpected perfdata: %s", text)
	}
}

func TestRenderNagiosFailure(t *testing.T) {
	out := check.Evaluate(&probe.Observation{
		Err: &ftp.ProbeError{Phase: ftp.StateConnecting, Host: "ftp.example.com", Port: 21, Err: errors.New("i/o timeout")},
	}, contexts(t, "", ""))
	text, code := render(t, FormatNagios, 2, out)

	expected := "FTP UNKNOWN - cannot check ftp.example.com:21 ftp service (connect): i/o timeout\n"
	if text != expected {
		t.Errorf("unexpected output:\n got: %q\nwant: %q", text, expected)
	}
	if strings.Contains(text, "|") {
		t.Error("failure output must not contain performance data")
	}
	if code != 3 {
		t.Errorf("expected exit code 3, got %d", code)
	}
}

func TestRenderNagiosVerbose(t *testing.T) {
	out := check.Evaluate(observation(0.4, 0.1, 0.1, 5), contexts(t, "", ""))
	text, _ := render(t, FormatNagios, 1, out)

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d:\n%s", len(lines), text)
	}
	if strings.Contains(lines[0], "|") {
		t.Error("verbose status line must not carry perfdata")
	}
	if lines[1] != "Total time: 0.40s" || lines[4] != "Files and directories count: 5" {
		t.Errorf("unexpected long output: %v", lines[1:5])
	}
	if lines[5] != "listed size: 50B" {
		t.Errorf("unexpected size line: %s", lines[5])
	}
	if !strings.HasPrefix(lines[6], "| total_time=") {
		t.Errorf("expected perfdata on the last line, got %s", lines[6])
	}
}

func TestRenderJSON(t *testing.T) {
	out := check.Evaluate(observation(0.4, 0.1, 0.1, 1), contexts(t, "", ""))
	text, code := render(t, FormatJSON, 0, out)

	if code != 0 {
		t.Errorf("expected exit code 0 for json output, got %d", code)
	}

	var result probe.Result
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		t.Fatalf("invalid JSON %q: %v", text, err)
	}
	if result.Status != probe.StatusCritical {
		t.Errorf("expected status %q, got %q", probe.StatusCritical, result.Status)
	}
	if result.Metrics["dir_count"] != float64(1) {
		t.Errorf("expected dir_count 1, got %v", result.Metrics["dir_count"])
	}
	if result.Data["host"] != "ftp.example.com" {
		t.Errorf("expected host in data, got %v", result.Data["host"])
	}
	statuses, ok := result.Data["metric_status"].(map[string]any)
	if !ok || statuses["dir_count"] != "critical" {
		t.Errorf("unexpected metric statuses: %v", result.Data["metric_status"])
	}
}

func TestRenderJSONFailure(t *testing.T) {
	out := check.Evaluate(&probe.Observation{Err: errors.New("connection refused")}, nil)
	text, code := render(t, FormatJSON, 0, out)

	if code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
	var result probe.Result
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Status != probe.StatusUnknown || result.Message != "connection refused" {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Metrics != nil {
		t.Errorf("expected no metrics, got %v", result.Metrics)
	}
}

func TestRenderTable(t *testing.T) {
	out := check.Evaluate(observation(0.4, 0.1, 0.1, 5), contexts(t, "", ""))
	text, code := render(t, FormatTable, 0, out)

	if code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
	for _, want := range []string{"METRIC", "total_time", "dir_count", "2:", "directory entries: 5"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in table output:\n%s", want, text)
		}
	}
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatNagios, &buf, "FTP")
	code := f.RenderError(errors.New(`invalid --fc "abc"`))
	if code != 3 {
		t.Errorf("expected exit code 3, got %d", code)
	}
	if buf.String() != "FTP UNKNOWN - invalid --fc \"abc\"\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"nagios", "json", "table", "JSON"} {
		if _, err := ParseFormat(name); err != nil {
			t.Errorf("ParseFormat(%q): %v", name, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
