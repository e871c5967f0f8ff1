// Package report renders check outcomes in monitoring-plugin and
// machine-readable formats.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jandubois/checkftp/internal/check"
	"github.com/jandubois/checkftp/internal/probe"
)

// Format represents the output format type.
type Format string

const (
	FormatNagios Format = "nagios"
	FormatJSON   Format = "json"
	FormatTable  Format = "table"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatNagios, FormatJSON, FormatTable}

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want nagios, json or table)", s)
}

// SummaryFunc builds the human-readable composite of a successful run.
type SummaryFunc func(metrics []probe.Metric) string

// Formatter handles output formatting.
type Formatter struct {
	format  Format
	writer  io.Writer
	name    string
	verbose int
	summary SummaryFunc
}

// NewFormatter creates a new formatter. name is the check name printed in
// front of the status, e.g. "FTP".
func NewFormatter(format Format, writer io.Writer, name string) *Formatter {
	return &Formatter{
		format: format,
		writer: writer,
		name:   name,
	}
}

// SetVerbose sets the verbosity level (0-3).
func (f *Formatter) SetVerbose(level int) {
	f.verbose = level
}

// SetSummary sets the function that summarizes a successful run.
func (f *Formatter) SetSummary(fn SummaryFunc) {
	f.summary = fn
}

// Render writes the outcome and returns the process exit code.
func (f *Formatter) Render(out *check.Outcome) int {
	switch f.format {
	case FormatJSON:
		return f.renderJSON(out)
	case FormatTable:
		return f.renderTable(out)
	default:
		return f.renderNagios(out)
	}
}

// RenderError reports an error that prevented the check from running at all.
func (f *Formatter) RenderError(err error) int {
	return f.Render(&check.Outcome{Overall: probe.StatusUnknown, Err: err})
}

// Summary returns the summary text of the outcome without the check name
// and status prefix.
func (f *Formatter) Summary(out *check.Outcome) string {
	if out.Err != nil {
		return out.Err.Error()
	}

	var parts []string
	for _, ms := range out.Problems() {
		parts = append(parts, ms.Hint)
	}

	metrics := make([]probe.Metric, len(out.Metrics))
	for i, ms := range out.Metrics {
		metrics[i] = ms.Metric
	}
	if f.summary != nil {
		parts = append(parts, f.summary(metrics))
	} else if len(parts) == 0 {
		for _, ms := range out.Metrics {
			parts = append(parts, ms.Hint)
		}
	}
	return strings.Join(parts, "; ")
}

// PerfData returns all performance-data tokens of the outcome.
func (f *Formatter) PerfData(out *check.Outcome) string {
	tokens := make([]string, len(out.Metrics))
	for i, ms := range out.Metrics {
		tokens[i] = PerfData(ms)
	}
	return strings.Join(tokens, " ")
}

func (f *Formatter) statusLine(out *check.Outcome) string {
	return fmt.Sprintf("%s %s - %s", f.name, strings.ToUpper(out.Overall.String()), f.Summary(out))
}

// renderNagios outputs the conventional plugin format: a status line with
// performance data after a '|', and long output when verbose.
func (f *Formatter) renderNagios(out *check.Outcome) int {
	line := f.statusLine(out)
	if out.Err != nil {
		fmt.Fprintln(f.writer, line)
		return probe.StatusUnknown.ExitCode()
	}

	perf := f.PerfData(out)
	if f.verbose == 0 {
		if perf != "" {
			line += " | " + perf
		}
		fmt.Fprintln(f.writer, line)
		return out.Overall.ExitCode()
	}

	fmt.Fprintln(f.writer, line)
	for _, ms := range out.Metrics {
		fmt.Fprintln(f.writer, ms.Hint)
	}
	if size, ok := out.Data["listed_size"]; ok {
		fmt.Fprintf(f.writer, "listed size: %v\n", size)
	}
	if perf != "" {
		fmt.Fprintln(f.writer, "| "+perf)
	}
	return out.Overall.ExitCode()
}

// renderJSON outputs the outcome as a single probe result. The exit code is
// always 0: the status travels in the document.
func (f *Formatter) renderJSON(out *check.Outcome) int {
	result := probe.Result{
		Status:  out.Overall,
		Message: f.Summary(out),
		Data:    map[string]any{},
	}
	for k, v := range out.Data {
		result.Data[k] = v
	}
	if out.Err != nil {
		result.Data["error"] = out.Err.Error()
	}

	if len(out.Metrics) > 0 {
		result.Metrics = make(map[string]any, len(out.Metrics))
		statuses := make(map[string]probe.Status, len(out.Metrics))
		for _, ms := range out.Metrics {
			result.Metrics[ms.Metric.Name] = ms.Metric.Value
			statuses[ms.Metric.Name] = ms.Status
		}
		result.Data["metric_status"] = statuses
		result.Data["perfdata"] = f.PerfData(out)
	}
	if len(result.Data) == 0 {
		result.Data = nil
	}

	json.NewEncoder(f.writer).Encode(result)
	return 0
}

var statusStyles = map[probe.Status]lipgloss.Style{
	probe.StatusOK:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true), // Green
	probe.StatusWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true), // Yellow
	probe.StatusCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),  // Red
	probe.StatusUnknown:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Bold(true),  // Gray
}

// renderTable outputs the outcome as a styled table for interactive use.
func (f *Formatter) renderTable(out *check.Outcome) int {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))
	overall := statusStyles[out.Overall].Render(strings.ToUpper(out.Overall.String()))

	fmt.Fprintf(f.writer, "%s %s\n", titleStyle.Render(f.name+" check"), overall)
	if out.Err != nil {
		fmt.Fprintln(f.writer, out.Err.Error())
		return probe.StatusUnknown.ExitCode()
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, len(out.Metrics))
	for i, ms := range out.Metrics {
		warn, crit := "", ""
		if ms.Context != nil {
			warn = ms.Context.Warning.String()
			crit = ms.Context.Critical.String()
		}
		rows[i] = []string{
			ms.Metric.Name,
			formatNumber(ms.Metric.Value) + ms.Metric.Unit,
			warn,
			crit,
			statusStyles[ms.Status].Render(strings.ToUpper(ms.Status.String())),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("METRIC", "VALUE", "WARNING", "CRITICAL", "STATUS").
		Rows(rows...)

	fmt.Fprintln(f.writer, t)
	fmt.Fprintln(f.writer, f.Summary(out))
	return out.Overall.ExitCode()
}
