package check

import (
	"fmt"

	"github.com/jandubois/checkftp/internal/probe"
)

// MetricStatus is the evaluation of a single metric.
type MetricStatus struct {
	Metric  probe.Metric
	Context *Context // nil when the metric has no configured context
	Status  probe.Status
	Hint    string
}

// Outcome is the evaluation of a whole probe run.
type Outcome struct {
	Overall probe.Status
	Metrics []MetricStatus
	Data    map[string]any
	Err     error
}

// Problems returns the metric evaluations that are not OK, worst first.
// Ties keep metric order.
func (o *Outcome) Problems() []MetricStatus {
	var problems []MetricStatus
	for s := probe.StatusUnknown; s > probe.StatusOK; s-- {
		for _, ms := range o.Metrics {
			if ms.Status == s {
				problems = append(problems, ms)
			}
		}
	}
	return problems
}

// Evaluate classifies every metric of obs against its context and reduces the
// results to an overall status. A failed observation is UNKNOWN and skips
// metric evaluation entirely.
func Evaluate(obs *probe.Observation, contexts Contexts) *Outcome {
	if obs.Failed() {
		out := &Outcome{Overall: probe.StatusUnknown}
		if obs != nil {
			out.Err = obs.Err
			out.Data = obs.Data
		}
		if out.Err == nil {
			out.Err = fmt.Errorf("no observation")
		}
		return out
	}

	out := &Outcome{
		Metrics: make([]MetricStatus, 0, len(obs.Metrics)),
		Data:    obs.Data,
	}
	statuses := make([]probe.Status, 0, len(obs.Metrics))
	for _, m := range obs.Metrics {
		ms := evaluateMetric(m, contexts[m.Name])
		out.Metrics = append(out.Metrics, ms)
		statuses = append(statuses, ms.Status)
	}
	out.Overall = probe.Worst(statuses...)
	return out
}

func evaluateMetric(m probe.Metric, c *Context) MetricStatus {
	ms := MetricStatus{Metric: m, Context: c, Status: probe.StatusOK}
	if c == nil {
		ms.Hint = fmt.Sprintf("%s is %v%s", m.Name, m.Value, m.Unit)
		return ms
	}

	ms.Hint = c.Display(m.Value)
	switch {
	case c.Critical.Violates(m.Value):
		ms.Status = probe.StatusCritical
		ms.Hint = fmt.Sprintf("%s (%s)", ms.Hint, c.Critical.Describe())
	case c.Warning.Violates(m.Value):
		ms.Status = probe.StatusWarning
		ms.Hint = fmt.Sprintf("%s (%s)", ms.Hint, c.Warning.Describe())
	}
	return ms
}
