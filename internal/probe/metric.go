package probe

// Metric is a named numeric observation produced by a probe run.
// Min and Max are optional bounds reported in performance data; they are
// not enforced against Value.
type Metric struct {
	Name  string
	Value float64
	Unit  string
	Min   *float64
	Max   *float64
}

// NewMetric creates a metric with a declared minimum bound.
func NewMetric(name string, value float64, unit string, min float64) Metric {
	return Metric{
		Name:  name,
		Value: value,
		Unit:  unit,
		Min:   &min,
	}
}
