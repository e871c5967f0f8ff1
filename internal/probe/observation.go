package probe

// Observation is what one probe run produced: either a set of metrics or a
// failure. When Err is set, Metrics is empty.
type Observation struct {
	Metrics []Metric
	Data    map[string]any
	Err     error
}

// Failed reports whether the run ended in a probe-level failure.
func (o *Observation) Failed() bool {
	return o == nil || o.Err != nil
}

// Metric returns the metric with the given name.
func (o *Observation) Metric(name string) (Metric, bool) {
	if o == nil {
		return Metric{}, false
	}
	for _, m := range o.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}
