// Package check binds probe metrics to threshold contexts and reduces them to
// a single verdict.
package check

import (
	"fmt"
	"sort"

	"github.com/jandubois/checkftp/internal/threshold"
)

// Context binds a metric name to its warning and critical ranges and the
// template used to display its value.
type Context struct {
	Metric   string
	Warning  *threshold.Range
	Critical *threshold.Range
	// Format is a fmt template applied to the metric value, e.g. "Total time: %.2fs".
	Format string
}

// Display renders value with the context's format template.
func (c *Context) Display(value float64) string {
	if c == nil || c.Format == "" {
		return fmt.Sprintf("%v", value)
	}
	return fmt.Sprintf(c.Format, value)
}

// Contexts maps metric names to their contexts.
type Contexts map[string]*Context

// NewContexts builds a Contexts map, rejecting unnamed or duplicate entries.
func NewContexts(ctxs ...Context) (Contexts, error) {
	out := make(Contexts, len(ctxs))
	for i := range ctxs {
		c := ctxs[i]
		if c.Metric == "" {
			return nil, fmt.Errorf("context %d has no metric name", i)
		}
		if _, exists := out[c.Metric]; exists {
			return nil, fmt.Errorf("duplicate context for metric %q", c.Metric)
		}
		out[c.Metric] = &c
	}
	return out, nil
}

// Validate checks that every context refers to one of the known metric names.
func (cs Contexts) Validate(known ...string) error {
	knownSet := make(map[string]bool, len(known))
	for _, name := range known {
		knownSet[name] = true
	}

	var unknown []string
	for name := range cs {
		if !knownSet[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("context bound to unknown metric %q", unknown[0])
	}
	return nil
}
