package ftp

import (
	"fmt"

	"github.com/jandubois/checkftp/internal/probe"
)

// Summary renders the composite one-line description of a successful run.
func Summary(metrics []probe.Metric) string {
	values := make(map[string]float64, len(metrics))
	for _, m := range metrics {
		values[m.Name] = m.Value
	}
	return fmt.Sprintf("ftp login time: %.2fs, dir time: %.2fs, total time: %.2fs, directory entries: %d",
		values[MetricLoginTime], values[MetricDirTime], values[MetricTotalTime], int(values[MetricDirCount]))
}
