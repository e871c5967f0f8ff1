package report

import (
	"strconv"
	"strings"

	"github.com/jandubois/checkftp/internal/check"
)

// PerfData renders a metric as a performance-data token:
//
//	label=value[unit];warn;crit;min;max
//
// Trailing empty fields are dropped. Ranges are rendered with the spec text
// they were configured with.
func PerfData(ms check.MetricStatus) string {
	m := ms.Metric
	fields := []string{
		quoteLabel(m.Name) + "=" + formatNumber(m.Value) + m.Unit,
		"",
		"",
		optionalNumber(m.Min),
		optionalNumber(m.Max),
	}
	if ms.Context != nil {
		fields[1] = ms.Context.Warning.String()
		fields[2] = ms.Context.Critical.String()
	}

	end := len(fields)
	for end > 1 && fields[end-1] == "" {
		end--
	}
	return strings.Join(fields[:end], ";")
}

func quoteLabel(label string) string {
	if strings.ContainsAny(label, " ='") {
		return "'" + strings.ReplaceAll(label, "'", "''") + "'"
	}
	return label
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optionalNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return formatNumber(*v)
}
