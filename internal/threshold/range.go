// Package threshold implements the monitoring-plugin threshold range grammar.
//
// A range spec is one of:
//
//	""       no threshold, never violated
//	"10"     0 <= x <= 10
//	"10:"    x >= 10
//	"~:10"   x <= 10
//	":10"    0 <= x <= 10
//	"10:20"  10 <= x <= 20
//
// Any of the non-empty forms may be prefixed with "@" to alert when the
// value lies inside the range instead of outside it.
package threshold

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Range is a parsed threshold specification.
type Range struct {
	Start    float64
	End      float64
	Inverted bool

	spec string
}

// ParseError reports a malformed range specification.
type ParseError struct {
	Spec   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid range %q: %s", e.Spec, e.Reason)
}

// Parse parses a range specification.
func Parse(spec string) (*Range, error) {
	r := &Range{spec: spec}
	body := strings.TrimSpace(spec)

	if body == "" {
		r.Start = math.Inf(-1)
		r.End = math.Inf(1)
		return r, nil
	}

	if strings.HasPrefix(body, "@") {
		r.Inverted = true
		body = body[1:]
		if body == "" {
			return nil, &ParseError{Spec: spec, Reason: "missing bounds after @"}
		}
	}

	lo, hi, bounded := strings.Cut(body, ":")
	if !bounded {
		// "10" is shorthand for "0:10".
		end, err := parseBound(spec, lo)
		if err != nil {
			return nil, err
		}
		r.Start, r.End = 0, end
		return r.check()
	}
	if strings.Contains(hi, ":") {
		return nil, &ParseError{Spec: spec, Reason: "more than one ':'"}
	}

	switch lo {
	case "":
		r.Start = 0
	case "~":
		r.Start = math.Inf(-1)
	default:
		start, err := parseBound(spec, lo)
		if err != nil {
			return nil, err
		}
		r.Start = start
	}

	if hi == "" {
		r.End = math.Inf(1)
	} else {
		end, err := parseBound(spec, hi)
		if err != nil {
			return nil, err
		}
		r.End = end
	}

	return r.check()
}

// MustParse is like Parse but panics on error.
func MustParse(spec string) *Range {
	r, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return r
}

func parseBound(spec, s string) (float64, error) {
	if s == "~" {
		return 0, &ParseError{Spec: spec, Reason: "'~' is only allowed as the lower bound"}
	}
	if strings.ContainsAny(s, "@~") {
		return 0, &ParseError{Spec: spec, Reason: fmt.Sprintf("misplaced '@' or '~' in %q", s)}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParseError{Spec: spec, Reason: fmt.Sprintf("bound %q is not a number", s)}
	}
	return v, nil
}

func (r *Range) check() (*Range, error) {
	if r.Start > r.End {
		return nil, &ParseError{Spec: r.spec, Reason: "start is greater than end"}
	}
	return r, nil
}

// Violates reports whether value falls outside the range, or inside it
// when the range is inverted. A nil Range is never violated.
func (r *Range) Violates(value float64) bool {
	if r == nil {
		return false
	}
	inside := r.Start <= value && value <= r.End
	if r.Inverted {
		return inside
	}
	return !inside
}

// IsZero reports whether the range was parsed from an empty spec.
func (r *Range) IsZero() bool {
	return r == nil || strings.TrimSpace(r.spec) == ""
}

// String returns the spec the range was parsed from.
func (r *Range) String() string {
	if r == nil {
		return ""
	}
	return r.spec
}

// Describe returns a short explanation of a violation, e.g. "outside range 2:".
func (r *Range) Describe() string {
	if r.Inverted {
		return "inside range " + strings.TrimPrefix(r.spec, "@")
	}
	return "outside range " + r.spec
}
