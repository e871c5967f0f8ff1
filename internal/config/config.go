package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jandubois/checkftp/internal/check"
	"github.com/jandubois/checkftp/internal/probes/ftp"
	"github.com/jandubois/checkftp/internal/report"
	"github.com/jandubois/checkftp/internal/threshold"
)

// ErrRequired marks a missing required flag.
var ErrRequired = errors.New("is required")

// Error is a configuration error tied to the flag that caused it.
type Error struct {
	Flag  string
	Value string
	Err   error
}

func (e *Error) Error() string {
	if errors.Is(e.Err, ErrRequired) {
		return fmt.Sprintf("--%s %v", e.Flag, e.Err)
	}
	return fmt.Sprintf("invalid value %q for --%s: %v", e.Value, e.Flag, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CheckConfig holds configuration for one FTP check run.
type CheckConfig struct {
	Hostname string
	Port     int
	Username string
	Password string
	Path     string

	SSL               bool
	ImplicitTLS       bool
	TLSVerify         bool
	ExcludeDotEntries bool

	TotalWarning  string
	TotalCritical string
	FilesWarning  string
	FilesCritical string

	TimeoutSeconds int
	Verbose        int
	Debug          bool
	Output         string
}

// Default returns the configuration used when no flags are given.
func Default() CheckConfig {
	return CheckConfig{
		Port:           21,
		Username:       "ftp",
		SSL:            true,
		FilesWarning:   "0:",
		FilesCritical:  "2:",
		TimeoutSeconds: 10,
		Output:         string(report.FormatNagios),
	}
}

// Validate checks flag values that do not need parsing into richer types.
func (c *CheckConfig) Validate() error {
	if strings.TrimSpace(c.Hostname) == "" {
		return &Error{Flag: "hostname", Err: ErrRequired}
	}
	if c.Port < 1 || c.Port > 65535 {
		return &Error{Flag: "port", Value: fmt.Sprint(c.Port), Err: errors.New("must be between 1 and 65535")}
	}
	if c.TimeoutSeconds <= 0 {
		return &Error{Flag: "timeout", Value: fmt.Sprint(c.TimeoutSeconds), Err: errors.New("must be positive")}
	}
	if c.Verbose < 0 || c.Verbose > 3 {
		return &Error{Flag: "verbose", Value: fmt.Sprint(c.Verbose), Err: errors.New("must be between 0 and 3")}
	}
	if _, err := report.ParseFormat(c.Output); err != nil {
		return &Error{Flag: "output", Value: c.Output, Err: err}
	}
	return nil
}

// Format returns the validated output format.
func (c *CheckConfig) Format() report.Format {
	f, err := report.ParseFormat(c.Output)
	if err != nil {
		return report.FormatNagios
	}
	return f
}

// Contexts parses the threshold flags into metric contexts.
func (c *CheckConfig) Contexts() (check.Contexts, error) {
	ranges := []struct {
		flag string
		spec string
	}{
		{flag: "total-warning", spec: c.TotalWarning},
		{flag: "total-critical", spec: c.TotalCritical},
		{flag: "files-warning", spec: c.FilesWarning},
		{flag: "files-critical", spec: c.FilesCritical},
	}
	parsed := make([]*threshold.Range, len(ranges))
	for i, r := range ranges {
		rng, err := threshold.Parse(strings.TrimSpace(r.spec))
		if err != nil {
			return nil, &Error{Flag: r.flag, Value: r.spec, Err: err}
		}
		parsed[i] = rng
	}

	contexts, err := check.NewContexts(
		check.Context{Metric: ftp.MetricLoginTime, Format: "Login time: %.2fs"},
		check.Context{Metric: ftp.MetricDirTime, Format: "dir time: %.2fs"},
		check.Context{
			Metric:   ftp.MetricTotalTime,
			Warning:  parsed[0],
			Critical: parsed[1],
			Format:   "Total time: %.2fs",
		},
		check.Context{
			Metric:   ftp.MetricDirCount,
			Warning:  parsed[2],
			Critical: parsed[3],
			Format:   "Files and directories count: %.0f",
		},
	)
	if err != nil {
		return nil, err
	}
	if err := contexts.Validate(ftp.MetricNames...); err != nil {
		return nil, err
	}
	return contexts, nil
}

// Target builds the probe target. trace receives the protocol dialogue when
// debugging is enabled.
func (c *CheckConfig) Target(trace io.Writer) ftp.Target {
	t := ftp.Target{
		Host:              strings.TrimSpace(c.Hostname),
		Port:              c.Port,
		Username:          c.Username,
		Password:          c.Password,
		Path:              c.Path,
		TLS:               c.SSL,
		ImplicitTLS:       c.ImplicitTLS,
		TLSVerify:         c.TLSVerify,
		Timeout:           time.Duration(c.TimeoutSeconds) * time.Second,
		ExcludeDotEntries: c.ExcludeDotEntries,
	}
	if c.Debug {
		t.Trace = trace
	}
	return t
}
