// Package ftp provides the FTP login probe implementation.
package ftp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"time"

	units "github.com/docker/go-units"
	"github.com/jandubois/checkftp/internal/probe"
)

// Name is the probe subcommand name.
const Name = "ftp"

// Metric names emitted by a successful run, in display order.
const (
	MetricTotalTime = "total_time"
	MetricLoginTime = "login_time"
	MetricDirTime   = "dir_time"
	MetricDirCount  = "dir_count"
)

// MetricNames lists every metric a successful run emits.
var MetricNames = []string{MetricTotalTime, MetricLoginTime, MetricDirTime, MetricDirCount}

// Target describes the endpoint and credentials to probe.
type Target struct {
	Host     string
	Port     int
	Username string
	Password string
	Path     string

	TLS         bool
	ImplicitTLS bool
	TLSVerify   bool

	Timeout           time.Duration
	ExcludeDotEntries bool

	// Trace receives the raw FTP dialogue when set.
	Trace io.Writer
}

// Addr returns the host:port dial address.
func (t Target) Addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// Entry is a single directory listing entry.
type Entry struct {
	Name string
	Size uint64
}

// Conn is an authenticated-or-not FTP control connection.
type Conn interface {
	Login(user, password string) error
	List(path string) ([]Entry, error)
	Quit() error
}

// DialFunc opens a control connection to target. The connection must honour
// ctx for its whole lifetime.
type DialFunc func(ctx context.Context, target Target) (Conn, error)

// Prober drives the timed connect/login/list/quit sequence.
type Prober struct {
	Dial DialFunc
	Now  func() time.Time
}

// NewProber creates a Prober that talks to real FTP servers.
func NewProber() *Prober {
	return &Prober{Dial: Dial, Now: time.Now}
}

// Run executes one probe against target. It never panics on network errors:
// a failure is returned as an observation whose Err is a *ProbeError.
func (p *Prober) Run(ctx context.Context, target Target) *probe.Observation {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	if target.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, target.Timeout)
		defer cancel()
	}

	state := StateIdle
	fail := func(err error) *probe.Observation {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %v", ctxErr, err)
		}
		slog.Debug("ftp probe failed", "phase", state, "addr", target.Addr(), "error", err)
		return &probe.Observation{
			Err:  &ProbeError{Phase: state, Host: target.Host, Port: target.Port, Err: err},
			Data: map[string]any{"host": target.Host, "port": target.Port, "phase": state.String()},
		}
	}
	advance := func(next State) {
		slog.Debug("ftp probe phase", "from", state, "to", next, "addr", target.Addr())
		state = next
	}

	start := now()

	advance(StateConnecting)
	conn, err := p.Dial(ctx, target)
	if err != nil {
		return fail(err)
	}
	closed := false
	defer func() {
		if !closed {
			conn.Quit()
		}
	}()

	advance(StateAuthenticating)
	if err := conn.Login(target.Username, target.Password); err != nil {
		return fail(err)
	}
	loginTime := now().Sub(start)

	advance(StateListing)
	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	dirStart := now()
	entries, err := conn.List(target.Path)
	if err != nil {
		return fail(err)
	}
	dirTime := now().Sub(dirStart)

	count, size := countEntries(entries, target.ExcludeDotEntries)

	advance(StateClosing)
	closed = true
	if err := conn.Quit(); err != nil {
		return fail(err)
	}
	totalTime := now().Sub(start)
	advance(StateDone)

	slog.Info("ftp probe complete",
		"addr", target.Addr(),
		"login_time", loginTime,
		"dir_time", dirTime,
		"total_time", totalTime,
		"entries", count,
		"listed", units.HumanSize(float64(size)),
	)

	return &probe.Observation{
		Metrics: []probe.Metric{
			probe.NewMetric(MetricTotalTime, totalTime.Seconds(), "s", 0),
			probe.NewMetric(MetricLoginTime, loginTime.Seconds(), "s", 0),
			probe.NewMetric(MetricDirTime, dirTime.Seconds(), "s", 0),
			probe.NewMetric(MetricDirCount, float64(count), "", 0),
		},
		Data: map[string]any{
			"host":         target.Host,
			"port":         target.Port,
			"path":         target.Path,
			"tls":          target.TLS || target.ImplicitTLS,
			"listed_bytes": size,
			"listed_size":  units.HumanSize(float64(size)),
		},
	}
}

// countEntries counts listing entries and sums their sizes. Dot entries are
// counted as the server returned them unless excludeDot is set.
func countEntries(entries []Entry, excludeDot bool) (int, uint64) {
	count := 0
	var size uint64
	for _, e := range entries {
		if excludeDot && (e.Name == "." || e.Name == "..") {
			continue
		}
		count++
		size += e.Size
	}
	return count, size
}
