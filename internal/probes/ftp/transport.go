package ftp

import (
	"context"
	"crypto/tls"
	"net"
	"sync"

	jftp "github.com/jlaffaye/ftp"
)

// connTracker dials every control and data connection of one session. Each
// connection inherits the ctx deadline, and all of them are closed once ctx
// is done.
type connTracker struct {
	ctx context.Context
	// tls is applied to data connections and, with implicit TLS, to the
	// control connection. The explicit TLS upgrade of the control connection
	// happens in jftp after AUTH TLS.
	tls         *tls.Config
	implicitTLS bool

	mu     sync.Mutex
	conns  []net.Conn
	dials  int
	closed bool
}

func (t *connTracker) dial(network, addr string) (net.Conn, error) {
	t.mu.Lock()
	control := t.dials == 0
	t.dials++
	t.mu.Unlock()

	var d net.Dialer
	conn, err := d.DialContext(t.ctx, network, addr)
	if err != nil {
		return nil, err
	}
	if deadline, ok := t.ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		conn.Close()
		return nil, net.ErrClosed
	}
	t.conns = append(t.conns, conn)
	t.mu.Unlock()

	if t.tls != nil && (!control || t.implicitTLS) {
		return tls.Client(conn, t.tls), nil
	}
	return conn, nil
}

// closeAll closes every connection dialed so far and refuses new ones.
func (t *connTracker) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	for _, c := range t.conns {
		c.Close()
	}
	t.conns = nil
}

// serverConn adapts a jlaffaye/ftp connection to Conn.
type serverConn struct {
	conn    *jftp.ServerConn
	tracker *connTracker
	stop    func() bool

	quitOnce sync.Once
	quitErr  error
}

// Dial connects to target using the jlaffaye/ftp client. With TLS enabled the
// control channel is upgraded with AUTH TLS (or dialed with implicit TLS) and
// the data channel is protected with PROT P as part of Login.
//
// Every socket of the session, including the data connection of a listing,
// carries the ctx deadline and is closed as soon as ctx is done.
func Dial(ctx context.Context, target Target) (Conn, error) {
	tracker := &connTracker{ctx: ctx, implicitTLS: target.ImplicitTLS}
	opts := []jftp.DialOption{
		jftp.DialWithDialFunc(tracker.dial),
	}
	if target.TLS || target.ImplicitTLS {
		tracker.tls = &tls.Config{
			ServerName: target.Host,
			// Certificate verification is opt-in (--tls-verify).
			InsecureSkipVerify: !target.TLSVerify,
			// Data connections resume the control connection's session.
			ClientSessionCache: tls.NewLRUClientSessionCache(4),
		}
		if target.ImplicitTLS {
			opts = append(opts, jftp.DialWithTLS(tracker.tls))
		} else {
			opts = append(opts, jftp.DialWithExplicitTLS(tracker.tls))
		}
	}
	if target.Trace != nil {
		opts = append(opts, jftp.DialWithDebugOutput(target.Trace))
	}

	stop := context.AfterFunc(ctx, tracker.closeAll)
	conn, err := jftp.Dial(target.Addr(), opts...)
	if err != nil {
		stop()
		tracker.closeAll()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return &serverConn{conn: conn, tracker: tracker, stop: stop}, nil
}

func (c *serverConn) Login(user, password string) error {
	return c.conn.Login(user, password)
}

func (c *serverConn) List(path string) ([]Entry, error) {
	list, err := c.conn.List(path)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(list))
	for _, e := range list {
		entries = append(entries, Entry{Name: e.Name, Size: e.Size})
	}
	return entries, nil
}

func (c *serverConn) Quit() error {
	c.stop()
	c.quitOnce.Do(func() {
		c.quitErr = c.conn.Quit()
		c.tracker.closeAll()
	})
	return c.quitErr
}
