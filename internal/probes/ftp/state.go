package ftp

import "fmt"

// State is a step of the probe's connection lifecycle.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateAuthenticating
	StateListing
	StateClosing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connect"
	case StateAuthenticating:
		return "login"
	case StateListing:
		return "list"
	case StateClosing:
		return "quit"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ProbeError is a probe-level failure. Phase is the state the probe was in
// when it failed.
type ProbeError struct {
	Phase State
	Host  string
	Port  int
	Err   error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("cannot check %s:%d ftp service (%s): %v", e.Host, e.Port, e.Phase, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}
