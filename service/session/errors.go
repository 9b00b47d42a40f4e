package session

import "errors"

var (
	// ErrUnknownSession indicates a terminal name that is not registered in
	// the workspace.
	ErrUnknownSession = errors.New("unknown terminal")

	// ErrDuplicateName indicates an attempt to create a terminal whose name
	// is already taken.
	ErrDuplicateName = errors.New("terminal already exists")

	// ErrProcessTerminated indicates the underlying shell process is gone,
	// callers must treat the terminal as unusable.
	ErrProcessTerminated = errors.New("terminal process is not running")

	// ErrTimeout indicates a command exceeded its completion window.
	ErrTimeout = errors.New("command timed out")

	// ErrNestedShell indicates a command that would start an interactive
	// shell inside the terminal and swallow all subsequent input.
	ErrNestedShell = errors.New("refusing to start a nested interactive shell")
)
