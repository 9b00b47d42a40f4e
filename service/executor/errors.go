package executor

import "errors"

var (
	// ErrUnknownTool indicates a call whose name is not in the registered
	// tool vocabulary.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrExecutionFailure indicates the tool ran but its result reported
	// failure, either through a recognized failure marker or a non-zero
	// exit status.
	ErrExecutionFailure = errors.New("tool reported failure")
)
