package types

import "fmt"

// NewMethodNotFoundError reports a method name absent from a service.
func NewMethodNotFoundError(name string) error {
	return fmt.Errorf("method %v not found", name)
}

// NewInvalidInputError reports a handler input of an unexpected type.
func NewInvalidInputError(in interface{}) error {
	return fmt.Errorf("invalid input %T", in)
}

// NewInvalidOutputError reports a handler output of an unexpected type.
func NewInvalidOutputError(in interface{}) error {
	return fmt.Errorf("invalid output %T", in)
}

// NewInvalidArgumentsError wraps an argument schema violation with the tool
// name.
func NewInvalidArgumentsError(tool string, err error) error {
	return fmt.Errorf("tool %v: %w", tool, err)
}
