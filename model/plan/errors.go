package plan

import "errors"

var (
	// ErrMismatchedDelimiters signals a call whose parentheses never balance.
	ErrMismatchedDelimiters = errors.New("mismatched delimiters")
	// ErrNoArgumentsParsed signals a non-empty argument body that yielded no
	// key/value pair, i.e. malformed input rather than a legitimately empty call.
	ErrNoArgumentsParsed = errors.New("no arguments parsed")
)
