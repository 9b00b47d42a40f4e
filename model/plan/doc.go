// Package plan models the textual call syntax a planner emits and the two
// operations over it: extracting ordered, balanced call expressions from free
// text, and parsing one expression into a Call with its keyword arguments.
//
// The wire format is a closed-vocabulary identifier followed by a
// parenthesized argument list:
//
//	run_command(command="echo hello", terminal_name="build")
//
// Values may use single, double, or triple quotes; triple-quoted values span
// lines. Anything outside a recognized call is treated as prose and ignored.
package plan
