// Package executor dispatches one parsed plan call to the tool service
// method registered under its wire name. It validates call arguments against
// the method signature, binds them into the typed input, consults the
// optional execution policy and screens the textual result for failure
// markers, since the underlying operations report failure as text rather
// than structured status.
package executor
