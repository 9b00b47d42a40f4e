// Package session manages stateful terminal sessions. Each session wraps a
// single long-lived shell process, commands sent to it share environment,
// working directory and started servers, and its combined stdout and stderr
// stream feeds one bounded queue. A workspace groups named sessions over a
// common base directory and is the unit the terminal tools operate on.
package session
