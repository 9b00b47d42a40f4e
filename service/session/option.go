package session

import "time"

// Option customizes a single terminal session.
type Option func(*Session)

// WithShell overrides the shell binary, by default bash on POSIX systems and
// cmd.exe on Windows.
func WithShell(shell string) Option {
	return func(s *Session) {
		s.shell = shell
	}
}

// WithOutputCallback registers a callback invoked with every output line and
// command echo as they happen.
func WithOutputCallback(callback func(name, line string)) Option {
	return func(s *Session) {
		s.callback = callback
	}
}

// WithIdleWindow adjusts how long the inactivity heuristic waits for further
// output before declaring a command complete.
func WithIdleWindow(window time.Duration) Option {
	return func(s *Session) {
		if window > 0 {
			s.idleWindow = window
		}
	}
}

// WithPollInterval adjusts how often the collection loop checks the output
// queue.
func WithPollInterval(interval time.Duration) Option {
	return func(s *Session) {
		if interval > 0 {
			s.pollInterval = interval
		}
	}
}

// WithBackgroundGrace adjusts how long StartBackground waits before checking
// that the shell survived the launched command.
func WithBackgroundGrace(grace time.Duration) Option {
	return func(s *Session) {
		if grace > 0 {
			s.backgroundGrace = grace
		}
	}
}

// WithQueueBuffer adjusts the output queue capacity.
func WithQueueBuffer(size int) Option {
	return func(s *Session) {
		if size > 0 {
			s.queueBuffer = size
		}
	}
}

type runOptions struct {
	timeout        time.Duration
	idleCompletion bool
}

func newRunOptions(opts []RunOption) *runOptions {
	ret := &runOptions{timeout: defaultRunTimeout}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// RunOption customizes a single Run invocation.
type RunOption func(*runOptions)

// WithTimeout caps the total time Run waits for a command to complete.
func WithTimeout(timeoutMs int) RunOption {
	return func(o *runOptions) {
		if timeoutMs > 0 {
			o.timeout = time.Duration(timeoutMs) * time.Millisecond
		}
	}
}

// WithIdleCompletion switches Run to the inactivity heuristic for commands
// whose output cannot be followed by a status marker.
func WithIdleCompletion() RunOption {
	return func(o *runOptions) {
		o.idleCompletion = true
	}
}
