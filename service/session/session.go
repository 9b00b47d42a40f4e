package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/viant/plexor/internal/idgen"
	"github.com/viant/plexor/service/messaging/memory"
)

const (
	defaultIdleWindow      = 2 * time.Second
	defaultPollInterval    = 200 * time.Millisecond
	defaultRunTimeout      = 30 * time.Second
	defaultBackgroundGrace = 3 * time.Second
	defaultTerminateWait   = 2 * time.Second
	defaultKillWait        = 3 * time.Second
	defaultQueueBuffer     = 4096
	maxLineSize            = 1024 * 1024
)

// Session is a single stateful terminal: one long-lived shell process whose
// stdin receives commands and whose stdout and stderr feed a shared output
// queue. Environment changes, working directory and started servers persist
// between commands.
type Session struct {
	name     string
	dir      string
	shell    string
	callback func(name, line string)

	idleWindow      time.Duration
	pollInterval    time.Duration
	backgroundGrace time.Duration
	queueBuffer     int

	cmd       *exec.Cmd
	stdin     io.WriteCloser
	output    *memory.Queue[string]
	startedAt time.Time
	waitDone  chan struct{}

	mux      sync.Mutex // serializes command dispatch
	stateMux sync.Mutex
	closed   bool
}

// New starts a shell process in workingDirectory and begins streaming its
// combined output into the session queue.
func New(name, workingDirectory string, opts ...Option) (*Session, error) {
	ret := &Session{
		name:            name,
		dir:             workingDirectory,
		idleWindow:      defaultIdleWindow,
		pollInterval:    defaultPollInterval,
		backgroundGrace: defaultBackgroundGrace,
		queueBuffer:     defaultQueueBuffer,
		waitDone:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.shell == "" {
		ret.shell = defaultShell
	}
	ret.output = memory.NewQueue[string](memory.Config{QueueBuffer: ret.queueBuffer, DropOldest: true})

	cmd := exec.Command(ret.shell)
	cmd.Dir = ret.dir
	setProcAttributes(cmd)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("terminal %v: %w", name, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("terminal %v: %w", name, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("terminal %v: %w", name, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start terminal %v: %w", name, err)
	}
	ret.cmd = cmd
	ret.stdin = stdin
	ret.startedAt = time.Now()

	var readers sync.WaitGroup
	readers.Add(2)
	go ret.readOutput(stdout, &readers)
	go ret.readOutput(stderr, &readers)
	go func() {
		// pipes must be fully drained before the process is reaped
		readers.Wait()
		_ = cmd.Wait()
		close(ret.waitDone)
	}()
	log.Printf("terminal %v started with PID %d in %v", name, cmd.Process.Pid, ret.dir)
	return ret, nil
}

func (s *Session) readOutput(pipe io.Reader, readers *sync.WaitGroup) {
	defer readers.Done()
	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		_ = s.output.Publish(context.Background(), &line)
		if s.callback != nil {
			s.callback(s.name, line)
		}
	}
}

// Name returns the terminal name.
func (s *Session) Name() string {
	return s.name
}

// PID returns the shell process identifier.
func (s *Session) PID() int {
	if s.cmd == nil || s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

// WorkingDirectory returns the directory the shell was started in.
func (s *Session) WorkingDirectory() string {
	return s.dir
}

// StartedAt returns the shell start time.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Alive reports whether the shell process is still running and the session
// has not been closed.
func (s *Session) Alive() bool {
	select {
	case <-s.waitDone:
		return false
	default:
	}
	s.stateMux.Lock()
	defer s.stateMux.Unlock()
	return !s.closed
}

// Run sends a command to the shell and collects its output. By default the
// command is followed by a unique status marker echo, collection stops as
// soon as the marker line arrives and the shell exit status is returned with
// it. With WithIdleCompletion the marker is skipped and collection instead
// stops once the output has been quiet for the idle window, the status is
// then reported as -1 (unknown).
//
// The returned output joins stdout and stderr lines in arrival order. When
// the completion window elapses before the marker arrives the partial output
// is returned together with an error wrapping ErrTimeout.
func (s *Session) Run(ctx context.Context, command string, opts ...RunOption) (string, int, error) {
	options := newRunOptions(opts)
	if err := rejectNestedShell(command); err != nil {
		return "", -1, err
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if !s.Alive() {
		return "", -1, fmt.Errorf("terminal %v: %w", s.name, ErrProcessTerminated)
	}

	// drop stale output left over from previous commands
	s.output.Drain()
	if s.callback != nil {
		s.callback(s.name, "> "+command)
	}

	input := command + "\n"
	marker := ""
	if !options.idleCompletion {
		marker = fmt.Sprintf("__done_%v__", idgen.New())
		input += statusEcho(marker) + "\n"
	}
	if _, err := io.WriteString(s.stdin, input); err != nil {
		return "", -1, fmt.Errorf("terminal %v: failed to send command: %w", s.name, err)
	}
	if options.idleCompletion {
		return s.collectUntilIdle(ctx, command, options.timeout)
	}
	return s.collectUntilMarker(ctx, command, marker, options.timeout)
}

func (s *Session) collectUntilMarker(ctx context.Context, command, marker string, timeout time.Duration) (string, int, error) {
	var lines []string
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return joinLines(lines), -1, fmt.Errorf("command %q: %w", command, ErrTimeout)
		}
		poll := s.pollInterval
		if poll > remaining {
			poll = remaining
		}
		line, err := s.nextLine(ctx, poll)
		if err != nil {
			if ctx.Err() != nil {
				return joinLines(lines), -1, ctx.Err()
			}
			if !s.Alive() && s.output.Size() == 0 {
				return joinLines(lines), -1, fmt.Errorf("terminal %v: %w", s.name, ErrProcessTerminated)
			}
			continue
		}
		if status, ok := parseMarker(line, marker); ok {
			return joinLines(lines), status, nil
		}
		lines = append(lines, line)
	}
}

func (s *Session) collectUntilIdle(ctx context.Context, command string, timeout time.Duration) (string, int, error) {
	var lines []string
	deadline := time.Now().Add(timeout)
	idleAt := time.Now().Add(s.idleWindow)
	for {
		if !time.Now().Before(deadline) {
			// a command still producing output at the deadline is treated
			// as successfully started, not failed
			break
		}
		line, err := s.nextLine(ctx, s.pollInterval)
		if err != nil {
			if ctx.Err() != nil {
				return joinLines(lines), -1, ctx.Err()
			}
			if !s.Alive() && s.output.Size() == 0 {
				return joinLines(lines), -1, fmt.Errorf("terminal %v: %w", s.name, ErrProcessTerminated)
			}
			if time.Now().After(idleAt) {
				break
			}
			continue
		}
		lines = append(lines, line)
		idleAt = time.Now().Add(s.idleWindow)
	}
	if len(lines) == 0 {
		return fmt.Sprintf("Command %q executed. (no output after %v idle)", command, s.idleWindow), -1, nil
	}
	return joinLines(lines), -1, nil
}

func (s *Session) nextLine(ctx context.Context, wait time.Duration) (string, error) {
	pollCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	msg, err := s.output.Consume(pollCtx)
	if err != nil {
		return "", err
	}
	_ = msg.Ack()
	return *msg.T(), nil
}

// StartBackground sends a command expected to occupy the terminal, such as a
// development server, and returns once the grace period elapsed without the
// shell dying. Output keeps streaming into the session queue and the
// registered callback.
func (s *Session) StartBackground(ctx context.Context, command string) (string, error) {
	if err := rejectNestedShell(command); err != nil {
		return "", err
	}
	s.mux.Lock()
	if !s.Alive() {
		s.mux.Unlock()
		return "", fmt.Errorf("terminal %v: %w", s.name, ErrProcessTerminated)
	}
	if s.callback != nil {
		s.callback(s.name, "> "+command)
	}
	if _, err := io.WriteString(s.stdin, command+"\n"); err != nil {
		s.mux.Unlock()
		return "", fmt.Errorf("terminal %v: failed to send command: %w", s.name, err)
	}
	s.mux.Unlock()

	select {
	case <-time.After(s.backgroundGrace):
	case <-ctx.Done():
		return "", ctx.Err()
	case <-s.waitDone:
	}
	if !s.Alive() {
		output := s.drainOutput()
		return output, fmt.Errorf("terminal %v terminated immediately after %q: %w", s.name, command, ErrProcessTerminated)
	}
	return fmt.Sprintf("Background command %q has been sent to terminal %v.", command, s.name), nil
}

// Close shuts the terminal down. It is safe to call repeatedly, subsequent
// calls return nil without doing anything. The whole process tree receives a
// termination signal first and a kill signal if it does not exit within the
// grace period.
func (s *Session) Close() error {
	s.stateMux.Lock()
	if s.closed {
		s.stateMux.Unlock()
		return nil
	}
	s.closed = true
	s.stateMux.Unlock()

	_ = s.stdin.Close()
	pid := s.PID()
	terminateTree(pid)
	select {
	case <-s.waitDone:
	case <-time.After(defaultTerminateWait):
		killTree(pid)
		select {
		case <-s.waitDone:
		case <-time.After(defaultKillWait):
			log.Printf("warning: could not cleanly terminate terminal %v (pid %d)", s.name, pid)
			return fmt.Errorf("terminal %v: shutdown timed out", s.name)
		}
	}
	if s.callback != nil {
		s.callback(s.name, "terminal closed")
	}
	log.Printf("terminal %v closed", s.name)
	return nil
}

func (s *Session) drainOutput() string {
	var lines []string
	for {
		msg, ok := s.output.TryConsume()
		if !ok {
			break
		}
		_ = msg.Ack()
		lines = append(lines, *msg.T())
	}
	return joinLines(lines)
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

func parseMarker(line, marker string) (int, bool) {
	if marker == "" || !strings.HasPrefix(line, marker) {
		return 0, false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, marker))
	status, err := strconv.Atoi(rest)
	if err != nil {
		return -1, true
	}
	return status, true
}

var interactiveShells = map[string]bool{
	"bash": true, "sh": true, "zsh": true, "dash": true, "ksh": true,
	"fish": true, "csh": true, "tcsh": true,
	"cmd": true, "cmd.exe": true, "powershell": true, "powershell.exe": true, "pwsh": true,
	"python": true, "python3": true, "node": true, "irb": true,
}

// rejectNestedShell blocks commands that would start an interactive shell or
// REPL inside the terminal. Such a command never returns and every
// subsequent command would feed the inner shell instead.
func rejectNestedShell(command string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return fmt.Errorf("command is empty")
	}
	base := strings.ToLower(filepath.Base(fields[0]))
	if !interactiveShells[base] {
		return nil
	}
	for _, arg := range fields[1:] {
		lower := strings.ToLower(arg)
		if strings.HasPrefix(lower, "/") {
			if lower == "/c" {
				return nil
			}
			continue
		}
		if strings.HasPrefix(lower, "-") {
			if strings.ContainsRune(lower[1:], 'c') {
				return nil
			}
			continue
		}
		// a script or file argument keeps the shell non interactive
		return nil
	}
	return fmt.Errorf("command %q: %w", command, ErrNestedShell)
}
