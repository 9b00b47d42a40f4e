package session

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// DefaultName is the terminal every workspace starts with and the one
// commands run in when no terminal name is supplied.
const DefaultName = "default"

// Info describes a live terminal session.
type Info struct {
	Name             string    `json:"name"`
	PID              int       `json:"pid"`
	WorkingDirectory string    `json:"workingDirectory"`
	Alive            bool      `json:"alive"`
	StartedAt        time.Time `json:"startedAt"`
}

// Workspace owns a set of named terminal sessions rooted in a single base
// directory. All sessions share the directory and the output callback, each
// keeps its own shell process and state.
type Workspace struct {
	baseDirectory string
	callback      func(name, line string)
	sessionOpts   []Option
	withDefault   bool
	fs            afs.Service

	mux      sync.RWMutex
	sessions map[string]*Session
}

// WorkspaceOption customizes a workspace.
type WorkspaceOption func(*Workspace)

// WithCallback registers a callback receiving every output line of every
// terminal in the workspace.
func WithCallback(callback func(name, line string)) WorkspaceOption {
	return func(w *Workspace) {
		w.callback = callback
	}
}

// WithSessionOptions sets options applied to every terminal the workspace
// creates.
func WithSessionOptions(opts ...Option) WorkspaceOption {
	return func(w *Workspace) {
		w.sessionOpts = append(w.sessionOpts, opts...)
	}
}

// WithoutDefaultSession skips creating the default terminal at construction,
// useful when only file tools are needed.
func WithoutDefaultSession() WorkspaceOption {
	return func(w *Workspace) {
		w.withDefault = false
	}
}

// NewWorkspace creates the base directory if needed and starts the default
// terminal in it.
func NewWorkspace(ctx context.Context, baseDirectory string, opts ...WorkspaceOption) (*Workspace, error) {
	ret := &Workspace{
		baseDirectory: baseDirectory,
		sessions:      make(map[string]*Session),
		withDefault:   true,
		fs:            afs.New(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.baseDirectory == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		ret.baseDirectory = cwd
	}
	if ok, _ := ret.fs.Exists(ctx, ret.baseDirectory); !ok {
		if err := ret.fs.Create(ctx, ret.baseDirectory, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create workspace directory %v: %w", ret.baseDirectory, err)
		}
	}
	if ret.withDefault {
		if _, err := ret.Create(ctx, DefaultName); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// BaseDirectory returns the workspace root directory.
func (w *Workspace) BaseDirectory() string {
	return w.baseDirectory
}

// Create starts a new named terminal. It fails with ErrDuplicateName when
// the name is already taken.
func (w *Workspace) Create(ctx context.Context, name string) (*Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("terminal name is required")
	}
	w.mux.Lock()
	defer w.mux.Unlock()
	if _, ok := w.sessions[name]; ok {
		return nil, fmt.Errorf("terminal %v: %w", name, ErrDuplicateName)
	}
	opts := w.sessionOpts
	if w.callback != nil {
		opts = append([]Option{WithOutputCallback(w.callback)}, opts...)
	}
	aSession, err := New(name, w.baseDirectory, opts...)
	if err != nil {
		return nil, err
	}
	w.sessions[name] = aSession
	return aSession, nil
}

// Get returns the named terminal or ErrUnknownSession.
func (w *Workspace) Get(name string) (*Session, error) {
	if name = strings.TrimSpace(name); name == "" {
		name = DefaultName
	}
	w.mux.RLock()
	defer w.mux.RUnlock()
	aSession, ok := w.sessions[name]
	if !ok {
		return nil, fmt.Errorf("terminal %v: %w", name, ErrUnknownSession)
	}
	return aSession, nil
}

// Run executes a command in the named terminal, name defaults to the
// default terminal.
func (w *Workspace) Run(ctx context.Context, name, command string, opts ...RunOption) (string, int, error) {
	aSession, err := w.Get(name)
	if err != nil {
		return "", -1, err
	}
	return aSession.Run(ctx, command, opts...)
}

// StartBackground launches a long-running command in the named terminal.
func (w *Workspace) StartBackground(ctx context.Context, name, command string) (string, error) {
	aSession, err := w.Get(name)
	if err != nil {
		return "", err
	}
	return aSession.StartBackground(ctx, command)
}

// Names returns the registered terminal names in sorted order.
func (w *Workspace) Names() []string {
	w.mux.RLock()
	defer w.mux.RUnlock()
	ret := make([]string, 0, len(w.sessions))
	for name := range w.sessions {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// List describes all registered terminals in sorted name order.
func (w *Workspace) List() []Info {
	w.mux.RLock()
	defer w.mux.RUnlock()
	ret := make([]Info, 0, len(w.sessions))
	for _, aSession := range w.sessions {
		ret = append(ret, Info{
			Name:             aSession.Name(),
			PID:              aSession.PID(),
			WorkingDirectory: aSession.WorkingDirectory(),
			Alive:            aSession.Alive(),
			StartedAt:        aSession.StartedAt(),
		})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name < ret[j].Name })
	return ret
}

// CloseAll closes and removes every terminal except the listed ones and
// returns the closed names. Close failures do not stop the sweep, they are
// aggregated into the returned error.
func (w *Workspace) CloseAll(keep ...string) ([]string, error) {
	keepSet := make(map[string]bool)
	for _, name := range keep {
		if name = strings.TrimSpace(name); name != "" {
			keepSet[name] = true
		}
	}
	w.mux.Lock()
	defer w.mux.Unlock()
	var errs []string
	var closed []string
	for name, aSession := range w.sessions {
		if keepSet[name] {
			continue
		}
		if err := aSession.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("%v: %v", name, err))
		}
		delete(w.sessions, name)
		closed = append(closed, name)
	}
	sort.Strings(closed)
	if len(errs) > 0 {
		return closed, fmt.Errorf("failed to close terminals: %s", strings.Join(errs, "; "))
	}
	return closed, nil
}

// Close closes every terminal.
func (w *Workspace) Close() error {
	_, err := w.CloseAll()
	return err
}

// Reset closes every terminal and recreates the default one.
func (w *Workspace) Reset(ctx context.Context) error {
	if _, err := w.CloseAll(); err != nil {
		return err
	}
	if !w.withDefault {
		return nil
	}
	_, err := w.Create(ctx, DefaultName)
	return err
}
