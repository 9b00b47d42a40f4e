package terminal

import (
	"context"
	"fmt"

	"github.com/viant/plexor/progress"
	"github.com/viant/plexor/service/session"
)

// Service exposes workspace terminals as tools. All terminals share the
// workspace base directory, each keeps its own shell process, environment
// and running servers.
type Service struct {
	workspace        *session.Workspace
	defaultTimeoutMs int
}

// Option customizes the terminal service.
type Option func(*Service)

// WithDefaultTimeout sets the command timeout applied when a call supplies
// none.
func WithDefaultTimeout(timeoutMs int) Option {
	return func(s *Service) {
		s.defaultTimeoutMs = timeoutMs
	}
}

// New creates a terminal service over the supplied workspace.
func New(workspace *session.Workspace, opts ...Option) *Service {
	ret := &Service{workspace: workspace}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Workspace returns the underlying workspace.
func (s *Service) Workspace() *session.Workspace {
	return s.workspace
}

// CreateTerminal starts a new named terminal session.
func (s *Service) CreateTerminal(ctx context.Context, input *CreateInput, output *CreateOutput) error {
	aSession, err := s.workspace.Create(ctx, input.Name)
	if err != nil {
		return err
	}
	progress.UpdateCtx(ctx, progress.Delta{SessionsOpened: 1})
	output.Name = aSession.Name()
	output.Message = fmt.Sprintf("Terminal %q created successfully.", aSession.Name())
	return nil
}

// RunCommand executes a command in a terminal and collects its output.
func (s *Service) RunCommand(ctx context.Context, input *RunInput, output *RunOutput) error {
	input.Init()
	if input.TimeoutMs <= 0 {
		input.TimeoutMs = s.defaultTimeoutMs
	}
	opts := []session.RunOption{session.WithTimeout(input.TimeoutMs)}
	if input.Unmarkable {
		opts = append(opts, session.WithIdleCompletion())
	}
	result, status, err := s.workspace.Run(ctx, input.TerminalName, input.Command, opts...)
	if err != nil {
		return err
	}
	output.Terminal = input.TerminalName
	output.Command = input.Command
	output.Output = result
	output.Status = status
	return nil
}

// StartBackgroundProcess launches a long-running command in a terminal.
func (s *Service) StartBackgroundProcess(ctx context.Context, input *BackgroundInput, output *BackgroundOutput) error {
	input.Init()
	message, err := s.workspace.StartBackground(ctx, input.TerminalName, input.Command)
	if err != nil {
		return err
	}
	output.Terminal = input.TerminalName
	output.Message = message
	return nil
}

// CloseTerminals closes every terminal not named in the keep list.
func (s *Service) CloseTerminals(ctx context.Context, input *CloseInput, output *CloseOutput) error {
	kept := input.KeepNames()
	closed, err := s.workspace.CloseAll(kept...)
	if len(closed) > 0 {
		progress.UpdateCtx(ctx, progress.Delta{SessionsClosed: len(closed)})
	}
	output.Closed = closed
	output.Kept = kept
	return err
}

// ListTerminals describes the registered terminals.
func (s *Service) ListTerminals(ctx context.Context, input *ListInput, output *ListOutput) error {
	output.Terminals = s.workspace.List()
	return nil
}
