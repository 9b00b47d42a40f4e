// Package runner executes one-shot command batches on local or remote
// hosts. Unlike workspace terminals these runs keep no user-visible state
// between invocations, connections are cached per host only to avoid
// repeated ssh handshakes.
package runner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs/url"
	"github.com/viant/gosh"
	grunner "github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
	rssh "github.com/viant/gosh/runner/ssh"
	"github.com/viant/scy/cred/secret"
	"golang.org/x/crypto/ssh"
)

// Service executes command batches through pooled gosh connections.
type Service struct {
	connections map[string]*gosh.Service
	secrets     *secret.Service
	mux         sync.Mutex
}

// New creates a runner service
func New() *Service {
	return &Service{
		connections: make(map[string]*gosh.Service),
		secrets:     secret.New(),
	}
}

// Execute runs the input commands in order on the target host, collecting
// per command output and stopping at the first failure unless configured
// otherwise.
func (s *Service) Execute(ctx context.Context, input *Input, output *Output) error {
	input.Init()
	if err := input.Validate(); err != nil {
		return err
	}
	connection, err := s.connect(ctx, input.Host, input.Env)
	if err != nil {
		return fmt.Errorf("failed to connect to %v: %w", input.Host.URL, err)
	}
	if input.Directory != "" {
		if _, _, err := connection.Run(ctx, fmt.Sprintf("cd %s", input.Directory)); err != nil {
			return fmt.Errorf("failed to change directory: %w", err)
		}
	}
	abortOnError := true
	if input.AbortOnError != nil {
		abortOnError = *input.AbortOnError
	}
	timeout := time.Duration(input.TimeoutMs) * time.Millisecond
	if timeout == 0 {
		timeout = time.Minute
	}

	var combinedStdout, combinedStderr strings.Builder
	for _, command := range input.Commands {
		stdout, stderr, status := s.runCommand(ctx, connection, command, timeout)
		output.Commands = append(output.Commands, &Command{
			Input:  command,
			Output: stdout,
			Stderr: stderr,
			Status: status,
		})
		if stdout != "" {
			combinedStdout.WriteString(stdout)
			combinedStdout.WriteString("\n")
		}
		if stderr != "" {
			combinedStderr.WriteString(stderr)
			combinedStderr.WriteString("\n")
		}
		output.Status = status
		if abortOnError && status != 0 {
			break
		}
	}
	output.Stdout = strings.TrimSpace(combinedStdout.String())
	output.Stderr = strings.TrimSpace(combinedStderr.String())
	return nil
}

// runCommand executes a single command, routing its output to stderr when
// the command failed.
func (s *Service) runCommand(ctx context.Context, connection *gosh.Service, command string, timeout time.Duration) (string, string, int) {
	started := time.Now()
	stdout, status, err := connection.Run(ctx, command, grunner.WithTimeout(int(timeout.Milliseconds())))
	if elapsed := time.Since(started); elapsed > timeout && err == nil {
		err = fmt.Errorf("command %v timed out after %s", command, elapsed)
	}
	if status == 0 && err == nil {
		return stdout, "", status
	}
	if stdout == "" && err != nil {
		stdout = err.Error()
	}
	if status == 0 {
		status = 1
	}
	return "", stdout, status
}

// connect returns a pooled connection for the host, creating it on first use.
func (s *Service) connect(ctx context.Context, host *Host, env map[string]string) (*gosh.Service, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if connection, ok := s.connections[host.URL]; ok {
		return connection, nil
	}
	var options []grunner.Option
	if len(env) > 0 {
		options = append(options, grunner.WithEnvironment(env))
	}
	var connection *gosh.Service
	var err error
	if host.IsLocal() {
		connection, err = gosh.New(ctx, local.New(options...))
	} else {
		config, configErr := s.sshConfig(ctx, host)
		if configErr != nil {
			return nil, fmt.Errorf("failed to get ssh config: %w", configErr)
		}
		address := url.Host(host.URL)
		if !strings.Contains(address, ":") {
			address += ":22"
		}
		connection, err = gosh.New(ctx, rssh.New(address, config, options...))
	}
	if err != nil {
		return nil, err
	}
	s.connections[host.URL] = connection
	return connection, nil
}

// sshConfig resolves the host credentials through the secret store.
func (s *Service) sshConfig(ctx context.Context, host *Host) (*ssh.ClientConfig, error) {
	credentials := host.Credentials
	if credentials == "" {
		credentials = "localhost"
	}
	generic, err := s.secrets.GetCredentials(ctx, credentials)
	if err != nil {
		return nil, err
	}
	return generic.SSH.Config(ctx)
}

// Close releases all pooled connections.
func (s *Service) Close(ctx context.Context) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	var errs []string
	for hostURL, connection := range s.connections {
		if err := connection.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("failed to close connection %s: %v", hostURL, err))
		}
	}
	s.connections = make(map[string]*gosh.Service)
	if len(errs) > 0 {
		return fmt.Errorf("errors closing connections: %s", strings.Join(errs, "; "))
	}
	return nil
}
