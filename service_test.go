package plexor_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/plexor"
	"github.com/viant/plexor/policy"
	"github.com/viant/plexor/runtime/execution"
	"github.com/viant/plexor/service/event"
	"github.com/viant/plexor/service/planner"
	"github.com/viant/plexor/service/session"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skipf("bash not available: %v", err)
	}
}

// fastConfig shortens the session timings so tests do not sit in idle
// windows.
func fastConfig(t *testing.T) *plexor.Config {
	t.Helper()
	config := plexor.DefaultConfig()
	config.WorkspaceDir = t.TempDir()
	config.Session.IdleWindowMs = 300
	config.Session.PollMs = 20
	config.Session.BackgroundGraceMs = 300
	return config
}

func TestService_ExecutePlan(t *testing.T) {
	requireShell(t)
	ctx := context.Background()
	srv, err := plexor.New(ctx, plexor.WithConfig(fastConfig(t)))
	require.NoError(t, err)
	aRuntime := srv.Runtime()
	defer aRuntime.Shutdown(ctx)

	planText := `
First set up a dedicated terminal, then greet from it.
create_terminal(name="build")
run_command(command="echo hello", terminal_name="build")
`
	run, wait, err := aRuntime.ExecutePlan(ctx, planText)
	require.NoError(t, err)
	require.Len(t, run.Steps, 2)

	run, err = wait(30 * time.Second)
	require.NoError(t, err)
	assert.EqualValues(t, execution.RunStateCompleted, run.CurrentState())
	assert.Equal(t, "hello", run.Steps[1].Output)
	assert.Contains(t, aRuntime.Workspace().Names(), "build")

	stored, err := aRuntime.Run(ctx, run.ID)
	require.NoError(t, err)
	assert.EqualValues(t, execution.RunStateCompleted, stored.State)
}

func TestService_ExecuteGoal(t *testing.T) {
	requireShell(t)
	ctx := context.Background()
	aPlanner := planner.NewStatic("```\nrun_command(command=\"echo from goal\")\n```")
	srv, err := plexor.New(ctx,
		plexor.WithConfig(fastConfig(t)),
		plexor.WithPlanner(aPlanner))
	require.NoError(t, err)
	aRuntime := srv.Runtime()
	defer aRuntime.Shutdown(ctx)

	run, wait, err := aRuntime.ExecuteGoal(ctx, "print a greeting")
	require.NoError(t, err)
	run, err = wait(30 * time.Second)
	require.NoError(t, err)
	assert.EqualValues(t, execution.RunStateCompleted, run.CurrentState())
	require.Len(t, run.Steps, 1)
	assert.Equal(t, "from goal", run.Steps[0].Output)
	assert.Equal(t, "print a greeting", run.Goal)
}

func TestService_remediation(t *testing.T) {
	requireShell(t)
	ctx := context.Background()
	aPlanner := planner.NewStatic().WithCorrections(`run_command(command="echo recovered")`)
	srv, err := plexor.New(ctx,
		plexor.WithConfig(fastConfig(t)),
		plexor.WithPlanner(aPlanner))
	require.NoError(t, err)
	aRuntime := srv.Runtime()
	defer aRuntime.Shutdown(ctx)

	run, wait, err := aRuntime.ExecutePlan(ctx, `run_command(command="cat definitely-missing.txt")`)
	require.NoError(t, err)
	run, err = wait(30 * time.Second)
	require.NoError(t, err)

	assert.EqualValues(t, execution.RunStateCompleted, run.CurrentState())
	assert.Equal(t, 1, run.Remediations)
	require.Len(t, run.Steps, 1)
	assert.Equal(t, 2, run.Steps[0].Attempts)
	assert.Equal(t, "recovered", run.Steps[0].Output)
	assert.Equal(t, `run_command(command="echo recovered")`, run.Steps[0].CallText)

	requests := aPlanner.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, `run_command(command="cat definitely-missing.txt")`, requests[0].FailedCall)
	assert.Contains(t, requests[0].Error, "exited with status 1")
}

func TestService_policyDeny(t *testing.T) {
	requireShell(t)
	ctx := context.Background()
	srv, err := plexor.New(ctx,
		plexor.WithConfig(fastConfig(t)),
		plexor.WithPolicy(&policy.Policy{Mode: policy.ModeDeny}))
	require.NoError(t, err)
	aRuntime := srv.Runtime()
	defer aRuntime.Shutdown(ctx)

	run, wait, err := aRuntime.ExecutePlan(ctx, `run_command(command="echo blocked")`)
	require.NoError(t, err)
	run, err = wait(30 * time.Second)
	require.NoError(t, err)
	assert.EqualValues(t, execution.RunStateFailed, run.CurrentState())
	assert.Contains(t, run.Error, "denied by policy")
}

func TestService_statusListener(t *testing.T) {
	requireShell(t)
	ctx := context.Background()

	var mux sync.Mutex
	var collected []string
	listener := func(anEvent *event.Event[event.StatusEvent]) {
		mux.Lock()
		defer mux.Unlock()
		collected = append(collected, anEvent.Context.EventType)
	}

	srv, err := plexor.New(ctx,
		plexor.WithConfig(fastConfig(t)),
		plexor.WithStatusListener(listener))
	require.NoError(t, err)
	aRuntime := srv.Runtime()
	defer aRuntime.Shutdown(ctx)

	_, wait, err := aRuntime.ExecutePlan(ctx, `run_command(command="echo observed")`)
	require.NoError(t, err)
	_, err = wait(30 * time.Second)
	require.NoError(t, err)

	// event delivery is asynchronous
	expected := []string{event.TypeRunStarted, event.TypeStepStarted, event.TypeStepCompleted, event.TypeRunCompleted}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mux.Lock()
		count := len(collected)
		mux.Unlock()
		if count >= len(expected) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	mux.Lock()
	defer mux.Unlock()
	assert.EqualValues(t, expected, collected)
}

func TestService_outputCallback(t *testing.T) {
	requireShell(t)
	ctx := context.Background()

	var mux sync.Mutex
	var lines []string
	callback := func(name, line string) {
		mux.Lock()
		defer mux.Unlock()
		lines = append(lines, name+": "+line)
	}

	srv, err := plexor.New(ctx,
		plexor.WithConfig(fastConfig(t)),
		plexor.WithOutputCallback(callback))
	require.NoError(t, err)
	aRuntime := srv.Runtime()
	defer aRuntime.Shutdown(ctx)

	_, wait, err := aRuntime.ExecutePlan(ctx, `run_command(command="echo streamed")`)
	require.NoError(t, err)
	_, err = wait(30 * time.Second)
	require.NoError(t, err)

	mux.Lock()
	defer mux.Unlock()
	assert.True(t, len(lines) > 0)
	assert.Contains(t, strings.Join(lines, "\n"), "streamed")
}

func TestService_withWorkspace(t *testing.T) {
	requireShell(t)
	ctx := context.Background()
	workspace, err := session.NewWorkspace(ctx, t.TempDir(),
		session.WithSessionOptions(
			session.WithIdleWindow(300*time.Millisecond),
			session.WithPollInterval(20*time.Millisecond)))
	require.NoError(t, err)
	srv, err := plexor.New(ctx, plexor.WithWorkspace(workspace))
	require.NoError(t, err)
	aRuntime := srv.Runtime()
	defer aRuntime.Shutdown(ctx)

	assert.Same(t, workspace, aRuntime.Workspace())

	run, wait, err := aRuntime.ExecutePlan(ctx, `run_command(command="pwd")`)
	require.NoError(t, err)
	run, err = wait(30 * time.Second)
	require.NoError(t, err)
	assert.EqualValues(t, execution.RunStateCompleted, run.CurrentState())
	assert.Contains(t, run.Steps[0].Output, filepath.Base(workspace.BaseDirectory()))
}

func TestLoadConfig(t *testing.T) {
	location := filepath.Join(t.TempDir(), "config.yaml")
	document := `
workspaceDir: /tmp/plexor
session:
  idleWindowMs: 150
remediation:
  maxStepAttempts: 5
failureMarkers:
  - "FATAL:"
`
	require.NoError(t, os.WriteFile(location, []byte(document), 0o644))

	config, err := plexor.LoadConfig(context.Background(), location)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/plexor", config.WorkspaceDir)
	assert.Equal(t, 150, config.Session.IdleWindowMs)
	assert.Equal(t, 5, config.Remediation.MaxStepAttempts)
	assert.Equal(t, []string{"FATAL:"}, config.FailureMarkers)
	// defaults fill the rest
	assert.Equal(t, 200, config.Session.PollMs)
	assert.Equal(t, 30000, config.Session.RunTimeoutMs)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(config *plexor.Config)
		expectErr   bool
	}{
		{
			description: "defaults are valid",
			mutate:      func(config *plexor.Config) {},
		},
		{
			description: "zero attempts",
			mutate:      func(config *plexor.Config) { config.Remediation.MaxStepAttempts = 0 },
			expectErr:   true,
		},
		{
			description: "negative poll",
			mutate:      func(config *plexor.Config) { config.Session.PollMs = -1 },
			expectErr:   true,
		},
	}
	for _, testCase := range testCases {
		config := plexor.DefaultConfig()
		testCase.mutate(config)
		err := config.Validate()
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
	}
}
