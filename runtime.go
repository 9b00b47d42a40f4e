package plexor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/viant/plexor/policy"
	"github.com/viant/plexor/progress"
	"github.com/viant/plexor/runtime/execution"
	"github.com/viant/plexor/service/dao"
	"github.com/viant/plexor/service/planner"
	"github.com/viant/plexor/service/processor"
	"github.com/viant/plexor/service/session"
)

// Runtime represents a plan engine runtime
type Runtime struct {
	processor        *processor.Service
	runDAO           dao.Service[string, execution.Run]
	workspace        *session.Workspace
	planner          planner.Service
	policy           *policy.Policy
	progressListener func(progress.Snapshot)
}

// Wait blocks until the launched run reaches a terminal state or the timeout
// elapses. The returned run carries the full step history either way.
type Wait func(timeout time.Duration) (*execution.Run, error)

// ExecutePlan extracts the recognized tool calls out of the supplied plan
// text and launches the resulting run. Execution happens on a background
// goroutine; use the returned Wait to block for completion.
func (r *Runtime) ExecutePlan(ctx context.Context, text string) (*execution.Run, Wait, error) {
	run, err := r.processor.NewRunFromText("", text)
	if err != nil {
		return nil, nil, err
	}
	wait := r.launch(ctx, run)
	return run, wait, nil
}

// ExecuteGoal asks the configured planner to produce a plan for the goal and
// launches it.
func (r *Runtime) ExecuteGoal(ctx context.Context, goal string) (*execution.Run, Wait, error) {
	if r.planner == nil {
		return nil, nil, fmt.Errorf("no planner configured")
	}
	text, err := r.planner.Plan(ctx, goal)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to plan goal %q: %w", goal, err)
	}
	run, err := r.processor.NewRunFromText(goal, planner.StripFences(text))
	if err != nil {
		return nil, nil, err
	}
	wait := r.launch(ctx, run)
	return run, wait, nil
}

// launch starts run execution in the background and returns a wait function.
// The execution context carries the runtime policy and a fresh progress
// tracker.
func (r *Runtime) launch(ctx context.Context, run *execution.Run) Wait {
	if r.policy != nil {
		ctx = policy.WithPolicy(ctx, r.policy)
	}
	ctx, _ = progress.WithNewTracker(ctx, run.ID, run.Goal, r.progressListener)
	if r.runDAO != nil {
		r.runDAO.Save(ctx, run)
	}
	go func() {
		if err := r.processor.Execute(ctx, run); err != nil {
			log.Printf("run %v failed: %v", run.ID, err)
		}
	}()
	return func(timeout time.Duration) (*execution.Run, error) {
		return r.WaitForRun(ctx, run, timeout)
	}
}

// WaitForRun blocks until the run reaches a terminal state, polling its state
// at a fixed interval. On timeout the run is returned as-is together with an
// error.
func (r *Runtime) WaitForRun(ctx context.Context, run *execution.Run, timeout time.Duration) (*execution.Run, error) {
	deadline := time.Now().Add(timeout)
	for {
		if run.CurrentState().IsTerminal() {
			return run, nil
		}
		if err := ctx.Err(); err != nil {
			return run, err
		}
		if time.Now().After(deadline) {
			return run, fmt.Errorf("timeout waiting for run %q", run.ID)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// Run returns a stored run
func (r *Runtime) Run(ctx context.Context, id string) (*execution.Run, error) {
	return r.runDAO.Load(ctx, id)
}

// Runs returns a list of stored runs
func (r *Runtime) Runs(ctx context.Context, parameter ...*dao.Parameter) ([]*execution.Run, error) {
	return r.runDAO.List(ctx, parameter...)
}

// Workspace returns the terminal workspace backing the engine.
func (r *Runtime) Workspace() *session.Workspace {
	return r.workspace
}

// Shutdown closes every terminal in the workspace.
func (r *Runtime) Shutdown(ctx context.Context) error {
	return r.workspace.Close()
}
