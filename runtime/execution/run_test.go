package execution

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/plexor/internal/clock"
)

func TestRun_lifecycle(t *testing.T) {
	run := NewRun("build the app")
	assert.Equal(t, RunStatePending, run.State)
	assert.NotEmpty(t, run.ID)

	run.Start()
	assert.Equal(t, RunStateRunning, run.State)
	assert.NotNil(t, run.StartedAt)

	first := run.AddStep(`create_terminal(name="build")`)
	second := run.AddStep(`run_command(command="echo hello", terminal_name="build")`)
	assert.Equal(t, 0, first.Ordinal)
	assert.Equal(t, 1, second.Ordinal)
	assert.Equal(t, run.ID, first.RunID)

	first.Start()
	assert.Equal(t, StepStateExecuting, first.State)
	assert.Equal(t, 1, first.Attempts)
	first.Complete("created terminal build", map[string]interface{}{"terminal": "build"})
	assert.Equal(t, StepStateCompleted, first.State)
	assert.True(t, first.State.IsTerminal())

	second.Start()
	second.Fail(errors.New("command not found"))
	assert.Equal(t, StepStateFailed, second.State)
	assert.Equal(t, "command not found", run.LastError())

	run.Fail(errors.New("step 1 exhausted retries"))
	assert.Equal(t, RunStateFailed, run.State)
	assert.True(t, run.State.IsTerminal())
	assert.Equal(t, "step 1 exhausted retries", run.Error)
}

func TestStep_remediationRewind(t *testing.T) {
	run := NewRun("")
	step := run.AddStep(`run_command(command="eco hi", terminal_name="main")`)

	step.Start()
	step.Fail(errors.New("eco: command not found"))
	attempts := step.Attempts

	step.Remediate(`run_command(command="echo hi", terminal_name="main")`)
	assert.Equal(t, StepStateRemediating, step.State)
	assert.Equal(t, `run_command(command="echo hi", terminal_name="main")`, step.CallText)
	assert.Equal(t, attempts, step.Attempts)
	assert.Empty(t, step.Output)
	assert.Nil(t, step.CompletedAt)

	step.Start()
	assert.Equal(t, attempts+1, step.Attempts)
	step.Complete("hi", nil)
	assert.Equal(t, StepStateCompleted, step.State)
}

func TestRun_elapsed(t *testing.T) {
	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	clock.NowFunc = func() time.Time { return base }
	defer func() { clock.NowFunc = time.Now }()

	run := NewRun("timed")
	run.Start()
	base = base.Add(1500 * time.Millisecond)
	run.Complete()
	assert.Equal(t, 1500*time.Millisecond, run.Elapsed())
}

func TestRun_historyIsACopy(t *testing.T) {
	run := NewRun("goal")
	step := run.AddStep(`list_terminals()`)
	step.Start()

	history := run.History()
	assert.Equal(t, 1, len(history))
	history[0].CallText = "mutated"
	assert.Equal(t, `list_terminals()`, run.Steps[0].CallText)

	run.AddStep(`close_terminals()`)
	assert.Equal(t, 1, len(history), "earlier snapshot must not grow")
	assert.Equal(t, 2, len(run.Steps))
}
