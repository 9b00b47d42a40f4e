package execution

import (
	"sync"
	"time"

	"github.com/viant/plexor/internal/clock"
	"github.com/viant/plexor/internal/idgen"
	"github.com/viant/plexor/model/plan"
)

// Run represents one execution of a plan: an append-only sequence of steps
// plus the overall state machine pending -> running -> (completed | failed).
type Run struct {
	ID           string         `json:"id"`
	Goal         string         `json:"goal,omitempty"`
	PlanText     string         `json:"planText,omitempty"`
	State        RunState       `json:"state"`
	Steps        []*Step        `json:"steps"`
	Warnings     []plan.Warning `json:"warnings,omitempty"`
	Remediations int            `json:"remediations,omitempty"`
	Error        string         `json:"error,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	StartedAt    *time.Time     `json:"startedAt,omitempty"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty"`
	mux          sync.RWMutex
}

// NewRun creates a pending run
func NewRun(goal string) *Run {
	return &Run{
		ID:        idgen.New(),
		Goal:      goal,
		State:     RunStatePending,
		CreatedAt: clock.Now(),
	}
}

// AddStep appends a pending step for callText and returns it. History only
// grows; steps are never removed within a run.
func (r *Run) AddStep(callText string) *Step {
	r.mux.Lock()
	defer r.mux.Unlock()
	step := NewStep(r.ID, len(r.Steps), callText)
	r.Steps = append(r.Steps, step)
	return step
}

// Start marks the run as running
func (r *Run) Start() {
	r.mux.Lock()
	defer r.mux.Unlock()
	now := clock.Now()
	r.StartedAt = &now
	r.State = RunStateRunning
}

// Complete marks the run as completed
func (r *Run) Complete() {
	r.mux.Lock()
	defer r.mux.Unlock()
	now := clock.Now()
	r.CompletedAt = &now
	r.State = RunStateCompleted
}

// Fail marks the run as failed carrying the final error
func (r *Run) Fail(err error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	now := clock.Now()
	r.CompletedAt = &now
	if err != nil {
		r.Error = err.Error()
	}
	r.State = RunStateFailed
}

// CurrentState returns the run state under the lock, safe to poll while the
// run executes on another goroutine.
func (r *Run) CurrentState() RunState {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return r.State
}

// CountRemediation bumps the run-wide remediation counter.
func (r *Run) CountRemediation() {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.Remediations++
}

// History returns a point-in-time copy of the steps recorded so far, in
// execution order. The copies are safe to read while the run progresses.
func (r *Run) History() []*Step {
	r.mux.RLock()
	defer r.mux.RUnlock()
	ret := make([]*Step, 0, len(r.Steps))
	for _, step := range r.Steps {
		ret = append(ret, step.Clone())
	}
	return ret
}

// LastError returns the error of the most recent failed step, if any.
func (r *Run) LastError() string {
	r.mux.RLock()
	defer r.mux.RUnlock()
	for i := len(r.Steps) - 1; i >= 0; i-- {
		if r.Steps[i].Error != "" {
			return r.Steps[i].Error
		}
	}
	return r.Error
}

// Elapsed reports how long the run has been executing.
func (r *Run) Elapsed() time.Duration {
	r.mux.RLock()
	defer r.mux.RUnlock()
	if r.StartedAt == nil {
		return 0
	}
	if r.CompletedAt != nil {
		return r.CompletedAt.Sub(*r.StartedAt)
	}
	return time.Since(*r.StartedAt)
}
