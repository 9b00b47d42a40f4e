package execution

import (
	"fmt"
	"sync"
	"time"

	"github.com/viant/plexor/internal/clock"
	"github.com/viant/plexor/internal/idgen"
	"github.com/viant/plexor/model/plan"
	"github.com/viant/plexor/service/event"
)

// Step represents a single plan step execution. The call text is what the
// planner emitted; remediation may replace it in place, bumping Attempts.
type Step struct {
	ID          string                 `json:"id"`
	RunID       string                 `json:"runId"`
	Ordinal     int                    `json:"ordinal"`
	CallText    string                 `json:"callText"`
	Call        *plan.Call             `json:"call,omitempty"`
	State       StepState              `json:"state"`
	Attempts    int                    `json:"attempts,omitempty"`
	Output      string                 `json:"output,omitempty"`
	Result      map[string]interface{} `json:"result,omitempty"`
	Error       string                 `json:"error,omitempty"`
	ScheduledAt time.Time              `json:"scheduledAt"`
	StartedAt   *time.Time             `json:"startedAt,omitempty"`
	CompletedAt *time.Time             `json:"completedAt,omitempty"`
	mux         sync.RWMutex
}

// NewStep creates a pending step for the supplied call text
func NewStep(runID string, ordinal int, callText string) *Step {
	return &Step{
		ID:          generateStepID(runID, ordinal),
		RunID:       runID,
		Ordinal:     ordinal,
		CallText:    callText,
		State:       StepStatePending,
		ScheduledAt: clock.Now(),
	}
}

// Context builds the event context describing this step transition.
func (s *Step) Context(eventType string) *event.Context {
	ret := &event.Context{
		EventType: eventType,
		RunID:     s.RunID,
		StepID:    s.ID,
	}
	if s.Call != nil {
		ret.Tool = s.Call.Name
	}
	if s.StartedAt != nil {
		ret.TimeTakenMs = int(time.Since(*s.StartedAt).Milliseconds())
	}
	return ret
}

// AttachCall records the parsed form of the current call text.
func (s *Step) AttachCall(call *plan.Call) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.Call = call
}

// Start marks the step as executing and counts the attempt
func (s *Step) Start() {
	s.mux.Lock()
	defer s.mux.Unlock()
	now := clock.Now()
	s.StartedAt = &now
	s.State = StepStateExecuting
	s.Attempts++
}

// Complete marks the step as completed with its textual output and the
// flattened result of the handler.
func (s *Step) Complete(output string, result map[string]interface{}) {
	s.mux.Lock()
	defer s.mux.Unlock()
	now := clock.Now()
	s.CompletedAt = &now
	s.Output = output
	s.Result = result
	s.Error = ""
	s.State = StepStateCompleted
}

// Fail marks the step as failed
func (s *Step) Fail(err error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	now := clock.Now()
	s.CompletedAt = &now
	if err != nil {
		s.Error = err.Error()
	}
	s.State = StepStateFailed
}

// Remediate replaces the step call text with a corrected one and rewinds the
// step so that it can be executed again. The attempt counter is preserved.
func (s *Step) Remediate(correctedText string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.CallText = correctedText
	s.Call = nil
	s.Output = ""
	s.Result = nil
	s.CompletedAt = nil
	s.State = StepStateRemediating
}

// Skip marks the step as skipped
func (s *Step) Skip() {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.State = StepStateSkipped
}

// Clone creates a deep copy of the step so the caller can mutate it without
// affecting the original instance.
func (s *Step) Clone() *Step {
	if s == nil {
		return nil
	}
	s.mux.RLock()
	defer s.mux.RUnlock()

	clone := &Step{
		ID:          s.ID,
		RunID:       s.RunID,
		Ordinal:     s.Ordinal,
		CallText:    s.CallText,
		State:       s.State,
		Attempts:    s.Attempts,
		Output:      s.Output,
		Error:       s.Error,
		ScheduledAt: s.ScheduledAt,
	}
	if s.Call != nil {
		callCopy := *s.Call
		if s.Call.Args != nil {
			callCopy.Args = make(map[string]string, len(s.Call.Args))
			for k, v := range s.Call.Args {
				callCopy.Args[k] = v
			}
		}
		clone.Call = &callCopy
	}
	if s.Result != nil {
		clone.Result = make(map[string]interface{}, len(s.Result))
		for k, v := range s.Result {
			clone.Result[k] = v
		}
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		clone.StartedAt = &t
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		clone.CompletedAt = &t
	}
	return clone
}

// generateStepID creates a unique ID for a step
func generateStepID(runID string, ordinal int) string {
	return fmt.Sprintf("%s-%03d-%s", runID, ordinal, idgen.New())
}
