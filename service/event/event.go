package event

import (
	"time"

	"github.com/viant/plexor/internal/clock"
)

// Event types published over the status stream.
const (
	TypeRunStarted      = "run.started"
	TypeRunCompleted    = "run.completed"
	TypeRunFailed       = "run.failed"
	TypeStepStarted     = "step.started"
	TypeStepCompleted   = "step.completed"
	TypeStepFailed      = "step.failed"
	TypeStepRemediating = "step.remediating"
	TypeStepSkipped     = "step.skipped"
)

type Context struct {
	RunID       string `json:"runID"`
	StepID      string `json:"stepID,omitempty"`
	EventType   string `json:"eventType"`
	Tool        string `json:"tool,omitempty"`
	TimeTakenMs int    `json:"timeTakenMs"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
