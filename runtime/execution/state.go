package execution

// StepState represents the current State of one plan step
type StepState string

const (
	StepStatePending   StepState = "pending"
	StepStateExecuting StepState = "executing"
	StepStateCompleted StepState = "completed"
	// StepStateRemediating indicates the step failed and a corrected call is
	// being produced to replace it before the next attempt.
	StepStateRemediating StepState = "remediating"
	StepStateFailed      StepState = "failed"
	StepStateSkipped     StepState = "skipped"
)

// IsTerminal reports whether no further transition can happen for the step.
func (s StepState) IsTerminal() bool {
	return s == StepStateCompleted || s == StepStateFailed || s == StepStateSkipped
}

// RunState represents the overall State of one plan run
type RunState string

const (
	RunStatePending   RunState = "pending"
	RunStateRunning   RunState = "running"
	RunStateCompleted RunState = "completed"
	RunStateFailed    RunState = "failed"
)

// IsTerminal reports whether the run finished, successfully or not.
func (s RunState) IsTerminal() bool {
	return s == RunStateCompleted || s == RunStateFailed
}
