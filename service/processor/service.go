package processor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/viant/plexor/model/plan"
	"github.com/viant/plexor/progress"
	"github.com/viant/plexor/runtime/execution"
	"github.com/viant/plexor/service/dao"
	"github.com/viant/plexor/service/event"
	"github.com/viant/plexor/service/executor"
	"github.com/viant/plexor/service/planner"
	"github.com/viant/plexor/service/session"
	"github.com/viant/plexor/tracing"
)

// Config represents processor service configuration
type Config struct {
	// MaxStepAttempts caps how many times one step may execute, counting
	// the first attempt and every remediated retry.
	MaxStepAttempts int

	// RetryDelay is the pause before a remediated step re-executes. The
	// planner round-trip is usually backoff enough, so the default is zero.
	RetryDelay time.Duration
}

// DefaultConfig returns the default processor configuration
func DefaultConfig() Config {
	return Config{
		MaxStepAttempts: 3,
	}
}

// Service executes plan runs step by step. Steps within one run execute
// strictly sequentially; a failed step is remediated in place through the
// external planner until it succeeds or exhausts its attempt budget.
type Service struct {
	config    Config
	executor  executor.Service
	extractor *plan.Extractor
	planner   planner.Service
	runDAO    dao.Service[string, execution.Run]
	events    *event.Service
}

// New creates a new processor service
func New(options ...Option) (*Service, error) {
	s := &Service{
		config: DefaultConfig(),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.executor == nil {
		return nil, fmt.Errorf("executor is required")
	}
	if s.extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if s.config.MaxStepAttempts <= 0 {
		s.config.MaxStepAttempts = DefaultConfig().MaxStepAttempts
	}
	return s, nil
}

// Extractor returns the extractor the service recognizes plan calls with.
func (s *Service) Extractor() *plan.Extractor {
	return s.extractor
}

// NewRun builds a pending run from explicit call expressions, in the order
// given.
func (s *Service) NewRun(goal string, callText ...string) *execution.Run {
	run := execution.NewRun(goal)
	for _, text := range callText {
		run.AddStep(text)
	}
	return run
}

// NewRunFromText extracts the recognized calls out of free plan text and
// builds a pending run from them, keeping their original order. Unbalanced
// occurrences are recorded as warnings on the run. Text with no recognized
// call at all is an error.
func (s *Service) NewRunFromText(goal, text string) (*execution.Run, error) {
	extracted := s.extractor.Extract(text)
	run := execution.NewRun(goal)
	run.PlanText = text
	run.Warnings = extracted.Warnings
	for _, warning := range extracted.Warnings {
		log.Printf("plan warning: %v", warning.Message)
	}
	if extracted.IsEmpty() {
		return nil, fmt.Errorf("plan contains no recognized tool call")
	}
	for _, expression := range extracted.Expressions {
		run.AddStep(expression)
	}
	return run, nil
}

// Execute runs every step of the run in order, blocking until the run
// reaches a terminal state. It never advances past a failed step: the step
// either eventually succeeds through remediation or the run fails carrying
// the last error and the full history.
func (s *Service) Execute(ctx context.Context, run *execution.Run) (err error) {
	ctx, span := tracing.StartSpan(ctx, "processor.Execute", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"run.id": run.ID})

	run.Start()
	s.publishRun(ctx, run, event.TypeRunStarted, fmt.Sprintf("%d steps", len(run.Steps)))
	progress.UpdateCtx(ctx, progress.Delta{Total: len(run.Steps)})
	s.saveRun(ctx, run)

	for _, step := range run.Steps {
		if err = s.executeStep(ctx, run, step); err != nil {
			run.Fail(err)
			s.skipRemaining(ctx, run)
			s.publishRun(ctx, run, event.TypeRunFailed, err.Error())
			s.saveRun(ctx, run)
			return err
		}
	}
	run.Complete()
	s.publishRun(ctx, run, event.TypeRunCompleted, fmt.Sprintf("%d steps in %v", len(run.Steps), run.Elapsed()))
	s.saveRun(ctx, run)
	return nil
}

// executeStep drives one step through its attempt loop until it completes,
// or returns the error that fails the run.
func (s *Service) executeStep(ctx context.Context, run *execution.Run, step *execution.Step) error {
	for {
		step.Start()
		s.publishStep(ctx, step, event.TypeStepStarted, step.CallText)
		progress.UpdateCtx(ctx, progress.Delta{Running: 1})

		output, result, err := s.runStep(ctx, step)
		if err == nil {
			step.Complete(output, result)
			s.publishStep(ctx, step, event.TypeStepCompleted, firstLine(output))
			progress.UpdateCtx(ctx, progress.Delta{Running: -1, Completed: 1})
			s.saveRun(ctx, run)
			return nil
		}

		step.Fail(err)
		s.publishStep(ctx, step, event.TypeStepFailed, err.Error())
		progress.UpdateCtx(ctx, progress.Delta{Running: -1, Failed: 1})
		s.saveRun(ctx, run)

		if errors.Is(err, session.ErrProcessTerminated) {
			// the session state later steps rely on is gone; reopening a
			// same-named shell would hide that
			return fmt.Errorf("step %d: %w", step.Ordinal+1, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if step.Attempts >= s.config.MaxStepAttempts {
			return fmt.Errorf("step %d failed after %d attempts: %w", step.Ordinal+1, step.Attempts, err)
		}

		corrected, remErr := s.remediate(ctx, run, step, err)
		if remErr != nil {
			return fmt.Errorf("step %d: remediation failed: %v: %w", step.Ordinal+1, remErr, err)
		}
		step.Remediate(corrected)
		run.CountRemediation()
		s.publishStep(ctx, step, event.TypeStepRemediating, corrected)
		progress.UpdateCtx(ctx, progress.Delta{Failed: -1, Remediations: 1})
		s.saveRun(ctx, run)

		if s.config.RetryDelay > 0 {
			select {
			case <-time.After(s.config.RetryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// skipRemaining marks every step still pending after a run-fatal failure, so
// the history records which steps never executed.
func (s *Service) skipRemaining(ctx context.Context, run *execution.Run) {
	for _, step := range run.Steps {
		if step.State != execution.StepStatePending {
			continue
		}
		step.Skip()
		s.publishStep(ctx, step, event.TypeStepSkipped, "run failed before this step")
		progress.UpdateCtx(ctx, progress.Delta{Skipped: 1})
	}
}

// runStep executes a single attempt inside its own tracing span.
func (s *Service) runStep(ctx context.Context, step *execution.Step) (output string, result map[string]interface{}, err error) {
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("step.execute %d", step.Ordinal+1), "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"run.id": step.RunID, "step.id": step.ID})
	output, result, err = s.executor.Execute(ctx, step)
	if call := step.Call; call != nil {
		span.WithAttributes(map[string]string{"tool": call.Name})
	}
	return output, result, err
}

// remediate asks the external planner for a corrected call to replace the
// failed step. The planner receives the failed call, its error and the full
// step history so far; the first recognized call in its answer wins.
func (s *Service) remediate(ctx context.Context, run *execution.Run, step *execution.Step, cause error) (string, error) {
	if s.planner == nil {
		return "", fmt.Errorf("no planner configured")
	}
	request := &planner.RemediationRequest{
		Goal:       run.Goal,
		FailedCall: step.CallText,
		Error:      cause.Error(),
		History:    run.History(),
	}
	answer, err := s.planner.Remediate(ctx, request)
	if err != nil {
		return "", err
	}
	extracted := s.extractor.Extract(planner.StripFences(answer))
	if extracted.IsEmpty() {
		return "", fmt.Errorf("planner answer contains no recognized tool call")
	}
	return extracted.Expressions[0], nil
}

func (s *Service) publishRun(ctx context.Context, run *execution.Run, eventType, message string) {
	s.publish(ctx, &event.Context{EventType: eventType, RunID: run.ID}, event.StatusEvent{
		RunID:   run.ID,
		State:   string(run.CurrentState()),
		Message: message,
	})
}

func (s *Service) publishStep(ctx context.Context, step *execution.Step, eventType, message string) {
	status := event.StatusEvent{
		RunID:   step.RunID,
		StepID:  step.ID,
		Ordinal: step.Ordinal,
		State:   string(step.State),
		Message: message,
	}
	if step.Call != nil {
		status.Tool = step.Call.Name
	}
	s.publish(ctx, step.Context(eventType), status)
}

// publish emits a status event; failures are logged, never propagated, so
// observability cannot fail a run.
func (s *Service) publish(ctx context.Context, eventContext *event.Context, status event.StatusEvent) {
	if s.events == nil {
		return
	}
	publisher, err := event.PublisherOf[event.StatusEvent](s.events)
	if err != nil {
		log.Printf("failed to resolve status publisher: %v", err)
		return
	}
	if err = publisher.Publish(ctx, event.NewEvent(eventContext, status)); err != nil {
		log.Printf("failed to publish status event: %v", err)
	}
}

func (s *Service) saveRun(ctx context.Context, run *execution.Run) {
	if s.runDAO == nil {
		return
	}
	if err := s.runDAO.Save(ctx, run); err != nil {
		log.Printf("failed to save run %v: %v", run.ID, err)
	}
}

func firstLine(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			return text[:i]
		}
	}
	return text
}
