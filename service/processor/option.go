package processor

import (
	"time"

	"github.com/viant/plexor/model/plan"
	"github.com/viant/plexor/runtime/execution"
	"github.com/viant/plexor/service/dao"
	"github.com/viant/plexor/service/event"
	"github.com/viant/plexor/service/executor"
	"github.com/viant/plexor/service/planner"
)

// Option customizes the processor service.
type Option func(*Service)

// WithExecutor sets the step executor.
func WithExecutor(executor executor.Service) Option {
	return func(s *Service) {
		s.executor = executor
	}
}

// WithExtractor sets the extractor locating recognized calls in plan and
// remediation text.
func WithExtractor(extractor *plan.Extractor) Option {
	return func(s *Service) {
		s.extractor = extractor
	}
}

// WithPlanner sets the external planner consulted when a step fails.
// Without one, the first failed step fails the run.
func WithPlanner(service planner.Service) Option {
	return func(s *Service) {
		s.planner = service
	}
}

// WithRunDAO sets the store finished runs are persisted to.
func WithRunDAO(runDAO dao.Service[string, execution.Run]) Option {
	return func(s *Service) {
		s.runDAO = runDAO
	}
}

// WithEventService sets the event service step and run transitions are
// published to.
func WithEventService(events *event.Service) Option {
	return func(s *Service) {
		s.events = events
	}
}

// WithMaxStepAttempts caps how many times a single step may execute,
// counting the first attempt and every remediated retry.
func WithMaxStepAttempts(attempts int) Option {
	return func(s *Service) {
		if attempts > 0 {
			s.config.MaxStepAttempts = attempts
		}
	}
}

// WithRetryDelay sets the pause before a remediated step is re-executed.
func WithRetryDelay(delay time.Duration) Option {
	return func(s *Service) {
		s.config.RetryDelay = delay
	}
}

// WithConfig sets the configuration for the service
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}
