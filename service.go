package plexor

import (
	"context"
	"time"

	"github.com/viant/plexor/extension"
	"github.com/viant/plexor/model/plan"
	"github.com/viant/plexor/model/types"
	"github.com/viant/plexor/policy"
	"github.com/viant/plexor/progress"
	"github.com/viant/plexor/runtime/execution"
	"github.com/viant/plexor/service/action/nop"
	"github.com/viant/plexor/service/action/patch"
	"github.com/viant/plexor/service/action/printer"
	"github.com/viant/plexor/service/action/runner"
	"github.com/viant/plexor/service/action/storage"
	"github.com/viant/plexor/service/action/terminal"
	"github.com/viant/plexor/service/dao"
	rmemory "github.com/viant/plexor/service/dao/run/memory"
	"github.com/viant/plexor/service/event"
	"github.com/viant/plexor/service/executor"
	"github.com/viant/plexor/service/messaging"
	"github.com/viant/plexor/service/planner"
	"github.com/viant/plexor/service/processor"
	"github.com/viant/plexor/service/session"

	"github.com/viant/x"
)

type Service struct {
	runtime           *Runtime
	config            *Config
	workspace         *session.Workspace
	actions           *extension.Actions
	extensionTypes    []*x.Type
	extensionServices []types.Service
	executor          executor.Service
	executorOptions   []executor.Option
	planner           planner.Service
	policy            *policy.Policy
	runDAO            dao.Service[string, execution.Run]
	eventService      *event.Service
	statusListener    func(*event.Event[event.StatusEvent])
	outputCallback    func(name, line string)
	progressListener  func(progress.Snapshot)
}

func (s *Service) init(ctx context.Context, options []Option) error {
	for _, option := range options {
		option(s)
	}
	if err := s.ensureBaseSetup(ctx); err != nil {
		return err
	}
	s.actions = extension.NewActions(s.extensionTypes...)
	s.actions.Register(terminal.New(s.workspace, terminal.WithDefaultTimeout(s.config.Session.RunTimeoutMs)))
	storageService, err := storage.New(s.workspace.BaseDirectory())
	if err != nil {
		return err
	}
	s.actions.Register(storageService)
	patchService, err := patch.New(s.workspace.BaseDirectory())
	if err != nil {
		return err
	}
	s.actions.Register(patchService)
	s.actions.Register(runner.New())
	s.actions.Register(printer.New())
	s.actions.Register(nop.New())
	for _, service := range s.extensionServices {
		s.actions.Register(service)
	}

	executorOptions := s.executorOptions
	if len(s.config.FailureMarkers) > 0 {
		executorOptions = append(executorOptions, executor.WithFailureMarkers(s.config.FailureMarkers...))
	}
	s.executor = executor.NewService(s.actions, executorOptions...)

	vocabulary := append(s.actions.Tools(), s.config.Vocabulary...)
	s.runtime.processor, err = processor.New(
		processor.WithExecutor(s.executor),
		processor.WithExtractor(plan.NewExtractor(vocabulary...)),
		processor.WithPlanner(s.planner),
		processor.WithRunDAO(s.runDAO),
		processor.WithEventService(s.eventService),
		processor.WithMaxStepAttempts(s.config.Remediation.MaxStepAttempts),
		processor.WithRetryDelay(time.Duration(s.config.Remediation.RetryDelayMs)*time.Millisecond))
	if err != nil {
		return err
	}
	s.runtime.workspace = s.workspace
	s.runtime.runDAO = s.runDAO
	s.runtime.planner = s.planner
	s.runtime.policy = s.policy
	s.runtime.progressListener = s.progressListener
	return nil
}

func (s *Service) ensureBaseSetup(ctx context.Context) error {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	s.config.Init()
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.workspace == nil {
		workspace, err := session.NewWorkspace(ctx, s.config.WorkspaceDir, s.workspaceOptions()...)
		if err != nil {
			return err
		}
		s.workspace = workspace
	}
	if s.runDAO == nil {
		s.runDAO = rmemory.New()
	}
	if s.eventService == nil {
		events, err := event.New(messaging.VendorMemory)
		if err != nil {
			return err
		}
		s.eventService = events
		if s.statusListener == nil {
			s.statusListener = event.LogStatus
		}
	}
	if s.statusListener != nil {
		if err := event.SetListenerOf[event.StatusEvent](s.eventService, s.statusListener); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) workspaceOptions() []session.WorkspaceOption {
	sessionOptions := []session.Option{
		session.WithIdleWindow(time.Duration(s.config.Session.IdleWindowMs) * time.Millisecond),
		session.WithPollInterval(time.Duration(s.config.Session.PollMs) * time.Millisecond),
		session.WithBackgroundGrace(time.Duration(s.config.Session.BackgroundGraceMs) * time.Millisecond),
		session.WithQueueBuffer(s.config.Session.QueueBuffer),
	}
	if s.config.Shell != "" {
		sessionOptions = append(sessionOptions, session.WithShell(s.config.Shell))
	}
	ret := []session.WorkspaceOption{session.WithSessionOptions(sessionOptions...)}
	if s.outputCallback != nil {
		ret = append(ret, session.WithCallback(s.outputCallback))
	}
	return ret
}

// RegisterExtensionTypes registers additional data types with the action
// registry.
func (s *Service) RegisterExtensionTypes(types ...*x.Type) {
	for i := range types {
		s.actions.Types().Register(types[i])
	}
}

// RegisterExtensionServices registers additional tool services; their method
// signatures become recognized call names.
func (s *Service) RegisterExtensionServices(services ...types.Service) {
	extractor := s.runtime.processor.Extractor()
	for i := range services {
		s.actions.Register(services[i])
		for _, signature := range services[i].Methods() {
			extractor.Include(signature.Name)
		}
	}
}

// Actions returns the tool registry.
func (s *Service) Actions() *extension.Actions {
	return s.actions
}

func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// New creates a plexor service. The returned service owns a terminal
// workspace rooted in the configured directory; call Runtime().Shutdown once
// done to close every terminal.
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{runtime: &Runtime{}}
	if err := ret.init(ctx, options); err != nil {
		return nil, err
	}
	return ret, nil
}
