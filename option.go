package plexor

import (
	"github.com/viant/plexor/model/types"
	"github.com/viant/plexor/policy"
	"github.com/viant/plexor/progress"
	"github.com/viant/plexor/runtime/execution"
	"github.com/viant/plexor/service/dao"
	"github.com/viant/plexor/service/event"
	"github.com/viant/plexor/service/executor"
	"github.com/viant/plexor/service/planner"
	"github.com/viant/plexor/service/session"
	"github.com/viant/plexor/tracing"
	"github.com/viant/x"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customizes the plexor service
type Option func(s *Service)

// WithConfig sets the engine configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithPlanner sets the planner producing plans and step corrections
func WithPlanner(service planner.Service) Option {
	return func(s *Service) {
		s.planner = service
	}
}

// WithWorkspace sets a pre-built terminal workspace; the config workspace
// settings are ignored in that case.
func WithWorkspace(workspace *session.Workspace) Option {
	return func(s *Service) {
		s.workspace = workspace
	}
}

// WithPolicy sets the tool approval policy applied to every run
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithExtensionTypes sets the extension types
func WithExtensionTypes(types ...*x.Type) Option {
	return func(s *Service) {
		s.extensionTypes = types
	}
}

// WithExtensionServices sets the extension services
func WithExtensionServices(services ...types.Service) Option {
	return func(s *Service) {
		s.extensionServices = services
	}
}

// WithExecutorOptions lets the caller supply additional options passed to
// executor.NewService (e.g. an execution listener).
func WithExecutorOptions(opts ...executor.Option) Option {
	return func(s *Service) {
		s.executorOptions = append(s.executorOptions, opts...)
	}
}

// WithRunDAO sets the run DAO
func WithRunDAO(dao dao.Service[string, execution.Run]) Option {
	return func(s *Service) {
		s.runDAO = dao
	}
}

// WithEventService sets the event service
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.eventService = service
	}
}

// WithStatusListener registers a listener receiving run and step status
// events.
func WithStatusListener(listener func(*event.Event[event.StatusEvent])) Option {
	return func(s *Service) {
		s.statusListener = listener
	}
}

// WithOutputCallback registers a callback receiving every output line of
// every terminal in the workspace.
func WithOutputCallback(callback func(name, line string)) Option {
	return func(s *Service) {
		s.outputCallback = callback
	}
}

// WithProgressListener registers a callback invoked after every progress
// counter update of a run.
func WithProgressListener(listener func(progress.Snapshot)) Option {
	return func(s *Service) {
		s.progressListener = listener
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path. The function is
// safe to call multiple times – the first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter. This enables
// integrations with exporters other than the built-in stdout exporter, for example OTLP, Jaeger or
// Zipkin. The function is safe to call multiple times – the first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
