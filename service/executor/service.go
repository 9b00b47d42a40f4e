package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/viant/plexor/extension"
	"github.com/viant/plexor/model/plan"
	"github.com/viant/plexor/model/types"
	"github.com/viant/plexor/policy"
	"github.com/viant/plexor/runtime/execution"
	"github.com/viant/structology/conv"
	"github.com/viant/toolbox"
)

// Listener is invoked after every completed tool invocation, successful or
// not, with the parsed call and the typed input and output that flowed
// through it. Implementations can log, collect metrics or record fixtures.
type Listener func(call *plan.Call, input, output interface{})

// Option customizes the executor instance.
type Option func(*service)

// WithListener registers a callback invoked after every executed tool call.
func WithListener(l Listener) Option {
	return func(s *service) {
		s.listener = l
	}
}

// WithFailureMarkers overrides the failure markers screened for in tool
// output.
func WithFailureMarkers(markers ...string) Option {
	return func(s *service) {
		s.screen = NewScreen(markers...)
	}
}

// Service executes one plan step against the registered tools. It returns
// the collected textual output and the flattened result on success; any
// returned error means the step failed and is a candidate for remediation.
type Service interface {
	Execute(ctx context.Context, step *execution.Step) (string, map[string]interface{}, error)
}

type service struct {
	actions   *extension.Actions
	converter *conv.Converter
	screen    *Screen
	listener  Listener
}

// Execute resolves the step call to a registered tool and invokes it: parse
// errors, unknown names, argument schema violations and policy denials all
// fail the step before the handler runs; afterwards the result is screened
// for textual failure markers.
func (s *service) Execute(ctx context.Context, step *execution.Step) (string, map[string]interface{}, error) {
	call := step.Call
	if call == nil {
		parsed, err := plan.Parse(step.CallText)
		if err != nil {
			return "", nil, err
		}
		step.AttachCall(parsed)
		call = parsed
	}
	binding, ok := s.actions.LookupTool(call.Name)
	if !ok {
		return "", nil, fmt.Errorf("tool %q: %w", call.Name, ErrUnknownTool)
	}
	if err := binding.Signature.Args.Validate(call.Args); err != nil {
		return "", nil, types.NewInvalidArgumentsError(call.Name, err)
	}
	if err := policy.FromContext(ctx).Decide(ctx, call.Name, call.Args); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrExecutionFailure, err)
	}

	input, err := s.typedInput(binding.Signature.Input, call.Args)
	if err != nil {
		return "", nil, types.NewInvalidArgumentsError(call.Name, err)
	}
	output := newInstancePtr(binding.Signature.Output)

	ctx = types.EnsureExecutionContext(ctx, "runID", step.RunID, "stepID", step.ID, "tool", call.Name)
	err = binding.Handler(ctx, input, output)
	if s.listener != nil {
		s.listener(call, input, output)
	}
	if err != nil {
		return "", nil, err
	}

	result := flatten(output)
	text := textOf(result)
	return text, result, s.screen.Evaluate(text, result)
}

// typedInput binds the parsed string arguments into a fresh instance of the
// method input type.
func (s *service) typedInput(aType reflect.Type, args map[string]string) (interface{}, error) {
	instance := newInstancePtr(aType)
	if len(args) == 0 {
		return instance, nil
	}
	if err := s.converter.Convert(args, instance); err != nil {
		return nil, err
	}
	return instance, nil
}

// newInstancePtr creates a new instance pointer of the given type
func newInstancePtr(t reflect.Type) interface{} {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return reflect.New(t).Interface()
}

// flatten converts a typed tool output into a history-friendly map with
// empty values removed.
func flatten(output interface{}) map[string]interface{} {
	if output == nil {
		return nil
	}
	var ret map[string]interface{}
	if err := toolbox.DefaultConverter.AssignConverted(&ret, output); err != nil {
		return map[string]interface{}{"value": fmt.Sprintf("%v", output)}
	}
	return toolbox.DeleteEmptyKeys(ret)
}

// textOf extracts the human readable portion of a flattened result: the
// output, content or message field when present, the JSON rendering of the
// whole map otherwise.
func textOf(result map[string]interface{}) string {
	if len(result) == 0 {
		return ""
	}
	for _, key := range []string{"output", "Output", "content", "Content", "message", "Message"} {
		if value, ok := result[key]; ok {
			if text, ok := value.(string); ok {
				return text
			}
		}
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("%v", result)
	}
	return string(data)
}

// NewService creates an executor over the supplied action registry.
func NewService(actions *extension.Actions, opts ...Option) Service {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true

	s := &service{
		actions:   actions,
		converter: conv.NewConverter(options),
		screen:    NewScreen(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}
