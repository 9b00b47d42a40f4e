package executor

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/plexor/extension"
	"github.com/viant/plexor/model/plan"
	"github.com/viant/plexor/model/types"
	"github.com/viant/plexor/policy"
	"github.com/viant/plexor/runtime/execution"
)

type echoInput struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

type echoOutput struct {
	Output string `json:"output,omitempty"`
	Status int    `json:"status,omitempty"`
}

// echoService is a minimal tool service; respond overrides the default
// echo behaviour per test case.
type echoService struct {
	mux     sync.Mutex
	inputs  []*echoInput
	respond func(in *echoInput, out *echoOutput) error
}

func (s *echoService) Name() string { return "testing/echo" }

func (s *echoService) Methods() types.Signatures {
	return types.Signatures{
		{
			Name:        "echo",
			Description: "echoes a message back",
			Args: types.Args{
				{Name: "message", Description: "text to echo", Required: true},
				{Name: "count", Description: "repeat count", DataType: "int"},
			},
			Input:  reflect.TypeOf(&echoInput{}),
			Output: reflect.TypeOf(&echoOutput{}),
		},
	}
}

func (s *echoService) Method(name string) (types.Executable, error) {
	if name != "echo" {
		return nil, types.NewMethodNotFoundError(name)
	}
	return func(ctx context.Context, input, output interface{}) error {
		in, ok := input.(*echoInput)
		if !ok {
			return types.NewInvalidInputError(input)
		}
		out, ok := output.(*echoOutput)
		if !ok {
			return types.NewInvalidOutputError(output)
		}
		s.mux.Lock()
		s.inputs = append(s.inputs, in)
		s.mux.Unlock()
		if s.respond != nil {
			return s.respond(in, out)
		}
		out.Output = in.Message
		return nil
	}, nil
}

func (s *echoService) lastInput() *echoInput {
	s.mux.Lock()
	defer s.mux.Unlock()
	if len(s.inputs) == 0 {
		return nil
	}
	return s.inputs[len(s.inputs)-1]
}

func TestService_Execute(t *testing.T) {
	testCases := []struct {
		description  string
		callText     string
		respond      func(in *echoInput, out *echoOutput) error
		ctx          context.Context
		expectOutput string
		expectError  string
		expectIs     error
	}{
		{
			description:  "binds arguments and returns tool output",
			callText:     `echo(message="hello world", count="2")`,
			expectOutput: "hello world",
		},
		{
			description: "unknown tool fails before any handler runs",
			callText:    `vanish(message="x")`,
			expectIs:    ErrUnknownTool,
		},
		{
			description: "missing required argument fails validation",
			callText:    `echo(count="1")`,
			expectError: `missing required argument "message"`,
		},
		{
			description: "undeclared argument fails validation",
			callText:    `echo(message="hi", verbose="true")`,
			expectError: `unknown argument "verbose"`,
		},
		{
			description: "typed argument must parse",
			callText:    `echo(message="hi", count="many")`,
			expectError: "expected int",
		},
		{
			description: "handler error fails the step",
			callText:    `echo(message="boom")`,
			respond: func(in *echoInput, out *echoOutput) error {
				return fmt.Errorf("no such terminal")
			},
			expectError: "no such terminal",
		},
		{
			description: "failure marker in output fails a clean invocation",
			callText:    `echo(message="ls /nope")`,
			respond: func(in *echoInput, out *echoOutput) error {
				out.Output = "ls: cannot access '/nope': No such file or directory"
				return nil
			},
			expectOutput: "ls: cannot access '/nope': No such file or directory",
			expectIs:     ErrExecutionFailure,
		},
		{
			description: "non-zero exit status fails a clean invocation",
			callText:    `echo(message="make")`,
			respond: func(in *echoInput, out *echoOutput) error {
				out.Output = "make: *** [all] interrupted"
				out.Status = 2
				return nil
			},
			expectOutput: "make: *** [all] interrupted",
			expectError:  "status 2",
			expectIs:     ErrExecutionFailure,
		},
		{
			description: "policy denial blocks the call",
			callText:    `echo(message="hi")`,
			ctx:         policy.WithPolicy(context.Background(), &policy.Policy{Mode: policy.ModeDeny}),
			expectIs:    policy.ErrDenied,
		},
		{
			description: "malformed call text fails the step",
			callText:    `echo(message="hi"`,
			expectIs:    plan.ErrMismatchedDelimiters,
		},
	}

	for _, testCase := range testCases {
		tool := &echoService{respond: testCase.respond}
		actions := extension.NewActions()
		actions.Register(tool)
		service := NewService(actions)

		ctx := testCase.ctx
		if ctx == nil {
			ctx = context.Background()
		}
		step := execution.NewStep("run-1", 0, testCase.callText)
		output, _, err := service.Execute(ctx, step)

		if testCase.expectIs != nil {
			assert.True(t, errors.Is(err, testCase.expectIs), testCase.description)
		}
		if testCase.expectError != "" {
			if assert.NotNil(t, err, testCase.description) {
				assert.Contains(t, err.Error(), testCase.expectError, testCase.description)
			}
		}
		if testCase.expectIs == nil && testCase.expectError == "" {
			assert.NoError(t, err, testCase.description)
		}
		assert.EqualValues(t, testCase.expectOutput, output, testCase.description)
	}
}

func TestService_Execute_bindsTypedInput(t *testing.T) {
	tool := &echoService{}
	actions := extension.NewActions()
	actions.Register(tool)
	service := NewService(actions)

	step := execution.NewStep("run-1", 0, `echo(message="three times", count="3")`)
	_, _, err := service.Execute(context.Background(), step)
	assert.NoError(t, err)

	input := tool.lastInput()
	if assert.NotNil(t, input) {
		assert.Equal(t, "three times", input.Message)
		assert.Equal(t, 3, input.Count)
	}
	if assert.NotNil(t, step.Call) {
		assert.Equal(t, "echo", step.Call.Name)
	}
}

func TestService_Execute_reusesAttachedCall(t *testing.T) {
	tool := &echoService{}
	actions := extension.NewActions()
	actions.Register(tool)
	service := NewService(actions)

	step := execution.NewStep("run-1", 0, "stale text")
	step.AttachCall(&plan.Call{Name: "echo", Args: map[string]string{"message": "from call"}})

	output, _, err := service.Execute(context.Background(), step)
	assert.NoError(t, err)
	assert.Equal(t, "from call", output)
}

func TestService_Execute_listener(t *testing.T) {
	tool := &echoService{}
	actions := extension.NewActions()
	actions.Register(tool)

	var seen []string
	service := NewService(actions, WithListener(func(call *plan.Call, input, output interface{}) {
		seen = append(seen, call.Name)
	}))

	step := execution.NewStep("run-1", 0, `echo(message="observed")`)
	_, _, err := service.Execute(context.Background(), step)
	assert.NoError(t, err)
	assert.Equal(t, []string{"echo"}, seen)
}

func TestService_Execute_customMarkers(t *testing.T) {
	tool := &echoService{respond: func(in *echoInput, out *echoOutput) error {
		out.Output = "FATAL: disk full"
		return nil
	}}
	actions := extension.NewActions()
	actions.Register(tool)
	service := NewService(actions, WithFailureMarkers("FATAL:"))

	step := execution.NewStep("run-1", 0, `echo(message="df")`)
	_, _, err := service.Execute(context.Background(), step)
	assert.True(t, errors.Is(err, ErrExecutionFailure))
	assert.Contains(t, err.Error(), "FATAL:")
}

func TestScreen_Evaluate(t *testing.T) {
	testCases := []struct {
		description string
		output      string
		result      map[string]interface{}
		expectError string
	}{
		{
			description: "clean output passes",
			output:      "hello\n",
			result:      map[string]interface{}{"Output": "hello\n", "Status": 0},
		},
		{
			description: "unknown status passes",
			output:      "background process started",
			result:      map[string]interface{}{"Status": -1},
		},
		{
			description: "non-zero status fails with output tail",
			output:      "line1\nline2\nline3\nline4\nline5\nline6\nline7",
			result:      map[string]interface{}{"Status": 127},
			expectError: "status 127",
		},
		{
			description: "status as string is recognized",
			output:      "denied",
			result:      map[string]interface{}{"status": "1"},
			expectError: "status 1",
		},
		{
			description: "python traceback marker fails regardless of status",
			output:      "Traceback (most recent call last):\n  File \"x.py\", line 1",
			result:      map[string]interface{}{"Status": 0},
			expectError: "failure marker",
		},
		{
			description: "marker line is quoted in the error",
			output:      "ok so far\nbash: gitx: command not found\nmore",
			result:      nil,
			expectError: `"bash: gitx: command not found"`,
		},
	}

	screen := NewScreen()
	for _, testCase := range testCases {
		err := screen.Evaluate(testCase.output, testCase.result)
		if testCase.expectError == "" {
			assert.NoError(t, err, testCase.description)
			continue
		}
		if assert.NotNil(t, err, testCase.description) {
			assert.True(t, errors.Is(err, ErrExecutionFailure), testCase.description)
			assert.Contains(t, err.Error(), testCase.expectError, testCase.description)
		}
	}
}

func TestScreen_Evaluate_tailTruncation(t *testing.T) {
	lines := make([]string, 12)
	for i := range lines {
		lines[i] = fmt.Sprintf("line-%02d", i+1)
	}
	err := NewScreen().Evaluate(strings.Join(lines, "\n"), map[string]interface{}{"Status": 1})
	if assert.NotNil(t, err) {
		assert.Contains(t, err.Error(), "line-12")
		assert.NotContains(t, err.Error(), "line-01")
	}
}
