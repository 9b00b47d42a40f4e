package runner

import (
	"context"
	"reflect"
	"strings"

	"github.com/viant/plexor/model/types"
)

const Name = "system/runner"

func (s *Service) Name() string {
	return Name
}

func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name: "run_script",
			Description: `Runs one or more shell commands as a one-shot batch, without a
persistent terminal. Each line of the script is started as an independent
shell invocation, execution stops at the first failing line:
  run_script(script="""cd /var/log
grep -i error *.log > /tmp/errors.txt""")`,
			Args: types.Args{
				{Name: "script", Description: "newline separated commands", Required: true, DataType: "string"},
				{Name: "directory", Description: "working directory", DataType: "string"},
				{Name: "timeout_ms", Description: "per command timeout in milliseconds", DataType: "int"},
				{Name: "abort_on_error", Description: "stop after the first failing command", DataType: "bool"},
			},
			Input:  reflect.TypeOf(&Input{}),
			Output: reflect.TypeOf(&Output{}),
		},
	}
}

func (s *Service) execute(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*Input)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Execute(ctx, input, output)
}

// Method returns method by Name
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "run_script", "execute":
		return s.execute, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}
