package terminal

import (
	"context"
	"reflect"
	"strings"

	"github.com/viant/plexor/model/types"
)

const Name = "workspace/terminal"

func (s *Service) Name() string {
	return Name
}

func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name: "create_terminal",
			Description: `Creates a new, named terminal session in the workspace.
Use a dedicated terminal for anything that occupies the shell, e.g. a dev server:
  create_terminal(name="server")`,
			Args: types.Args{
				{Name: "name", Description: "name for the new terminal", Required: true, DataType: "string"},
			},
			Input:  reflect.TypeOf(&CreateInput{}),
			Output: reflect.TypeOf(&CreateOutput{}),
		},
		{
			Name: "run_command",
			Description: `Runs a shell command in an existing terminal and waits for it to finish.
State persists between commands in the same terminal: cd, environment variables
and virtualenvs survive. Examples
  run_command(command="mkdir app && cd app")
  run_command(command="npm install", terminal_name="build", timeout_ms="120000")
Set unmarkable="true" for commands whose completion cannot be detected, output
is then collected until it goes quiet.`,
			Args: types.Args{
				{Name: "command", Description: "shell command to execute", Required: true, DataType: "string"},
				{Name: "terminal_name", Description: "terminal to run in, defaults to the default terminal", DataType: "string"},
				{Name: "timeout_ms", Description: "max wait time in milliseconds", DataType: "int"},
				{Name: "unmarkable", Description: "complete on output inactivity instead of the status marker", DataType: "bool"},
			},
			Input:  reflect.TypeOf(&RunInput{}),
			Output: reflect.TypeOf(&RunOutput{}),
		},
		{
			Name: "start_background_process",
			Description: `Starts a long-running command, such as a server, in a named terminal.
The command keeps the terminal occupied, so create a dedicated terminal first:
  create_terminal(name="server")
  start_background_process(command="python -m http.server", terminal_name="server")`,
			Args: types.Args{
				{Name: "command", Description: "command to keep running", Required: true, DataType: "string"},
				{Name: "terminal_name", Description: "terminal to occupy", DataType: "string"},
			},
			Input:  reflect.TypeOf(&BackgroundInput{}),
			Output: reflect.TypeOf(&BackgroundOutput{}),
		},
		{
			Name: "close_terminals",
			Description: `Closes terminal sessions and kills their process trees.
Pass keep to leave selected terminals running:
  close_terminals(keep="server")`,
			Args: types.Args{
				{Name: "keep", Description: "comma separated terminal names to keep alive", DataType: "string"},
			},
			Input:  reflect.TypeOf(&CloseInput{}),
			Output: reflect.TypeOf(&CloseOutput{}),
		},
		{
			Name:        "list_terminals",
			Description: `Lists the registered terminal sessions with their PIDs and state.`,
			Args:        types.Args{},
			Input:       reflect.TypeOf(&ListInput{}),
			Output:      reflect.TypeOf(&ListOutput{}),
		},
	}
}

func (s *Service) createTerminal(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*CreateInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*CreateOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.CreateTerminal(ctx, input, output)
}

func (s *Service) runCommand(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*RunInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*RunOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.RunCommand(ctx, input, output)
}

func (s *Service) startBackgroundProcess(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*BackgroundInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*BackgroundOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.StartBackgroundProcess(ctx, input, output)
}

func (s *Service) closeTerminals(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*CloseInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*CloseOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.CloseTerminals(ctx, input, output)
}

func (s *Service) listTerminals(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*ListInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*ListOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.ListTerminals(ctx, input, output)
}

// Method returns method by Name
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "create_terminal":
		return s.createTerminal, nil
	case "run_command":
		return s.runCommand, nil
	case "start_background_process":
		return s.startBackgroundProcess, nil
	case "close_terminals":
		return s.closeTerminals, nil
	case "list_terminals":
		return s.listTerminals, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}
