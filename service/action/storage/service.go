package storage

import (
	"context"
	"reflect"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/plexor/model/types"
	"github.com/viant/plexor/service/action/sandbox"
)

const name = "workspace/storage"

// ErrOutsideSandbox indicates a path that resolves outside the workspace
// directory.
var ErrOutsideSandbox = sandbox.ErrOutsideSandbox

// Service provides file tools confined to a workspace directory, backed by
// the virtual file system. Relative paths resolve against the workspace
// root, absolute paths are accepted only when they stay inside it.
type Service struct {
	root *sandbox.Root
	fs   afs.Service
}

// New creates a storage service rooted at the workspace directory.
func New(root string) (*Service, error) {
	sandboxRoot, err := sandbox.New(root)
	if err != nil {
		return nil, err
	}
	return &Service{root: sandboxRoot, fs: afs.New()}, nil
}

// Root returns the workspace directory all paths resolve against.
func (s *Service) Root() string {
	return s.root.Dir()
}

func (s *Service) resolve(name string) (string, error) {
	return s.root.Resolve(name)
}

func (s *Service) relative(location string) string {
	return s.root.Relative(location)
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name: "write_to_file",
			Description: `Writes content to a file inside the workspace, overwriting any
existing file and creating intermediate directories as needed. Use triple
quotes for multi line content:
  write_to_file(file_path="src/app.py", content="""import os
print("hello")""")`,
			Args: types.Args{
				{Name: "file_path", Description: "file path relative to the workspace", Required: true, DataType: "string"},
				{Name: "content", Description: "content to write", Required: true, DataType: "string"},
			},
			Input:  reflect.TypeOf(&WriteInput{}),
			Output: reflect.TypeOf(&WriteOutput{}),
		},
		{
			Name:        "read_file",
			Description: `Reads a file from the workspace and returns its content.`,
			Args: types.Args{
				{Name: "file_path", Description: "file path relative to the workspace", Required: true, DataType: "string"},
			},
			Input:  reflect.TypeOf(&ReadInput{}),
			Output: reflect.TypeOf(&ReadOutput{}),
		},
		{
			Name:        "list_files",
			Description: `Lists files and directories under a workspace path, optionally recursively or filtered by extension.`,
			Args: types.Args{
				{Name: "directory_path", Description: "directory to list, workspace root when empty", DataType: "string"},
				{Name: "recursive", Description: "descend into subdirectories", DataType: "bool"},
				{Name: "file_type", Description: "extension filter, e.g. .py", DataType: "string"},
			},
			Input:  reflect.TypeOf(&ListInput{}),
			Output: reflect.TypeOf(&ListOutput{}),
		},
		{
			Name:        "create_directory",
			Description: `Creates a directory inside the workspace, including intermediate directories.`,
			Args: types.Args{
				{Name: "directory_path", Description: "directory path relative to the workspace", Required: true, DataType: "string"},
			},
			Input:  reflect.TypeOf(&MkdirInput{}),
			Output: reflect.TypeOf(&MkdirOutput{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "write_to_file":
		return s.write, nil
	case "read_file":
		return s.read, nil
	case "list_files":
		return s.list, nil
	case "create_directory":
		return s.mkdir, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) write(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*WriteInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*WriteOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Write(ctx, input, output)
}

func (s *Service) read(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*ReadInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*ReadOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Read(ctx, input, output)
}

func (s *Service) list(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*ListInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*ListOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.List(ctx, input, output)
}

func (s *Service) mkdir(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*MkdirInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*MkdirOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.CreateDirectory(ctx, input, output)
}
