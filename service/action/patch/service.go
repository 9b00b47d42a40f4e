// Package patch applies unified diffs to workspace files. Patches are
// verified hunk by hunk before content is rewritten and a failing patch
// rolls back every file it already touched.
package patch

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/plexor/model/types"
	"github.com/viant/plexor/service/action/sandbox"
)

const name = "workspace/patch"

// Service applies and previews unified diffs inside the workspace.
type Service struct {
	root *sandbox.Root
	fs   afs.Service
}

// New creates a patch service rooted at the workspace directory.
func New(root string) (*Service, error) {
	sandboxRoot, err := sandbox.New(root)
	if err != nil {
		return nil, err
	}
	return &Service{root: sandboxRoot, fs: afs.New()}, nil
}

// ApplyInput defines parameters for applying a patch
type ApplyInput struct {
	Patch string `json:"patch" description:"unified diff to apply"`
}

// Validate checks required fields
func (i *ApplyInput) Validate() error {
	if strings.TrimSpace(i.Patch) == "" {
		return fmt.Errorf("patch was empty")
	}
	return nil
}

// ApplyOutput reports the files a patch changed.
type ApplyOutput struct {
	Changes []Change `json:"changes"`
	Message string   `json:"message"`
}

// ApplyPatch applies a unified diff to the workspace. File targets resolve
// against the workspace root and the patch is rejected when any of them
// escapes it.
func (s *Service) ApplyPatch(ctx context.Context, input *ApplyInput, output *ApplyOutput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	changes, err := s.apply(ctx, input.Patch)
	if err != nil {
		return err
	}
	output.Changes = changes
	output.Message = fmt.Sprintf("Successfully applied patch to %v file(s)", len(changes))
	return nil
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name: "apply_patch",
			Description: `Applies a unified diff to workspace files. Supports additions,
deletions, renames and in-place updates. Context lines are verified against
the current content and a mismatch rolls the whole patch back. Use triple
quotes for the patch body:
  apply_patch(patch="""--- a/app.py
+++ b/app.py
@@ -1,3 +1,3 @@
 import os
-DEBUG = True
+DEBUG = False
 print("ready")""")`,
			Args: types.Args{
				{Name: "patch", Description: "unified diff to apply", Required: true, DataType: "string"},
			},
			Input:  reflect.TypeOf(&ApplyInput{}),
			Output: reflect.TypeOf(&ApplyOutput{}),
		},
		{
			Name: "generate_diff",
			Description: `Renders a unified diff between a workspace file and proposed
content without changing the file. Useful to review a change before
applying it.`,
			Args: types.Args{
				{Name: "path", Description: "workspace file to diff against", Required: true, DataType: "string"},
				{Name: "content", Description: "proposed file content", Required: true, DataType: "string"},
				{Name: "context_lines", Description: "context lines around each change", DataType: "int"},
			},
			Input:  reflect.TypeOf(&GenerateDiffInput{}),
			Output: reflect.TypeOf(&GenerateDiffOutput{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "apply_patch":
		return s.applyPatch, nil
	case "generate_diff":
		return s.generateDiff, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) applyPatch(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*ApplyInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*ApplyOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.ApplyPatch(ctx, input, output)
}

func (s *Service) generateDiff(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*GenerateDiffInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*GenerateDiffOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.GenerateDiff(ctx, input, output)
}
