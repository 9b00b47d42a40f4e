package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs/file"
)

// WriteInput defines parameters for writing a file
type WriteInput struct {
	Path    string `json:"file_path" description:"file path relative to the workspace"`
	Content string `json:"content" description:"content to write"`
}

// WriteOutput confirms a write
type WriteOutput struct {
	Path    string `json:"path"`
	Size    int    `json:"size"`
	Message string `json:"message"`
}

// Write stores content at the resolved path, overwriting any existing file.
// Intermediate directories are created as needed.
func (s *Service) Write(ctx context.Context, input *WriteInput, output *WriteOutput) error {
	location, err := s.resolve(input.Path)
	if err != nil {
		return err
	}
	if location == s.root.Dir() {
		return fmt.Errorf("file path is required")
	}
	if err := s.fs.Upload(ctx, location, file.DefaultFileOsMode, strings.NewReader(input.Content)); err != nil {
		return fmt.Errorf("failed to write %v: %w", input.Path, err)
	}
	output.Path = s.relative(location)
	output.Size = len(input.Content)
	output.Message = fmt.Sprintf("Successfully saved content to %q", location)
	return nil
}
