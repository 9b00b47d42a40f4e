package storage

import (
	"context"
	"fmt"

	"github.com/viant/afs/file"
)

// MkdirInput defines parameters for creating a directory
type MkdirInput struct {
	Path string `json:"directory_path" description:"directory path relative to the workspace"`
}

// MkdirOutput confirms directory creation
type MkdirOutput struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// CreateDirectory creates a directory and any missing parents.
func (s *Service) CreateDirectory(ctx context.Context, input *MkdirInput, output *MkdirOutput) error {
	location, err := s.resolve(input.Path)
	if err != nil {
		return err
	}
	if location == s.root.Dir() {
		return fmt.Errorf("directory path is required")
	}
	if exists, _ := s.fs.Exists(ctx, location); !exists {
		if err := s.fs.Create(ctx, location, file.DefaultDirOsMode, true); err != nil {
			return fmt.Errorf("failed to create directory %v: %w", input.Path, err)
		}
	}
	output.Path = s.relative(location)
	output.Message = fmt.Sprintf("Successfully created directory (or it already existed): %v", output.Path)
	return nil
}
