package storage

import (
	"context"
	"fmt"
)

// ReadInput defines parameters for reading a file
type ReadInput struct {
	Path string `json:"file_path" description:"file path relative to the workspace"`
}

// ReadOutput carries the file content
type ReadOutput struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Size    int    `json:"size"`
}

// Read returns the content of a workspace file.
func (s *Service) Read(ctx context.Context, input *ReadInput, output *ReadOutput) error {
	location, err := s.resolve(input.Path)
	if err != nil {
		return err
	}
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to check %v: %w", input.Path, err)
	}
	if !exists {
		return fmt.Errorf("file does not exist: %v", input.Path)
	}
	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to read %v: %w", input.Path, err)
	}
	output.Path = s.relative(location)
	output.Content = string(data)
	output.Size = len(data)
	return nil
}
