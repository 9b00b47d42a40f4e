package patch

import (
	"context"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const devNull = "/dev/null"

const defaultContextLines = 3

// GenerateDiffInput defines parameters for previewing a change as a
// unified diff.
type GenerateDiffInput struct {
	Path         string `json:"path" description:"workspace file to diff against"`
	Content      string `json:"content" description:"proposed file content"`
	ContextLines int    `json:"context_lines,omitempty" description:"context lines around each change"`
}

// Init applies defaults
func (i *GenerateDiffInput) Init() {
	if i.ContextLines <= 0 {
		i.ContextLines = defaultContextLines
	}
}

// Validate checks required fields
func (i *GenerateDiffInput) Validate() error {
	if i.Path == "" {
		return fmt.Errorf("path was empty")
	}
	return nil
}

// GenerateDiffOutput holds the rendered diff with change counts.
type GenerateDiffOutput struct {
	Diff       string `json:"diff"`
	Insertions int    `json:"insertions"`
	Deletions  int    `json:"deletions"`
}

// GenerateDiff renders a unified diff between a workspace file and the
// proposed content. A missing file diffs against empty content so the
// result reads as a file addition.
func (s *Service) GenerateDiff(ctx context.Context, input *GenerateDiffInput, output *GenerateDiffOutput) error {
	input.Init()
	if err := input.Validate(); err != nil {
		return err
	}
	location, err := s.root.Resolve(input.Path)
	if err != nil {
		return err
	}
	var original string
	fromFile := devNull
	if exists, _ := s.fs.Exists(ctx, location); exists {
		data, err := s.fs.DownloadWithURL(ctx, location)
		if err != nil {
			return fmt.Errorf("failed to read %v: %w", input.Path, err)
		}
		original = string(data)
		fromFile = "a/" + input.Path
	}
	unified := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(input.Content),
		FromFile: fromFile,
		ToFile:   "b/" + input.Path,
		Context:  input.ContextLines,
	}
	text, err := difflib.GetUnifiedDiffString(unified)
	if err != nil {
		return fmt.Errorf("failed to generate diff for %v: %w", input.Path, err)
	}
	output.Diff = text
	output.Insertions, output.Deletions = countChanges(text)
	return nil
}

// countChanges tallies added and removed lines, skipping the file headers.
func countChanges(diff string) (insertions, deletions int) {
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			insertions++
		case strings.HasPrefix(line, "-"):
			deletions++
		}
	}
	return insertions, deletions
}
