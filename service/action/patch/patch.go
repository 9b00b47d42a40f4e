package patch

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	sgdiff "github.com/sourcegraph/go-diff/diff"
	"github.com/viant/afs/file"
)

// Change describes a single file touched by a patch.
type Change struct {
	Path       string `json:"path"`
	Action     string `json:"action"`
	Insertions int    `json:"insertions,omitempty"`
	Deletions  int    `json:"deletions,omitempty"`
}

// backup captures a file state so a partially applied patch can be undone.
type backup struct {
	location string
	existed  bool
	content  []byte
}

// apply parses a unified diff and applies it file by file inside the
// workspace. On the first failure every file already touched is restored
// to its prior state.
func (s *Service) apply(ctx context.Context, patchText string) ([]Change, error) {
	fileDiffs, err := sgdiff.ParseMultiFileDiff([]byte(patchText))
	if err != nil {
		return nil, fmt.Errorf("failed to parse patch: %w", err)
	}
	if len(fileDiffs) == 0 {
		return nil, fmt.Errorf("patch contains no file changes")
	}
	var changes []Change
	var backups []*backup
	for _, fileDiff := range fileDiffs {
		change, fileBackups, err := s.applyFileDiff(ctx, fileDiff)
		backups = append(backups, fileBackups...)
		if err != nil {
			s.rollback(ctx, backups)
			return nil, err
		}
		changes = append(changes, *change)
	}
	return changes, nil
}

func (s *Service) applyFileDiff(ctx context.Context, fileDiff *sgdiff.FileDiff) (*Change, []*backup, error) {
	origName := trimDiffPrefix(fileDiff.OrigName)
	newName := trimDiffPrefix(fileDiff.NewName)
	stat := fileDiff.Stat()
	change := &Change{
		Insertions: int(stat.Added + stat.Changed),
		Deletions:  int(stat.Deleted + stat.Changed),
	}
	switch {
	case fileDiff.OrigName == devNull:
		change.Path, change.Action = newName, "add"
		backups, err := s.addFile(ctx, newName, fileDiff.Hunks)
		return change, backups, err
	case fileDiff.NewName == devNull:
		change.Path, change.Action = origName, "delete"
		backups, err := s.deleteFile(ctx, origName, fileDiff.Hunks)
		return change, backups, err
	case origName != newName:
		change.Path, change.Action = newName, "move"
		backups, err := s.moveFile(ctx, origName, newName, fileDiff.Hunks)
		return change, backups, err
	default:
		change.Path, change.Action = origName, "update"
		backups, err := s.updateFile(ctx, origName, fileDiff.Hunks)
		return change, backups, err
	}
}

func (s *Service) addFile(ctx context.Context, name string, hunks []*sgdiff.Hunk) ([]*backup, error) {
	location, err := s.root.Resolve(name)
	if err != nil {
		return nil, err
	}
	if exists, _ := s.fs.Exists(ctx, location); exists {
		return nil, fmt.Errorf("cannot add %v: file already exists", name)
	}
	content, err := applyHunks("", hunks)
	if err != nil {
		return nil, fmt.Errorf("failed to add %v: %w", name, err)
	}
	backups := []*backup{{location: location}}
	if err := s.fs.Upload(ctx, location, file.DefaultFileOsMode, strings.NewReader(content)); err != nil {
		return backups, fmt.Errorf("failed to add %v: %w", name, err)
	}
	return backups, nil
}

func (s *Service) deleteFile(ctx context.Context, name string, hunks []*sgdiff.Hunk) ([]*backup, error) {
	location, data, err := s.loadFile(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(hunks) > 0 {
		remainder, err := applyHunks(string(data), hunks)
		if err != nil {
			return nil, fmt.Errorf("cannot delete %v: %w", name, err)
		}
		if remainder != "" {
			return nil, fmt.Errorf("cannot delete %v: patch does not cover the whole file", name)
		}
	}
	backups := []*backup{{location: location, existed: true, content: data}}
	if err := s.fs.Delete(ctx, location); err != nil {
		return backups, fmt.Errorf("failed to delete %v: %w", name, err)
	}
	return backups, nil
}

func (s *Service) moveFile(ctx context.Context, origName, newName string, hunks []*sgdiff.Hunk) ([]*backup, error) {
	origLocation, data, err := s.loadFile(ctx, origName)
	if err != nil {
		return nil, err
	}
	newLocation, err := s.root.Resolve(newName)
	if err != nil {
		return nil, err
	}
	if exists, _ := s.fs.Exists(ctx, newLocation); exists {
		return nil, fmt.Errorf("cannot move %v to %v: destination already exists", origName, newName)
	}
	content := string(data)
	if len(hunks) > 0 {
		if content, err = applyHunks(content, hunks); err != nil {
			return nil, fmt.Errorf("failed to move %v: %w", origName, err)
		}
	}
	backups := []*backup{
		{location: origLocation, existed: true, content: data},
		{location: newLocation},
	}
	if err := s.fs.Upload(ctx, newLocation, file.DefaultFileOsMode, strings.NewReader(content)); err != nil {
		return backups, fmt.Errorf("failed to move %v: %w", origName, err)
	}
	if err := s.fs.Delete(ctx, origLocation); err != nil {
		return backups, fmt.Errorf("failed to move %v: %w", origName, err)
	}
	return backups, nil
}

func (s *Service) updateFile(ctx context.Context, name string, hunks []*sgdiff.Hunk) ([]*backup, error) {
	location, data, err := s.loadFile(ctx, name)
	if err != nil {
		return nil, err
	}
	content, err := applyHunks(string(data), hunks)
	if err != nil {
		return nil, fmt.Errorf("failed to update %v: %w", name, err)
	}
	backups := []*backup{{location: location, existed: true, content: data}}
	if err := s.fs.Upload(ctx, location, file.DefaultFileOsMode, strings.NewReader(content)); err != nil {
		return backups, fmt.Errorf("failed to update %v: %w", name, err)
	}
	return backups, nil
}

func (s *Service) loadFile(ctx context.Context, name string) (string, []byte, error) {
	location, err := s.root.Resolve(name)
	if err != nil {
		return "", nil, err
	}
	if exists, _ := s.fs.Exists(ctx, location); !exists {
		return "", nil, fmt.Errorf("file %v does not exist", name)
	}
	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %v: %w", name, err)
	}
	return location, data, nil
}

// rollback restores touched files in reverse order.
func (s *Service) rollback(ctx context.Context, backups []*backup) {
	for i := len(backups) - 1; i >= 0; i-- {
		item := backups[i]
		if !item.existed {
			_ = s.fs.Delete(ctx, item.location)
			continue
		}
		_ = s.fs.Upload(ctx, item.location, file.DefaultFileOsMode, bytes.NewReader(item.content))
	}
}

// applyHunks replays unified diff hunks over the original content. Context
// and deletion lines are verified against the original, a mismatch aborts
// the whole patch.
func applyHunks(original string, hunks []*sgdiff.Hunk) (string, error) {
	lines := splitKeepEnds(original)
	var result []string
	cursor := 0
	for _, hunk := range hunks {
		start := int(hunk.OrigStartLine) - 1
		if start < 0 {
			start = 0
		}
		if start > len(lines) {
			return "", fmt.Errorf("hunk targets line %v beyond end of file (%v lines)", hunk.OrigStartLine, len(lines))
		}
		if cursor > start {
			return "", fmt.Errorf("hunk at line %v overlaps a previous hunk", hunk.OrigStartLine)
		}
		result = append(result, lines[cursor:start]...)
		cursor = start
		for _, line := range splitKeepEnds(string(hunk.Body)) {
			tag, text := line[0], line[1:]
			switch tag {
			case ' ':
				if cursor >= len(lines) || !linesEqual(lines[cursor], text) {
					return "", fmt.Errorf("context mismatch at line %v: expected %q", cursor+1, strings.TrimSuffix(text, "\n"))
				}
				result = append(result, lines[cursor])
				cursor++
			case '-':
				if cursor >= len(lines) || !linesEqual(lines[cursor], text) {
					return "", fmt.Errorf("cannot remove line %v: content differs from %q", cursor+1, strings.TrimSuffix(text, "\n"))
				}
				cursor++
			case '+':
				result = append(result, text)
			case '\\':
				// "\ No newline at end of file" marker, nothing to replay
			default:
				return "", fmt.Errorf("unsupported patch line %q", strings.TrimSuffix(line, "\n"))
			}
		}
	}
	result = append(result, lines[cursor:]...)
	return strings.Join(result, ""), nil
}

// splitKeepEnds splits content into lines that retain their trailing
// newline, dropping the empty remainder after a final newline.
func splitKeepEnds(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// linesEqual treats the final line of a file and its patch counterpart as
// equal when they differ only in the trailing newline.
func linesEqual(a, b string) bool {
	if a == b {
		return true
	}
	return strings.TrimSuffix(a, "\n") == strings.TrimSuffix(b, "\n")
}

func trimDiffPrefix(name string) string {
	for _, prefix := range []string{"a/", "b/"} {
		if strings.HasPrefix(name, prefix) {
			return name[len(prefix):]
		}
	}
	return name
}
