package executor

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultFailureMarkers are the substrings screened for in tool output.
// Their presence marks a step as failed even when the handler returned no
// error, because shells and interpreters report most failures as text on an
// otherwise healthy stream.
var DefaultFailureMarkers = []string{
	"ERROR:",
	"Traceback (most recent call last)",
	"command not found",
	"No such file or directory",
}

// Screen decides whether a textual tool result reports failure. The check is
// a heuristic: a non-zero exit status fails, and so does any recognized
// failure marker in the output, regardless of status.
type Screen struct {
	markers []string
}

// NewScreen creates a screen with the supplied markers, falling back to
// DefaultFailureMarkers when none are given.
func NewScreen(markers ...string) *Screen {
	if len(markers) == 0 {
		markers = DefaultFailureMarkers
	}
	return &Screen{markers: markers}
}

// Evaluate inspects a flattened tool result and its textual output. It
// returns an error wrapping ErrExecutionFailure when the result reports
// failure, nil otherwise. A status of -1 means unknown and does not fail.
func (s *Screen) Evaluate(output string, result map[string]interface{}) error {
	if status, ok := statusOf(result); ok && status > 0 {
		return fmt.Errorf("command exited with status %d: %s: %w", status, tailLines(output, 5), ErrExecutionFailure)
	}
	for _, marker := range s.markers {
		if idx := strings.Index(output, marker); idx != -1 {
			return fmt.Errorf("output contains failure marker %q in line %q: %w", marker, lineAt(output, idx), ErrExecutionFailure)
		}
	}
	return nil
}

// statusOf reads the exit status from a flattened result map, tolerating
// the key casings and numeric types the converters produce.
func statusOf(result map[string]interface{}) (int, bool) {
	for _, key := range []string{"status", "Status"} {
		value, ok := result[key]
		if !ok {
			continue
		}
		switch actual := value.(type) {
		case int:
			return actual, true
		case int64:
			return int(actual), true
		case float64:
			return int(actual), true
		case string:
			if status, err := strconv.Atoi(actual); err == nil {
				return status, true
			}
		}
	}
	return 0, false
}

// lineAt returns the output line containing byte offset idx.
func lineAt(output string, idx int) string {
	start := strings.LastIndexByte(output[:idx], '\n') + 1
	end := strings.IndexByte(output[idx:], '\n')
	if end == -1 {
		return output[start:]
	}
	return output[start : idx+end]
}

// tailLines returns up to the last limit lines of output for error context.
func tailLines(output string, limit int) string {
	output = strings.TrimSpace(output)
	if output == "" {
		return "(no output)"
	}
	lines := strings.Split(output, "\n")
	if len(lines) <= limit {
		return output
	}
	return strings.Join(lines[len(lines)-limit:], "\n")
}
