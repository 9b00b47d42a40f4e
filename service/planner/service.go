// Package planner defines the contract for the external collaborator that
// produces plans: free text expected, not guaranteed, to contain recognized
// call syntax. The engine only ever exchanges text with a planner; extraction
// and validation happen on this side of the boundary.
package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/plexor/runtime/execution"
)

// Service produces plan text for a goal and corrected call text for a failed
// step. Both return raw text; callers strip formatting fences and extract
// calls themselves.
type Service interface {
	Plan(ctx context.Context, goal string) (string, error)
	Remediate(ctx context.Context, request *RemediationRequest) (string, error)
}

// RemediationRequest carries everything a planner needs to correct one failed
// step: the original goal, the call that failed with its error, and the full
// step history so far.
type RemediationRequest struct {
	Goal       string            `json:"goal,omitempty"`
	FailedCall string            `json:"failedCall"`
	Error      string            `json:"error"`
	History    []*execution.Step `json:"history,omitempty"`
}

// Transcript renders the request as replayable prompt text: the goal, every
// executed step in original order with its outcome, then the failing call.
func (r *RemediationRequest) Transcript() string {
	var b strings.Builder
	if r.Goal != "" {
		b.WriteString("Goal: ")
		b.WriteString(r.Goal)
		b.WriteString("\n")
	}
	for _, step := range r.History {
		b.WriteString(fmt.Sprintf("Step %d: %s\n", step.Ordinal+1, step.CallText))
		switch {
		case step.Error != "":
			b.WriteString(fmt.Sprintf("  failed: %s\n", step.Error))
		case step.Output != "":
			b.WriteString(fmt.Sprintf("  output: %s\n", firstLines(step.Output, 5)))
		default:
			b.WriteString(fmt.Sprintf("  state: %s\n", step.State))
		}
	}
	b.WriteString("Failed call: ")
	b.WriteString(r.FailedCall)
	b.WriteString("\n")
	b.WriteString("Error: ")
	b.WriteString(r.Error)
	b.WriteString("\n")
	return b.String()
}

// firstLines truncates long step output so the transcript stays prompt-sized.
func firstLines(text string, limit int) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= limit {
		return text
	}
	return strings.Join(lines[:limit], "\n") + fmt.Sprintf("\n  ... (%d more lines)", len(lines)-limit)
}

// StripFences removes markdown code fences around planner output. Planners
// routinely wrap plans in fenced blocks, optionally tagged with a language
// hint; the content between the fences is what callers want.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.Contains(trimmed, "```") {
		return trimmed
	}
	var kept []string
	for _, line := range strings.Split(trimmed, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
