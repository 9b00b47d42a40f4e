package planner

import (
	"context"
	"fmt"
	"sync"
)

// Static is a deterministic planner that replays canned responses. It backs
// offline runs with a known plan and gives tests full control over the
// remediation sequence. Once a list is exhausted the last entry repeats, so a
// planner with a single correction keeps proposing it until the retry budget
// runs out.
type Static struct {
	plans           []string
	corrections     []string
	planIndex       int
	correctionIndex int
	requests        []*RemediationRequest
	mux             sync.Mutex
}

// NewStatic creates a planner replaying the supplied plans in order.
func NewStatic(plans ...string) *Static {
	return &Static{plans: plans}
}

// WithCorrections sets the corrected call texts Remediate hands out in order.
func (s *Static) WithCorrections(corrections ...string) *Static {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.corrections = corrections
	return s
}

// Plan returns the next canned plan.
func (s *Static) Plan(ctx context.Context, goal string) (string, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if len(s.plans) == 0 {
		return "", fmt.Errorf("no plan available for goal %q", goal)
	}
	ret := s.plans[min(s.planIndex, len(s.plans)-1)]
	s.planIndex++
	return ret, nil
}

// Remediate records the request and returns the next canned correction.
func (s *Static) Remediate(ctx context.Context, request *RemediationRequest) (string, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.requests = append(s.requests, request)
	if len(s.corrections) == 0 {
		return "", fmt.Errorf("no correction available for call %q", request.FailedCall)
	}
	ret := s.corrections[min(s.correctionIndex, len(s.corrections)-1)]
	s.correctionIndex++
	return ret, nil
}

// Requests returns the remediation requests received so far.
func (s *Static) Requests() []*RemediationRequest {
	s.mux.Lock()
	defer s.mux.Unlock()
	ret := make([]*RemediationRequest, len(s.requests))
	copy(ret, s.requests)
	return ret
}
