package progress

import (
	"context"
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the executor or
// processor. The fields are signed and therefore can be either positive
// (increment) or negative (decrement).
type Delta struct {
	Total          int
	Completed      int
	Skipped        int
	Failed         int
	Running        int
	Remediations   int
	SessionsOpened int
	SessionsClosed int
}

// Snapshot is a read-only copy of the tracker counters.
type Snapshot struct {
	// Identification, informative only, filled when the run starts.
	RunID     string
	Goal      string
	StartedAt time.Time

	TotalSteps     int
	CompletedSteps int
	SkippedSteps   int
	FailedSteps    int
	RunningSteps   int
	Remediations   int
	SessionsOpened int
	SessionsClosed int
}

// Remaining returns the number of steps that have not reached a terminal
// state yet.
func (s Snapshot) Remaining() int {
	ret := s.TotalSteps - s.CompletedSteps - s.FailedSteps - s.SkippedSteps
	if ret < 0 {
		return 0
	}
	return ret
}

// Progress keeps aggregated step and session counters for a single run.
// It is safe for concurrent use.
type Progress struct {
	mux      sync.Mutex
	current  Snapshot
	onChange func(Snapshot)
}

// Update applies the supplied delta to the tracker. It is safe to call from
// multiple goroutines. If an onChange callback has been registered it will be
// invoked with a copy of the updated counters outside the critical section so
// that the callback can perform slow operations (e.g. JSON encoding, I/O)
// without blocking engine internals.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.mux.Lock()

	p.current.TotalSteps += d.Total
	p.current.CompletedSteps += d.Completed
	p.current.SkippedSteps += d.Skipped
	p.current.FailedSteps += d.Failed
	p.current.RunningSteps += d.Running
	p.current.Remediations += d.Remediations
	p.current.SessionsOpened += d.SessionsOpened
	p.current.SessionsClosed += d.SessionsClosed

	snapshot := p.current
	cb := p.onChange

	p.mux.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker counters suitable for read-only
// inspection.
func (p *Progress) Snapshot() Snapshot {
	if p == nil {
		return Snapshot{}
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.current
}

// OnChange registers a callback that is invoked after every successful
// Update. Passing nil disables the callback. Only one callback can be
// active; subsequent calls overwrite the previous value.
func (p *Progress) OnChange(cb func(Snapshot)) {
	if p == nil {
		return
	}
	p.mux.Lock()
	p.onChange = cb
	p.mux.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a new Progress tracker, embeds it in a derived
// context and returns both. The caller may optionally pass an onChange
// callback that will be invoked after every counter update.
func WithNewTracker(ctx context.Context, runID, goal string, onChange func(Snapshot)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		current: Snapshot{
			RunID:     runID,
			Goal:      goal,
			StartedAt: time.Now(),
		},
		onChange: onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the Progress tracker from ctx. It returns (tracker,
// ok). The second return value is false when the context carries no tracker.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// GetSnapshot is a convenience wrapper that combines FromContext and
// Snapshot. The boolean return value is false when the context does not
// carry a tracker.
func GetSnapshot(ctx context.Context) (Snapshot, bool) {
	if tr, ok := FromContext(ctx); ok {
		return tr.Snapshot(), true
	}
	return Snapshot{}, false
}

// UpdateCtx is a helper that looks up the tracker in ctx (if any) and applies
// the supplied delta.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
