package domain

import (
	"context"
	"time"
)

// RunEvent describes the start or end of a Monte Carlo run.
type RunEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	RunID     string        `json:"run_id"`
	Scenario  string        `json:"scenario"`
	Trials    int           `json:"trials"`
	Workers   int           `json:"workers"`
	Months    int           `json:"months"`
	Elapsed   time.Duration `json:"elapsed,omitempty"` // set on run end
	Err       error         `json:"-"`                 // set on run end when the run failed
}

// TrialEvent describes the completion of one ensemble member.
type TrialEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	RunID     string        `json:"run_id"`
	Trial     int           `json:"trial"`
	Elapsed   time.Duration `json:"elapsed"`
	Err       error         `json:"-"`
}

// LifecycleHooks defines callbacks for runner observability.
type LifecycleHooks struct {
	OnRunStart  func(context.Context, *RunEvent)
	OnTrialDone func(context.Context, *TrialEvent)
	OnRunEnd    func(context.Context, *RunEvent)
}

// Merge returns hooks that invoke h's callbacks first and next's after,
// so logging and metrics can observe the same events.
func (h LifecycleHooks) Merge(next LifecycleHooks) LifecycleHooks {
	merged := LifecycleHooks{}
	merged.OnRunStart = chainRunHook(h.OnRunStart, next.OnRunStart)
	merged.OnRunEnd = chainRunHook(h.OnRunEnd, next.OnRunEnd)
	merged.OnTrialDone = chainTrialHook(h.OnTrialDone, next.OnTrialDone)
	return merged
}

func chainRunHook(a, b func(context.Context, *RunEvent)) func(context.Context, *RunEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, ev *RunEvent) {
		a(ctx, ev)
		b(ctx, ev)
	}
}

func chainTrialHook(a, b func(context.Context, *TrialEvent)) func(context.Context, *TrialEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, ev *TrialEvent) {
		a(ctx, ev)
		b(ctx, ev)
	}
}
