package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart EventType = "run_start"
	EventDay      EventType = "day"
	EventRunEnd   EventType = "run_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id,omitempty"`
}

// RunEvent marks the start or the end of a run.
type RunEvent struct {
	EventBase
	Params    Params `json:"params"`
	Days      int    `json:"days,omitempty"`
	Peak      int    `json:"peak,omitempty"`
	Converged bool   `json:"converged,omitempty"`
	Err       error  `json:"-"`
}

// DayEvent is emitted after each day-step.
type DayEvent struct {
	EventBase
	Day        int       `json:"day"`
	Counts     DayCounts `json:"counts"`
	Recoveries int       `json:"recoveries"`
	Infections int       `json:"infections"`
}

// LifecycleHooks defines callbacks for run observability.
type LifecycleHooks struct {
	OnRunStart func(context.Context, *RunEvent)
	OnDay      func(context.Context, *DayEvent)
	OnRunEnd   func(context.Context, *RunEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart: chain(h.OnRunStart, other.OnRunStart),
		OnDay:      chain(h.OnDay, other.OnDay),
		OnRunEnd:   chain(h.OnRunEnd, other.OnRunEnd),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
