// Package live keeps an incrementally updated occupancy view fed by a stream
// of entry events. The aggregator is the only stateful analytic component:
// its state is owned by the single goroutine consuming the event source, and
// every emission is an immutable snapshot.
package live

import (
	"context"
	"time"

	entrydomain "venue-pulse/backend/internal/entry/domain"
	"venue-pulse/backend/internal/integrity"
	integritydomain "venue-pulse/backend/internal/integrity/domain"
	"venue-pulse/backend/internal/live/domain"
)

const (
	// DefaultWindow is the rolling window length when none is configured.
	DefaultWindow = 60 * time.Minute

	fullRatio    = 1.0
	warningRatio = 0.8
)

// Aggregator folds entry events into a live counter with a rolling window.
// Not safe for concurrent use: exactly one goroutine owns it, which is what
// AggregatedState arranges.
type Aggregator struct {
	locationID string
	capacity   int
	window     time.Duration

	count       int
	lastEventAt *time.Time
	buffer      []*entrydomain.Entry // rolling window, insertion order
}

// NewAggregator returns a live aggregator for one location. window <= 0
// falls back to DefaultWindow.
func NewAggregator(locationID string, capacity int, window time.Duration) *Aggregator {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Aggregator{locationID: locationID, capacity: capacity, window: window}
}

// AggregatedState rehydrates from initial entries, then folds events from the
// live source into continuously updated snapshots. It emits one consolidated
// snapshot after rehydration (only when initial entries exist) and one per
// processed live event. The returned channel closes when the source closes
// or ctx is cancelled; snapshots already emitted stay valid either way.
func (a *Aggregator) AggregatedState(ctx context.Context, initial []*entrydomain.Entry, events <-chan *entrydomain.Entry) <-chan domain.CounterState {
	out := make(chan domain.CounterState)

	go func() {
		defer close(out)

		if len(initial) > 0 {
			for _, e := range entrydomain.Sorted(initial) {
				a.fold(e)
			}
			a.purge()
			if !emit(ctx, out, a.snapshot()) {
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				a.fold(e)
				a.purge()
				if !emit(ctx, out, a.snapshot()) {
					return
				}
			}
		}
	}()

	return out
}

func emit(ctx context.Context, out chan<- domain.CounterState, state domain.CounterState) bool {
	select {
	case out <- state:
		return true
	case <-ctx.Done():
		return false
	}
}

// fold applies one event: adjust the clamped count and append to the window.
func (a *Aggregator) fold(e *entrydomain.Entry) {
	a.count += e.Delta
	if a.count < 0 {
		a.count = 0
	}
	at := e.Timestamp
	a.lastEventAt = &at
	a.buffer = append(a.buffer, e)
}

// purge drops window entries older than the most recent timestamp minus the
// window length, keeping the buffer bounded.
func (a *Aggregator) purge() {
	if len(a.buffer) == 0 || a.lastEventAt == nil {
		return
	}
	cutoff := a.lastEventAt.Add(-a.window)
	keep := 0
	for keep < len(a.buffer) && a.buffer[keep].Timestamp.Before(cutoff) {
		keep++
	}
	if keep > 0 {
		n := copy(a.buffer, a.buffer[keep:])
		for i := n; i < len(a.buffer); i++ {
			a.buffer[i] = nil
		}
		a.buffer = a.buffer[:n]
	}
}

// snapshot recomputes the window aggregates and window-scoped classification
// and packages them as an immutable state.
func (a *Aggregator) snapshot() domain.CounterState {
	state := domain.CounterState{
		LocationID:   a.locationID,
		CurrentCount: a.count,
		Capacity:     a.capacity,
		Status:       domain.StatusOk,
	}
	if a.lastEventAt != nil {
		at := *a.lastEventAt
		state.LastEventAt = &at
	}

	for _, e := range a.buffer {
		switch e.Kind {
		case entrydomain.KindIn:
			state.WindowEntries++
		case entrydomain.KindOut:
			state.WindowExits++
		}
	}
	state.WindowNet = state.WindowEntries - state.WindowExits

	if a.capacity > 0 {
		state.OccupancyRatio = float64(a.count) / float64(a.capacity)
	}
	switch {
	case a.capacity > 0 && state.OccupancyRatio >= fullRatio:
		state.Status = domain.StatusFull
	case a.capacity > 0 && state.OccupancyRatio >= warningRatio:
		state.Status = domain.StatusWarning
	}

	if a.lastEventAt != nil {
		// Half-open range that still includes the newest event.
		rng := entrydomain.TimeRange{
			Kind:  entrydomain.RangeCustom,
			Start: a.lastEventAt.Add(-a.window),
			End:   a.lastEventAt.Add(time.Nanosecond),
		}
		cfg := integritydomain.WindowConfig(a.window)
		state.Issues = integrity.Validate(a.buffer, rng)
		state.Signals = integrity.AnalyzeFlowSignals(a.buffer, rng, cfg)
		state.Coverage = integrity.ComputeCoverageWindow(a.buffer, cfg)
	}

	return state
}
