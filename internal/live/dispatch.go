package live

import (
	"context"
	"log"
	"sync"
	"time"

	entrydomain "venue-pulse/backend/internal/entry/domain"
	"venue-pulse/backend/internal/live/domain"
)

// RehydrateFunc loads the entries that seed a location's rolling window before
// live events are applied, typically the last window worth from the ledger.
type RehydrateFunc func(ctx context.Context, locationID string) ([]*entrydomain.Entry, error)

// CapacityFunc resolves the capacity for a location.
type CapacityFunc func(ctx context.Context, locationID string) int

// Dispatcher routes a mixed stream of entry events to one aggregator per
// location and merges their snapshots into a single stream. Each aggregator
// keeps the single-writer ownership rule: only its own goroutine touches its state.
type Dispatcher struct {
	window    time.Duration
	rehydrate RehydrateFunc
	capacity  CapacityFunc
}

// NewDispatcher creates a dispatcher. rehydrate and capacity may be nil; a nil
// rehydrate starts every location empty and a nil capacity means unbounded.
func NewDispatcher(window time.Duration, rehydrate RehydrateFunc, capacity CapacityFunc) *Dispatcher {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Dispatcher{window: window, rehydrate: rehydrate, capacity: capacity}
}

// Run consumes events until the source closes or ctx is cancelled. Aggregators
// are started lazily on the first event for a location. The returned channel
// carries snapshots from all locations and closes after every aggregator stops.
func (d *Dispatcher) Run(ctx context.Context, events <-chan *entrydomain.Entry) <-chan domain.CounterState {
	out := make(chan domain.CounterState)

	go func() {
		defer close(out)

		var wg sync.WaitGroup
		routes := make(map[string]chan *entrydomain.Entry)
		defer func() {
			for _, in := range routes {
				close(in)
			}
			wg.Wait()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				if e == nil || e.LocationID == "" {
					continue
				}
				in, ok := routes[e.LocationID]
				if !ok {
					in = d.startLocation(ctx, e.LocationID, out, &wg)
					routes[e.LocationID] = in
				}
				select {
				case in <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// startLocation spins up the aggregator for one location and a forwarder that
// copies its snapshots onto the merged output. Rehydration and capacity lookup
// run inside the location's own goroutine so a slow ledger query cannot stall
// routing for other locations; live events buffer in the returned channel
// meanwhile.
func (d *Dispatcher) startLocation(ctx context.Context, locationID string, out chan<- domain.CounterState, wg *sync.WaitGroup) chan *entrydomain.Entry {
	in := make(chan *entrydomain.Entry, 16)

	wg.Add(1)
	go func() {
		defer wg.Done()

		var initial []*entrydomain.Entry
		if d.rehydrate != nil {
			loaded, err := d.rehydrate(ctx, locationID)
			if err != nil {
				log.Printf("live: rehydrate %s failed, starting empty: %v", locationID, err)
			} else {
				initial = loaded
			}
		}
		capacity := 0
		if d.capacity != nil {
			capacity = d.capacity(ctx, locationID)
		}

		agg := NewAggregator(locationID, capacity, d.window)
		for s := range agg.AggregatedState(ctx, initial, in) {
			select {
			case out <- s:
			case <-ctx.Done():
				return
			}
		}
	}()

	return in
}
