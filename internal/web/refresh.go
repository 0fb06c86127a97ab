package web

import (
	"context"
	"time"
)

// Refresher periodically nudges viewers to re-derive room state. Change
// notifications are the primary mechanism; the ticker is a resilience
// fallback for missed events, and because derivation is a pure
// recomputation a redundant tick is harmless.
type Refresher struct {
	events   *EventManager
	interval time.Duration
}

// NewRefresher creates a refresher publishing through the given event manager
func NewRefresher(events *EventManager, interval time.Duration) *Refresher {
	return &Refresher{
		events:   events,
		interval: interval,
	}
}

// Run publishes a refresh event on every tick until ctx is done
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.events.NotifyRefresh()
		}
	}
}
