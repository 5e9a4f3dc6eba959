// Package collector provides background workers that feed host events to
// the daemon.
package collector

import (
	"context"

	"github.com/grovetools/clueitems/internal/daemon/event"
)

// Collector is a background worker that reads host events from one source.
type Collector interface {
	// Name returns the collector's name for logging.
	Name() string

	// Run blocks until the source is exhausted or the context is canceled,
	// sending every event it reads on events.
	Run(ctx context.Context, events chan<- event.Event) error
}

// send delivers ev unless ctx is canceled first.
func send(ctx context.Context, events chan<- event.Event, ev event.Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
