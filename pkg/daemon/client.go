// Package daemon provides a client interface for the clueitems daemon.
// It implements a transparent fallback pattern: if the daemon is running,
// talk to it over its socket; if not, replay a recorded session locally.
package daemon

import (
	"context"

	"github.com/grovetools/clueitems/catalogue"
	"github.com/grovetools/clueitems/internal/daemon/event"
	"github.com/grovetools/clueitems/internal/daemon/store"
)

// Client defines the interface for reading progress from the daemon.
// Both RemoteClient and LocalClient implement it.
type Client interface {
	// State returns the collection log panel.
	State(ctx context.Context) (store.State, error)

	// Settings returns the effective settings as raw key/value pairs.
	Settings(ctx context.Context) (map[string]string, error)

	// Submit delivers a host event.
	Submit(ctx context.Context, ev event.Event) error

	// Highlight reports whether itemID should be marked in kind.
	Highlight(ctx context.Context, kind catalogue.InterfaceKind, itemID int) (bool, error)

	// StreamState subscribes to panel updates. The channel is closed when
	// the context is canceled or the connection is lost.
	StreamState(ctx context.Context) (<-chan store.Update, error)

	// IsRunning returns true if the daemon is available and responding.
	IsRunning() bool

	// Close cleans up any resources used by the client.
	Close() error
}
