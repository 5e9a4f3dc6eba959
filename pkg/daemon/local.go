package daemon

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/grovetools/clueitems/catalogue"
	"github.com/grovetools/clueitems/config"
	"github.com/grovetools/clueitems/internal/daemon/engine"
	"github.com/grovetools/clueitems/internal/daemon/event"
	"github.com/grovetools/clueitems/internal/daemon/store"
	"github.com/grovetools/clueitems/logging"
)

// ErrNotRunning is returned by LocalClient operations that need a live daemon.
var ErrNotRunning = errors.New("clueitems daemon is not running")

// LocalClient implements Client in-process when the daemon is not running.
// It replays a recorded session, if one is given, against the profile. Writes
// the replay makes to the profile are kept in memory only.
type LocalClient struct {
	cat       *catalogue.Catalogue
	profile   config.Store
	recording string

	once   sync.Once
	engine *engine.Engine
	err    error
}

// NewLocalClient creates a LocalClient. recording may be empty.
func NewLocalClient(cat *catalogue.Catalogue, profile config.Store, recording string) *LocalClient {
	return &LocalClient{cat: cat, profile: profile, recording: recording}
}

func (c *LocalClient) load() (*engine.Engine, error) {
	c.once.Do(func() {
		settings := config.NewManager(NewOverlay(c.profile))
		eng := engine.New(engine.Options{
			Catalogue: c.cat,
			Settings:  settings,
			Logger:    logging.NewLogger("local"),
		})
		eng.StartUp()
		c.engine = eng

		if c.recording == "" {
			return
		}
		r, err := event.Open(c.recording)
		if err != nil {
			c.err = err
			return
		}
		defer r.Close()
		for {
			ev, err := r.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				c.err = err
				return
			}
			eng.Dispatch(ev)
		}
	})
	return c.engine, c.err
}

// State returns the panel after replaying the recording.
func (c *LocalClient) State(ctx context.Context) (store.State, error) {
	eng, err := c.load()
	if err != nil {
		return store.State{}, err
	}
	return eng.Store().Get(), nil
}

// Settings returns the effective settings of the profile.
func (c *LocalClient) Settings(ctx context.Context) (map[string]string, error) {
	return config.Encode(config.NewManager(c.profile).Load()), nil
}

// Submit is not supported without a daemon.
func (c *LocalClient) Submit(ctx context.Context, ev event.Event) error {
	return ErrNotRunning
}

// Highlight answers from the replayed session.
func (c *LocalClient) Highlight(ctx context.Context, kind catalogue.InterfaceKind, itemID int) (bool, error) {
	eng, err := c.load()
	if err != nil {
		return false, err
	}
	return eng.Plugin().ShouldHighlight(kind, itemID), nil
}

// StreamState is not supported without a daemon.
func (c *LocalClient) StreamState(ctx context.Context) (<-chan store.Update, error) {
	return nil, ErrNotRunning
}

// IsRunning always returns false.
func (c *LocalClient) IsRunning() bool { return false }

// Close releases nothing.
func (c *LocalClient) Close() error { return nil }

var _ Client = (*LocalClient)(nil)

// Overlay reads through to a base store and keeps writes in memory.
type Overlay struct {
	base config.Store

	mu      sync.Mutex
	values  map[string]string
	deleted map[string]bool
}

// NewOverlay wraps base. Nothing written to the overlay reaches base.
func NewOverlay(base config.Store) *Overlay {
	return &Overlay{base: base, values: map[string]string{}, deleted: map[string]bool{}}
}

func (o *Overlay) Get(key string) (string, bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if v, ok := o.values[key]; ok {
		return v, true, nil
	}
	if o.deleted[key] {
		return "", false, nil
	}
	return o.base.Get(key)
}

func (o *Overlay) Set(key, value string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.values[key] = value
	delete(o.deleted, key)
	return nil
}

func (o *Overlay) Delete(key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.values, key)
	o.deleted[key] = true
	return nil
}

func (o *Overlay) All() (map[string]string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	all, err := o.base.All()
	if err != nil {
		return nil, err
	}
	for k := range o.deleted {
		delete(all, k)
	}
	for k, v := range o.values {
		all[k] = v
	}
	return all, nil
}
