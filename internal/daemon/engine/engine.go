// Package engine runs the plugin against the events of the registered
// collectors.
package engine

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/clueitems/catalogue"
	"github.com/grovetools/clueitems/config"
	"github.com/grovetools/clueitems/errors"
	"github.com/grovetools/clueitems/internal/daemon/collector"
	"github.com/grovetools/clueitems/internal/daemon/event"
	"github.com/grovetools/clueitems/internal/daemon/store"
	"github.com/grovetools/clueitems/plugin"
)

// Options configures an Engine. Settings is required.
type Options struct {
	Catalogue *catalogue.Catalogue
	Settings  *config.Manager
	// Recorder, if set, receives every event before it is dispatched.
	Recorder *event.Writer
	Logger   *logrus.Entry
}

// Engine owns the plugin and is the only goroutine that touches it. Events
// from every collector are dispatched in arrival order and the client
// thread queue is drained after each one.
type Engine struct {
	cat        *catalogue.Catalogue
	settings   *config.Manager
	client     *Client
	store      *store.Store
	plugin     *plugin.Plugin
	recorder   *event.Writer
	collectors []collector.Collector
	logger     *logrus.Entry

	work chan func()
	mu   sync.Mutex
	// running is set while Run consumes events.
	running bool
	done    chan struct{}
}

// New wires a plugin to an in-memory panel store.
func New(opts Options) *Engine {
	cat := opts.Catalogue
	if cat == nil {
		cat = catalogue.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	e := &Engine{
		cat:      cat,
		settings: opts.Settings,
		client:   NewClient(cat),
		store:    store.New(cat),
		recorder: opts.Recorder,
		logger:   logger,
		work:     make(chan func()),
		done:     make(chan struct{}),
	}
	e.plugin = plugin.New(plugin.Options{
		Catalogue: cat,
		Client:    e.client,
		Panel:     e.store,
		Settings:  opts.Settings,
	})
	return e
}

// Register adds a collector to the engine.
func (e *Engine) Register(c collector.Collector) {
	e.collectors = append(e.collectors, c)
}

// Store returns the panel store.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Plugin returns the plugin. Only use it from the goroutine dispatching
// events, or when Run is not used.
func (e *Engine) Plugin() *plugin.Plugin {
	return e.plugin
}

// Client returns the mirrored host client.
func (e *Engine) Client() *Client {
	return e.client
}

// StartUp starts the plugin. Run calls it; call it directly only when
// dispatching events without Run.
func (e *Engine) StartUp() {
	e.plugin.StartUp()
	e.plugin.Thread().Drain()
}

// ShutDown stops the plugin.
func (e *Engine) ShutDown() {
	e.plugin.ShutDown()
	e.plugin.Thread().Drain()
}

// Run starts the plugin and every collector, and dispatches their events
// until the context is canceled or all collectors have returned. It returns
// the collectors' errors joined.
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return errors.New(errors.ErrCodeInternal, "engine already running")
	}
	e.running = true
	e.mu.Unlock()
	defer close(e.done)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.StartUp()
	defer e.ShutDown()

	events := make(chan event.Event, 100)
	var (
		wg    sync.WaitGroup
		errMu sync.Mutex
		errs  []error
	)
	for _, c := range e.collectors {
		wg.Add(1)
		go func(col collector.Collector) {
			defer wg.Done()
			e.logger.WithField("collector", col.Name()).Info("Starting collector")
			if err := col.Run(ctx, events); err != nil {
				e.logger.WithField("collector", col.Name()).WithError(err).Error("Collector failed")
				errMu.Lock()
				errs = append(errs, err)
				errMu.Unlock()
			}
		}(c)
	}

	collectorsDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(collectorsDone)
	}()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return stderrors.Join(errs...)
		case fn := <-e.work:
			fn()
			e.plugin.Thread().Drain()
		case ev := <-events:
			e.Dispatch(ev)
		case <-collectorsDone:
			// Drain what the collectors sent before returning.
			for {
				select {
				case ev := <-events:
					e.Dispatch(ev)
				default:
					return stderrors.Join(errs...)
				}
			}
		}
	}
}

// Dispatch delivers one event to the plugin and drains the client thread.
// It must only be called from the goroutine running Run, or before Run.
func (e *Engine) Dispatch(ev event.Event) {
	if e.recorder != nil {
		if err := e.recorder.Write(ev); err != nil {
			e.logger.WithError(err).Warn("Failed to record event")
		}
	}

	log := e.logger.WithField("event", ev.Type)
	switch ev.Type {
	case event.TypeGameState:
		e.client.SetGameState(ev.State)
		e.plugin.OnGameStateChanged(ev.State)
	case event.TypeChat:
		e.plugin.OnChatMessage(ev.ChatType, ev.Message)
	case event.TypeContainer:
		e.plugin.OnItemContainerChanged(ev.ContainerID, ev.Items)
	case event.TypeTick:
		e.plugin.OnGameTick()
	case event.TypeConfig:
		if ev.Group != "" && ev.Group != config.Group {
			log.WithField("group", ev.Group).Debug("Ignoring setting of another group")
			return
		}
		if ev.Source == event.SourceProfile {
			if e.staleSetting(ev.Key, ev.Value) {
				log.WithField("key", ev.Key).Debug("Dropping superseded profile change")
				return
			}
		} else {
			e.persistSetting(ev.Key, ev.Value)
		}
		e.plugin.OnConfigChanged(ev.Key, ev.Value)
	case event.TypeStashBuilt:
		e.client.SetBuiltUnits(ev.Units)
	case event.TypeStashFilled:
		if ev.Source == event.SourceProfile && e.settings.LoadStashFilled(ev.Unit) != ev.Filled {
			log.WithField("unit", ev.Unit).Debug("Dropping superseded profile change")
			return
		}
		e.plugin.OnStashUnitFilledChanged(ev.Unit, ev.Filled)
	case event.TypeDismiss:
		e.plugin.DismissUnopenedInterfaceNotification()
	default:
		log.Warn("Ignoring unknown event")
		return
	}

	if n := e.plugin.Thread().Drain(); n > 0 {
		log.WithField("tasks", n).Debug("Drained client thread")
	}
}

// persistSetting stores a setting reported by the host so later reads of
// the profile agree with it.
func (e *Engine) persistSetting(key, value string) {
	if !config.IsKey(key) {
		return
	}
	if current, ok := e.settings.GetConfiguration(key); ok && current == value {
		return
	}
	if err := e.settings.SetConfiguration(key, value); err != nil {
		e.logger.WithError(err).WithField("key", key).Warn("Failed to persist setting")
	}
}

// staleSetting reports whether a change read back from the profile no longer
// matches what the profile holds. The watcher reads the file before the event
// is dispatched, so a host write in between supersedes it.
func (e *Engine) staleSetting(key, value string) bool {
	if !config.IsKey(key) {
		return false
	}
	current := config.Encode(config.Decode(e.settings.Values(), nil))
	return current[key] != value
}

// Do runs fn with the plugin on the engine goroutine and waits for it. It
// fails if the engine is not running.
func (e *Engine) Do(ctx context.Context, fn func(p *plugin.Plugin)) error {
	e.mu.Lock()
	running := e.running
	e.mu.Unlock()
	if !running {
		return errors.New(errors.ErrCodeInternal, "engine not running")
	}

	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn(e.plugin)
	}
	select {
	case e.work <- task:
	case <-e.done:
		return errors.New(errors.ErrCodeInternal, "engine stopped")
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit dispatches ev on the engine goroutine and waits for it.
func (e *Engine) Submit(ctx context.Context, ev event.Event) error {
	if err := ev.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid event")
	}
	return e.Do(ctx, func(*plugin.Plugin) { e.Dispatch(ev) })
}

// ShouldHighlight reports whether itemID should be marked in kind.
func (e *Engine) ShouldHighlight(ctx context.Context, kind catalogue.InterfaceKind, itemID int) (bool, error) {
	var highlight bool
	err := e.Do(ctx, func(p *plugin.Plugin) {
		highlight = p.ShouldHighlight(kind, itemID)
	})
	return highlight, err
}
