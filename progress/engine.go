// Package progress reconciles container snapshots, tracking scope and STASH
// fill states into a per-item collection status.
//
// The engine is not safe for concurrent use. The host delivers events one at
// a time and all calls are expected to come from that single thread.
package progress

import (
	"github.com/sirupsen/logrus"

	"github.com/grovetools/clueitems/catalogue"
	"github.com/grovetools/clueitems/config"
	"github.com/grovetools/clueitems/inventory"
	"github.com/grovetools/clueitems/logging"
)

// Observer receives item progress changes. Each method is called at most
// once per item per recompute, and only when the value actually changed.
type Observer interface {
	ItemQuantityChanged(item catalogue.Item, quantity int)
	// ItemInventoryStatusChanged feeds the collection log.
	ItemInventoryStatusChanged(item catalogue.Item, status Status)
	// ItemStatusChanged feeds the display status.
	ItemStatusChanged(item catalogue.Item, status Status)
}

// SettingsSource supplies the persisted plugin settings.
type SettingsSource interface {
	Load() config.Config
}

// Components are the collaborators of an Engine. Catalogue is required;
// the rest default to empty in-memory instances.
type Components struct {
	Catalogue *catalogue.Catalogue
	Scope     *Scope
	Stash     *StashStore
	Opened    *OpenedTracker
	Settings  SettingsSource
	Observer  Observer
	Logger    *logrus.Entry
}

// Engine owns the derived progress of every catalogue item.
type Engine struct {
	cat       *catalogue.Catalogue
	scope     *Scope
	stash     *StashStore
	opened    *OpenedTracker
	settings  SettingsSource
	observer  Observer
	logger    *logrus.Entry
	snapshots map[catalogue.InterfaceKind]inventory.Snapshot
	states    map[int]ItemState
}

// NewEngine creates an engine with every item Unknown.
func NewEngine(c Components) *Engine {
	e := &Engine{
		cat:       c.Catalogue,
		scope:     c.Scope,
		stash:     c.Stash,
		opened:    c.Opened,
		settings:  c.Settings,
		observer:  c.Observer,
		logger:    c.Logger,
		snapshots: make(map[catalogue.InterfaceKind]inventory.Snapshot),
		states:    make(map[int]ItemState),
	}
	if e.scope == nil {
		e.scope = NewScope()
	}
	if e.stash == nil {
		e.stash = NewStashStore(e.cat, nil)
	}
	if e.opened == nil {
		e.opened = NewOpenedTracker()
	}
	if e.observer == nil {
		e.observer = nopObserver{}
	}
	if e.logger == nil {
		e.logger = logging.NewLogger("progress")
	}
	return e
}

// ProcessInventoryChanges replaces the cached snapshot of kind, marks it
// opened and recomputes every item that may appear in it. Snapshots are full
// replacements, so applying the same one twice is a no-op.
func (e *Engine) ProcessInventoryChanges(kind catalogue.InterfaceKind, snap inventory.Snapshot) {
	if !kind.Trackable() {
		return
	}
	cached := make(inventory.Snapshot, len(snap))
	for id, qty := range snap {
		cached[id] = qty
	}
	e.snapshots[kind] = cached

	if !e.opened.IsOpened(kind) {
		e.logger.WithField("interface", kind.String()).Debug("Interface opened")
	}
	e.opened.MarkOpened(kind)
	e.recomputeAll(e.cat.ItemsFor(kind))
}

// SetTracking enables or disables kind and recomputes the items it affects.
func (e *Engine) SetTracking(kind catalogue.InterfaceKind, enabled bool) {
	if !kind.Trackable() {
		return
	}
	e.scope.SetEnabled(kind, enabled)
	e.logger.WithFields(logrus.Fields{"interface": kind.String(), "enabled": enabled}).Debug("Tracking toggled")
	e.recomputeAll(e.cat.ItemsFor(kind))
}

// ToggleBankTracking enables or disables bank tracking.
func (e *Engine) ToggleBankTracking(enabled bool) { e.SetTracking(catalogue.Bank, enabled) }

// ToggleInventoryTracking enables or disables inventory tracking.
func (e *Engine) ToggleInventoryTracking(enabled bool) { e.SetTracking(catalogue.Inventory, enabled) }

// ToggleEquipmentTracking enables or disables equipment tracking.
func (e *Engine) ToggleEquipmentTracking(enabled bool) { e.SetTracking(catalogue.Equipment, enabled) }

// ToggleGroupStorageTracking enables or disables group storage tracking.
func (e *Engine) ToggleGroupStorageTracking(enabled bool) {
	e.SetTracking(catalogue.GroupStorage, enabled)
}

// ToggleStashFilter enables or disables counting filled STASH units as owned.
func (e *Engine) ToggleStashFilter(enabled bool) {
	e.scope.SetStashFilterEnabled(enabled)
	var affected []catalogue.Item
	for _, u := range e.cat.StashUnits() {
		affected = append(affected, e.cat.ItemsInStashUnit(u.ID)...)
	}
	e.recomputeAll(affected)
}

// SetStashUnitFilled records the fill state of a unit and recomputes its items.
// Unknown units are ignored.
func (e *Engine) SetStashUnitFilled(unitID string, filled bool) {
	if _, ok := e.cat.StashUnit(unitID); !ok {
		return
	}
	e.stash.SetFilled(unitID, filled)
	e.logger.WithFields(logrus.Fields{"unit": unitID, "filled": filled}).Debug("STASH unit fill state changed")
	e.recomputeAll(e.cat.ItemsInStashUnit(unitID))
}

// StashUnitFilled reports the fill state of a unit.
func (e *Engine) StashUnitFilled(unitID string) bool {
	return e.stash.IsFilled(unitID)
}

// SetStashUnitBuilt records the session build state of a unit.
func (e *Engine) SetStashUnitBuilt(unitID string, built bool) {
	e.stash.SetBuilt(unitID, built)
}

// StashUnitBuilt reports whether a unit is known to be built this session.
func (e *Engine) StashUnitBuilt(unitID string) bool {
	return e.stash.IsBuilt(unitID)
}

// ValidateConfig re-derives the tracking scope and STASH filter from the
// persisted settings and recomputes every item.
func (e *Engine) ValidateConfig() {
	cfg := config.Defaults()
	if e.settings != nil {
		cfg = e.settings.Load()
	}
	e.scope.Apply(cfg)
	e.logger.WithFields(logrus.Fields{
		"tracked":      kindNames(e.scope.EnabledKinds()),
		"stash_filter": e.scope.StashFilterEnabled(),
	}).Debug("Configuration validated")
	e.recomputeAll(e.cat.Items())
}

// Reset returns every item to Unknown with quantity zero, forgets cached
// snapshots and opened interfaces, and reloads persisted STASH fill states.
// Observers are not notified.
func (e *Engine) Reset() {
	e.states = make(map[int]ItemState)
	e.snapshots = make(map[catalogue.InterfaceKind]inventory.Snapshot)
	e.opened.Reset()
	e.stash.Reload()
	e.logger.Debug("Progress reset")
}

// UnopenedInterfaces returns the names of tracked interfaces not yet opened
// this session, in declaration order.
func (e *Engine) UnopenedInterfaces() []string {
	return kindNames(e.opened.UnopenedTrackableInterfaces(e.scope))
}

func kindNames(kinds []catalogue.InterfaceKind) []string {
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.String())
	}
	return names
}

// Item returns the current state of an item. Unknown ids report Unknown.
func (e *Engine) Item(itemID int) ItemState {
	return e.states[itemID]
}

// Items returns a copy of the state of every catalogue item.
func (e *Engine) Items() map[int]ItemState {
	out := make(map[int]ItemState, len(e.cat.Items()))
	for _, item := range e.cat.Items() {
		out[item.ID] = e.states[item.ID]
	}
	return out
}

// Scope exposes the tracking scope for read access.
func (e *Engine) Scope() *Scope {
	return e.scope
}

func (e *Engine) recomputeAll(items []catalogue.Item) {
	for _, item := range items {
		e.recompute(item)
	}
}

func (e *Engine) recompute(item catalogue.Item) {
	next := e.evaluate(item)
	prev := e.states[item.ID]
	e.states[item.ID] = next

	if next.Quantity != prev.Quantity {
		e.observer.ItemQuantityChanged(item, next.Quantity)
	}
	if next.Status != prev.Status {
		e.logger.WithFields(logrus.Fields{
			"item":   item.Name,
			"from":   prev.Status.String(),
			"to":     next.Status.String(),
			"amount": next.Quantity,
		}).Debug("Item status changed")
		e.observer.ItemInventoryStatusChanged(item, next.Status)
		e.observer.ItemStatusChanged(item, next.Status)
	}
}

// evaluate derives the state of item from the current snapshots and scope.
// The STASH override trusts the filled flag whether or not the unit is known
// to be built; toggles for unbuilt units are rejected before they reach the
// engine.
func (e *Engine) evaluate(item catalogue.Item) ItemState {
	var (
		relevant  int
		quantity  int
		allOpened = true
	)
	for _, k := range item.Interfaces {
		if !k.Trackable() || !e.scope.IsEnabled(k) {
			continue
		}
		relevant++
		if !e.opened.IsOpened(k) {
			allOpened = false
			continue
		}
		quantity += e.snapshots[k].Quantity(item.ID)
	}

	state := ItemState{Quantity: quantity}
	switch {
	case relevant == 0:
		state = ItemState{Status: StatusUnknown}
	case !allOpened:
		state.Status = StatusUnknown
	case quantity > 0:
		state.Status = StatusOwned
	case e.scope.StashFilterEnabled() && item.StashUnit != "" && e.stash.IsFilled(item.StashUnit):
		state.Status = StatusOwned
	default:
		state.Status = StatusMissing
	}
	return state
}

type nopObserver struct{}

func (nopObserver) ItemQuantityChanged(catalogue.Item, int)           {}
func (nopObserver) ItemInventoryStatusChanged(catalogue.Item, Status) {}
func (nopObserver) ItemStatusChanged(catalogue.Item, Status)          {}
