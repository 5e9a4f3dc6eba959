// Package plugin connects host client events to the progress engine and
// keeps the collection log panel in sync with it.
package plugin

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/clueitems/catalogue"
	"github.com/grovetools/clueitems/config"
	"github.com/grovetools/clueitems/inventory"
	"github.com/grovetools/clueitems/logging"
	"github.com/grovetools/clueitems/progress"
)

const (
	// LoginDisclaimer is shown on both grids until the player logs in.
	LoginDisclaimer = "To start display of progression, please login first."

	unopenedNotificationFormat = "Not all items may be displayed. Please open your %s first."
	stashBuiltMessage          = "You build a STASH unit."
)

// Options configures a Plugin. Client, Panel and Settings are required.
type Options struct {
	Catalogue *catalogue.Catalogue
	Client    Client
	Thread    *ClientThread
	Panel     Panel
	Settings  *config.Manager
}

// Plugin is the host-facing adapter. Every method must be called from the
// client thread.
type Plugin struct {
	cat         *catalogue.Catalogue
	client      Client
	thread      *ClientThread
	panel       Panel
	settings    *config.Manager
	stash       *progress.StashStore
	engine      *progress.Engine
	highlighter *progress.Highlighter
	logger      *logrus.Entry

	updateStashBuiltStatusOnNextGameTick bool
	showUnopenedInterfaceNotification    bool
}

// New wires the engine and its collaborators. Call StartUp before
// delivering events.
func New(opts Options) *Plugin {
	cat := opts.Catalogue
	if cat == nil {
		cat = catalogue.Default()
	}
	thread := opts.Thread
	if thread == nil {
		thread = NewClientThread()
	}

	p := &Plugin{
		cat:      cat,
		client:   opts.Client,
		thread:   thread,
		panel:    opts.Panel,
		settings: opts.Settings,
		logger:   logging.NewLogger("plugin"),
	}
	p.stash = progress.NewStashStore(cat, opts.Settings)
	p.engine = progress.NewEngine(progress.Components{
		Catalogue: cat,
		Scope:     progress.NewScopeFromConfig(opts.Settings.Load()),
		Stash:     p.stash,
		Settings:  opts.Settings,
		Observer:  panelObserver{panel: opts.Panel},
	})
	p.highlighter = progress.NewHighlighter(cat, opts.Settings, p.stash)
	return p
}

// StartUp shows the navigation entry if configured and resets all progress.
func (p *Plugin) StartUp() {
	p.panel.SetNavigationVisible(p.settings.Load().ShowNavigation)
	p.reset()
}

// ShutDown hides the navigation entry.
func (p *Plugin) ShutDown() {
	p.panel.SetNavigationVisible(false)
}

// Engine exposes the progress engine for read access.
func (p *Plugin) Engine() *progress.Engine {
	return p.engine
}

// ShouldHighlight reports whether itemID should be marked in kind.
func (p *Plugin) ShouldHighlight(kind catalogue.InterfaceKind, itemID int) bool {
	return p.highlighter.ShouldHighlight(kind, itemID)
}

// Thread returns the queue drained on the client thread.
func (p *Plugin) Thread() *ClientThread {
	return p.thread
}

func (p *Plugin) reset() {
	p.engine.Reset()
	p.panel.Reset()
	p.panel.SetItemGridDisclaimer(LoginDisclaimer)
	p.panel.SetStashGridDisclaimer(LoginDisclaimer)

	p.updateStashBuiltStatusOnNextGameTick = false
	p.showUnopenedInterfaceNotification = p.settings.Load().NotifyUnopenedInterfaces

	if p.client.GameState() == GameStateLoggedIn {
		p.onPlayerLoggedIn()
	}
}

func (p *Plugin) onPlayerLoggedIn() {
	p.engine.ValidateConfig()
	p.updateStashBuiltStatusOnNextGameTick = true
	p.panel.SetItemGridDisclaimer("")
	p.panel.SetStashGridDisclaimer("")
	p.thread.Invoke(p.setupUnopenedInterfaceNotification)
}

func (p *Plugin) setupUnopenedInterfaceNotification() {
	if p.client.GameState() != GameStateLoggedIn {
		return
	}
	p.panel.SetItemGridDisclaimer("")
	if !p.showUnopenedInterfaceNotification || !p.settings.Load().NotifyUnopenedInterfaces {
		return
	}
	unopened := p.engine.UnopenedInterfaces()
	if len(unopened) == 0 {
		return
	}
	p.panel.SetItemGridDisclaimer(fmt.Sprintf(unopenedNotificationFormat, strings.Join(unopened, ", ")))
}

// DismissUnopenedInterfaceNotification hides the unopened interface
// notification until the next reset.
func (p *Plugin) DismissUnopenedInterfaceNotification() {
	p.showUnopenedInterfaceNotification = false
	p.panel.SetItemGridDisclaimer("")
}

func (p *Plugin) updateStashUnitBuildStatuses() {
	p.thread.Invoke(func() {
		for _, unit := range p.cat.StashUnits() {
			built := p.client.RunScript(ScriptStashUnitCheck, unit.ObjectID, 0, 0, 0) == 1
			p.engine.SetStashUnitBuilt(unit.ID, built)
			p.panel.SetStashUnitStatus(unit.ID, built, p.engine.StashUnitFilled(unit.ID))
		}
		p.logger.Debug("STASH unit build states refreshed")
	})
}

// OnGameStateChanged resets on the login screen and starts tracking on login.
func (p *Plugin) OnGameStateChanged(state GameState) {
	switch state {
	case GameStateLoginScreen:
		p.reset()
	case GameStateLoggedIn:
		p.onPlayerLoggedIn()
	}
}

// OnChatMessage refreshes STASH build states after the player builds one.
func (p *Plugin) OnChatMessage(typ ChatMessageType, message string) {
	if typ != ChatSpam && typ != ChatBroadcast {
		return
	}
	if message == stashBuiltMessage {
		p.updateStashUnitBuildStatuses()
	}
}

// OnItemContainerChanged feeds a container snapshot to the engine.
func (p *Plugin) OnItemContainerChanged(containerID int, items []inventory.Item) {
	if kind, snap, ok := inventory.Normalize(p.cat, containerID, items); ok {
		p.engine.ProcessInventoryChanges(kind, snap)
	}
	p.thread.Invoke(p.setupUnopenedInterfaceNotification)
}

// OnGameTick runs the STASH build check scheduled by the last login.
func (p *Plugin) OnGameTick() {
	if p.updateStashBuiltStatusOnNextGameTick {
		p.updateStashBuiltStatusOnNextGameTick = false
		p.updateStashUnitBuildStatuses()
	}
}

// OnConfigChanged applies a changed setting of the plugin group.
func (p *Plugin) OnConfigChanged(key, value string) {
	p.thread.Invoke(func() {
		enabled := value == "true"
		switch key {
		case config.KeyTrackBank:
			p.engine.ToggleBankTracking(enabled)
			p.setupUnopenedInterfaceNotification()
		case config.KeyTrackInventory:
			p.engine.ToggleInventoryTracking(enabled)
			p.setupUnopenedInterfaceNotification()
		case config.KeyTrackEquipment:
			p.engine.ToggleEquipmentTracking(enabled)
			p.setupUnopenedInterfaceNotification()
		case config.KeyTrackGroupStorage:
			p.engine.ToggleGroupStorageTracking(enabled)
			p.setupUnopenedInterfaceNotification()
		case config.KeyNotifyUnopenedInterfaces:
			p.showUnopenedInterfaceNotification = enabled
			p.setupUnopenedInterfaceNotification()
		case config.KeyShowNavigation:
			p.panel.SetNavigationVisible(enabled)
		case config.KeyFilterInStash:
			p.engine.ToggleStashFilter(enabled)
		}
	})
}

// OnStashUnitFilledChanged records a fill state chosen in the panel. Only
// units known to be built this session accept a fill state.
func (p *Plugin) OnStashUnitFilledChanged(unitID string, filled bool) {
	if !p.engine.StashUnitBuilt(unitID) {
		p.logger.WithField("unit", unitID).Debug("Ignoring fill state of a STASH unit not built this session")
		return
	}
	p.engine.SetStashUnitFilled(unitID, filled)
	p.panel.SetStashUnitStatus(unitID, true, p.engine.StashUnitFilled(unitID))
}

// panelObserver forwards engine changes to the panel.
type panelObserver struct {
	panel Panel
}

func (o panelObserver) ItemQuantityChanged(item catalogue.Item, quantity int) {
	o.panel.SetItemQuantity(item.ID, quantity)
}

func (o panelObserver) ItemInventoryStatusChanged(item catalogue.Item, status progress.Status) {
	o.panel.SetItemCollectionLogStatus(item.ID, status)
}

func (o panelObserver) ItemStatusChanged(item catalogue.Item, status progress.Status) {
	o.panel.SetItemStatus(item.ID, status)
}
