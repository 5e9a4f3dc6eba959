package engine

import (
	"sync"

	"github.com/grovetools/clueitems/catalogue"
	"github.com/grovetools/clueitems/plugin"
)

// Client mirrors the host state reported on the event feed so the plugin can
// query it like a live game client.
type Client struct {
	mu    sync.RWMutex
	cat   *catalogue.Catalogue
	state plugin.GameState
	built map[int]bool
}

// NewClient creates a client at the login screen with no STASH units built.
func NewClient(cat *catalogue.Catalogue) *Client {
	return &Client{
		cat:   cat,
		state: plugin.GameStateLoginScreen,
		built: make(map[int]bool),
	}
}

// GameState returns the last reported game state.
func (c *Client) GameState() plugin.GameState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// SetGameState records a reported game state.
func (c *Client) SetGameState(state plugin.GameState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

// SetBuiltUnits replaces the set of built STASH units. Unknown ids are
// ignored.
func (c *Client) SetBuiltUnits(unitIDs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.built = make(map[int]bool, len(unitIDs))
	for _, id := range unitIDs {
		if unit, ok := c.cat.StashUnit(id); ok {
			c.built[unit.ObjectID] = true
		}
	}
}

// RunScript answers the STASH unit check script from the reported built
// units. Other scripts return 0.
func (c *Client) RunScript(script int, args ...int) int {
	if script != plugin.ScriptStashUnitCheck || len(args) == 0 {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.built[args[0]] {
		return 1
	}
	return 0
}
