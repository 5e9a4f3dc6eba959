// Package store holds the daemon's view of the collection log panel.
package store

import "github.com/grovetools/clueitems/progress"

// ItemRow is one item of the item grid.
type ItemRow struct {
	ID                  int             `json:"id"`
	Name                string          `json:"name"`
	StashUnit           string          `json:"stash_unit,omitempty"`
	Quantity            int             `json:"quantity"`
	CollectionLogStatus progress.Status `json:"collection_log_status"`
	Status              progress.Status `json:"status"`
}

// StashRow is one unit of the STASH grid.
type StashRow struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Tier   string `json:"tier,omitempty"`
	Built  bool   `json:"built"`
	Filled bool   `json:"filled"`
}

// Summary counts items per status.
type Summary struct {
	Total   int `json:"total"`
	Owned   int `json:"owned"`
	Missing int `json:"missing"`
	Unknown int `json:"unknown"`
	Built   int `json:"stash_built"`
	Filled  int `json:"stash_filled"`
}

// State is a point-in-time copy of the panel, rows in catalogue order.
type State struct {
	Items             []ItemRow  `json:"items"`
	StashUnits        []StashRow `json:"stash_units"`
	ItemDisclaimer    string     `json:"item_disclaimer,omitempty"`
	StashDisclaimer   string     `json:"stash_disclaimer,omitempty"`
	NavigationVisible bool       `json:"navigation_visible"`
	Summary           Summary    `json:"summary"`
}

// UpdateType defines what kind of data changed.
type UpdateType string

const (
	UpdateReset      UpdateType = "reset"
	UpdateItem       UpdateType = "item"
	UpdateStash      UpdateType = "stash"
	UpdateDisclaimer UpdateType = "disclaimer"
	UpdateNavigation UpdateType = "navigation"
)

// Update represents a change to the panel.
type Update struct {
	Type UpdateType `json:"update_type"`
	// Item is set for UpdateItem.
	Item *ItemRow `json:"item,omitempty"`
	// Stash is set for UpdateStash.
	Stash *StashRow `json:"stash,omitempty"`
	// Grid is "items" or "stash" for UpdateDisclaimer.
	Grid string `json:"grid,omitempty"`
	Text string `json:"text,omitempty"`
	// Visible is set for UpdateNavigation.
	Visible bool `json:"visible,omitempty"`
}
