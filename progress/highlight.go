package progress

import (
	"github.com/grovetools/clueitems/catalogue"
)

// Highlighter decides whether an interface should mark an item as an emote
// clue item. Drawing the mark is left to the overlay.
type Highlighter struct {
	cat      *catalogue.Catalogue
	settings SettingsSource
	stash    *StashStore
}

// NewHighlighter creates a highlighter reading settings on every decision so
// configuration changes apply immediately.
func NewHighlighter(cat *catalogue.Catalogue, settings SettingsSource, stash *StashStore) *Highlighter {
	return &Highlighter{cat: cat, settings: settings, stash: stash}
}

// ShouldHighlight reports whether itemID should be marked in kind.
func (h *Highlighter) ShouldHighlight(kind catalogue.InterfaceKind, itemID int) bool {
	item, ok := h.cat.Item(itemID)
	if !ok || !item.AppearsIn(kind) {
		return false
	}
	cfg := h.settings.Load()
	if !cfg.Highlighting(kind) {
		return false
	}
	if cfg.FilterInStash && item.StashUnit != "" && h.stash.IsFilled(item.StashUnit) {
		return false
	}
	return true
}
