package store

import (
	"sync"

	"github.com/grovetools/clueitems/catalogue"
	"github.com/grovetools/clueitems/progress"
)

const (
	GridItems = "items"
	GridStash = "stash"
)

// Store is the in-memory collection log panel. It implements plugin.Panel,
// is safe for concurrent use and publishes every change to subscribers.
type Store struct {
	mu          sync.RWMutex
	items       []ItemRow
	itemIndex   map[int]int
	units       []StashRow
	unitIndex   map[string]int
	itemText    string
	stashText   string
	navigation  bool
	subscribers map[chan Update]struct{}
}

// New creates a panel with one row per catalogue item and STASH unit.
func New(cat *catalogue.Catalogue) *Store {
	s := &Store{
		itemIndex:   make(map[int]int),
		unitIndex:   make(map[string]int),
		subscribers: make(map[chan Update]struct{}),
	}
	for _, item := range cat.Items() {
		s.itemIndex[item.ID] = len(s.items)
		s.items = append(s.items, ItemRow{ID: item.ID, Name: item.Name, StashUnit: item.StashUnit})
	}
	for _, unit := range cat.StashUnits() {
		s.unitIndex[unit.ID] = len(s.units)
		s.units = append(s.units, StashRow{ID: unit.ID, Name: unit.Name, Tier: unit.Tier})
	}
	return s
}

// Get returns a copy of the current panel.
func (s *Store) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		Items:             append([]ItemRow(nil), s.items...),
		StashUnits:        append([]StashRow(nil), s.units...),
		ItemDisclaimer:    s.itemText,
		StashDisclaimer:   s.stashText,
		NavigationVisible: s.navigation,
	}
	st.Summary.Total = len(st.Items)
	for _, row := range st.Items {
		switch row.Status {
		case progress.StatusOwned:
			st.Summary.Owned++
		case progress.StatusMissing:
			st.Summary.Missing++
		default:
			st.Summary.Unknown++
		}
	}
	for _, row := range st.StashUnits {
		if row.Built {
			st.Summary.Built++
		}
		if row.Filled {
			st.Summary.Filled++
		}
	}
	return st
}

// Item returns the row of itemID.
func (s *Store) Item(itemID int) (ItemRow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.itemIndex[itemID]
	if !ok {
		return ItemRow{}, false
	}
	return s.items[i], true
}

// StashUnit returns the row of unitID.
func (s *Store) StashUnit(unitID string) (StashRow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.unitIndex[unitID]
	if !ok {
		return StashRow{}, false
	}
	return s.units[i], true
}

// Reset clears every row back to its initial state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		s.items[i].Quantity = 0
		s.items[i].CollectionLogStatus = progress.StatusUnknown
		s.items[i].Status = progress.StatusUnknown
	}
	for i := range s.units {
		s.units[i].Built = false
		s.units[i].Filled = false
	}
	s.broadcast(Update{Type: UpdateReset})
}

// SetItemQuantity sets the quantity column of an item.
func (s *Store) SetItemQuantity(itemID int, quantity int) {
	s.updateItem(itemID, func(row *ItemRow) { row.Quantity = quantity })
}

// SetItemCollectionLogStatus sets the collection log status of an item.
func (s *Store) SetItemCollectionLogStatus(itemID int, status progress.Status) {
	s.updateItem(itemID, func(row *ItemRow) { row.CollectionLogStatus = status })
}

// SetItemStatus sets the overall status of an item.
func (s *Store) SetItemStatus(itemID int, status progress.Status) {
	s.updateItem(itemID, func(row *ItemRow) { row.Status = status })
}

// SetStashUnitStatus sets the built and filled marks of a unit.
func (s *Store) SetStashUnitStatus(unitID string, built, filled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.unitIndex[unitID]
	if !ok {
		return
	}
	s.units[i].Built = built
	s.units[i].Filled = filled
	row := s.units[i]
	s.broadcast(Update{Type: UpdateStash, Stash: &row})
}

// SetItemGridDisclaimer shows text above the item grid; empty text hides it.
func (s *Store) SetItemGridDisclaimer(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.itemText == text {
		return
	}
	s.itemText = text
	s.broadcast(Update{Type: UpdateDisclaimer, Grid: GridItems, Text: text})
}

// SetStashGridDisclaimer shows text above the STASH grid; empty text hides it.
func (s *Store) SetStashGridDisclaimer(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stashText == text {
		return
	}
	s.stashText = text
	s.broadcast(Update{Type: UpdateDisclaimer, Grid: GridStash, Text: text})
}

// SetNavigationVisible shows or hides the panel's navigation entry.
func (s *Store) SetNavigationVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigation = visible
	s.broadcast(Update{Type: UpdateNavigation, Visible: visible})
}

func (s *Store) updateItem(itemID int, apply func(*ItemRow)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.itemIndex[itemID]
	if !ok {
		return
	}
	apply(&s.items[i])
	row := s.items[i]
	s.broadcast(Update{Type: UpdateItem, Item: &row})
}

// broadcast must be called with mu held.
func (s *Store) broadcast(u Update) {
	for ch := range s.subscribers {
		select {
		case ch <- u:
		default:
			// Non-blocking send to prevent slow clients from stalling the daemon
		}
	}
}

// Subscribe creates a new subscription channel for panel updates.
func (s *Store) Subscribe() chan Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Update, 100)
	s.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(ch chan Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[ch]; !ok {
		return
	}
	delete(s.subscribers, ch)
	close(ch)
}
