package progress

import "github.com/grovetools/clueitems/catalogue"

// OpenedTracker is the per-session log of interfaces whose contents have
// been observed at least once. It separates "confirmed absent" from "not yet
// seen". Entries are only removed by Reset.
type OpenedTracker struct {
	opened map[catalogue.InterfaceKind]bool
}

// NewOpenedTracker returns an empty tracker.
func NewOpenedTracker() *OpenedTracker {
	return &OpenedTracker{opened: make(map[catalogue.InterfaceKind]bool)}
}

// MarkOpened records that kind has been observed this session.
func (t *OpenedTracker) MarkOpened(kind catalogue.InterfaceKind) {
	t.opened[kind] = true
}

// IsOpened reports whether kind has been observed this session.
func (t *OpenedTracker) IsOpened(kind catalogue.InterfaceKind) bool {
	return t.opened[kind]
}

// Reset forgets every opened interface. Called on the login screen.
func (t *OpenedTracker) Reset() {
	t.opened = make(map[catalogue.InterfaceKind]bool)
}

// UnopenedTrackableInterfaces returns the kinds enabled in scope that have not
// been opened yet, in declaration order.
func (t *OpenedTracker) UnopenedTrackableInterfaces(scope *Scope) []catalogue.InterfaceKind {
	var out []catalogue.InterfaceKind
	for _, k := range scope.EnabledKinds() {
		if !t.opened[k] {
			out = append(out, k)
		}
	}
	return out
}
