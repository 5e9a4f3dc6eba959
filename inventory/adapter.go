// Package inventory converts raw container-changed payloads into per-interface
// item quantity snapshots.
package inventory

import (
	"github.com/grovetools/clueitems/catalogue"
)

// Host container ids for the interfaces that feed the collection log.
const (
	ContainerInventory    = 93
	ContainerEquipment    = 94
	ContainerBank         = 95
	ContainerGroupStorage = 659
)

var containerKinds = map[int]catalogue.InterfaceKind{
	ContainerInventory:    catalogue.Inventory,
	ContainerEquipment:    catalogue.Equipment,
	ContainerBank:         catalogue.Bank,
	ContainerGroupStorage: catalogue.GroupStorage,
}

// Item is one raw container slot as delivered by the host.
type Item struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

// Snapshot maps item id to observed quantity for a single interface.
// Items absent from the map have quantity zero.
type Snapshot map[int]int

// Quantity returns the observed quantity of an item.
func (s Snapshot) Quantity(itemID int) int {
	return s[itemID]
}

// KindForContainer maps a host container id to its interface kind.
func KindForContainer(containerID int) (catalogue.InterfaceKind, bool) {
	k, ok := containerKinds[containerID]
	return k, ok
}

// Normalize builds a snapshot from a raw item list. ok is false for
// containers outside the tracked set. Stacks of the same id are summed; empty
// slots and ids the catalogue does not track for the interface are dropped.
func Normalize(cat *catalogue.Catalogue, containerID int, items []Item) (catalogue.InterfaceKind, Snapshot, bool) {
	kind, ok := KindForContainer(containerID)
	if !ok {
		return 0, nil, false
	}

	snap := make(Snapshot)
	for _, it := range items {
		if it.ID <= 0 || it.Quantity <= 0 {
			continue
		}
		if !cat.Contains(kind, it.ID) {
			continue
		}
		snap[it.ID] += it.Quantity
	}
	return kind, snap, true
}
