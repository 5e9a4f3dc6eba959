// Package catalogue holds the static table of emote clue items and the STASH
// units that can store them.
package catalogue

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalogue.yml
var embeddedCatalogue []byte

// StashUnit is a buildable storage object that permanently holds clue items.
type StashUnit struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	ObjectID int    `yaml:"object_id"`
	Tier     string `yaml:"tier"`
}

// Item is a trackable emote clue item.
type Item struct {
	ID         int             `yaml:"id"`
	Name       string          `yaml:"name"`
	Interfaces []InterfaceKind `yaml:"interfaces,omitempty"`
	StashUnit  string          `yaml:"stash_unit,omitempty"`
}

// AppearsIn reports whether the item may legitimately appear in kind.
func (i Item) AppearsIn(kind InterfaceKind) bool {
	for _, k := range i.Interfaces {
		if k == kind {
			return true
		}
	}
	return false
}

type document struct {
	StashUnits []StashUnit `yaml:"stash_units"`
	Items      []Item      `yaml:"items"`
}

// Catalogue is the read-only item table. It is safe for concurrent reads.
type Catalogue struct {
	items      []Item
	byID       map[int]int
	byKind     map[InterfaceKind][]int
	units      []StashUnit
	unitByID   map[string]int
	unitToItem map[string][]int
}

var (
	defaultOnce      sync.Once
	defaultCatalogue *Catalogue
)

// Default returns the embedded catalogue. Malformed embedded data is a
// programming error and panics.
func Default() *Catalogue {
	defaultOnce.Do(func() {
		c, err := Parse(embeddedCatalogue)
		if err != nil {
			panic(fmt.Sprintf("embedded catalogue: %v", err))
		}
		defaultCatalogue = c
	})
	return defaultCatalogue
}

// Parse decodes and validates a catalogue document.
func Parse(data []byte) (*Catalogue, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}
	return build(doc)
}

func build(doc document) (*Catalogue, error) {
	c := &Catalogue{
		byID:       make(map[int]int, len(doc.Items)),
		byKind:     make(map[InterfaceKind][]int),
		unitByID:   make(map[string]int, len(doc.StashUnits)),
		unitToItem: make(map[string][]int),
	}

	for _, u := range doc.StashUnits {
		u.ID = strings.TrimSpace(u.ID)
		if u.ID == "" || strings.TrimSpace(u.Name) == "" {
			return nil, fmt.Errorf("stash unit %q: id and name are required", u.ID)
		}
		if _, dup := c.unitByID[u.ID]; dup {
			return nil, fmt.Errorf("duplicate stash unit %q", u.ID)
		}
		c.unitByID[u.ID] = len(c.units)
		c.units = append(c.units, u)
	}

	for _, item := range doc.Items {
		if item.ID <= 0 {
			return nil, fmt.Errorf("item %q: id must be positive", item.Name)
		}
		if strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("item %d: name is required", item.ID)
		}
		if _, dup := c.byID[item.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %d", item.ID)
		}
		if item.StashUnit != "" {
			if _, ok := c.unitByID[item.StashUnit]; !ok {
				return nil, fmt.Errorf("item %d: unknown stash unit %q", item.ID, item.StashUnit)
			}
		}
		item.Interfaces = normalizeKinds(item.Interfaces)

		idx := len(c.items)
		c.items = append(c.items, item)
		c.byID[item.ID] = idx
		for _, k := range item.Interfaces {
			c.byKind[k] = append(c.byKind[k], idx)
		}
		if item.StashUnit != "" {
			c.unitToItem[item.StashUnit] = append(c.unitToItem[item.StashUnit], idx)
		}
	}

	return c, nil
}

// normalizeKinds deduplicates and orders kinds by declaration. An empty list
// means the item may appear anywhere.
func normalizeKinds(kinds []InterfaceKind) []InterfaceKind {
	if len(kinds) == 0 {
		return InterfaceKinds()
	}
	seen := make(map[InterfaceKind]bool, len(kinds))
	for _, k := range kinds {
		seen[k] = true
	}
	out := make([]InterfaceKind, 0, len(seen))
	for _, k := range InterfaceKinds() {
		if seen[k] {
			out = append(out, k)
		}
	}
	return out
}

// Items returns every item in declaration order.
func (c *Catalogue) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Item looks up an item by id.
func (c *Catalogue) Item(id int) (Item, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.items[idx], true
}

// ItemsFor returns the items that may appear in kind, in declaration order.
func (c *Catalogue) ItemsFor(kind InterfaceKind) []Item {
	return c.pick(c.byKind[kind])
}

// Contains reports whether item id is tracked for kind.
func (c *Catalogue) Contains(kind InterfaceKind, id int) bool {
	item, ok := c.Item(id)
	return ok && item.AppearsIn(kind)
}

// StashUnitFor returns the STASH unit associated with an item, if any.
func (c *Catalogue) StashUnitFor(itemID int) (StashUnit, bool) {
	item, ok := c.Item(itemID)
	if !ok || item.StashUnit == "" {
		return StashUnit{}, false
	}
	return c.StashUnit(item.StashUnit)
}

// StashUnits returns every STASH unit in declaration order.
func (c *Catalogue) StashUnits() []StashUnit {
	out := make([]StashUnit, len(c.units))
	copy(out, c.units)
	return out
}

// StashUnit looks up a STASH unit by id.
func (c *Catalogue) StashUnit(id string) (StashUnit, bool) {
	idx, ok := c.unitByID[id]
	if !ok {
		return StashUnit{}, false
	}
	return c.units[idx], true
}

// ItemsInStashUnit returns the items stored by a STASH unit.
func (c *Catalogue) ItemsInStashUnit(unitID string) []Item {
	return c.pick(c.unitToItem[unitID])
}

func (c *Catalogue) pick(indexes []int) []Item {
	out := make([]Item, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, c.items[idx])
	}
	return out
}
