package catalogue

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// InterfaceKind identifies a game interface that can display catalogue items.
type InterfaceKind int

// Declaration order is significant: notifications and listings follow it.
const (
	Bank InterfaceKind = iota
	Inventory
	Equipment
	DepositBox
	GuidePrices
	KeptOnDeath
	Shop
	GroupStorage
)

var interfaceNames = [...]string{
	Bank:         "bank",
	Inventory:    "inventory",
	Equipment:    "equipment",
	DepositBox:   "deposit box",
	GuidePrices:  "guide prices",
	KeptOnDeath:  "kept on death",
	Shop:         "shop",
	GroupStorage: "group storage",
}

// InterfaceKinds returns every interface kind in declaration order.
func InterfaceKinds() []InterfaceKind {
	kinds := make([]InterfaceKind, 0, len(interfaceNames))
	for k := range interfaceNames {
		kinds = append(kinds, InterfaceKind(k))
	}
	return kinds
}

// TrackableKinds returns the kinds that feed the collection log, in declaration order.
func TrackableKinds() []InterfaceKind {
	var kinds []InterfaceKind
	for _, k := range InterfaceKinds() {
		if k.Trackable() {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Trackable reports whether item quantities in this interface count toward
// collection progress. The remaining kinds are highlight-only.
func (k InterfaceKind) Trackable() bool {
	switch k {
	case Bank, Inventory, Equipment, GroupStorage:
		return true
	default:
		return false
	}
}

// Valid reports whether k is one of the declared kinds.
func (k InterfaceKind) Valid() bool {
	return k >= 0 && int(k) < len(interfaceNames)
}

// String returns the human-readable name, e.g. "group storage".
func (k InterfaceKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("interface(%d)", int(k))
	}
	return interfaceNames[k]
}

// ParseInterfaceKind resolves a human-readable name. Matching ignores case and
// accepts underscores or dashes in place of spaces.
func ParseInterfaceKind(name string) (InterfaceKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("_", " ", "-", " ").Replace(normalized)
	for k, n := range interfaceNames {
		if n == normalized {
			return InterfaceKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown interface %q", name)
}

// UnmarshalYAML decodes an interface kind from its name.
func (k *InterfaceKind) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseInterfaceKind(name)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML encodes an interface kind as its name.
func (k InterfaceKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}
