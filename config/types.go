package config

import (
	"github.com/grovetools/clueitems/catalogue"
)

// Group is the configuration group every persisted key lives under.
const Group = "emote-clue-items"

// Setting keys as persisted in the profile and delivered by config-changed events.
const (
	KeyShowNavigation           = "ShowNavigation"
	KeyHighlightBank            = "HighlightBank"
	KeyHighlightInventory       = "HighlightInventory"
	KeyHighlightDepositBox      = "HighlightDepositBox"
	KeyHighlightEquipment       = "HighlightEquipment"
	KeyHighlightGuidePrices     = "HighlightGuidePrices"
	KeyHighlightKeptOnDeath     = "HighlightKeptOnDeath"
	KeyHighlightShop            = "HighlightShop"
	KeyHighlightGroupStorage    = "HighlightGroupStorage"
	KeyFilterInStash            = "FilterInStash"
	KeyTrackBank                = "TrackBank"
	KeyTrackInventory           = "TrackInventory"
	KeyTrackEquipment           = "TrackEquipment"
	KeyTrackGroupStorage        = "TrackGroupStorage"
	KeyNotifyUnopenedInterfaces = "NotifyUnopenedInterfaces"
)

// stashKeyPrefix prefixes the per-unit STASH filled keys.
const stashKeyPrefix = "StashUnitFilled."

// StashFilledKey returns the persisted key of a STASH unit's filled flag.
func StashFilledKey(unitID string) string {
	return stashKeyPrefix + unitID
}

// Config holds the plugin settings.
type Config struct {
	ShowNavigation bool `key:"ShowNavigation" yaml:"show_navigation" toml:"show_navigation" jsonschema:"description=Show the collection log panel in the toolbar"`

	HighlightBank         bool `key:"HighlightBank" yaml:"highlight_bank" toml:"highlight_bank" jsonschema:"description=Show highlights on the bank interface"`
	HighlightInventory    bool `key:"HighlightInventory" yaml:"highlight_inventory" toml:"highlight_inventory" jsonschema:"description=Show highlights on the inventory interface"`
	HighlightDepositBox   bool `key:"HighlightDepositBox" yaml:"highlight_deposit_box" toml:"highlight_deposit_box" jsonschema:"description=Show highlights on the deposit box interface"`
	HighlightEquipment    bool `key:"HighlightEquipment" yaml:"highlight_equipment" toml:"highlight_equipment" jsonschema:"description=Show highlights on the equipment interface"`
	HighlightGuidePrices  bool `key:"HighlightGuidePrices" yaml:"highlight_guide_prices" toml:"highlight_guide_prices" jsonschema:"description=Show highlights on the guide prices interface"`
	HighlightKeptOnDeath  bool `key:"HighlightKeptOnDeath" yaml:"highlight_kept_on_death" toml:"highlight_kept_on_death" jsonschema:"description=Show highlights on the kept on death interface"`
	HighlightShop         bool `key:"HighlightShop" yaml:"highlight_shop" toml:"highlight_shop" jsonschema:"description=Show highlights on shop interfaces"`
	HighlightGroupStorage bool `key:"HighlightGroupStorage" yaml:"highlight_group_storage" toml:"highlight_group_storage" jsonschema:"description=Show highlights on group storage"`

	FilterInStash bool `key:"FilterInStash" yaml:"filter_in_stash" toml:"filter_in_stash" jsonschema:"description=Treat items stored in filled STASH units as collected"`

	TrackBank         bool `key:"TrackBank" yaml:"track_bank" toml:"track_bank" jsonschema:"description=Include bank items in the collection log"`
	TrackInventory    bool `key:"TrackInventory" yaml:"track_inventory" toml:"track_inventory" jsonschema:"description=Include inventory items in the collection log"`
	TrackEquipment    bool `key:"TrackEquipment" yaml:"track_equipment" toml:"track_equipment" jsonschema:"description=Include equipped items in the collection log"`
	TrackGroupStorage bool `key:"TrackGroupStorage" yaml:"track_group_storage" toml:"track_group_storage" jsonschema:"description=Include group storage items in the collection log"`

	NotifyUnopenedInterfaces bool `key:"NotifyUnopenedInterfaces" yaml:"notify_unopened_interfaces" toml:"notify_unopened_interfaces" jsonschema:"description=Notify about tracked interfaces that have not been opened yet"`
}

// Defaults returns the settings used when nothing is persisted.
func Defaults() Config {
	return Config{
		ShowNavigation:           true,
		HighlightBank:            true,
		HighlightInventory:       true,
		FilterInStash:            true,
		TrackBank:                true,
		TrackInventory:           true,
		TrackEquipment:           true,
		TrackGroupStorage:        false,
		NotifyUnopenedInterfaces: true,
	}
}

// Tracking reports whether kind counts toward the collection log.
func (c Config) Tracking(kind catalogue.InterfaceKind) bool {
	switch kind {
	case catalogue.Bank:
		return c.TrackBank
	case catalogue.Inventory:
		return c.TrackInventory
	case catalogue.Equipment:
		return c.TrackEquipment
	case catalogue.GroupStorage:
		return c.TrackGroupStorage
	default:
		return false
	}
}

// Highlighting reports whether items should be highlighted in kind.
func (c Config) Highlighting(kind catalogue.InterfaceKind) bool {
	switch kind {
	case catalogue.Bank:
		return c.HighlightBank
	case catalogue.Inventory:
		return c.HighlightInventory
	case catalogue.Equipment:
		return c.HighlightEquipment
	case catalogue.DepositBox:
		return c.HighlightDepositBox
	case catalogue.GuidePrices:
		return c.HighlightGuidePrices
	case catalogue.KeptOnDeath:
		return c.HighlightKeptOnDeath
	case catalogue.Shop:
		return c.HighlightShop
	case catalogue.GroupStorage:
		return c.HighlightGroupStorage
	default:
		return false
	}
}

// TrackingKey returns the setting key that toggles tracking of kind.
func TrackingKey(kind catalogue.InterfaceKind) (string, bool) {
	switch kind {
	case catalogue.Bank:
		return KeyTrackBank, true
	case catalogue.Inventory:
		return KeyTrackInventory, true
	case catalogue.Equipment:
		return KeyTrackEquipment, true
	case catalogue.GroupStorage:
		return KeyTrackGroupStorage, true
	default:
		return "", false
	}
}
