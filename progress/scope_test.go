package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grovetools/clueitems/catalogue"
	"github.com/grovetools/clueitems/config"
)

func TestScope(t *testing.T) {
	s := NewScope()
	assert.Empty(t, s.EnabledKinds())
	assert.False(t, s.StashFilterEnabled())

	s.SetEnabled(catalogue.GroupStorage, true)
	s.SetEnabled(catalogue.Bank, true)
	s.SetEnabled(catalogue.KeptOnDeath, true)

	assert.Equal(t, []catalogue.InterfaceKind{catalogue.Bank, catalogue.GroupStorage}, s.EnabledKinds())
	assert.False(t, s.IsEnabled(catalogue.KeptOnDeath), "highlight-only kinds cannot be tracked")

	s.SetEnabled(catalogue.Bank, false)
	assert.False(t, s.IsEnabled(catalogue.Bank))

	s.SetStashFilterEnabled(true)
	assert.True(t, s.StashFilterEnabled())
}

func TestScopeFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.TrackEquipment = false
	cfg.TrackGroupStorage = true
	cfg.FilterInStash = false

	s := NewScopeFromConfig(cfg)
	assert.Equal(t, []catalogue.InterfaceKind{catalogue.Bank, catalogue.Inventory, catalogue.GroupStorage}, s.EnabledKinds())
	assert.False(t, s.StashFilterEnabled())

	s.Apply(config.Defaults())
	assert.Equal(t, []catalogue.InterfaceKind{catalogue.Bank, catalogue.Inventory, catalogue.Equipment}, s.EnabledKinds())
	assert.True(t, s.StashFilterEnabled())
}

func TestOpenedTracker(t *testing.T) {
	tracker := NewOpenedTracker()
	scope := NewScope()
	for _, k := range catalogue.TrackableKinds() {
		scope.SetEnabled(k, true)
	}

	assert.Equal(t, catalogue.TrackableKinds(), tracker.UnopenedTrackableInterfaces(scope))

	tracker.MarkOpened(catalogue.Equipment)
	tracker.MarkOpened(catalogue.Equipment)
	tracker.MarkOpened(catalogue.Shop)
	assert.True(t, tracker.IsOpened(catalogue.Equipment))
	assert.True(t, tracker.IsOpened(catalogue.Shop))
	assert.Equal(t,
		[]catalogue.InterfaceKind{catalogue.Bank, catalogue.Inventory, catalogue.GroupStorage},
		tracker.UnopenedTrackableInterfaces(scope))

	scope.SetEnabled(catalogue.Bank, false)
	assert.Equal(t,
		[]catalogue.InterfaceKind{catalogue.Inventory, catalogue.GroupStorage},
		tracker.UnopenedTrackableInterfaces(scope), "disabled kinds are not reported")

	tracker.Reset()
	assert.False(t, tracker.IsOpened(catalogue.Equipment))
}
