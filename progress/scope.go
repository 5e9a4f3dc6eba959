package progress

import (
	"github.com/grovetools/clueitems/catalogue"
	"github.com/grovetools/clueitems/config"
)

// Scope records which interfaces count toward collection progress and
// whether items stored in filled STASH units count as owned.
// Changing it does not recompute anything; the engine does that.
type Scope struct {
	enabled     map[catalogue.InterfaceKind]bool
	stashFilter bool
}

// NewScope returns a scope with every interface disabled.
func NewScope() *Scope {
	return &Scope{enabled: make(map[catalogue.InterfaceKind]bool)}
}

// NewScopeFromConfig returns a scope initialised from plugin settings.
func NewScopeFromConfig(cfg config.Config) *Scope {
	s := NewScope()
	s.Apply(cfg)
	return s
}

// Apply copies the tracking and STASH filter settings into the scope.
func (s *Scope) Apply(cfg config.Config) {
	for _, k := range catalogue.TrackableKinds() {
		s.SetEnabled(k, cfg.Tracking(k))
	}
	s.SetStashFilterEnabled(cfg.FilterInStash)
}

// SetEnabled toggles tracking for kind. Highlight-only kinds stay disabled.
func (s *Scope) SetEnabled(kind catalogue.InterfaceKind, enabled bool) {
	if !kind.Trackable() {
		return
	}
	s.enabled[kind] = enabled
}

// IsEnabled reports whether kind is tracked.
func (s *Scope) IsEnabled(kind catalogue.InterfaceKind) bool {
	return s.enabled[kind]
}

// EnabledKinds returns the tracked kinds in declaration order.
func (s *Scope) EnabledKinds() []catalogue.InterfaceKind {
	var out []catalogue.InterfaceKind
	for _, k := range catalogue.TrackableKinds() {
		if s.enabled[k] {
			out = append(out, k)
		}
	}
	return out
}

// SetStashFilterEnabled toggles the STASH override.
func (s *Scope) SetStashFilterEnabled(enabled bool) {
	s.stashFilter = enabled
}

// StashFilterEnabled reports whether the STASH override is on.
func (s *Scope) StashFilterEnabled() bool {
	return s.stashFilter
}
