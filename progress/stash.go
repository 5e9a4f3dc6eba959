package progress

import (
	"github.com/sirupsen/logrus"

	"github.com/grovetools/clueitems/catalogue"
	"github.com/grovetools/clueitems/logging"
)

// StashPersistence stores the filled flag of STASH units across sessions.
type StashPersistence interface {
	// LoadStashFilled returns false when the value is absent or malformed.
	LoadStashFilled(unitID string) bool
	SaveStashFilled(unitID string, filled bool) error
}

// StashStore holds the fill state of every STASH unit in the catalogue.
// Filled is persisted; built is learned per session from the host and is
// never persisted.
type StashStore struct {
	cat     *catalogue.Catalogue
	persist StashPersistence
	filled  map[string]bool
	built   map[string]bool
	logger  *logrus.Entry
}

// NewStashStore creates a store and loads the persisted filled flags.
// A nil persistence keeps everything in memory.
func NewStashStore(cat *catalogue.Catalogue, persist StashPersistence) *StashStore {
	s := &StashStore{
		cat:     cat,
		persist: persist,
		logger:  logging.NewLogger("stash-store"),
	}
	s.Reload()
	return s
}

// Reload re-reads every persisted filled flag and forgets built flags.
func (s *StashStore) Reload() {
	s.filled = make(map[string]bool)
	s.built = make(map[string]bool)
	if s.persist == nil {
		return
	}
	for _, u := range s.cat.StashUnits() {
		if s.persist.LoadStashFilled(u.ID) {
			s.filled[u.ID] = true
		}
	}
}

// SetFilled records and persists the filled flag. A persistence failure is
// logged; the in-memory value still changes.
func (s *StashStore) SetFilled(unitID string, filled bool) {
	if _, ok := s.cat.StashUnit(unitID); !ok {
		return
	}
	s.filled[unitID] = filled
	if s.persist == nil {
		return
	}
	if err := s.persist.SaveStashFilled(unitID, filled); err != nil {
		s.logger.WithError(err).WithField("unit", unitID).Warn("Failed to persist STASH fill state")
	}
}

// IsFilled reports whether the unit holds its items.
func (s *StashStore) IsFilled(unitID string) bool {
	return s.filled[unitID]
}

// SetBuilt records whether the unit is built this session.
func (s *StashStore) SetBuilt(unitID string, built bool) {
	if _, ok := s.cat.StashUnit(unitID); !ok {
		return
	}
	s.built[unitID] = built
}

// IsBuilt reports whether the unit is known to be built this session.
func (s *StashStore) IsBuilt(unitID string) bool {
	return s.built[unitID]
}
