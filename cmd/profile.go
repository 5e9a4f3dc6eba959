package cmd

import (
	"fmt"

	"github.com/grovetools/clueitems/cli"
	"github.com/grovetools/clueitems/config"
	"github.com/grovetools/clueitems/errors"
	"github.com/grovetools/clueitems/internal/profiledb"
	"github.com/grovetools/clueitems/state"
)

// openProfile opens the profile selected by --store and --profile. The
// returned close function must be called once the profile is no longer used.
func openProfile(opts cli.CommandOptions) (config.Store, func() error, error) {
	switch opts.Store {
	case "", "file":
		return state.NewFile(opts.Profile), func() error { return nil }, nil
	case "sqlite":
		db, err := profiledb.OpenSQLite(opts.Profile)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown profile store %q", opts.Store)).
			WithDetail("store", opts.Store)
	}
}
