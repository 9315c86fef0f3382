// Package sqlite provides the public factory for the SQLite contact store.
// Implementation details stay in internal/sqlite.
package sqlite

import (
	"github.com/mesh-intelligence/phonebook/internal/logger"
	"github.com/mesh-intelligence/phonebook/internal/sqlite"
	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// NewBackend creates a new SQLite store. The store is not attached; call
// Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend(nil)
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".phonebook-db",
//	})
//	defer store.Detach()
func NewBackend(log *logger.Logger) types.Store {
	return sqlite.NewBackend(sqlite.WithLogger(log))
}

// Open returns a store already attached to cfg.
func Open(cfg types.Config, log *logger.Logger) (types.Store, error) {
	store := NewBackend(log)
	if err := store.Attach(cfg); err != nil {
		return nil, err
	}
	return store, nil
}
