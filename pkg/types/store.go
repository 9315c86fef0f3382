package types

import "errors"

// Store persists a whole AddressBook. Callers attach to a backend, load the
// book once, mutate it in memory, save it on the way out and detach.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Load returns every stored contact as a new AddressBook. An empty data
	// directory yields an empty book.
	Load() (*AddressBook, error)

	// Save replaces the stored contacts with the contents of book.
	Save(book *AddressBook) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, Load and Save return ErrStoreDetached.
	Detach() error
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
