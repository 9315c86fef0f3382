package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/phonebook/internal/logger"
	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// dbFileName is the SQLite database file inside DataDir. It is recreated on
// every Attach; contacts.jsonl is the durable copy.
const dbFileName = "phonebook.db"

// Compile-time interface check.
var _ types.Store = (*Backend)(nil)

// Backend implements types.Store using SQLite as the query engine and a
// JSONL file as the source of truth.
type Backend struct {
	mu       sync.Mutex
	attached bool
	config   types.Config
	db       *sql.DB
	log      *logger.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for load/save diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.log = l
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{log: logger.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, recreates the SQLite schema, creates
// an empty contacts.jsonl if missing and loads it into SQLite.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// Start from a fresh database; the JSONL file is authoritative.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	// One connection keeps PRAGMAs and the single-writer model simple.
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return err
	}

	if err := ensureFile(filepath.Join(dataDir, contactsJSONL)); err != nil {
		db.Close()
		return err
	}

	loaded, err := loadAllJSONL(db, dataDir)
	if err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.config.DataDir = dataDir
	b.attached = true

	b.log.Debug("store attached", "data_dir", dataDir, "contacts", loaded)
	return nil
}

// createSchema runs the table and index DDL with foreign keys enabled.
func createSchema(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enabling foreign keys: %w", err)
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}

// Load hydrates an AddressBook from SQLite in stored order. Phones that no
// longer pass validation and unparsable birthdays are dropped with a warning.
// Returns ErrStoreDetached if the backend is not attached.
func (b *Backend) Load() (*types.AddressBook, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	phones, err := b.queryPhones()
	if err != nil {
		return nil, err
	}

	rows, err := b.db.Query("SELECT contact_id, name, birthday FROM contacts ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	book := types.NewAddressBook()
	for rows.Next() {
		var id, name string
		var birthday sql.NullString
		if err := rows.Scan(&id, &name, &birthday); err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		book.AddRecord(types.RestoreRecord(id, name, b.hydratePhones(name, phones[id]), b.hydrateBirthday(name, birthday)))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contacts: %w", err)
	}

	b.log.Debug("address book loaded", "contacts", book.Len())
	return book, nil
}

// queryPhones returns raw phone values keyed by contact ID, in ordinal order.
func (b *Backend) queryPhones() (map[string][]string, error) {
	rows, err := b.db.Query("SELECT contact_id, phone FROM phones ORDER BY contact_id, ordinal")
	if err != nil {
		return nil, fmt.Errorf("querying phones: %w", err)
	}
	defer rows.Close()

	phones := make(map[string][]string)
	for rows.Next() {
		var id, phone string
		if err := rows.Scan(&id, &phone); err != nil {
			return nil, fmt.Errorf("scanning phone: %w", err)
		}
		phones[id] = append(phones[id], phone)
	}
	return phones, rows.Err()
}

func (b *Backend) hydratePhones(name string, raw []string) []types.Phone {
	out := make([]types.Phone, 0, len(raw))
	for _, v := range raw {
		p, err := types.NewPhone(v)
		if err != nil {
			b.log.Warn("dropping stored phone", "name", name, "phone", v, "error", err)
			continue
		}
		out = append(out, p)
	}
	return out
}

func (b *Backend) hydrateBirthday(name string, raw sql.NullString) types.Birthday {
	if !raw.Valid || raw.String == "" {
		return types.Birthday{}
	}
	t, err := time.Parse(birthdayLayout, raw.String)
	if err != nil {
		b.log.Warn("dropping stored birthday", "name", name, "birthday", raw.String, "error", err)
		return types.Birthday{}
	}
	return types.BirthdayOf(t)
}

// Save replaces all stored contacts with the contents of book inside one
// transaction, then rewrites contacts.jsonl atomically from SQLite.
// Returns ErrStoreDetached if the backend is not attached.
func (b *Backend) Save(book *types.AddressBook) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if book == nil {
		return errors.New("save: nil address book")
	}

	if err := b.replaceAll(book); err != nil {
		return err
	}
	if err := b.persistJSONL(); err != nil {
		return fmt.Errorf("persisting %s: %w", contactsJSONL, err)
	}

	b.log.Debug("address book saved", "contacts", book.Len())
	return nil
}

func (b *Backend) replaceAll(book *types.AddressBook) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM phones"); err != nil {
		return fmt.Errorf("clearing phones: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM contacts"); err != nil {
		return fmt.Errorf("clearing contacts: %w", err)
	}

	contactStmt, err := tx.Prepare("INSERT INTO contacts (contact_id, name, birthday, position) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing contact insert: %w", err)
	}
	defer contactStmt.Close()

	phoneStmt, err := tx.Prepare("INSERT INTO phones (contact_id, ordinal, phone) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing phone insert: %w", err)
	}
	defer phoneStmt.Close()

	position := 0
	for r := range book.All() {
		// contacts.jsonl is UTF-8; anything else would not read back as written.
		if !utf8.ValidString(r.Name().Value()) {
			return fmt.Errorf("saving contact %q: name is not valid UTF-8", r.Name().Value())
		}
		var birthday any
		if d, ok := r.Birthday().Date(); ok {
			birthday = d.Format(birthdayLayout)
		}
		if _, err := contactStmt.Exec(r.ID(), r.Name().Value(), birthday, position); err != nil {
			return fmt.Errorf("saving contact %q: %w", r.Name().Value(), err)
		}
		for i, p := range r.Phones() {
			if _, err := phoneStmt.Exec(r.ID(), i, p.Value()); err != nil {
				return fmt.Errorf("saving phone %q for %q: %w", p.Value(), r.Name().Value(), err)
			}
		}
		position++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}
	return nil
}

// persistJSONL dehydrates the contacts table into contacts.jsonl.
func (b *Backend) persistJSONL() error {
	phones, err := b.queryPhones()
	if err != nil {
		return err
	}

	rows, err := b.db.Query("SELECT contact_id, name, birthday FROM contacts ORDER BY position")
	if err != nil {
		return fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	var contacts []contactJSON
	for rows.Next() {
		var c contactJSON
		var birthday sql.NullString
		if err := rows.Scan(&c.ContactID, &c.Name, &birthday); err != nil {
			return fmt.Errorf("scanning contact: %w", err)
		}
		if birthday.Valid {
			c.Birthday = &birthday.String
		}
		c.Phones = phones[c.ContactID]
		if c.Phones == nil {
			c.Phones = []string{}
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating contacts: %w", err)
	}

	return writeContacts(filepath.Join(b.config.DataDir, contactsJSONL), contacts)
}

// Detach releases all resources held by the backend. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	b.log.Debug("store detached")
	return nil
}

// DataDir returns the directory the backend is attached to, or "" when
// detached.
func (b *Backend) DataDir() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return ""
	}
	return b.config.DataDir
}

// generateUUID generates a new UUID v7 for contacts stored without an ID.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
