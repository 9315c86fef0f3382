// JSONL loading for startup.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// loadAllJSONL reads contacts.jsonl from dataDir and inserts each contact
// and its phones into SQLite in one transaction. Malformed lines and
// records that violate constraints (duplicate names or IDs) are skipped.
// Lines without a contact_id get a fresh one; unknown fields are ignored.
// A missing file loads nothing. Returns the number of contacts loaded.
func loadAllJSONL(db *sql.DB, dataDir string) (int, error) {
	contacts, err := readContacts(filepath.Join(dataDir, contactsJSONL))
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", contactsJSONL, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	contactStmt, err := tx.Prepare("INSERT INTO contacts (contact_id, name, birthday, position) VALUES (?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing contact insert: %w", err)
	}
	defer contactStmt.Close()

	phoneStmt, err := tx.Prepare("INSERT INTO phones (contact_id, ordinal, phone) VALUES (?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing phone insert: %w", err)
	}
	defer phoneStmt.Close()

	loaded := 0
	for _, c := range contacts {
		if c.ContactID == "" {
			c.ContactID = generateUUID()
		}
		if _, err := contactStmt.Exec(c.ContactID, c.Name, c.Birthday, loaded); err != nil {
			continue
		}
		for i, p := range c.Phones {
			if _, err := phoneStmt.Exec(c.ContactID, i, p); err != nil {
				return 0, fmt.Errorf("loading phones for %q: %w", c.Name, err)
			}
		}
		loaded++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing load transaction: %w", err)
	}
	return loaded, nil
}
