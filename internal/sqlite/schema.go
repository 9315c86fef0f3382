// Package sqlite implements the phone book Store on top of SQLite.
// contacts.jsonl in the data directory is the source of truth; the SQLite
// database is rebuilt from it on every Attach and used to hydrate and
// dehydrate the AddressBook.
package sqlite

// Schema DDL.
const (
	createContacts = `CREATE TABLE contacts (
    contact_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    birthday TEXT,
    position INTEGER NOT NULL
);`

	createPhones = `CREATE TABLE phones (
    contact_id TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    phone TEXT NOT NULL,
    PRIMARY KEY (contact_id, ordinal),
    FOREIGN KEY (contact_id) REFERENCES contacts(contact_id) ON DELETE CASCADE
);`
)

// Index DDL.
const (
	idxContactsPosition = `CREATE INDEX idx_contacts_position ON contacts(position);`
	idxPhonesPhone      = `CREATE INDEX idx_phones_phone ON phones(phone);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createContacts,
	createPhones,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxContactsPosition,
	idxPhonesPhone,
}
