package sqlite

// Birthdays are stored as ISO dates in both SQLite and JSONL.
const birthdayLayout = "2006-01-02"

// contactJSON is one line of contacts.jsonl. Line order is book order.
type contactJSON struct {
	ContactID string   `json:"contact_id"`
	Name      string   `json:"name"`
	Phones    []string `json:"phones"`
	Birthday  *string  `json:"birthday"`
}
