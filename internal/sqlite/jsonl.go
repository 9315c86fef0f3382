package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// contactsJSONL is the file name of the contact store inside DataDir.
const contactsJSONL = "contacts.jsonl"

// maxLineSize bounds one contact line.
const maxLineSize = 1 << 20

// readContacts decodes every line of a contacts JSONL file. Blank lines and
// lines that do not decode into a contact are skipped.
func readContacts(path string) ([]contactJSON, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var contacts []contactJSON
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var c contactJSON
		if err := json.Unmarshal(line, &c); err != nil {
			continue
		}
		contacts = append(contacts, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return contacts, nil
}

// writeContacts replaces the file at path with one JSON line per contact.
// The file is written to a temp file in the same directory, synced and
// renamed over path, so readers see either the old or the new contents.
func writeContacts(path string, contacts []contactJSON) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".contacts-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, c := range contacts {
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("encoding contact %q: %w", c.Name, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// ensureFile creates an empty file at path if none exists.
func ensureFile(path string) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return nil
	case os.IsNotExist(err):
		return os.WriteFile(path, nil, 0o644)
	default:
		return fmt.Errorf("stat %s: %w", path, err)
	}
}
