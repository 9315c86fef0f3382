package types

import (
	"fmt"
	"iter"
	"strings"

	"github.com/elliotchance/orderedmap/v3"
)

// AddressBook is an insertion-ordered collection of Records keyed by name.
// It is not safe for concurrent use.
type AddressBook struct {
	records *orderedmap.OrderedMap[string, *Record]
}

// NewAddressBook returns an empty address book.
func NewAddressBook() *AddressBook {
	return &AddressBook{records: orderedmap.NewOrderedMap[string, *Record]()}
}

// AddRecord stores r under its name. An existing record with the same name
// is replaced wholesale and keeps its position in iteration order.
func (b *AddressBook) AddRecord(r *Record) {
	b.records.Set(r.name.value, r)
}

// GetRecord returns the record stored under name.
// Returns ErrNameNotFound if there is none.
func (b *AddressBook) GetRecord(name string) (*Record, error) {
	r, ok := b.records.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNameNotFound, name)
	}
	return r, nil
}

// Has reports whether a record is stored under name.
func (b *AddressBook) Has(name string) bool {
	return b.records.Has(name)
}

// Len returns the number of records.
func (b *AddressBook) Len() int {
	return b.records.Len()
}

// All yields every record in insertion order.
func (b *AddressBook) All() iter.Seq[*Record] {
	return b.records.Values()
}

// Match is one result of Find: the record and the phones that matched.
// When the name matched, Phones holds every phone of the record.
type Match struct {
	Record *Record
	Phones []Phone
	ByName bool
}

func (m Match) String() string {
	values := make([]string, len(m.Phones))
	for i, p := range m.Phones {
		values[i] = p.value
	}
	return m.Record.name.value + ": " + strings.Join(values, ", ")
}

// Find returns, in insertion order, the records whose name contains query
// case-insensitively, and for the remaining records the phones containing
// query. Records matching neither way are omitted.
func (b *AddressBook) Find(query string) []Match {
	needle := strings.ToLower(query)
	var matches []Match
	for r := range b.records.Values() {
		if strings.Contains(strings.ToLower(r.name.value), needle) {
			matches = append(matches, Match{Record: r, Phones: r.Phones(), ByName: true})
			continue
		}
		var phones []Phone
		for _, p := range r.phones {
			if strings.Contains(p.value, query) {
				phones = append(phones, p)
			}
		}
		if len(phones) > 0 {
			matches = append(matches, Match{Record: r, Phones: phones})
		}
	}
	return matches
}

// Paginate returns a Pager over the current records in pages of at most
// pageSize. A pageSize below 1 is treated as 1. The pager works on a
// snapshot taken now; later changes to the book are not reflected.
func (b *AddressBook) Paginate(pageSize int) *Pager {
	if pageSize < 1 {
		pageSize = 1
	}
	snapshot := make([]*Record, 0, b.records.Len())
	for r := range b.records.Values() {
		snapshot = append(snapshot, r)
	}
	return &Pager{records: snapshot, size: pageSize}
}

// Page is one page of records in book order.
type Page struct {
	records []*Record
}

// Records returns the records on the page in order.
func (p Page) Records() []*Record {
	out := make([]*Record, len(p.records))
	copy(out, p.records)
	return out
}

// Names returns the record names on the page in order.
func (p Page) Names() []string {
	names := make([]string, len(p.records))
	for i, r := range p.records {
		names[i] = r.name.value
	}
	return names
}

// Get returns the record named name if it is on the page.
func (p Page) Get(name string) (*Record, bool) {
	for _, r := range p.records {
		if r.name.value == name {
			return r, true
		}
	}
	return nil, false
}

// Len returns the number of records on the page.
func (p Page) Len() int { return len(p.records) }

// Pager yields pages of an AddressBook snapshot. It is single-use: once
// exhausted it stays exhausted; call Paginate again to start over.
type Pager struct {
	records []*Record
	size    int
	next    int
}

// Next returns the next page and true, or an empty page and false when all
// records have been returned.
func (p *Pager) Next() (Page, bool) {
	if p.next >= len(p.records) {
		return Page{}, false
	}
	end := min(p.next+p.size, len(p.records))
	page := Page{records: p.records[p.next:end]}
	p.next = end
	return page, true
}

// Pages adapts the pager to a range-over-func sequence. It consumes the
// same underlying pager, so it is single-use too.
func (p *Pager) Pages() iter.Seq[Page] {
	return func(yield func(Page) bool) {
		for {
			page, ok := p.Next()
			if !ok || !yield(page) {
				return
			}
		}
	}
}

// PageCount returns the total number of pages the pager covers.
func (p *Pager) PageCount() int {
	return (len(p.records) + p.size - 1) / p.size
}
