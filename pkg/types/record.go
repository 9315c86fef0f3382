package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is one contact: a name, an ordered list of phones and an optional
// birthday. The name is the record's identity within an AddressBook and
// never changes.
type Record struct {
	id       string
	name     Name
	phones   []Phone
	birthday Birthday
}

// NewRecord creates a record with no phones. The birthday is parsed with
// NewBirthday under policy; an error is only possible with BirthdayStrict.
func NewRecord(name, birthday string, policy BirthdayPolicy) (*Record, error) {
	b, err := NewBirthday(birthday, policy)
	if err != nil {
		return nil, err
	}
	return &Record{id: newContactID(), name: NewName(name), birthday: b}, nil
}

// RestoreRecord rebuilds a record from stored values. Used by storage
// backends; phones are appended in the given order. An empty id gets a new
// one.
func RestoreRecord(id, name string, phones []Phone, birthday Birthday) *Record {
	if id == "" {
		id = newContactID()
	}
	r := &Record{id: id, name: NewName(name), birthday: birthday}
	r.phones = append(r.phones, phones...)
	return r
}

// newContactID returns a UUID v7 string, falling back to v4.
func newContactID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// ID returns the storage key of the record.
func (r *Record) ID() string { return r.id }

// Name returns the record's name field.
func (r *Record) Name() Name { return r.name }

// Phones returns a copy of the phone list in insertion order.
func (r *Record) Phones() []Phone {
	out := make([]Phone, len(r.phones))
	copy(out, r.phones)
	return out
}

// Birthday returns the birthday field, which may be unset.
func (r *Record) Birthday() Birthday { return r.birthday }

// AddPhone validates raw and appends it. Duplicates are allowed.
func (r *Record) AddPhone(raw string) error {
	p, err := NewPhone(raw)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// FindPhone returns the first phone whose value equals raw.
func (r *Record) FindPhone(raw string) (Phone, bool) {
	for _, p := range r.phones {
		if p.value == raw {
			return p, true
		}
	}
	return Phone{}, false
}

// RemovePhone removes the first phone equal to p.
// Returns ErrPhoneNotFound if the record has no such phone.
func (r *Record) RemovePhone(p Phone) error {
	for i, existing := range r.phones {
		if existing == p {
			r.phones = append(r.phones[:i], r.phones[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q for %q", ErrPhoneNotFound, p.value, r.name.value)
}

// EditPhone replaces old with newRaw by removing old and then adding newRaw.
// The two steps are not atomic: when newRaw fails validation the error is
// returned and old stays removed.
func (r *Record) EditPhone(old Phone, newRaw string) error {
	if err := r.RemovePhone(old); err != nil {
		return err
	}
	return r.AddPhone(newRaw)
}

// SetBirthday parses raw under policy and stores the result. Under the
// lenient policy an unparsable value clears the birthday.
func (r *Record) SetBirthday(raw string, policy BirthdayPolicy) error {
	b, err := NewBirthday(raw, policy)
	if err != nil {
		return err
	}
	r.birthday = b
	return nil
}

// DaysToBirthday returns the number of days from today until the next
// occurrence of the birthday. See DaysToBirthdayAt.
func (r *Record) DaysToBirthday() (int, error) {
	return r.DaysToBirthdayAt(time.Now())
}

// DaysToBirthdayAt counts calendar days from the date of now to the next
// occurrence of the birthday's month and day. A birthday falling on now's
// date yields 0; one that already passed this year counts to next year.
// 29 February is observed on 28 February in non-leap years.
// Returns ErrNoBirthdaySet when the record has no birthday.
func (r *Record) DaysToBirthdayAt(now time.Time) (int, error) {
	born, ok := r.birthday.Date()
	if !ok {
		return 0, fmt.Errorf("%w for %q", ErrNoBirthdaySet, r.name.value)
	}
	today := civilDate(now.Year(), now.Month(), now.Day())
	next := occurrence(born, now.Year())
	if next.Before(today) {
		next = occurrence(born, now.Year()+1)
	}
	return int(next.Sub(today).Hours() / 24), nil
}

// occurrence returns the birthday's month and day in year as a UTC date.
func occurrence(born time.Time, year int) time.Time {
	month, day := born.Month(), born.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return civilDate(year, month, day)
}

func civilDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// String renders "<name>: <phone1>, <phone2>, ...".
func (r *Record) String() string {
	values := make([]string, len(r.phones))
	for i, p := range r.phones {
		values[i] = p.value
	}
	return r.name.value + ": " + strings.Join(values, ", ")
}
