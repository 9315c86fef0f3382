package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// BirthdayPolicy controls what NewBirthday does with a value that does not
// parse as DD-MM-YYYY.
type BirthdayPolicy string

// Birthday policies.
const (
	// BirthdayLenient leaves the birthday unset and reports no error.
	BirthdayLenient BirthdayPolicy = "lenient"
	// BirthdayStrict rejects the value with ErrInvalidBirthday.
	BirthdayStrict BirthdayPolicy = "strict"
)

// Date layouts. Input accepts one or two digit day and month.
const (
	birthdayInputLayout   = "2-1-2006"
	birthdayDisplayLayout = "02-01-2006"
)

// phoneRule is the validator tag a phone value must satisfy: twelve ASCII
// decimal digits.
const phoneRule = "required,number,len=12"

// validate is shared by all field constructors; validator caches parsed tags.
var validate = validator.New()

// Name is a contact name. Any string is accepted.
type Name struct {
	value string
}

// NewName wraps raw verbatim.
func NewName(raw string) Name {
	return Name{value: raw}
}

// Value returns the name as entered.
func (n Name) Value() string { return n.value }

func (n Name) String() string { return n.value }

// Phone is a validated phone number. The zero value is not a valid phone;
// obtain one through NewPhone. Phones compare with ==.
type Phone struct {
	value string
}

// NewPhone returns a Phone when raw is exactly 12 decimal digits. Any other
// input yields a *ValidationError wrapping ErrInvalidPhoneFormat.
func NewPhone(raw string) (Phone, error) {
	if err := validate.Var(raw, phoneRule); err != nil {
		return Phone{}, &ValidationError{Field: "phone", Value: raw, Err: ErrInvalidPhoneFormat}
	}
	return Phone{value: raw}, nil
}

// Value returns the digits of the phone.
func (p Phone) Value() string { return p.value }

func (p Phone) String() string { return p.value }

// Birthday is an optional calendar date. The zero value is unset.
type Birthday struct {
	date time.Time
	set  bool
}

// NewBirthday parses raw as DD-MM-YYYY. An empty raw yields an unset
// birthday. A value that does not parse is handled per policy: lenient
// returns an unset birthday and nil, strict returns a *ValidationError
// wrapping ErrInvalidBirthday. An unrecognized policy behaves as lenient.
func NewBirthday(raw string, policy BirthdayPolicy) (Birthday, error) {
	if raw == "" {
		return Birthday{}, nil
	}
	t, err := time.Parse(birthdayInputLayout, raw)
	if err != nil {
		if policy == BirthdayStrict {
			return Birthday{}, &ValidationError{Field: "birthday", Value: raw, Err: ErrInvalidBirthday}
		}
		return Birthday{}, nil
	}
	return BirthdayOf(t), nil
}

// BirthdayOf returns a set birthday for the calendar date of t. The time of
// day is kept; parsed input is always midnight UTC.
func BirthdayOf(t time.Time) Birthday {
	return Birthday{date: t, set: true}
}

// IsSet reports whether the birthday holds a date.
func (b Birthday) IsSet() bool { return b.set }

// Date returns the stored date and whether it is set.
func (b Birthday) Date() (time.Time, bool) { return b.date, b.set }

// String formats the birthday as DD-MM-YYYY, or "" when unset.
func (b Birthday) String() string {
	if !b.set {
		return ""
	}
	return b.date.Format(birthdayDisplayLayout)
}

// Equal reports whether both birthdays are unset or fall on the same
// calendar date.
func (b Birthday) Equal(o Birthday) bool {
	if b.set != o.set {
		return false
	}
	if !b.set {
		return true
	}
	by, bm, bd := b.date.Date()
	oy, om, od := o.date.Date()
	return by == oy && bm == om && bd == od
}
