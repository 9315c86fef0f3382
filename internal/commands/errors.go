package commands

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// Dispatch errors.
var (
	ErrExit           = errors.New("exit requested")
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingArgs    = errors.New("missing arguments")
)

// UserError carries a ready-to-print message for a failed command. It
// unwraps to the underlying cause.
type UserError struct {
	Msg string
	Err error
}

func (e *UserError) Error() string { return e.Msg }

func (e *UserError) Unwrap() error { return e.Err }

// userErrors are the causes reported back to the user as a message rather
// than treated as a failure of the program.
var userErrors = []error{
	ErrUnknownCommand,
	ErrMissingArgs,
	types.ErrNameNotFound,
	types.ErrPhoneNotFound,
	types.ErrNoBirthdaySet,
	types.ErrInvalidPhoneFormat,
	types.ErrInvalidBirthday,
}

// Message maps a command error to the line shown to the user.
func Message(err error) string {
	var ue *UserError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ue):
		return ue.Msg
	case errors.Is(err, ErrExit):
		return "Work done. Bye!"
	case errors.Is(err, ErrUnknownCommand):
		return "Command isn't correct!"
	case errors.Is(err, ErrMissingArgs):
		return "Error. You should enter Name and/or Phone after command divided by space!"
	case errors.Is(err, types.ErrNameNotFound):
		return "There is no such Name in Phone Book"
	case errors.Is(err, types.ErrInvalidPhoneFormat):
		return `Please enter phone number as 12 digits in format: "XXXXXXXXXXXX"`
	case errors.Is(err, types.ErrInvalidBirthday):
		return "Please enter birth date in format: DD-MM-YYYY"
	case errors.Is(err, types.ErrNoBirthdaySet):
		return "No birthday set. Use: birthday <name> <DD-MM-YYYY>"
	default:
		return fmt.Sprintf("Error %v! Enter command once again, please.", err)
	}
}

// IsUserError reports whether err was caused by user input.
func IsUserError(err error) bool {
	var ue *UserError
	if errors.As(err, &ue) {
		return true
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
