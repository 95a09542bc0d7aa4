package simulation

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for request validation.
var (
	ErrUnknownParticipant   = errors.New("unknown participant")
	ErrUnknownSport         = errors.New("unknown sport")
	ErrEmptySide            = errors.New("side has no participants")
	ErrDuplicateParticipant = errors.New("participant listed twice on one side")
	ErrLineupSize           = errors.New("lineup does not fit the sport")
)

// ValidationError reports a request rejected before anything ran.
type ValidationError struct {
	Field string   // request field at fault, e.g. "side1"
	Names []string // offending participant names, if any
	Cause error    // one of the sentinel kinds above
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Names) == 0 {
		return fmt.Sprintf("%s: %v", e.Field, e.Cause)
	}
	return fmt.Sprintf("%s: %v: %s", e.Field, e.Cause, strings.Join(e.Names, ", "))
}

// Unwrap returns the sentinel kind.
func (e *ValidationError) Unwrap() error { return e.Cause }

func invalid(field string, cause error, names ...string) *ValidationError {
	return &ValidationError{Field: field, Names: names, Cause: cause}
}
