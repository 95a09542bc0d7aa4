package scheduler

import "errors"

// ErrEmptyRoster is returned when a side has no participants.
var ErrEmptyRoster = errors.New("roster is empty")
