package roster

import "errors"

// Sentinel kinds for roster errors.
var (
	ErrNotFound           = errors.New("participant not found")
	ErrProtected          = errors.New("official participants are read-only")
	ErrInvalidName        = errors.New("participant name is required")
	ErrUnknownWeightClass = errors.New("unknown weight class")
)
