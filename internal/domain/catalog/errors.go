package catalog

import "errors"

var (
	// ErrEmptyCatalog is returned when no sport is configured.
	ErrEmptyCatalog = errors.New("sport catalog is empty")
	// ErrDuplicateSport is returned when two sports share a name.
	ErrDuplicateSport = errors.New("duplicate sport name")
)
