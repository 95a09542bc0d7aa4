package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrNotStarted  = errors.New("service not started")
	ErrJobNotFound = errors.New("job not found")
	ErrInvalidJob  = errors.New("invalid job request")
)
