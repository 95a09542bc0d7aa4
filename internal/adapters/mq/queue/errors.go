package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrQueueFull = errors.New("job queue is full")
)
