package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/universus/internal/adapters/mq/queue"
	"github.com/okian/universus/internal/adapters/repository"
	service "github.com/okian/universus/internal/app"
	"github.com/okian/universus/internal/domain/simulation"
	"github.com/okian/universus/internal/roster"
)

// ErrBadRequest marks a body that failed to decode or validate.
var ErrBadRequest = errors.New("bad request")

// classify maps a domain error to a status and error code.
func classify(err error) (int, string) {
	var verr *simulation.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, roster.ErrInvalidName),
		errors.Is(err, roster.ErrUnknownWeightClass),
		errors.Is(err, service.ErrInvalidJob):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, roster.ErrNotFound), errors.Is(err, service.ErrJobNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, roster.ErrProtected):
		return http.StatusForbidden, "protected"
	case errors.Is(err, queue.ErrQueueFull):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, service.ErrNotStarted),
		errors.Is(err, repository.ErrClosed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
