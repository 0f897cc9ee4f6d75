package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/pagesmith/internal/pipeline"
)

// ErrMalformedRequest indicates the request body could not be parsed or
// failed shape validation. No downstream component has run.
type ErrMalformedRequest struct {
	Reason error
}

func (e *ErrMalformedRequest) Error() string {
	return fmt.Sprintf("Invalid JSON: %v", e.Reason)
}

func (e *ErrMalformedRequest) Unwrap() error {
	return e.Reason
}

// ErrInvalidSecret indicates the shared-secret check failed. No
// downstream component has run.
type ErrInvalidSecret struct{}

func (e *ErrInvalidSecret) Error() string {
	return "invalid secret"
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Pipeline stage failures all map to 500; the stage distinction lives
// in the message and the logs, not the status.
func HTTPStatus(err error) int {
	var malformed *ErrMalformedRequest
	if errors.As(err, &malformed) {
		return http.StatusBadRequest
	}
	var invalidSecret *ErrInvalidSecret
	if errors.As(err, &invalidSecret) {
		return http.StatusForbidden
	}
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
