package v0

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/agentbuilder-dev/agentbuilder/pkg/registry/database"
)

// Response is a generic wrapper for Huma responses
// Usage: Response[HealthBody] instead of HealthOutput
type Response[T any] struct {
	Body T
}

// EmptyResponse represents a simple success response with a message
type EmptyResponse struct {
	Message string `json:"message" doc:"Success message" example:"Operation completed successfully"`
}

// mapServiceError converts service errors into problem+json responses.
// notFound is the detail used for 404s; failure for 500s.
func mapServiceError(err error, notFound, failure string) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return huma.Error404NotFound(notFound)
	case errors.Is(err, database.ErrAlreadyExists):
		return huma.Error409Conflict(err.Error(), err)
	case errors.Is(err, database.ErrInvalidInput):
		return huma.Error400BadRequest(err.Error(), err)
	default:
		return huma.Error500InternalServerError(failure, err)
	}
}
