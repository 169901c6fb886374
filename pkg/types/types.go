package types

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/agentbuilder-dev/agentbuilder/internal/registry/service"
	"github.com/agentbuilder-dev/agentbuilder/pkg/registry/database"
)

// ServiceFactory wraps the base builder service, e.g. to decorate exports or add auditing.
type ServiceFactory func(base service.BuilderService) service.BuilderService

// DatabaseFactory creates the database the builder service runs on.
// baseDB is nil when DATABASE_URL is "noop".
type DatabaseFactory func(ctx context.Context, databaseURL string, baseDB database.Database) (database.Database, error)

// AppOptions contains optional extension points for the server app.
type AppOptions struct {
	// DatabaseFactory can replace or wrap the default PostgreSQL database.
	DatabaseFactory DatabaseFactory

	// ServiceFactory can wrap the base builder service.
	ServiceFactory ServiceFactory

	// OnServiceCreated receives the final service (after ServiceFactory).
	OnServiceCreated func(service.BuilderService)

	// HTTPServerFactory can register additional routes on the server.
	HTTPServerFactory HTTPServerFactory

	// OnHTTPServerCreated receives the final server (after HTTPServerFactory).
	OnHTTPServerCreated func(Server)

	// UIHandler serves "/" instead of the redirect to the API docs.
	UIHandler http.Handler
}

// Server represents the HTTP server and provides access to the Huma API
// and HTTP mux for registering new routes and handlers.
type Server interface {
	// HumaAPI returns the Huma API instance so routes appear in the OpenAPI document.
	HumaAPI() huma.API

	// Mux returns the HTTP ServeMux for custom handlers
	Mux() *http.ServeMux

	// Start begins listening for incoming HTTP requests
	Start() error

	// Shutdown gracefully shuts down the server
	Shutdown(ctx context.Context) error
}

// HTTPServerFactory receives the base server and returns a server after
// registering new routes using base.HumaAPI() or base.Mux().
type HTTPServerFactory func(base Server) Server
