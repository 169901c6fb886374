// Package router contains API routing logic
package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	v0 "github.com/agentbuilder-dev/agentbuilder/internal/registry/api/handlers/v0"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/config"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/service"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/telemetry"
)

// Middleware configuration options
type middlewareConfig struct {
	skipPaths map[string]bool
}

type MiddlewareOption func(*middlewareConfig)

// getRoutePath extracts the route pattern from the context
func getRoutePath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil && op.Path != "" {
		return op.Path
	}

	// Fallback to URL path (includes path parameters)
	return ctx.URL().Path
}

// MetricTelemetryMiddleware records request count, errors and latency per route
func MetricTelemetryMiddleware(metrics *telemetry.Metrics, options ...MiddlewareOption) func(huma.Context, func(huma.Context)) {
	config := &middlewareConfig{
		skipPaths: make(map[string]bool),
	}

	for _, opt := range options {
		opt(config)
	}

	return func(ctx huma.Context, next func(huma.Context)) {
		path := ctx.URL().Path

		// match either the full path or its last segment
		pathParts := strings.Split(path, "/")
		pathToMatch := "/" + pathParts[len(pathParts)-1]
		if config.skipPaths[pathToMatch] || config.skipPaths[path] {
			next(ctx)
			return
		}

		start := time.Now()
		method := ctx.Method()
		routePath := getRoutePath(ctx)

		next(ctx)

		duration := time.Since(start).Seconds()
		statusCode := ctx.Status()

		attrs := []attribute.KeyValue{
			attribute.String("method", method),
			attribute.String("path", routePath),
			attribute.Int("status_code", statusCode),
		}

		metrics.Requests.Add(ctx.Context(), 1, metric.WithAttributes(attrs...))

		if statusCode >= 400 {
			metrics.ErrorCount.Add(ctx.Context(), 1, metric.WithAttributes(attrs...))
		}

		metrics.RequestDuration.Record(ctx.Context(), duration, metric.WithAttributes(attrs...))
	}
}

// WithSkipPaths allows skipping instrumentation for specific paths
func WithSkipPaths(paths ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		for _, path := range paths {
			c.skipPaths[path] = true
		}
	}
}

// handle404 returns a problem+json 404 with a hint for unversioned paths
func handle404(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusNotFound)

	path := r.URL.Path
	detail := "Endpoint not found. See /docs for the API documentation."
	if !strings.HasPrefix(path, "/v0/") {
		detail = fmt.Sprintf("Endpoint not found. Did you mean '%s'? See /docs for the API documentation.", "/v0"+path)
	}

	errorBody := map[string]any{
		"title":  "Not Found",
		"status": 404,
		"detail": detail,
	}

	jsonData, err := json.Marshal(errorBody)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(jsonData)
}

// NewHumaAPI creates a new Huma API with all routes registered
func NewHumaAPI(cfg *config.Config, builder service.BuilderService, mux *http.ServeMux, metrics *telemetry.Metrics, versionInfo *v0.VersionBody, uiHandler http.Handler) huma.API {
	humaConfig := huma.DefaultConfig("Agent Builder", "1.0.0")
	humaConfig.Info.Description = "Define AI agents and export them as JAF TypeScript modules."
	// Disable $schema property in responses: https://github.com/danielgtaylor/huma/issues/230
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}

	api := humago.New(mux, humaConfig)

	api.OpenAPI().Tags = []*huma.Tag{
		{
			Name:        "agents",
			Description: "Operations for creating and managing agent definitions",
		},
		{
			Name:        "transform",
			Description: "Export agents as JAF modules or JSON, and import JAF modules",
		},
		{
			Name:        "tools",
			Description: "Operations for browsing and extending the tool catalog",
		},
		{
			Name:        "models",
			Description: "The catalog of models an agent can use",
		},
		{
			Name:        "health",
			Description: "Health check endpoint for monitoring service availability",
		},
		{
			Name:        "ping",
			Description: "Simple ping endpoint for testing connectivity",
		},
		{
			Name:        "version",
			Description: "Version information endpoint for retrieving build and version details",
		},
	}

	api.UseMiddleware(MetricTelemetryMiddleware(metrics,
		WithSkipPaths("/health", "/metrics", "/ping", "/docs"),
	))

	RegisterRoutes(api, cfg, builder, metrics, versionInfo)

	mux.Handle("/metrics", metrics.PrometheusHandler())

	if uiHandler != nil {
		mux.Handle("/", uiHandler)
		return api
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/docs", http.StatusTemporaryRedirect)
			return
		}
		handle404(w, r)
	})
	return api
}
