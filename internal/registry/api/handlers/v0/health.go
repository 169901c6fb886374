package v0

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/agentbuilder-dev/agentbuilder/internal/registry/config"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/telemetry"
)

// HealthBody represents the health check response body
type HealthBody struct {
	Status string `json:"status" example:"ok" doc:"Health status"`
}

// PingBody represents the ping response body
type PingBody struct {
	Pong bool `json:"pong" example:"true" doc:"Ping response"`
}

// VersionBody represents the version information response body
type VersionBody struct {
	Version   string `json:"version" example:"v1.0.0" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc123d" doc:"Git commit SHA"`
	BuildTime string `json:"build_time" example:"2025-10-14T12:00:00Z" doc:"Build timestamp"`
}

// RegisterHealthEndpoint registers the health check endpoint with a custom path prefix
func RegisterHealthEndpoint(api huma.API, pathPrefix string, cfg *config.Config, metrics *telemetry.Metrics) {
	huma.Register(api, huma.Operation{
		OperationID: agentsOperationID("get-health", pathPrefix),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/health",
		Summary:     "Health check",
		Description: "Check the health status of the API",
		Tags:        []string{"health"},
	}, func(ctx context.Context, _ *struct{}) (*Response[HealthBody], error) {
		if metrics != nil {
			version := "dev"
			if cfg != nil {
				version = cfg.Version
			}
			metrics.Requests.Add(ctx, 1, metric.WithAttributes(
				attribute.String("path", pathPrefix+"/health"),
				attribute.String("version", version),
			))
		}
		return &Response[HealthBody]{Body: HealthBody{Status: "ok"}}, nil
	})
}

// RegisterPingEndpoint registers the ping endpoint with a custom path prefix
func RegisterPingEndpoint(api huma.API, pathPrefix string) {
	huma.Register(api, huma.Operation{
		OperationID: agentsOperationID("ping", pathPrefix),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/ping",
		Summary:     "Ping",
		Description: "Simple ping endpoint",
		Tags:        []string{"ping"},
	}, func(_ context.Context, _ *struct{}) (*Response[PingBody], error) {
		return &Response[PingBody]{Body: PingBody{Pong: true}}, nil
	})
}

// RegisterVersionEndpoint registers the version endpoint with a custom path prefix
func RegisterVersionEndpoint(api huma.API, pathPrefix string, versionInfo *VersionBody) {
	huma.Register(api, huma.Operation{
		OperationID: agentsOperationID("get-version", pathPrefix),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/version",
		Summary:     "Get version information",
		Description: "Get the version, git commit, and build time of the server",
		Tags:        []string{"version"},
	}, func(_ context.Context, _ *struct{}) (*Response[VersionBody], error) {
		return &Response[VersionBody]{Body: *versionInfo}, nil
	})
}
