// Package router contains API routing logic
package router

import (
	"github.com/danielgtaylor/huma/v2"

	v0 "github.com/agentbuilder-dev/agentbuilder/internal/registry/api/handlers/v0"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/config"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/service"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/telemetry"
)

// APIPrefix is the path prefix of every versioned route
const APIPrefix = "/v0"

// RegisterRoutes registers all API routes
// This is the single entry point for all route registration
func RegisterRoutes(
	api huma.API,
	cfg *config.Config,
	builder service.BuilderService,
	metrics *telemetry.Metrics,
	versionInfo *v0.VersionBody,
) {
	registerCommonEndpoints(api, APIPrefix, cfg, metrics, versionInfo)
	v0.RegisterAgentsEndpoints(api, APIPrefix, builder)
	v0.RegisterTransformEndpoints(api, APIPrefix, builder, metrics)
	v0.RegisterToolsEndpoints(api, APIPrefix, builder)
	v0.RegisterModelsEndpoint(api, APIPrefix)
}

// registerCommonEndpoints registers health, ping and version
func registerCommonEndpoints(
	api huma.API,
	pathPrefix string,
	cfg *config.Config,
	metrics *telemetry.Metrics,
	versionInfo *v0.VersionBody,
) {
	v0.RegisterHealthEndpoint(api, pathPrefix, cfg, metrics)
	v0.RegisterPingEndpoint(api, pathPrefix)
	v0.RegisterVersionEndpoint(api, pathPrefix, versionInfo)
}
