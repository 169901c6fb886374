package v0

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/agentbuilder-dev/agentbuilder/internal/frameworks/jaf"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/service"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/telemetry"
	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
	"github.com/agentbuilder-dev/agentbuilder/pkg/registry/database"
)

// ExportAgentInput selects the agent and the export representation
type ExportAgentInput struct {
	ID     string `path:"id" json:"id" doc:"Agent id"`
	Format string `query:"format" json:"format,omitempty" doc:"Export format: jaf or json" default:"jaf"`
}

// ExportAgentOutput is the raw export, served as a file download
type ExportAgentOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// ImportAgentBody is the payload of an import request
type ImportAgentBody struct {
	Source string `json:"source" doc:"JAF TypeScript module source" minLength:"1"`
	Create bool   `json:"create,omitempty" doc:"Store the parsed agent as a draft" required:"false"`
}

// ImportAgentInput wraps the import payload
type ImportAgentInput struct {
	Body ImportAgentBody
}

// ImportAgentResponse reports what was recovered from the module
type ImportAgentResponse struct {
	Parsed jaf.ParsedAgent `json:"parsed"`
	Agent  *models.Agent   `json:"agent,omitempty"`
}

// RegisterTransformEndpoints registers the export and import endpoints
func RegisterTransformEndpoints(api huma.API, pathPrefix string, builder service.BuilderService, metrics *telemetry.Metrics) {
	tags := []string{"agents", "transform"}

	huma.Register(api, huma.Operation{
		OperationID: agentsOperationID("export-agent", pathPrefix),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/agents/{id}/export",
		Summary:     "Export agent",
		Description: "Render an agent as a JAF TypeScript module or as JSON",
		Tags:        tags,
	}, func(ctx context.Context, input *ExportAgentInput) (*ExportAgentOutput, error) {
		result, err := builder.ExportAgent(ctx, input.ID, input.Format)
		if err != nil {
			switch {
			case errors.Is(err, database.ErrNotFound):
				return nil, huma.Error404NotFound("Agent not found")
			case errors.Is(err, database.ErrInvalidInput):
				return nil, huma.Error400BadRequest(err.Error(), err)
			default:
				return nil, huma.Error500InternalServerError("Failed to export agent", err)
			}
		}

		metrics.RecordExport(ctx, string(result.Format))
		return &ExportAgentOutput{
			ContentType:        result.ContentType,
			ContentDisposition: fmt.Sprintf("attachment; filename=%q", result.Filename),
			Body:               []byte(result.Content),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: agentsOperationID("import-agent", pathPrefix),
		Method:      http.MethodPost,
		Path:        pathPrefix + "/agents/import",
		Summary:     "Import agent",
		Description: "Recover name, model and system prompt from a JAF module, optionally creating a draft agent",
		Tags:        tags,
	}, func(ctx context.Context, input *ImportAgentInput) (*Response[ImportAgentResponse], error) {
		result, err := builder.ImportAgent(ctx, input.Body.Source, input.Body.Create)
		if err != nil {
			if service.IsUnrecognizedModule(err) {
				metrics.RecordImport(ctx, false)
				return nil, huma.Error422UnprocessableEntity("Source is not a recognizable JAF agent module")
			}
			return nil, mapServiceError(err, "Agent not found", "Failed to import agent")
		}

		metrics.RecordImport(ctx, true)
		return &Response[ImportAgentResponse]{
			Body: ImportAgentResponse{Parsed: result.Parsed, Agent: result.Agent},
		}, nil
	})
}
