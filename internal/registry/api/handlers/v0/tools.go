package v0

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/agentbuilder-dev/agentbuilder/internal/registry/service"
	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
	"github.com/agentbuilder-dev/agentbuilder/pkg/registry/database"
)

// ListToolsInput represents the input for listing tools
type ListToolsInput struct {
	Category string `query:"category" json:"category,omitempty" doc:"Filter by category" required:"false" example:"Search"`
	Builtin  string `query:"builtin" json:"builtin,omitempty" doc:"Filter builtin (true) or custom (false) tools" required:"false" enum:"true,false"`
}

// ToolIDInput identifies a single tool
type ToolIDInput struct {
	ID string `path:"id" json:"id" doc:"Tool id" example:"calculator"`
}

// CreateToolInput is the body of a tool create request
type CreateToolInput struct {
	Body models.ToolJSON
}

// ModelsBody lists the model catalog
type ModelsBody struct {
	Models  []models.ModelOption `json:"models"`
	Default string               `json:"default" example:"gpt-4"`
}

// RegisterToolsEndpoints registers the tool catalog endpoints
func RegisterToolsEndpoints(api huma.API, pathPrefix string, builder service.BuilderService) {
	tags := []string{"tools"}

	huma.Register(api, huma.Operation{
		OperationID: agentsOperationID("list-tools", pathPrefix),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/tools",
		Summary:     "List tools",
		Description: "Get the tool catalog in catalog order",
		Tags:        tags,
	}, func(ctx context.Context, input *ListToolsInput) (*Response[models.ToolListResponse], error) {
		filter := &database.ToolFilter{}
		if input.Category != "" {
			filter.Category = &input.Category
		}
		if input.Builtin != "" {
			builtin := input.Builtin == "true"
			filter.Builtin = &builtin
		}

		tools, err := builder.ListTools(ctx, filter)
		if err != nil {
			return nil, mapServiceError(err, "Tool not found", "Failed to get tools list")
		}

		toolValues := make([]models.Tool, len(tools))
		for i, t := range tools {
			toolValues[i] = *t
		}
		return &Response[models.ToolListResponse]{
			Body: models.ToolListResponse{
				Tools:    toolValues,
				Metadata: models.AgentMetadata{Count: len(tools)},
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   agentsOperationID("create-tool", pathPrefix),
		Method:        http.MethodPost,
		Path:          pathPrefix + "/tools",
		Summary:       "Create tool",
		Description:   "Add a custom tool to the catalog",
		Tags:          tags,
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateToolInput) (*Response[models.Tool], error) {
		tool, err := builder.CreateTool(ctx, &input.Body)
		if err != nil {
			return nil, mapServiceError(err, "Tool not found", "Failed to create tool")
		}
		return &Response[models.Tool]{Body: *tool}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: agentsOperationID("get-tool", pathPrefix),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/tools/{id}",
		Summary:     "Get tool",
		Tags:        tags,
	}, func(ctx context.Context, input *ToolIDInput) (*Response[models.Tool], error) {
		tool, err := builder.GetTool(ctx, input.ID)
		if err != nil {
			return nil, mapServiceError(err, "Tool not found", "Failed to get tool details")
		}
		return &Response[models.Tool]{Body: *tool}, nil
	})
}

// RegisterModelsEndpoint registers the model catalog endpoint
func RegisterModelsEndpoint(api huma.API, pathPrefix string) {
	huma.Register(api, huma.Operation{
		OperationID: agentsOperationID("list-models", pathPrefix),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/models",
		Summary:     "List models",
		Description: "Get the models an agent can be configured with",
		Tags:        []string{"models"},
	}, func(_ context.Context, _ *struct{}) (*Response[ModelsBody], error) {
		return &Response[ModelsBody]{
			Body: ModelsBody{Models: models.AvailableModels, Default: models.DefaultModel},
		}, nil
	})
}
