package v0

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/agentbuilder-dev/agentbuilder/internal/registry/service"
	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
	"github.com/agentbuilder-dev/agentbuilder/pkg/registry/database"
)

// ListAgentsInput represents the input for listing agents
type ListAgentsInput struct {
	Cursor       string `query:"cursor" json:"cursor,omitempty" doc:"Pagination cursor" required:"false" example:"5b0b2b43-8a8f-4c55-a5a8-0a1c3c4f7b9e"`
	Limit        int    `query:"limit" json:"limit,omitempty" doc:"Number of items per page" default:"30" minimum:"1" maximum:"100" example:"50"`
	UpdatedSince string `query:"updated_since" json:"updated_since,omitempty" doc:"Filter agents updated since timestamp (RFC3339 datetime)" required:"false" example:"2025-08-07T13:15:04.280Z"`
	Search       string `query:"search" json:"search,omitempty" doc:"Search agents by name (substring match)" required:"false" example:"research"`
	Status       string `query:"status" json:"status,omitempty" doc:"Filter by lifecycle status" required:"false" enum:"draft,active,archived"`
}

// AgentIDInput identifies a single agent
type AgentIDInput struct {
	ID string `path:"id" json:"id" doc:"Agent id" example:"5b0b2b43-8a8f-4c55-a5a8-0a1c3c4f7b9e"`
}

// CreateAgentInput is the body of an agent create request
type CreateAgentInput struct {
	Body models.AgentConfig
}

// UpdateAgentInput is the body of an agent update request
type UpdateAgentInput struct {
	ID   string `path:"id" json:"id" doc:"Agent id"`
	Body models.AgentConfig
}

func agentsOperationID(name, pathPrefix string) string {
	return name + strings.ReplaceAll(pathPrefix, "/", "-")
}

// RegisterAgentsEndpoints registers agent CRUD endpoints with a custom path prefix
func RegisterAgentsEndpoints(api huma.API, pathPrefix string, builder service.BuilderService) {
	tags := []string{"agents"}

	huma.Register(api, huma.Operation{
		OperationID: agentsOperationID("list-agents", pathPrefix),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/agents",
		Summary:     "List agents",
		Description: "Get a paginated list of agents, most recently updated first",
		Tags:        tags,
	}, func(ctx context.Context, input *ListAgentsInput) (*Response[models.AgentListResponse], error) {
		filter := &database.AgentFilter{}

		if input.UpdatedSince != "" {
			updatedTime, err := time.Parse(time.RFC3339, input.UpdatedSince)
			if err != nil {
				return nil, huma.Error400BadRequest("Invalid updated_since format: expected RFC3339 timestamp (e.g., 2025-08-07T13:15:04.280Z)")
			}
			filter.UpdatedSince = &updatedTime
		}
		if input.Search != "" {
			filter.SubstringName = &input.Search
		}
		if input.Status != "" {
			status := models.AgentStatus(input.Status)
			filter.Status = &status
		}

		agents, nextCursor, err := builder.ListAgents(ctx, filter, input.Cursor, input.Limit)
		if err != nil {
			return nil, mapServiceError(err, "Agent not found", "Failed to get agents list")
		}

		agentValues := make([]models.Agent, len(agents))
		for i, a := range agents {
			agentValues[i] = *a
		}
		return &Response[models.AgentListResponse]{
			Body: models.AgentListResponse{
				Agents: agentValues,
				Metadata: models.AgentMetadata{
					NextCursor: nextCursor,
					Count:      len(agents),
				},
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   agentsOperationID("create-agent", pathPrefix),
		Method:        http.MethodPost,
		Path:          pathPrefix + "/agents",
		Summary:       "Create agent",
		Description:   "Create a new agent owned by the current user",
		Tags:          tags,
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateAgentInput) (*Response[models.Agent], error) {
		agent, err := builder.CreateAgent(ctx, &input.Body)
		if err != nil {
			return nil, mapServiceError(err, "Agent not found", "Failed to create agent")
		}
		return &Response[models.Agent]{Body: *agent}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: agentsOperationID("get-agent", pathPrefix),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/agents/{id}",
		Summary:     "Get agent",
		Description: "Get a single agent, including its knowledge sources",
		Tags:        tags,
	}, func(ctx context.Context, input *AgentIDInput) (*Response[models.Agent], error) {
		agent, err := builder.GetAgent(ctx, input.ID)
		if err != nil {
			return nil, mapServiceError(err, "Agent not found", "Failed to get agent details")
		}
		return &Response[models.Agent]{Body: *agent}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: agentsOperationID("update-agent", pathPrefix),
		Method:      http.MethodPut,
		Path:        pathPrefix + "/agents/{id}",
		Summary:     "Update agent",
		Description: "Replace the configuration of an existing agent",
		Tags:        tags,
	}, func(ctx context.Context, input *UpdateAgentInput) (*Response[models.Agent], error) {
		agent, err := builder.UpdateAgent(ctx, input.ID, &input.Body)
		if err != nil {
			return nil, mapServiceError(err, "Agent not found", "Failed to update agent")
		}
		return &Response[models.Agent]{Body: *agent}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: agentsOperationID("delete-agent", pathPrefix),
		Method:      http.MethodDelete,
		Path:        pathPrefix + "/agents/{id}",
		Summary:     "Delete agent",
		Description: "Permanently delete an agent and its knowledge sources",
		Tags:        tags,
	}, func(ctx context.Context, input *AgentIDInput) (*Response[EmptyResponse], error) {
		if err := builder.DeleteAgent(ctx, input.ID); err != nil {
			return nil, mapServiceError(err, "Agent not found", "Failed to delete agent")
		}
		return &Response[EmptyResponse]{
			Body: EmptyResponse{Message: "Agent deleted successfully"},
		}, nil
	})
}
