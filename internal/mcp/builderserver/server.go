// Package builderserver exposes the agent builder over the Model Context Protocol.
package builderserver

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/agentbuilder-dev/agentbuilder/internal/frameworks/jaf"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/service"
	"github.com/agentbuilder-dev/agentbuilder/internal/version"
	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
	"github.com/agentbuilder-dev/agentbuilder/pkg/registry/database"
)

const (
	serverName       = "agentbuilder-mcp"
	defaultPageLimit = 30
	maxPageLimit     = 100
)

// NewServer constructs an MCP server with agent, tool catalog and transform tools.
// import_agent only parses; nothing is written through MCP.
func NewServer(builder service.BuilderService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version.Version,
	}, &mcp.ServerOptions{
		HasTools: true,
	})

	addAgentTools(server, builder)
	addToolCatalogTools(server, builder)
	addTransformTools(server, builder)
	addMetaTools(server)

	return server
}

type listAgentsArgs struct {
	Cursor       string `json:"cursor,omitempty" jsonschema:"pagination cursor from a previous call"`
	Limit        int    `json:"limit,omitempty" jsonschema:"number of agents per page (max 100)"`
	Search       string `json:"search,omitempty" jsonschema:"substring match on agent name"`
	Status       string `json:"status,omitempty" jsonschema:"draft, active or archived"`
	UpdatedSince string `json:"updated_since,omitempty" jsonschema:"RFC3339 timestamp"`
}

type agentIDArgs struct {
	ID string `json:"id" jsonschema:"agent id"`
}

func addAgentTools(server *mcp.Server, builder service.BuilderService) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_agents",
		Description: "List agents with optional search, status filter and pagination",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args listAgentsArgs) (*mcp.CallToolResult, models.AgentListResponse, error) {
		filter := &database.AgentFilter{}

		if args.UpdatedSince != "" {
			ts, err := time.Parse(time.RFC3339, args.UpdatedSince)
			if err != nil {
				return nil, models.AgentListResponse{}, fmt.Errorf("invalid updated_since: %w", err)
			}
			filter.UpdatedSince = &ts
		}
		if args.Search != "" {
			filter.SubstringName = &args.Search
		}
		if args.Status != "" {
			status := models.AgentStatus(args.Status)
			filter.Status = &status
		}

		agents, nextCursor, err := builder.ListAgents(ctx, filter, args.Cursor, clampLimit(args.Limit))
		if err != nil {
			return nil, models.AgentListResponse{}, err
		}

		out := models.AgentListResponse{
			Agents:   make([]models.Agent, len(agents)),
			Metadata: models.AgentMetadata{NextCursor: nextCursor, Count: len(agents)},
		}
		for i, a := range agents {
			out.Agents[i] = *a
		}
		return nil, out, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_agent",
		Description: "Fetch a single agent by id",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args agentIDArgs) (*mcp.CallToolResult, models.Agent, error) {
		if args.ID == "" {
			return nil, models.Agent{}, fmt.Errorf("id is required")
		}
		agent, err := builder.GetAgent(ctx, args.ID)
		if err != nil {
			return nil, models.Agent{}, err
		}
		return nil, *agent, nil
	})
}

type listToolsArgs struct {
	Category string `json:"category,omitempty" jsonschema:"exact category match"`
	Builtin  *bool  `json:"builtin,omitempty" jsonschema:"only builtin (true) or custom (false) tools"`
}

func addToolCatalogTools(server *mcp.Server, builder service.BuilderService) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tools",
		Description: "List the tool catalog agents can reference",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args listToolsArgs) (*mcp.CallToolResult, models.ToolListResponse, error) {
		filter := &database.ToolFilter{Builtin: args.Builtin}
		if args.Category != "" {
			filter.Category = &args.Category
		}

		tools, err := builder.ListTools(ctx, filter)
		if err != nil {
			return nil, models.ToolListResponse{}, err
		}

		out := models.ToolListResponse{
			Tools:    make([]models.Tool, len(tools)),
			Metadata: models.AgentMetadata{Count: len(tools)},
		}
		for i, t := range tools {
			out.Tools[i] = *t
		}
		return nil, out, nil
	})
}

type exportAgentArgs struct {
	ID     string `json:"id" jsonschema:"agent id"`
	Format string `json:"format,omitempty" jsonschema:"jaf (default) or json"`
}

type importAgentArgs struct {
	Source string `json:"source" jsonschema:"JAF TypeScript module source"`
}

func addTransformTools(server *mcp.Server, builder service.BuilderService) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_agent",
		Description: "Render an agent as a JAF TypeScript module or JSON",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args exportAgentArgs) (*mcp.CallToolResult, service.ExportResult, error) {
		if args.ID == "" {
			return nil, service.ExportResult{}, fmt.Errorf("id is required")
		}
		result, err := builder.ExportAgent(ctx, args.ID, args.Format)
		if err != nil {
			return nil, service.ExportResult{}, err
		}
		return nil, *result, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "import_agent",
		Description: "Recover the name, model and system prompt of a JAF agent module without storing it",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args importAgentArgs) (*mcp.CallToolResult, jaf.ParsedAgent, error) {
		result, err := builder.ImportAgent(ctx, args.Source, false)
		if err != nil {
			return nil, jaf.ParsedAgent{}, err
		}
		return nil, result.Parsed, nil
	})
}

func addMetaTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_models",
		Description: "Return the models an agent can be configured with",
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, map[string]any, error) {
		return nil, map[string]any{
			"models":  models.AvailableModels,
			"default": models.DefaultModel,
		}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "builder_version",
		Description: "Return build metadata",
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, map[string]string, error) {
		return nil, map[string]string{
			"version":    version.Version,
			"git_commit": version.GitCommit,
			"build_date": version.BuildDate,
			"serverName": serverName,
		}, nil
	})
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageLimit
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}
