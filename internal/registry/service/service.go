package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/agentbuilder-dev/agentbuilder/internal/frameworks/jaf"
	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
	"github.com/agentbuilder-dev/agentbuilder/pkg/registry/database"
)

// ErrUnrecognizedModule is returned when an imported module does not look like a JAF agent.
var ErrUnrecognizedModule = fmt.Errorf("%w: source is not a recognizable JAF agent module", database.ErrInvalidInput)

// IsUnrecognizedModule reports whether err came from an import that could not be parsed.
func IsUnrecognizedModule(err error) bool {
	return errors.Is(err, ErrUnrecognizedModule)
}

// ExportResult is a rendered agent ready to be written or served.
type ExportResult struct {
	Filename    string     `json:"filename"`
	ContentType string     `json:"contentType"`
	Format      jaf.Format `json:"format"`
	Content     string     `json:"content"`
}

// ImportResult holds what was recovered from a module and, optionally, the agent created from it.
type ImportResult struct {
	Parsed jaf.ParsedAgent `json:"parsed"`
	Agent  *models.Agent   `json:"agent,omitempty"`
}

// BuilderService defines the interface for agent builder operations
type BuilderService interface {
	// ListAgents retrieves agents owned by the default user with optional filtering
	ListAgents(ctx context.Context, filter *database.AgentFilter, cursor string, limit int) ([]*models.Agent, string, error)
	// GetAgent retrieves an agent by id
	GetAgent(ctx context.Context, id string) (*models.Agent, error)
	// CreateAgent validates and stores a new agent
	CreateAgent(ctx context.Context, req *models.AgentConfig) (*models.Agent, error)
	// UpdateAgent replaces an agent's configuration
	UpdateAgent(ctx context.Context, id string, req *models.AgentConfig) (*models.Agent, error)
	// DeleteAgent removes an agent
	DeleteAgent(ctx context.Context, id string) error

	// ListTools returns the tool catalog
	ListTools(ctx context.Context, filter *database.ToolFilter) ([]*models.Tool, error)
	// GetTool retrieves a tool by id
	GetTool(ctx context.Context, id string) (*models.Tool, error)
	// CreateTool validates and stores a new tool
	CreateTool(ctx context.Context, req *models.ToolJSON) (*models.Tool, error)

	// ExportAgent renders an agent in the requested format
	ExportAgent(ctx context.Context, id string, format string) (*ExportResult, error)
	// ImportAgent parses a JAF module and optionally stores it as a draft agent
	ImportAgent(ctx context.Context, source string, create bool) (*ImportResult, error)
}
