package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
)

// Common database errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrDatabase      = errors.New("database error")
)

// AgentFilter defines filtering options for agent queries
type AgentFilter struct {
	UserID        *string             // owner of the agent
	Status        *models.AgentStatus // lifecycle status
	SubstringName *string             // case-insensitive substring search on name
	UpdatedSince  *time.Time          // for incremental sync filtering
}

// ToolFilter defines filtering options for tool queries
type ToolFilter struct {
	Category *string  // exact category match
	Builtin  *bool    // builtin vs custom tools (nil = both)
	IDs      []string // restrict to these ids (nil = no restriction)
}

// Database defines the interface for database operations.
// Every method accepts an optional transaction; a nil tx runs against the pool.
type Database interface {
	// CreateAgent inserts a new agent; ID, CreatedAt and UpdatedAt must be set by the caller
	CreateAgent(ctx context.Context, tx pgx.Tx, agent *models.Agent) (*models.Agent, error)
	// UpdateAgent replaces the mutable fields of an existing agent
	UpdateAgent(ctx context.Context, tx pgx.Tx, agent *models.Agent) (*models.Agent, error)
	// GetAgent retrieves an agent and its knowledge sources by id
	GetAgent(ctx context.Context, tx pgx.Tx, id string) (*models.Agent, error)
	// ListAgents returns agents ordered by most recently updated, with cursor pagination
	ListAgents(ctx context.Context, tx pgx.Tx, filter *AgentFilter, cursor string, limit int) ([]*models.Agent, string, error)
	// DeleteAgent removes an agent and its knowledge sources
	DeleteAgent(ctx context.Context, tx pgx.Tx, id string) error
	// ReplaceKnowledgeSources swaps the knowledge sources attached to an agent
	ReplaceKnowledgeSources(ctx context.Context, tx pgx.Tx, agentID string, sources []models.KnowledgeSource) error

	// CreateTool inserts a new tool
	CreateTool(ctx context.Context, tx pgx.Tx, tool *models.Tool) (*models.Tool, error)
	// GetTool retrieves a tool by id
	GetTool(ctx context.Context, tx pgx.Tx, id string) (*models.Tool, error)
	// GetToolByName retrieves a tool by its code identifier
	GetToolByName(ctx context.Context, tx pgx.Tx, name string) (*models.Tool, error)
	// ListTools returns the tool catalog in catalog order (creation time, then id)
	ListTools(ctx context.Context, tx pgx.Tx, filter *ToolFilter) ([]*models.Tool, error)
	// DeleteTool removes a tool
	DeleteTool(ctx context.Context, tx pgx.Tx, id string) error

	// InTransaction executes a function within a database transaction
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
	// Close closes the database connection
	Close() error
}

// InTransactionT is a generic helper that wraps InTransaction for functions returning a value.
// Interfaces cannot have generic methods, so this lives beside the Database interface.
func InTransactionT[T any](ctx context.Context, db Database, fn func(ctx context.Context, tx pgx.Tx) (T, error)) (T, error) {
	var result T
	var fnErr error

	err := db.InTransaction(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		result, fnErr = fn(txCtx, tx)
		return fnErr
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}
