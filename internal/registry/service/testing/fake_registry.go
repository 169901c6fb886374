// Package testing provides test utilities for the builder service.
package testing

import (
	"context"
	"sync"

	"github.com/agentbuilder-dev/agentbuilder/internal/registry/service"
	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
	"github.com/agentbuilder-dev/agentbuilder/pkg/registry/database"
)

// FakeRegistry is a configurable fake implementation of service.BuilderService for testing.
// It supports both data-driven setup via struct fields and function hooks for custom behavior.
type FakeRegistry struct {
	mu sync.Mutex

	// Data fields for simple data-driven tests
	Agents []*models.Agent
	Tools  []*models.Tool

	// Call counters for verification
	CreateAgentCalls int
	DeleteAgentCalls int

	// Function hooks for custom behavior (take precedence over data fields when set)
	ListAgentsFn  func(ctx context.Context, filter *database.AgentFilter, cursor string, limit int) ([]*models.Agent, string, error)
	GetAgentFn    func(ctx context.Context, id string) (*models.Agent, error)
	CreateAgentFn func(ctx context.Context, req *models.AgentConfig) (*models.Agent, error)
	UpdateAgentFn func(ctx context.Context, id string, req *models.AgentConfig) (*models.Agent, error)
	DeleteAgentFn func(ctx context.Context, id string) error
	ListToolsFn   func(ctx context.Context, filter *database.ToolFilter) ([]*models.Tool, error)
	GetToolFn     func(ctx context.Context, id string) (*models.Tool, error)
	CreateToolFn  func(ctx context.Context, req *models.ToolJSON) (*models.Tool, error)
	ExportAgentFn func(ctx context.Context, id, format string) (*service.ExportResult, error)
	ImportAgentFn func(ctx context.Context, source string, create bool) (*service.ImportResult, error)
}

var _ service.BuilderService = (*FakeRegistry)(nil)

// NewFakeRegistry creates a new, empty FakeRegistry.
func NewFakeRegistry() *FakeRegistry {
	return &FakeRegistry{}
}

// Agent methods

func (f *FakeRegistry) ListAgents(ctx context.Context, filter *database.AgentFilter, cursor string, limit int) ([]*models.Agent, string, error) {
	if f.ListAgentsFn != nil {
		return f.ListAgentsFn(ctx, filter, cursor, limit)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if cursor != "" {
		return nil, "", nil
	}
	return f.Agents, "", nil
}

func (f *FakeRegistry) GetAgent(ctx context.Context, id string) (*models.Agent, error) {
	if f.GetAgentFn != nil {
		return f.GetAgentFn(ctx, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.Agents {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *FakeRegistry) CreateAgent(ctx context.Context, req *models.AgentConfig) (*models.Agent, error) {
	f.mu.Lock()
	f.CreateAgentCalls++
	f.mu.Unlock()
	if f.CreateAgentFn != nil {
		return f.CreateAgentFn(ctx, req)
	}
	return nil, database.ErrInvalidInput
}

func (f *FakeRegistry) UpdateAgent(ctx context.Context, id string, req *models.AgentConfig) (*models.Agent, error) {
	if f.UpdateAgentFn != nil {
		return f.UpdateAgentFn(ctx, id, req)
	}
	return nil, database.ErrNotFound
}

func (f *FakeRegistry) DeleteAgent(ctx context.Context, id string) error {
	f.mu.Lock()
	f.DeleteAgentCalls++
	f.mu.Unlock()
	if f.DeleteAgentFn != nil {
		return f.DeleteAgentFn(ctx, id)
	}
	return database.ErrNotFound
}

// Tool methods

func (f *FakeRegistry) ListTools(ctx context.Context, filter *database.ToolFilter) ([]*models.Tool, error) {
	if f.ListToolsFn != nil {
		return f.ListToolsFn(ctx, filter)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Tools, nil
}

func (f *FakeRegistry) GetTool(ctx context.Context, id string) (*models.Tool, error) {
	if f.GetToolFn != nil {
		return f.GetToolFn(ctx, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.Tools {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *FakeRegistry) CreateTool(ctx context.Context, req *models.ToolJSON) (*models.Tool, error) {
	if f.CreateToolFn != nil {
		return f.CreateToolFn(ctx, req)
	}
	return nil, database.ErrInvalidInput
}

// Transformer methods

func (f *FakeRegistry) ExportAgent(ctx context.Context, id, format string) (*service.ExportResult, error) {
	if f.ExportAgentFn != nil {
		return f.ExportAgentFn(ctx, id, format)
	}
	return nil, database.ErrNotFound
}

func (f *FakeRegistry) ImportAgent(ctx context.Context, source string, create bool) (*service.ImportResult, error) {
	if f.ImportAgentFn != nil {
		return f.ImportAgentFn(ctx, source, create)
	}
	return nil, service.ErrUnrecognizedModule
}
