package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbuilder-dev/agentbuilder/internal/frameworks/jaf"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/config"
	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
	"github.com/agentbuilder-dev/agentbuilder/pkg/registry/database"
)

// memDB is an in-memory database.Database used to exercise service logic without Postgres.
type memDB struct {
	mu          sync.Mutex
	agents      map[string]*models.Agent
	tools       []*models.Tool
	toolFilters []*database.ToolFilter
}

func newMemDB() *memDB {
	return &memDB{agents: map[string]*models.Agent{}}
}

func (m *memDB) CreateAgent(_ context.Context, _ pgx.Tx, agent *models.Agent) (*models.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.agents[agent.ID]; ok {
		return nil, database.ErrAlreadyExists
	}
	cp := *agent
	m.agents[agent.ID] = &cp
	return &cp, nil
}

func (m *memDB) UpdateAgent(_ context.Context, _ pgx.Tx, agent *models.Agent) (*models.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.agents[agent.ID]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *agent
	cp.KnowledgeSources = existing.KnowledgeSources
	m.agents[agent.ID] = &cp
	return &cp, nil
}

func (m *memDB) GetAgent(_ context.Context, _ pgx.Tx, id string) (*models.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.agents[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memDB) ListAgents(_ context.Context, _ pgx.Tx, filter *database.AgentFilter, _ string, limit int) ([]*models.Agent, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Agent
	for _, a := range m.agents {
		if filter != nil && filter.UserID != nil && a.UserID != *filter.UserID {
			continue
		}
		if filter != nil && filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, a)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, "", nil
}

func (m *memDB) DeleteAgent(_ context.Context, _ pgx.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.agents[id]; !ok {
		return database.ErrNotFound
	}
	delete(m.agents, id)
	return nil
}

func (m *memDB) ReplaceKnowledgeSources(_ context.Context, _ pgx.Tx, agentID string, sources []models.KnowledgeSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.agents[agentID]
	if !ok {
		return database.ErrNotFound
	}
	a.KnowledgeSources = sources
	return nil
}

func (m *memDB) CreateTool(_ context.Context, _ pgx.Tx, tool *models.Tool) (*models.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tools {
		if t.ID == tool.ID || t.Name == tool.Name {
			return nil, database.ErrAlreadyExists
		}
	}
	cp := *tool
	m.tools = append(m.tools, &cp)
	return &cp, nil
}

func (m *memDB) GetTool(_ context.Context, _ pgx.Tx, id string) (*models.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tools {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memDB) GetToolByName(_ context.Context, _ pgx.Tx, name string) (*models.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tools {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memDB) ListTools(_ context.Context, _ pgx.Tx, filter *database.ToolFilter) ([]*models.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toolFilters = append(m.toolFilters, filter)
	var out []*models.Tool
	for _, t := range m.tools {
		if filter != nil && filter.IDs != nil && !slices.Contains(filter.IDs, t.ID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memDB) DeleteTool(_ context.Context, _ pgx.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.tools {
		if t.ID == id {
			m.tools = append(m.tools[:i], m.tools[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

func (m *memDB) InTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

func (m *memDB) Close() error { return nil }

func newTestService(t *testing.T) (*builderServiceImpl, *memDB) {
	t.Helper()
	db := newMemDB()
	svc := NewBuilderService(db, &config.Config{DefaultUserID: "temp-user-id", DefaultPageLimit: 30}).(*builderServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc, db
}

func calculatorConfig() *models.AgentConfig {
	return &models.AgentConfig{
		Name:         "Calculator",
		Model:        "gpt-4",
		SystemPrompt: "You compute things.",
		Tools:        []string{"calculator"},
		Capabilities: []string{"math"},
	}
}

func seedCalculatorTool(t *testing.T, db *memDB) {
	t.Helper()
	desc := "Evaluates math"
	_, err := db.CreateTool(context.Background(), nil, &models.Tool{
		ID: "calculator", Name: "calculator", DisplayName: "Calculator", Description: &desc, Category: "Math",
		Parameters: []models.ToolParameter{{Name: "expression", Type: "string", Description: "Math expression to evaluate", Required: true}},
		IsBuiltin:  true,
	})
	require.NoError(t, err)
}

func TestCreateAgent(t *testing.T) {
	svc, _ := newTestService(t)

	agent, err := svc.CreateAgent(context.Background(), calculatorConfig())
	require.NoError(t, err)
	assert.NotEmpty(t, agent.ID)
	assert.Equal(t, "temp-user-id", agent.UserID)
	assert.Equal(t, models.AgentStatusDraft, agent.Status)
	assert.Nil(t, agent.Description)
	assert.Equal(t, svc.now(), agent.CreatedAt)
}

func TestCreateAgent_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.AgentConfig)
		wantErr string
	}{
		{name: "missing name", mutate: func(c *models.AgentConfig) { c.Name = "  " }, wantErr: "name is required"},
		{name: "missing model", mutate: func(c *models.AgentConfig) { c.Model = "" }, wantErr: "model is required"},
		{name: "missing prompt", mutate: func(c *models.AgentConfig) { c.SystemPrompt = "" }, wantErr: "systemPrompt is required"},
		{name: "bad status", mutate: func(c *models.AgentConfig) { c.Status = "deleted" }, wantErr: "unknown status"},
		{
			name: "bad knowledge source",
			mutate: func(c *models.AgentConfig) {
				c.KnowledgeSources = []models.KnowledgeSource{{Type: "ftp", Name: "x", Source: "y"}}
			},
			wantErr: "unsupported type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			cfg := calculatorConfig()
			tt.mutate(cfg)
			_, err := svc.CreateAgent(context.Background(), cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, database.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCreateAgent_WhitespacePrompt(t *testing.T) {
	svc, _ := newTestService(t)

	cfg := calculatorConfig()
	cfg.SystemPrompt = " "
	agent, err := svc.CreateAgent(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, " ", agent.SystemPrompt)
}

func TestUpdateAgent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateAgent(ctx, calculatorConfig())
	require.NoError(t, err)

	cfg := calculatorConfig()
	cfg.Name = "Calc"
	cfg.Description = "Adds numbers"
	cfg.Status = models.AgentStatusActive
	cfg.KnowledgeSources = []models.KnowledgeSource{{Type: models.KnowledgeSourceURL, Name: "Docs", Source: "https://example.com"}}

	updated, err := svc.UpdateAgent(ctx, created.ID, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Calc", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Adds numbers", *updated.Description)
	assert.Equal(t, models.AgentStatusActive, updated.Status)
	assert.Len(t, updated.KnowledgeSources, 1)

	_, err = svc.UpdateAgent(ctx, "missing", calculatorConfig())
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestListAgents_ScopedToDefaultUser(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateAgent(ctx, calculatorConfig())
	require.NoError(t, err)
	_, err = db.CreateAgent(ctx, nil, &models.Agent{ID: "other", Name: "Other", UserID: "someone-else"})
	require.NoError(t, err)

	agents, _, err := svc.ListAgents(ctx, nil, "", 0)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "Calculator", agents[0].Name)

	bad := models.AgentStatus("bogus")
	_, _, err = svc.ListAgents(ctx, &database.AgentFilter{Status: &bad}, "", 0)
	assert.ErrorIs(t, err, database.ErrInvalidInput)
}

func TestCreateTool(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tool, err := svc.CreateTool(ctx, &models.ToolJSON{
		Name:        "sendEmail",
		DisplayName: "Send Email",
		Description: "Sends an email",
		Category:    "Communication",
		Parameters:  []models.ToolParameter{{Name: "to", Type: "string", Required: true}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tool.ID)
	require.NotNil(t, tool.Description)
	assert.False(t, tool.IsBuiltin)

	_, err = svc.CreateTool(ctx, &models.ToolJSON{Name: "send-email", DisplayName: "x", Category: "Communication"})
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrInvalidInput)
	assert.Contains(t, err.Error(), "valid identifier")

	_, err = svc.CreateTool(ctx, &models.ToolJSON{Name: "ok", DisplayName: "Ok", Category: "Weather"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestExportAgent(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seedCalculatorTool(t, db)

	agent, err := svc.CreateAgent(ctx, calculatorConfig())
	require.NoError(t, err)

	res, err := svc.ExportAgent(ctx, agent.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Calculator.ts", res.Filename)
	assert.Equal(t, "text/plain", res.ContentType)
	assert.Equal(t, jaf.FormatJAF, res.Format)
	assert.Contains(t, res.Content, "const CalculatorAgent: Agent<AppContext, any> = {")
	assert.Contains(t, res.Content, "const calculator: Tool<any, AppContext> = {")

	res, err = svc.ExportAgent(ctx, agent.ID, "json")
	require.NoError(t, err)
	assert.Equal(t, "Calculator.json", res.Filename)
	assert.Equal(t, "application/json", res.ContentType)
	assert.True(t, strings.HasPrefix(res.Content, "{\n  \"name\": \"Calculator\""))

	_, err = svc.ExportAgent(ctx, agent.ID, "yaml")
	assert.ErrorIs(t, err, database.ErrInvalidInput)

	_, err = svc.ExportAgent(ctx, "missing", "jaf")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestExportAgent_LoadsReferencedToolsOnly(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seedCalculatorTool(t, db)
	_, err := db.CreateTool(ctx, nil, &models.Tool{ID: "weather", Name: "weather", DisplayName: "Weather", Category: "Custom"})
	require.NoError(t, err)

	agent, err := svc.CreateAgent(ctx, calculatorConfig())
	require.NoError(t, err)

	db.toolFilters = nil
	res, err := svc.ExportAgent(ctx, agent.ID, "jaf")
	require.NoError(t, err)
	assert.Contains(t, res.Content, "const calculator: Tool<any, AppContext> = {")
	assert.NotContains(t, res.Content, "weather")
	require.Len(t, db.toolFilters, 1)
	require.NotNil(t, db.toolFilters[0])
	assert.Equal(t, []string{"calculator"}, db.toolFilters[0].IDs)

	cfg := calculatorConfig()
	cfg.Name = "Toolless"
	cfg.Tools = nil
	bare, err := svc.CreateAgent(ctx, cfg)
	require.NoError(t, err)

	db.toolFilters = nil
	res, err = svc.ExportAgent(ctx, bare.ID, "jaf")
	require.NoError(t, err)
	assert.Contains(t, res.Content, "tools: [],")
	assert.Empty(t, db.toolFilters)
}

func TestImportAgent(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seedCalculatorTool(t, db)

	agent, err := svc.CreateAgent(ctx, calculatorConfig())
	require.NoError(t, err)
	exported, err := svc.ExportAgent(ctx, agent.ID, "jaf")
	require.NoError(t, err)

	res, err := svc.ImportAgent(ctx, exported.Content, false)
	require.NoError(t, err)
	assert.Equal(t, "Calculator", res.Parsed.Name)
	assert.Equal(t, "gpt-4", res.Parsed.Model)
	assert.Equal(t, "You compute things.", res.Parsed.SystemPrompt)
	assert.Nil(t, res.Agent)

	res, err = svc.ImportAgent(ctx, exported.Content, true)
	require.NoError(t, err)
	require.NotNil(t, res.Agent)
	assert.NotEqual(t, agent.ID, res.Agent.ID)
	assert.Equal(t, models.AgentStatusDraft, res.Agent.Status)
	assert.Empty(t, res.Agent.Tools)

	_, err = svc.ImportAgent(ctx, "console.log('hi')", true)
	require.Error(t, err)
	assert.True(t, IsUnrecognizedModule(err))
	assert.True(t, errors.Is(err, database.ErrInvalidInput))
}
