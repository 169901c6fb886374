package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
	"github.com/agentbuilder-dev/agentbuilder/pkg/registry/database"
)

func newAgent(id, name string, updated time.Time) *models.Agent {
	return &models.Agent{
		ID:           id,
		Name:         name,
		Model:        "gpt-4",
		SystemPrompt: "Be helpful.",
		Tools:        []string{"calculator"},
		Capabilities: []string{"math"},
		Status:       models.AgentStatusDraft,
		UserID:       "temp-user-id",
		CreatedAt:    updated,
		UpdatedAt:    updated,
	}
}

func TestPostgreSQL_AgentLifecycle(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	agent := newAgent("agent-1", "Calculator", now)
	agent.Config = map[string]any{"temperature": 0.2}
	agent.KnowledgeSources = []models.KnowledgeSource{
		{Type: models.KnowledgeSourceURL, Name: "Docs", Source: "https://example.com"},
		{Type: models.KnowledgeSourceDocument, Name: "Guide", Source: "guide.pdf"},
	}

	created, err := db.CreateAgent(ctx, nil, agent)
	require.NoError(t, err)
	assert.Equal(t, "Calculator", created.Name)
	assert.Equal(t, []string{"calculator"}, created.Tools)

	_, err = db.CreateAgent(ctx, nil, agent)
	assert.ErrorIs(t, err, database.ErrAlreadyExists)

	got, err := db.GetAgent(ctx, nil, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, 0.2, got.Config["temperature"])
	require.Len(t, got.KnowledgeSources, 2)
	assert.Equal(t, "Docs", got.KnowledgeSources[0].Name)
	assert.Equal(t, "Guide", got.KnowledgeSources[1].Name)

	got.Name = "Calc"
	got.Tools = nil
	got.Status = models.AgentStatusActive
	got.UpdatedAt = now.Add(time.Minute)
	updated, err := db.UpdateAgent(ctx, nil, got)
	require.NoError(t, err)
	assert.Equal(t, "Calc", updated.Name)
	assert.Equal(t, []string{}, updated.Tools)
	assert.Equal(t, models.AgentStatusActive, updated.Status)
	assert.Len(t, updated.KnowledgeSources, 2)

	require.NoError(t, db.DeleteAgent(ctx, nil, "agent-1"))
	_, err = db.GetAgent(ctx, nil, "agent-1")
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.ErrorIs(t, db.DeleteAgent(ctx, nil, "agent-1"), database.ErrNotFound)
}

func TestPostgreSQL_ListAgentsPagination(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	for i := range 5 {
		_, err := db.CreateAgent(ctx, nil, newAgent(fmt.Sprintf("agent-%d", i), fmt.Sprintf("Agent %d", i), base.Add(time.Duration(i)*time.Second)))
		require.NoError(t, err)
	}

	page, cursor, err := db.ListAgents(ctx, nil, nil, "", 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "agent-4", page[0].ID)
	assert.Equal(t, "agent-3", page[1].ID)
	assert.Equal(t, "agent-3", cursor)

	page, cursor, err = db.ListAgents(ctx, nil, nil, cursor, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "agent-2", page[0].ID)

	page, cursor, err = db.ListAgents(ctx, nil, nil, cursor, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "agent-0", page[0].ID)
	assert.Empty(t, cursor)

	search := "agent 3"
	page, _, err = db.ListAgents(ctx, nil, &database.AgentFilter{SubstringName: &search}, "", 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "agent-3", page[0].ID)
}

func TestPostgreSQL_Tools(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	desc := "Evaluates math"
	tools := []*models.Tool{
		{ID: "calculator", Name: "calculator", DisplayName: "Calculator", Description: &desc, Category: "Math", IsBuiltin: true,
			Parameters: []models.ToolParameter{{Name: "expression", Type: "string", Required: true}}, CreatedAt: now, UpdatedAt: now},
		{ID: "web-search", Name: "webSearch", DisplayName: "Web Search", Category: "Search", IsBuiltin: true,
			CreatedAt: now.Add(time.Second), UpdatedAt: now.Add(time.Second)},
		{ID: "custom", Name: "custom", DisplayName: "Custom", Category: "Utility",
			CreatedAt: now.Add(2 * time.Second), UpdatedAt: now.Add(2 * time.Second)},
	}
	for _, tool := range tools {
		_, err := db.CreateTool(ctx, nil, tool)
		require.NoError(t, err)
	}

	dup := *tools[0]
	dup.ID = "calculator-2"
	_, err := db.CreateTool(ctx, nil, &dup)
	assert.ErrorIs(t, err, database.ErrAlreadyExists)

	all, err := db.ListTools(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "calculator", all[0].ID)
	assert.Equal(t, "web-search", all[1].ID)
	assert.Equal(t, []models.ToolParameter{}, all[1].Parameters)

	builtin := true
	filtered, err := db.ListTools(ctx, nil, &database.ToolFilter{Builtin: &builtin})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	byName, err := db.GetToolByName(ctx, nil, "webSearch")
	require.NoError(t, err)
	assert.Equal(t, "web-search", byName.ID)

	require.NoError(t, db.DeleteTool(ctx, nil, "custom"))
	_, err = db.GetTool(ctx, nil, "custom")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestPostgreSQL_InTransactionRollback(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	err := db.InTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := db.CreateAgent(ctx, tx, newAgent("tx-agent", "Tx", time.Now().UTC())); err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	require.Error(t, err)

	_, err = db.GetAgent(ctx, nil, "tx-agent")
	assert.ErrorIs(t, err, database.ErrNotFound)
}
