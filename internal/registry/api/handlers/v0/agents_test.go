package v0_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v0 "github.com/agentbuilder-dev/agentbuilder/internal/registry/api/handlers/v0"
	servicetesting "github.com/agentbuilder-dev/agentbuilder/internal/registry/service/testing"
	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
	"github.com/agentbuilder-dev/agentbuilder/pkg/registry/database"
)

func newTestAPI(t *testing.T) (*http.ServeMux, huma.API) {
	t.Helper()
	mux := http.NewServeMux()
	api := humago.New(mux, huma.DefaultConfig("Test API", "1.0.0"))
	return mux, api
}

func sampleAgent() *models.Agent {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &models.Agent{
		ID:           "agent-1",
		Name:         "Calculator",
		Model:        "gpt-4",
		SystemPrompt: "You compute things.",
		Tools:        []string{"calculator"},
		Capabilities: []string{"math"},
		Status:       models.AgentStatusDraft,
		UserID:       "temp-user-id",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestListAgentsEndpoint(t *testing.T) {
	fake := servicetesting.NewFakeRegistry()
	var gotFilter *database.AgentFilter
	fake.ListAgentsFn = func(_ context.Context, filter *database.AgentFilter, cursor string, limit int) ([]*models.Agent, string, error) {
		gotFilter = filter
		assert.Equal(t, "abc", cursor)
		assert.Equal(t, 5, limit)
		return []*models.Agent{sampleAgent()}, "agent-1", nil
	}

	mux, api := newTestAPI(t)
	v0.RegisterAgentsEndpoints(api, "/v0", fake)

	req := httptest.NewRequest(http.MethodGet, "/v0/agents?cursor=abc&limit=5&search=calc&status=draft", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.AgentListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Agents, 1)
	assert.Equal(t, "Calculator", resp.Agents[0].Name)
	assert.Equal(t, "agent-1", resp.Metadata.NextCursor)
	assert.Equal(t, 1, resp.Metadata.Count)

	require.NotNil(t, gotFilter)
	require.NotNil(t, gotFilter.SubstringName)
	assert.Equal(t, "calc", *gotFilter.SubstringName)
	require.NotNil(t, gotFilter.Status)
	assert.Equal(t, models.AgentStatusDraft, *gotFilter.Status)
}

func TestListAgentsEndpoint_InvalidUpdatedSince(t *testing.T) {
	mux, api := newTestAPI(t)
	v0.RegisterAgentsEndpoints(api, "/v0", servicetesting.NewFakeRegistry())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v0/agents?updated_since=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAgentEndpoint(t *testing.T) {
	fake := servicetesting.NewFakeRegistry()
	fake.Agents = []*models.Agent{sampleAgent()}

	mux, api := newTestAPI(t)
	v0.RegisterAgentsEndpoints(api, "/v0", fake)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "found", path: "/v0/agents/agent-1", wantStatus: http.StatusOK, wantBody: `"systemPrompt":"You compute things."`},
		{name: "missing", path: "/v0/agents/nope", wantStatus: http.StatusNotFound, wantBody: "Agent not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestCreateAgentEndpoint(t *testing.T) {
	fake := servicetesting.NewFakeRegistry()
	fake.CreateAgentFn = func(_ context.Context, req *models.AgentConfig) (*models.Agent, error) {
		agent := sampleAgent()
		agent.Name = req.Name
		return agent, nil
	}

	mux, api := newTestAPI(t)
	v0.RegisterAgentsEndpoints(api, "/v0", fake)

	body := `{"name":"Helper","model":"gpt-4","systemPrompt":"Help.","tools":[],"capabilities":[]}`
	req := httptest.NewRequest(http.MethodPost, "/v0/agents", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"name":"Helper"`)
	assert.Equal(t, 1, fake.CreateAgentCalls)
}

func TestCreateAgentEndpoint_ValidationError(t *testing.T) {
	fake := servicetesting.NewFakeRegistry()
	fake.CreateAgentFn = func(context.Context, *models.AgentConfig) (*models.Agent, error) {
		return nil, database.ErrInvalidInput
	}

	mux, api := newTestAPI(t)
	v0.RegisterAgentsEndpoints(api, "/v0", fake)

	body := `{"name":"Helper","model":"gpt-4","systemPrompt":"Help."}`
	req := httptest.NewRequest(http.MethodPost, "/v0/agents", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAgentEndpoint(t *testing.T) {
	fake := servicetesting.NewFakeRegistry()
	fake.DeleteAgentFn = func(_ context.Context, id string) error {
		if id == "agent-1" {
			return nil
		}
		return database.ErrNotFound
	}

	mux, api := newTestAPI(t)
	v0.RegisterAgentsEndpoints(api, "/v0", fake)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v0/agents/agent-1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Agent deleted successfully")

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v0/agents/other", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 2, fake.DeleteAgentCalls)
}
