package jaf

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
)

// topLevelKeys returns the object keys of a JSON document in the order they appear.
func topLevelKeys(t *testing.T, doc string) []string {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(doc), &raw))

	dec := json.NewDecoder(strings.NewReader(doc))
	tok, err := dec.Token()
	require.NoError(t, err)
	require.Equal(t, json.Delim('{'), tok)

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		keys = append(keys, tok.(string))
		var skip json.RawMessage
		require.NoError(t, dec.Decode(&skip))
	}
	require.Len(t, keys, len(raw))
	return keys
}

func TestRenderJSON_FieldSet(t *testing.T) {
	team := "team-1"
	agent := &models.Agent{
		ID:           "agent-123",
		Name:         "Support Bot",
		Description:  strPtr("Answers <support> & billing questions"),
		Model:        "claude-3-haiku",
		SystemPrompt: "Be helpful.",
		Tools:        []string{"web-search"},
		Capabilities: []string{"search"},
		Config:       map[string]any{"temperature": 0.2},
		Status:       models.AgentStatusActive,
		UserID:       "user-1",
		TeamID:       &team,
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		KnowledgeSources: []models.KnowledgeSource{
			{Type: models.KnowledgeSourceURL, Name: "Docs", Source: "https://example.com"},
		},
	}

	out := RenderJSON(agent)

	assert.Equal(t,
		[]string{"name", "description", "model", "systemPrompt", "tools", "capabilities", "config"},
		topLevelKeys(t, out))
	assert.NotContains(t, out, "agent-123")
	assert.NotContains(t, out, `"status"`)
	assert.NotContains(t, out, `"id"`)
	assert.NotContains(t, out, "knowledgeSources")
	assert.Contains(t, out, "Answers <support> & billing questions")
}

func TestRenderJSON_Golden(t *testing.T) {
	agent := &models.Agent{
		Name:         "Minimal",
		Model:        "gpt-4",
		SystemPrompt: "Hi",
	}

	want := "{\n" +
		"  \"name\": \"Minimal\",\n" +
		"  \"description\": null,\n" +
		"  \"model\": \"gpt-4\",\n" +
		"  \"systemPrompt\": \"Hi\",\n" +
		"  \"tools\": [],\n" +
		"  \"capabilities\": [],\n" +
		"  \"config\": null\n" +
		"}"
	assert.Equal(t, want, RenderJSON(agent))
}

func TestRenderJSON_UnencodableConfig(t *testing.T) {
	agent := &models.Agent{
		Name:         "Odd",
		Model:        "gpt-4",
		SystemPrompt: "p",
		Config:       map[string]any{"ch": make(chan int)},
	}

	out := RenderJSON(agent)
	assert.Contains(t, out, `"config": null`)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatJAF},
		{in: "jaf", want: FormatJAF},
		{in: "JSON", want: FormatJSON},
		{in: " json ", want: FormatJSON},
		{in: "yaml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "ResearchAssistant.ts", ExportFilename("Research Assistant", FormatJAF))
	assert.Equal(t, "MyAgent.json", ExportFilename("My-Agent!", FormatJSON))
	assert.Equal(t, "agent.ts", ExportFilename("!!!", FormatJAF))
	assert.Equal(t, "text/plain", FormatJAF.ContentType())
	assert.Equal(t, "application/json", FormatJSON.ContentType())
}

func TestRenderJSON_LineSeparators(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{name: "raw separators", prompt: "a\u2028b\u2029c", want: "\"systemPrompt\": \"a\u2028b\u2029c\""},
		{name: "literal escape text kept", prompt: `x\u2028`, want: `"systemPrompt": "x\\u2028"`},
		{name: "quote before separator", prompt: "\"\u2028", want: "\"systemPrompt\": \"\\\"\u2028\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderJSON(&models.Agent{Name: "n", Model: "gpt-4", SystemPrompt: tt.prompt})
			assert.Contains(t, out, tt.want)

			var decoded map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &decoded))
			assert.Equal(t, tt.prompt, decoded["systemPrompt"])
		})
	}
}
