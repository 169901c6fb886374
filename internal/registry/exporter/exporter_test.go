package exporter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbuilder-dev/agentbuilder/internal/client"
	"github.com/agentbuilder-dev/agentbuilder/internal/frameworks/jaf"
	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
)

type fakeSource struct {
	agents  []models.Agent
	failIDs map[string]bool
	calls   atomic.Int32
}

func (f *fakeSource) ListAgents(client.AgentListOptions) ([]models.Agent, error) {
	return f.agents, nil
}

func (f *fakeSource) ExportAgent(id, format string) (*client.Export, error) {
	f.calls.Add(1)
	if f.failIDs[id] {
		return nil, errors.New("boom")
	}
	return &client.Export{Content: []byte(id + ":" + format)}, nil
}

func TestExportAll(t *testing.T) {
	src := &fakeSource{agents: []models.Agent{
		{ID: "a1", Name: "Research Assistant"},
		{ID: "a2", Name: "Calculator"},
		{ID: "a3", Name: "Calculator"},
	}}
	dir := filepath.Join(t.TempDir(), "out")

	var progress bytes.Buffer
	svc := NewService(src)
	svc.SetConcurrency(2)
	svc.SetProgressOutput(&progress)

	result, err := svc.ExportAll(context.Background(), dir, jaf.FormatJAF, client.AgentListOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Written, 3)
	assert.Empty(t, result.Failed)
	assert.EqualValues(t, 3, src.calls.Load())

	content, err := os.ReadFile(filepath.Join(dir, "ResearchAssistant.ts"))
	require.NoError(t, err)
	assert.Equal(t, "a1:jaf", string(content))

	for _, name := range []string{"Calculator-a2.ts", "Calculator-a3.ts"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestExportAll_CollectsFailures(t *testing.T) {
	src := &fakeSource{
		agents:  []models.Agent{{ID: "ok", Name: "Good"}, {ID: "bad", Name: "Broken"}},
		failIDs: map[string]bool{"bad": true},
	}

	result, err := NewService(src).ExportAll(context.Background(), t.TempDir(), jaf.FormatJSON, client.AgentListOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent bad")
	require.NotNil(t, result)
	assert.Len(t, result.Written, 1)
	assert.Contains(t, result.Failed, "bad")
}

func TestAssignFilenames(t *testing.T) {
	names := assignFilenames([]models.Agent{
		{ID: "1", Name: "Helper"},
		{ID: "2", Name: "helper"},
		{ID: "3", Name: "Other"},
	}, jaf.FormatJSON)

	assert.Equal(t, "Helper-1.json", names["1"])
	assert.Equal(t, "helper-2.json", names["2"])
	assert.Equal(t, "Other.json", names["3"])
}
