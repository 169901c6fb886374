package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
)

func validManifest() *models.ProjectManifest {
	return &models.ProjectManifest{
		Name:      "Helper",
		Framework: "jaf",
		Language:  "typescript",
		Model:     "gpt-4",
		Version:   "0.1.0",
	}
}

func TestManager_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	m := NewManifestManager(dir)

	manifest := validManifest()
	manifest.Knowledge = []models.KnowledgeSource{{Type: models.KnowledgeSourceURL, Name: "Docs", Source: "https://example.com"}}
	require.NoError(t, m.Save(manifest))
	assert.False(t, manifest.UpdatedAt.IsZero())

	loaded, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, "Helper", loaded.Name)
	assert.Equal(t, "0.1.0", loaded.Version)
	require.Len(t, loaded.Knowledge, 1)
	assert.Equal(t, models.KnowledgeSourceURL, loaded.Knowledge[0].Type)
}

func TestManager_LoadMissing(t *testing.T) {
	_, err := NewManifestManager(t.TempDir()).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent.yaml not found")
}

func TestManager_LoadInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFileName), []byte("agentName: x\nframework: jaf\n"), 0o644))

	_, err := NewManifestManager(dir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid agent.yaml")
}

func TestManager_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.ProjectManifest)
		wantErr string
	}{
		{name: "valid", mutate: func(*models.ProjectManifest) {}},
		{name: "missing name", mutate: func(m *models.ProjectManifest) { m.Name = "" }, wantErr: "agent name is required"},
		{name: "missing model", mutate: func(m *models.ProjectManifest) { m.Model = "" }, wantErr: "model is required"},
		{name: "bad version", mutate: func(m *models.ProjectManifest) { m.Version = "1.x" }, wantErr: "not a valid semantic version"},
		{name: "v-prefixed version", mutate: func(m *models.ProjectManifest) { m.Version = "v1.2.3" }},
		{
			name: "bad knowledge type",
			mutate: func(m *models.ProjectManifest) {
				m.Knowledge = []models.KnowledgeSource{{Type: "ftp", Name: "n", Source: "s"}}
			},
			wantErr: "unsupported type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manifest := validManifest()
			tt.mutate(manifest)
			err := NewManifestManager(t.TempDir()).Validate(manifest)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
