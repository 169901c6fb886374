package common

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
)

const ManifestFileName = "agent.yaml"

// Manager handles loading and saving of project manifests.
type Manager struct {
	projectRoot string
}

// NewManifestManager creates a new manifest manager for the given project root.
func NewManifestManager(projectRoot string) *Manager {
	return &Manager{
		projectRoot: projectRoot,
	}
}

// Load reads and parses the agent.yaml file.
func (m *Manager) Load() (*models.ProjectManifest, error) {
	manifestPath := filepath.Join(m.projectRoot, ManifestFileName)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("agent.yaml not found in %s", m.projectRoot)
		}
		return nil, fmt.Errorf("failed to read agent.yaml: %w", err)
	}

	var manifest models.ProjectManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse agent.yaml: %w", err)
	}

	if err := m.Validate(&manifest); err != nil {
		return nil, fmt.Errorf("invalid agent.yaml: %w", err)
	}

	return &manifest, nil
}

// Save writes the manifest to agent.yaml.
func (m *Manager) Save(manifest *models.ProjectManifest) error {
	manifest.UpdatedAt = time.Now().UTC()

	if err := m.Validate(manifest); err != nil {
		return fmt.Errorf("invalid manifest: %w", err)
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	manifestPath := filepath.Join(m.projectRoot, ManifestFileName)
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write agent.yaml: %w", err)
	}

	return nil
}

// Validate checks if the manifest is valid.
func (m *Manager) Validate(manifest *models.ProjectManifest) error {
	if manifest.Name == "" {
		return fmt.Errorf("agent name is required")
	}
	if manifest.Language == "" {
		return fmt.Errorf("language is required")
	}
	if manifest.Framework == "" {
		return fmt.Errorf("framework is required")
	}
	if manifest.Model == "" {
		return fmt.Errorf("model is required")
	}
	if !IsValidVersion(manifest.Version) {
		return fmt.Errorf("version %q is not a valid semantic version", manifest.Version)
	}

	for i, ks := range manifest.Knowledge {
		if !ks.Type.IsValid() {
			return fmt.Errorf("knowledgeSources[%d]: unsupported type '%s'", i, ks.Type)
		}
		if ks.Name == "" {
			return fmt.Errorf("knowledgeSources[%d]: name is required", i)
		}
		if ks.Source == "" {
			return fmt.Errorf("knowledgeSources[%d]: source is required", i)
		}
	}
	return nil
}

// IsValidVersion accepts semantic versions with or without the leading "v".
func IsValidVersion(version string) bool {
	if version == "" {
		return false
	}
	if version[0] != 'v' {
		version = "v" + version
	}
	return semver.IsValid(version)
}
