package models

import "time"

// ProjectManifest is the agent.yaml written next to a scaffolded JAF project.
type ProjectManifest struct {
	Name         string            `yaml:"agentName" json:"name"`
	AgentID      string            `yaml:"agentId,omitempty" json:"agentId,omitempty"`
	Framework    string            `yaml:"framework" json:"framework"`
	Language     string            `yaml:"language" json:"language"`
	Model        string            `yaml:"model" json:"model"`
	Description  string            `yaml:"description,omitempty" json:"description,omitempty"`
	Version      string            `yaml:"version" json:"version"`
	Tools        []string          `yaml:"tools,omitempty" json:"tools,omitempty"`
	Capabilities []string          `yaml:"capabilities,omitempty" json:"capabilities,omitempty"`
	Knowledge    []KnowledgeSource `yaml:"knowledgeSources,omitempty" json:"knowledgeSources,omitempty"`
	UpdatedAt    time.Time         `yaml:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
