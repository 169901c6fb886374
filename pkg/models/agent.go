package models

import (
	"time"
)

// AgentStatus is the lifecycle state of an agent definition.
type AgentStatus string

const (
	AgentStatusDraft    AgentStatus = "draft"
	AgentStatusActive   AgentStatus = "active"
	AgentStatusArchived AgentStatus = "archived"
)

// AgentStatuses lists every valid status in display order.
var AgentStatuses = []AgentStatus{AgentStatusDraft, AgentStatusActive, AgentStatusArchived}

// IsValid reports whether s is one of the known statuses.
func (s AgentStatus) IsValid() bool {
	for _, known := range AgentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// AgentConfig is the user-editable part of an agent, independent of storage.
type AgentConfig struct {
	Name             string            `json:"name" yaml:"name" doc:"Agent name" minLength:"1" example:"Research Assistant"`
	Description      string            `json:"description,omitempty" yaml:"description,omitempty" doc:"Optional description"`
	Model            string            `json:"model" yaml:"model" doc:"Model identifier from the model catalog" minLength:"1" example:"gpt-4"`
	SystemPrompt     string            `json:"systemPrompt" yaml:"systemPrompt" doc:"System prompt given to the agent" minLength:"1"`
	Tools            []string          `json:"tools" yaml:"tools" doc:"Tool ids available to the agent" required:"false"`
	Capabilities     []string          `json:"capabilities" yaml:"capabilities" doc:"Free-text capability labels" required:"false"`
	Status           AgentStatus       `json:"status,omitempty" yaml:"status,omitempty" doc:"Lifecycle status" enum:"draft,active,archived" required:"false"`
	Config           map[string]any    `json:"config,omitempty" yaml:"config,omitempty" doc:"Free-form agent configuration" required:"false"`
	KnowledgeSources []KnowledgeSource `json:"knowledgeSources,omitempty" yaml:"knowledgeSources,omitempty" doc:"Knowledge sources the agent may consult" required:"false"`
}

// Agent is a persisted agent definition.
type Agent struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Description      *string           `json:"description,omitempty"`
	Model            string            `json:"model"`
	SystemPrompt     string            `json:"systemPrompt"`
	Tools            []string          `json:"tools"`
	Capabilities     []string          `json:"capabilities"`
	Config           map[string]any    `json:"config,omitempty"`
	Status           AgentStatus       `json:"status"`
	UserID           string            `json:"userId"`
	TeamID           *string           `json:"teamId,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
	KnowledgeSources []KnowledgeSource `json:"knowledgeSources,omitempty"`
}

// KnowledgeSourceType enumerates where a knowledge source lives.
type KnowledgeSourceType string

const (
	KnowledgeSourceDocument KnowledgeSourceType = "document"
	KnowledgeSourceURL      KnowledgeSourceType = "url"
	KnowledgeSourceAPI      KnowledgeSourceType = "api"
)

// IsValid reports whether t is one of the known source types.
func (t KnowledgeSourceType) IsValid() bool {
	switch t {
	case KnowledgeSourceDocument, KnowledgeSourceURL, KnowledgeSourceAPI:
		return true
	}
	return false
}

// KnowledgeSource is an external reference an agent may consult.
type KnowledgeSource struct {
	Type     KnowledgeSourceType `json:"type" yaml:"type" enum:"document,url,api"`
	Name     string              `json:"name" yaml:"name" minLength:"1"`
	Source   string              `json:"source" yaml:"source" minLength:"1" doc:"Path, URL or endpoint"`
	Settings map[string]any      `json:"settings,omitempty" yaml:"settings,omitempty" required:"false"`
}

type AgentMetadata struct {
	NextCursor string `json:"nextCursor,omitempty"`
	Count      int    `json:"count"`
}

type AgentListResponse struct {
	Agents   []Agent       `json:"agents"`
	Metadata AgentMetadata `json:"metadata"`
}
