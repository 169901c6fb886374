package models

import "time"

// ToolParameter describes one argument of a tool.
type ToolParameter struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type" doc:"string, number, boolean, array or any other value"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

// Tool is a named, schema-described capability an agent can invoke.
// Name must already be a valid identifier in generated code.
type Tool struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	DisplayName    string          `json:"displayName"`
	Description    *string         `json:"description,omitempty"`
	Category       string          `json:"category"`
	Parameters     []ToolParameter `json:"parameters"`
	IsBuiltin      bool            `json:"isBuiltin"`
	Implementation map[string]any  `json:"implementation,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ToolJSON is the create payload for a tool.
type ToolJSON struct {
	ID             string          `json:"id,omitempty" doc:"Optional storage key; generated when empty" required:"false"`
	Name           string          `json:"name" doc:"Identifier used in generated code" minLength:"1" example:"webSearch"`
	DisplayName    string          `json:"displayName" minLength:"1" example:"Web Search"`
	Description    string          `json:"description,omitempty" required:"false"`
	Category       string          `json:"category" example:"Search"`
	Parameters     []ToolParameter `json:"parameters" required:"false"`
	IsBuiltin      bool            `json:"isBuiltin,omitempty" required:"false"`
	Implementation map[string]any  `json:"implementation,omitempty" required:"false"`
}

type ToolListResponse struct {
	Tools    []Tool        `json:"tools"`
	Metadata AgentMetadata `json:"metadata"`
}
