package models

import (
	"slices"
	"strings"
)

// ModelOption is an entry of the model catalog.
type ModelOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// AvailableModels is the catalog of models an agent can be configured with.
var AvailableModels = []ModelOption{
	{Value: "gpt-4", Label: "GPT-4"},
	{Value: "gpt-4-turbo", Label: "GPT-4 Turbo"},
	{Value: "gpt-3.5-turbo", Label: "GPT-3.5 Turbo"},
	{Value: "claude-3-opus", Label: "Claude 3 Opus"},
	{Value: "claude-3-sonnet", Label: "Claude 3 Sonnet"},
	{Value: "claude-3-haiku", Label: "Claude 3 Haiku"},
	{Value: "gemini-pro", Label: "Gemini Pro"},
	{Value: "gemini-2.0-flash", Label: "Gemini 2.0 Flash"},
}

// DefaultModel is used when no model can be determined.
const DefaultModel = "gpt-4"

// ToolCategories is the fixed set of tool categories.
var ToolCategories = []string{
	"Search",
	"Math",
	"Data",
	"Communication",
	"File Management",
	"API Integration",
	"Custom",
}

// IsSupportedModel reports whether model is in the catalog.
func IsSupportedModel(model string) bool {
	return slices.ContainsFunc(AvailableModels, func(m ModelOption) bool {
		return m.Value == model
	})
}

// ModelLabel returns the display label for model, or model itself when unknown.
func ModelLabel(model string) string {
	for _, m := range AvailableModels {
		if m.Value == model {
			return m.Label
		}
	}
	return model
}

// IsToolCategory reports whether category is a known tool category (case-insensitive).
func IsToolCategory(category string) bool {
	return slices.ContainsFunc(ToolCategories, func(c string) bool {
		return strings.EqualFold(c, category)
	})
}
