// Package jaf turns agent definitions into TypeScript modules for the JAF
// agent framework (@xynehq/jaf) and back.
//
// Every function in this package is pure and safe for concurrent use.
package jaf

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
)

const (
	// FrameworkName is the npm package generated modules import from.
	FrameworkName = "@xynehq/jaf"

	agentVarSuffix = "Agent"

	modelTemperature = "0.7"
	modelMaxTokens   = "1000"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// StripNonAlphanumeric removes every character outside [A-Za-z0-9].
// "My Agent" and "My-Agent" both become "MyAgent".
func StripNonAlphanumeric(s string) string {
	return nonAlphanumeric.ReplaceAllString(s, "")
}

// AgentVarName is the identifier the agent declaration is bound to.
func AgentVarName(agentName string) string {
	return StripNonAlphanumeric(agentName) + agentVarSuffix
}

// SelectTools returns the catalog entries referenced by agentTools, in catalog order.
// References missing from the catalog are dropped.
func SelectTools(agentTools []string, catalog []models.Tool) []models.Tool {
	selected := make([]models.Tool, 0, len(agentTools))
	for _, t := range catalog {
		if slices.Contains(agentTools, t.ID) {
			selected = append(selected, t)
		}
	}
	return selected
}

// EscapePrompt escapes the template literal delimiter and nothing else.
func EscapePrompt(prompt string) string {
	return strings.ReplaceAll(prompt, "`", "\\`")
}

// RenderModule generates a JAF TypeScript module defining the agent and the
// catalog tools it references. A nil agent renders as an empty definition.
func RenderModule(agent *models.Agent, tools []models.Tool) string {
	if agent == nil {
		agent = &models.Agent{}
	}
	selected := SelectTools(agent.Tools, tools)
	varName := AgentVarName(agent.Name)

	toolDecls := make([]string, len(selected))
	toolNames := make([]string, len(selected))
	for i, t := range selected {
		toolDecls[i] = renderTool(t)
		toolNames[i] = t.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "import { Agent, Tool } from '%s';\n", FrameworkName)
	b.WriteString("import { z } from 'zod';\n")
	b.WriteString("\n")
	b.WriteString("// Define context type for your application\n")
	b.WriteString("type AppContext = {\n")
	b.WriteString("  userId: string;\n")
	b.WriteString("  permissions: string[];\n")
	b.WriteString("};\n")
	b.WriteString("\n")
	b.WriteString(strings.Join(toolDecls, "\n\n"))
	b.WriteString("\n")
	b.WriteString("\n")
	b.WriteString("// Agent configuration\n")
	fmt.Fprintf(&b, "const %s: Agent<AppContext, any> = {\n", varName)
	fmt.Fprintf(&b, "  name: '%s',\n", agent.Name)
	fmt.Fprintf(&b, "  instructions: (state) => `%s`,\n", EscapePrompt(agent.SystemPrompt))
	fmt.Fprintf(&b, "  tools: [%s],\n", strings.Join(toolNames, ", "))
	b.WriteString("  modelConfig: {\n")
	fmt.Fprintf(&b, "    name: '%s',\n", agent.Model)
	fmt.Fprintf(&b, "    temperature: %s,\n", modelTemperature)
	fmt.Fprintf(&b, "    maxTokens: %s\n", modelMaxTokens)
	b.WriteString("  }\n")
	b.WriteString("};\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "export default %s;\n", varName)
	return b.String()
}

// renderTool emits a tool declaration with a stub execute body.
func renderTool(t models.Tool) string {
	description := ""
	if t.Description != nil {
		description = *t.Description
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// %s Tool\n", t.DisplayName)
	fmt.Fprintf(&b, "const %s: Tool<any, AppContext> = {\n", t.Name)
	b.WriteString("  schema: {\n")
	fmt.Fprintf(&b, "    name: \"%s\",\n", t.Name)
	fmt.Fprintf(&b, "    description: \"%s\",\n", description)
	fmt.Fprintf(&b, "    parameters: %s\n", RenderParameterSchema(t.Parameters))
	b.WriteString("  },\n")
	b.WriteString("  execute: async (args, context) => {\n")
	fmt.Fprintf(&b, "    // TODO: Implement %s logic\n", t.DisplayName)
	fmt.Fprintf(&b, "    return `Executed %s with args: ${JSON.stringify(args)}`;\n", t.DisplayName)
	b.WriteString("  }\n")
	b.WriteString("};")
	return b.String()
}
