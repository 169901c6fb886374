package jaf

import (
	"fmt"
	"strings"

	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
)

const emptyObjectSchema = "z.object({})"

// zodPrimitive maps a parameter type to its zod constructor.
func zodPrimitive(paramType string) string {
	switch paramType {
	case "string":
		return "z.string()"
	case "number":
		return "z.number()"
	case "boolean":
		return "z.boolean()"
	case "array":
		return "z.array(z.any())"
	default:
		return "z.any()"
	}
}

// RenderFieldSchema renders the zod schema of a single parameter.
// The description is attached before optionality so output is stable.
func RenderFieldSchema(p models.ToolParameter) string {
	schema := zodPrimitive(p.Type)
	if p.Description != "" {
		schema += fmt.Sprintf(".describe(\"%s\")", p.Description)
	}
	if !p.Required {
		schema += ".optional()"
	}
	return schema
}

// RenderParameterSchema renders an ordered parameter list as a zod object literal.
func RenderParameterSchema(params []models.ToolParameter) string {
	if len(params) == 0 {
		return emptyObjectSchema
	}
	fields := make([]string, len(params))
	for i, p := range params {
		fields[i] = fmt.Sprintf("    %s: %s", p.Name, RenderFieldSchema(p))
	}
	return "z.object({\n" + strings.Join(fields, ",\n") + "\n  })"
}
