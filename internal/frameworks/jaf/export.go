package jaf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
)

// Format is an export representation of an agent.
type Format string

const (
	FormatJAF  Format = "jaf"
	FormatJSON Format = "json"
)

// ParseFormat resolves a user-supplied format name. The empty string means FormatJAF.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatJAF):
		return FormatJAF, nil
	case string(FormatJSON):
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (expected jaf or json)", s)
	}
}

// Extension is the file extension used when the export is saved.
func (f Format) Extension() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".ts"
}

// ContentType is the MIME type the export is served with.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/plain"
}

const defaultExportBaseName = "agent"

// ExportFilename derives a filesystem-safe file name from an agent name.
func ExportFilename(agentName string, f Format) string {
	base := StripNonAlphanumeric(agentName)
	if base == "" {
		base = defaultExportBaseName
	}
	return base + f.Extension()
}

// jsonExport fixes the exported key set and order.
type jsonExport struct {
	Name         string         `json:"name"`
	Description  *string        `json:"description"`
	Model        string         `json:"model"`
	SystemPrompt string         `json:"systemPrompt"`
	Tools        []string       `json:"tools"`
	Capabilities []string       `json:"capabilities"`
	Config       map[string]any `json:"config"`
}

// RenderJSON serializes the interchange subset of an agent with 2-space indentation.
// Identity, ownership, status and knowledge sources are never included.
func RenderJSON(agent *models.Agent) string {
	if agent == nil {
		agent = &models.Agent{}
	}
	payload := jsonExport{
		Name:         agent.Name,
		Description:  agent.Description,
		Model:        agent.Model,
		SystemPrompt: agent.SystemPrompt,
		Tools:        nonNil(agent.Tools),
		Capabilities: nonNil(agent.Capabilities),
		Config:       agent.Config,
	}

	out, err := encodeIndented(payload)
	if err != nil {
		// config holds a value JSON cannot represent; export it as absent.
		payload.Config = nil
		out, _ = encodeIndented(payload)
	}
	return out
}

func encodeIndented(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return restoreLineSeparators(strings.TrimSuffix(buf.String(), "\n")), nil
}

// restoreLineSeparators turns the \u2028 and \u2029 escapes encoding/json always
// writes back into raw characters, matching JSON.stringify. Escaped backslashes
// are copied as pairs so a literal "\\u2028" in a value is left alone.
func restoreLineSeparators(s string) string {
	if !strings.Contains(s, `\u202`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch {
		case strings.HasPrefix(s[i:], `\u2028`):
			b.WriteRune('\u2028')
			i += 5
		case strings.HasPrefix(s[i:], `\u2029`):
			b.WriteRune('\u2029')
			i += 5
		default:
			b.WriteByte(s[i])
			b.WriteByte(s[i+1])
			i++
		}
	}
	return b.String()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
