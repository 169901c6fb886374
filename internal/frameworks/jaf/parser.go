package jaf

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
)

// ParsedAgent holds the fields ParseModule can recover from a module.
// Tools and Capabilities are always empty: import is lossy.
type ParsedAgent struct {
	Name         string   `json:"name"`
	SystemPrompt string   `json:"systemPrompt"`
	Model        string   `json:"model"`
	Tools        []string `json:"tools"`
	Capabilities []string `json:"capabilities"`
}

// Config converts the parsed fields into a draft agent configuration.
func (p ParsedAgent) Config() models.AgentConfig {
	return models.AgentConfig{
		Name:         p.Name,
		Model:        p.Model,
		SystemPrompt: p.SystemPrompt,
		Tools:        []string{},
		Capabilities: []string{},
		Status:       models.AgentStatusDraft,
	}
}

const quoted = "['\"`]([^'\"`]+)['\"`]"

var (
	// name of the object bound to an Agent-typed const; tool schemas also carry a name field.
	agentDeclRe     = regexp.MustCompile(`const\s+\w+\s*:\s*Agent\b[^=]*=\s*\{`)
	agentDeclNameRe = regexp.MustCompile(agentDeclRe.String() + `\s*name:\s*` + quoted)
	anyNameRe       = regexp.MustCompile(`name:\s*` + quoted)

	instructionsRe = regexp.MustCompile("instructions:\\s*\\([^)]*\\)\\s*=>\\s*`((?:\\\\`|[^`])+)`")

	modelConfigNameRe = regexp.MustCompile(`modelConfig:\s*\{[^}]*?name:\s*['"` + "`" + `](` + modelAlternation() + `)['"` + "`" + `]`)
	anyModelNameRe    = regexp.MustCompile(`name:\s*['"` + "`" + `](` + modelAlternation() + `)['"` + "`" + `]`)
)

// modelAlternation matches every catalog model plus the claude-* and gemini-* families.
// Longer identifiers come first so gpt-4-turbo is never read as gpt-4.
func modelAlternation() string {
	values := make([]string, 0, len(models.AvailableModels))
	for _, m := range models.AvailableModels {
		values = append(values, m.Value)
	}
	slices.SortStableFunc(values, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
	alts := make([]string, 0, len(values)+2)
	for _, v := range values {
		alts = append(alts, regexp.QuoteMeta(v))
	}
	alts = append(alts, "claude-[^'\"`]+", "gemini-[^'\"`]+")
	return strings.Join(alts, "|")
}

// ParseModule extracts name, system prompt and model from a JAF module.
// ok is false when the name or the instructions body cannot be found; that is
// an expected outcome for arbitrary input, not an error. An Agent-typed
// declaration without a name is unrecognized: tool schema names never stand in.
// The model is looked up after the instructions body, so prompt text cannot
// shadow the agent's own modelConfig.
func ParseModule(src string) (ParsedAgent, bool) {
	name, offset, found := agentName(src)
	if !found {
		return ParsedAgent{}, false
	}
	loc := instructionsRe.FindStringSubmatchIndex(src[offset:])
	if loc == nil {
		return ParsedAgent{}, false
	}
	prompt := src[offset+loc[2] : offset+loc[3]]

	model, found := firstSubmatch(src[offset+loc[1]:], modelConfigNameRe, anyModelNameRe)
	if !found {
		model, found = firstSubmatch(src, modelConfigNameRe, anyModelNameRe)
	}
	if !found {
		model = models.DefaultModel
	}
	return ParsedAgent{
		Name:         name,
		SystemPrompt: strings.ReplaceAll(prompt, "\\`", "`"),
		Model:        model,
		Tools:        []string{},
		Capabilities: []string{},
	}, true
}

// agentName returns the agent's name and the offset where its declaration ends.
func agentName(src string) (string, int, bool) {
	if loc := agentDeclNameRe.FindStringSubmatchIndex(src); loc != nil {
		return src[loc[2]:loc[3]], loc[1], true
	}
	if agentDeclRe.MatchString(src) {
		return "", 0, false
	}
	if m := anyNameRe.FindStringSubmatch(src); m != nil {
		return m[1], 0, true
	}
	return "", 0, false
}

func firstSubmatch(src string, patterns ...*regexp.Regexp) (string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(src); m != nil {
			return m[1], true
		}
	}
	return "", false
}
