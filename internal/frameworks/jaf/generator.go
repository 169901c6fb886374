package jaf

import (
	"embed"
	"fmt"
	"io"
	"os"

	"github.com/stoewer/go-strcase"

	"github.com/agentbuilder-dev/agentbuilder/internal/frameworks/common"
	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
)

//go:embed all:templates
var templatesFS embed.FS

const (
	// ModulePath is where the rendered agent module lives inside a project.
	ModulePath = "src/agent.ts"

	defaultProjectVersion = "0.1.0"
	defaultPackageName    = "jaf-agent"
)

// Project describes a JAF project to scaffold from a stored agent.
type Project struct {
	Agent      *models.Agent
	Tools      []models.Tool
	Directory  string
	Version    string
	CLIVersion string
	Verbose    bool
	InitGit    bool
	Out        io.Writer
}

// Generator renders JAF TypeScript projects.
type Generator struct {
	*common.BaseGenerator
}

// NewGenerator instantiates a JAF project generator.
func NewGenerator() *Generator {
	return &Generator{
		BaseGenerator: common.NewBaseGenerator(templatesFS),
	}
}

// PackageName derives an npm package name from an agent name.
func PackageName(agentName string) string {
	name := strcase.KebabCase(StripNonAlphanumericSpace(agentName))
	if name == "" {
		return defaultPackageName
	}
	return name
}

// StripNonAlphanumericSpace keeps letters, digits and spaces so word boundaries survive casing.
func StripNonAlphanumericSpace(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, ' ')
		}
	}
	return string(out)
}

// Generate scaffolds a JAF project on disk and writes its agent.yaml manifest.
func (g *Generator) Generate(p Project) (*common.ProjectConfig, error) {
	if p.Agent == nil {
		return nil, fmt.Errorf("agent is required")
	}
	if p.Directory == "" {
		return nil, fmt.Errorf("project directory is required")
	}

	version := p.Version
	if version == "" {
		version = defaultProjectVersion
	}
	if !common.IsValidVersion(version) {
		return nil, fmt.Errorf("version %q is not a valid semantic version", version)
	}

	description := ""
	if p.Agent.Description != nil {
		description = *p.Agent.Description
	}

	selected := SelectTools(p.Agent.Tools, p.Tools)
	toolNames := make([]string, len(selected))
	for i, t := range selected {
		toolNames[i] = t.Name
	}

	cfg := common.ProjectConfig{
		Name:         p.Agent.Name,
		AgentID:      p.Agent.ID,
		PackageName:  PackageName(p.Agent.Name),
		Version:      version,
		Description:  description,
		Model:        p.Agent.Model,
		ModelLabel:   models.ModelLabel(p.Agent.Model),
		SystemPrompt: p.Agent.SystemPrompt,
		Tools:        toolNames,
		Capabilities: p.Agent.Capabilities,
		Framework:    "jaf",
		Language:     "typescript",
		CLIVersion:   p.CLIVersion,
		Files: map[string]string{
			ModulePath: RenderModule(p.Agent, p.Tools),
		},
		Directory: p.Directory,
		Verbose:   p.Verbose,
		InitGit:   p.InitGit,
		Out:       p.Out,
	}

	if err := g.GenerateProject(cfg); err != nil {
		return nil, fmt.Errorf("failed to generate project: %w", err)
	}

	manifest := &models.ProjectManifest{
		Name:         cfg.Name,
		AgentID:      cfg.AgentID,
		Framework:    cfg.Framework,
		Language:     cfg.Language,
		Model:        cfg.Model,
		Description:  cfg.Description,
		Version:      cfg.Version,
		Tools:        toolNames,
		Capabilities: cfg.Capabilities,
		Knowledge:    p.Agent.KnowledgeSources,
	}

	manager := common.NewManifestManager(cfg.Directory)
	if err := manager.Save(manifest); err != nil {
		return nil, fmt.Errorf("failed to write agent manifest: %w", err)
	}

	printSummary(cfg)
	return &cfg, nil
}

func printSummary(cfg common.ProjectConfig) {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	_, _ = fmt.Fprintf(out, "Created %s project %q in %s\n", cfg.Framework, cfg.PackageName, cfg.Directory)
	_, _ = fmt.Fprintf(out, "Model: %s (%s)\n", cfg.ModelLabel, cfg.Model)
	_, _ = fmt.Fprintf(out, "Project structure:\n")
	_, _ = fmt.Fprintf(out, "   %s/\n", cfg.PackageName)
	_, _ = fmt.Fprintf(out, "   ├── src/\n")
	_, _ = fmt.Fprintf(out, "   │   └── agent.ts\n")
	_, _ = fmt.Fprintf(out, "   ├── agent.yaml\n")
	_, _ = fmt.Fprintf(out, "   ├── package.json\n")
	_, _ = fmt.Fprintf(out, "   ├── tsconfig.json\n")
	_, _ = fmt.Fprintf(out, "   ├── README.md\n")
	_, _ = fmt.Fprintf(out, "   └── .gitignore\n")
}
