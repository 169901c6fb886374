package common

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/stoewer/go-strcase"
)

// ProjectConfig captures the data required to render an agent project from templates.
type ProjectConfig struct {
	Name         string
	AgentID      string
	PackageName  string
	Version      string
	Description  string
	Model        string
	ModelLabel   string
	SystemPrompt string
	Tools        []string
	Capabilities []string
	Framework    string
	Language     string
	CLIVersion   string

	// Files maps project-relative paths to pre-rendered content written verbatim.
	Files map[string]string

	Directory string
	Verbose   bool
	InitGit   bool
	Out       io.Writer
}

func (c ProjectConfig) output() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// ShouldSkipPath allows template walkers to skip specific paths.
// Paths provided through Files win over templates of the same name.
func (c ProjectConfig) ShouldSkipPath(p string) bool {
	_, overridden := c.Files[strings.TrimSuffix(p, ".tmpl")]
	return overridden
}

// BaseGenerator renders template trees into a destination directory.
type BaseGenerator struct {
	templateFiles fs.FS
	templateRoot  string
}

// NewBaseGenerator returns a template renderer rooted at "templates".
func NewBaseGenerator(templateFiles fs.FS) *BaseGenerator {
	return &BaseGenerator{
		templateFiles: templateFiles,
		templateRoot:  "templates",
	}
}

var templateFuncs = template.FuncMap{
	"kebab":  strcase.KebabCase,
	"camel":  strcase.LowerCamelCase,
	"join":   strings.Join,
	"toJSON": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
}

// GenerateProject walks the template tree, renders it to disk, then writes config.Files.
func (g *BaseGenerator) GenerateProject(config ProjectConfig) error {
	if config.Directory == "" {
		return fmt.Errorf("project directory is required")
	}

	if err := os.MkdirAll(config.Directory, 0o755); err != nil {
		return fmt.Errorf("failed to ensure project directory: %w", err)
	}

	templateRoot, err := fs.Sub(g.templateFiles, g.templateRoot)
	if err != nil {
		return fmt.Errorf("failed to open template root: %w", err)
	}

	err = fs.WalkDir(templateRoot, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if config.ShouldSkipPath(p) {
			return nil
		}

		destPath := filepath.Join(config.Directory, filepath.FromSlash(strings.TrimSuffix(p, ".tmpl")))

		if d.IsDir() {
			return os.MkdirAll(destPath, 0o755)
		}

		content, err := fs.ReadFile(templateRoot, p)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", p, err)
		}

		rendered, err := g.RenderTemplate(string(content), config)
		if err != nil {
			return fmt.Errorf("failed to render template %s: %w", p, err)
		}

		return writeProjectFile(config, destPath, rendered)
	})
	if err != nil {
		return fmt.Errorf("failed to walk templates: %w", err)
	}

	for rel, content := range config.Files {
		destPath := filepath.Join(config.Directory, filepath.FromSlash(path.Clean(rel)))
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", rel, err)
		}
		if err := writeProjectFile(config, destPath, content); err != nil {
			return err
		}
	}

	if config.InitGit {
		if err := initGitRepo(config.Directory, config.Verbose); err != nil && config.Verbose {
			_, _ = fmt.Fprintf(config.output(), "Warning: git init failed: %v\n", err)
		}
	}

	return nil
}

func writeProjectFile(config ProjectConfig, destPath, content string) error {
	if err := os.WriteFile(destPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}
	if config.Verbose {
		_, _ = fmt.Fprintf(config.output(), "  Generated: %s\n", destPath)
	}
	return nil
}

// RenderTemplate renders a template string with the provided data.
func (g *BaseGenerator) RenderTemplate(tmplContent string, data any) (string, error) {
	tmpl, err := template.New("template").Funcs(templateFuncs).Parse(tmplContent)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return result.String(), nil
}

// ReadTemplateFile reads a raw template file from the generator's embedded filesystem.
func (g *BaseGenerator) ReadTemplateFile(templatePath string) ([]byte, error) {
	return fs.ReadFile(g.templateFiles, path.Join(g.templateRoot, templatePath))
}

func initGitRepo(dir string, verbose bool) error {
	cmd := exec.Command("git", "init")
	cmd.Dir = dir

	if verbose {
		fmt.Println("  Initializing git repository...")
	}

	return cmd.Run()
}
