package agent

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/agentbuilder-dev/agentbuilder/internal/cli/agent/tui"
	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
	"github.com/agentbuilder-dev/agentbuilder/pkg/printer"
)

var (
	createName         string
	createDescription  string
	createModel        string
	createPrompt       string
	createPromptFile   string
	createTools        []string
	createCapabilities []string
	createStatus       string
	createInteractive  bool
)

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an agent",
	Long: `Create an agent from flags, or pick its model and tools in an interactive wizard.

Examples:
  abctl agent create --name "Research Assistant" --prompt "Cite your sources." --tool web-search
  abctl agent create --name Helper --prompt-file prompt.md --model claude-3-sonnet
  abctl agent create --interactive`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	CreateCmd.Flags().StringVar(&createName, "name", "", "Agent name")
	CreateCmd.Flags().StringVar(&createDescription, "description", "", "Agent description")
	CreateCmd.Flags().StringVar(&createModel, "model", models.DefaultModel, "Model identifier (see 'abctl models')")
	CreateCmd.Flags().StringVar(&createPrompt, "prompt", "", "System prompt")
	CreateCmd.Flags().StringVar(&createPromptFile, "prompt-file", "", "Read the system prompt from a file")
	CreateCmd.Flags().StringSliceVar(&createTools, "tool", nil, "Tool id to attach (repeatable)")
	CreateCmd.Flags().StringSliceVar(&createCapabilities, "capability", nil, "Capability label (repeatable)")
	CreateCmd.Flags().StringVar(&createStatus, "status", string(models.AgentStatusDraft), "Initial status (draft, active, archived)")
	CreateCmd.Flags().BoolVarP(&createInteractive, "interactive", "i", false, "Use the interactive wizard")
	CreateCmd.MarkFlagsMutuallyExclusive("prompt", "prompt-file")
}

func runCreate(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}

	cfg, err := configFromFlags()
	if err != nil {
		return err
	}

	if createInteractive {
		catalog, err := apiClient.ListTools("")
		if err != nil {
			return fmt.Errorf("failed to load tool catalog: %w", err)
		}
		wizard := tui.NewAgentWizard(catalog, cfg)
		if _, err := tea.NewProgram(wizard, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("wizard failed: %w", err)
		}
		if !wizard.Ok() {
			printer.PrintInfo("Cancelled")
			return nil
		}
		result := wizard.Result()
		result.Status = cfg.Status
		result.Capabilities = cfg.Capabilities
		cfg = &result
	} else if err := validateCreateFlags(cfg); err != nil {
		return err
	}

	agent, err := apiClient.CreateAgent(cfg)
	if err != nil {
		return err
	}
	printer.PrintSuccess(fmt.Sprintf("Agent %q created (id: %s)", agent.Name, agent.ID))
	return nil
}

func configFromFlags() (*models.AgentConfig, error) {
	prompt := createPrompt
	if createPromptFile != "" {
		data, err := os.ReadFile(createPromptFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file: %w", err)
		}
		prompt = string(data)
	}

	status := models.AgentStatus(strings.ToLower(createStatus))
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status %q", createStatus)
	}

	tools := createTools
	if tools == nil {
		tools = []string{}
	}
	capabilities := createCapabilities
	if capabilities == nil {
		capabilities = []string{}
	}

	return &models.AgentConfig{
		Name:         strings.TrimSpace(createName),
		Description:  createDescription,
		Model:        createModel,
		SystemPrompt: prompt,
		Tools:        tools,
		Capabilities: capabilities,
		Status:       status,
	}, nil
}

func validateCreateFlags(cfg *models.AgentConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("--name is required (or use --interactive)")
	}
	if cfg.SystemPrompt == "" {
		return fmt.Errorf("--prompt or --prompt-file is required (or use --interactive)")
	}
	if !models.IsSupportedModel(cfg.Model) {
		printer.PrintWarning(fmt.Sprintf("model %q is not in the model catalog; exports will fall back to %s on import", cfg.Model, models.DefaultModel))
	}
	return nil
}
