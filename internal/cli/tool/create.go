package tool

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
	"github.com/agentbuilder-dev/agentbuilder/pkg/printer"
)

var createFile string

var CreateCmd = &cobra.Command{
	Use:   "create -f <tool.yaml>",
	Short: "Add a custom tool to the catalog",
	Long: `Add a custom tool described in a YAML or JSON file.

Example tool.yaml:
  name: lookupOrder
  displayName: Lookup Order
  category: Data
  description: Fetch an order by id
  parameters:
    - name: orderId
      type: string
      required: true`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	CreateCmd.Flags().StringVarP(&createFile, "file", "f", "", "Tool definition file (YAML or JSON)")
	_ = CreateCmd.MarkFlagRequired("file")
}

func runCreate(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}

	data, err := os.ReadFile(createFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", createFile, err)
	}
	def, err := parseToolDefinition(data)
	if err != nil {
		return err
	}

	tool, err := apiClient.CreateTool(def)
	if err != nil {
		return err
	}
	printer.PrintSuccess(fmt.Sprintf("Tool %q created (id: %s)", tool.Name, tool.ID))
	return nil
}

// toolDefinition mirrors models.ToolJSON with yaml keys; JSON is valid YAML so both parse.
type toolDefinition struct {
	ID             string                 `yaml:"id"`
	Name           string                 `yaml:"name"`
	DisplayName    string                 `yaml:"displayName"`
	Description    string                 `yaml:"description"`
	Category       string                 `yaml:"category"`
	Parameters     []models.ToolParameter `yaml:"parameters"`
	Implementation map[string]any         `yaml:"implementation"`
}

func parseToolDefinition(data []byte) (*models.ToolJSON, error) {
	var def toolDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("invalid tool definition: %w", err)
	}
	if def.Name == "" {
		return nil, fmt.Errorf("invalid tool definition: name is required")
	}
	if def.DisplayName == "" {
		def.DisplayName = def.Name
	}
	if def.Parameters == nil {
		def.Parameters = []models.ToolParameter{}
	}
	return &models.ToolJSON{
		ID:             def.ID,
		Name:           def.Name,
		DisplayName:    def.DisplayName,
		Description:    def.Description,
		Category:       def.Category,
		Parameters:     def.Parameters,
		Implementation: def.Implementation,
	}, nil
}
