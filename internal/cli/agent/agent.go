package agent

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentbuilder-dev/agentbuilder/internal/client"
)

var apiClient *client.Client

// SetAPIClient sets the client used by the agent commands
func SetAPIClient(c *client.Client) {
	apiClient = c
}

var AgentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Manage agent definitions",
	Long:  `Create, inspect and export agents as JAF TypeScript modules.`,
}

func init() {
	AgentCmd.AddCommand(ListCmd, ShowCmd, CreateCmd, DeleteCmd, ExportCmd, ImportCmd, DiffCmd, InitCmd)
}

func requireClient() error {
	if apiClient == nil {
		return fmt.Errorf("API client not initialized")
	}
	return nil
}
