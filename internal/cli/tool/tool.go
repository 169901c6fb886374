package tool

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentbuilder-dev/agentbuilder/internal/client"
)

var apiClient *client.Client

// SetAPIClient sets the client used by the tool commands
func SetAPIClient(c *client.Client) {
	apiClient = c
}

var ToolCmd = &cobra.Command{
	Use:   "tool",
	Short: "Browse and extend the tool catalog",
}

func init() {
	ToolCmd.AddCommand(ListCmd, ShowCmd, CreateCmd)
}

func requireClient() error {
	if apiClient == nil {
		return fmt.Errorf("API client not initialized")
	}
	return nil
}
