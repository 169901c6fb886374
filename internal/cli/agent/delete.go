package agent

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentbuilder-dev/agentbuilder/pkg/printer"
)

var DeleteCmd = &cobra.Command{
	Use:   "delete <agent-id>",
	Short: "Delete an agent",
	Long: `Delete an agent and its knowledge sources.

Examples:
  abctl agent delete 5b0b2b43-8a8f-4c55-a5a8-0a1c3c4f7b9e`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}

	agentID := args[0]
	if err := apiClient.DeleteAgent(agentID); err != nil {
		return err
	}

	printer.PrintSuccess(fmt.Sprintf("Agent %s deleted", agentID))
	return nil
}
