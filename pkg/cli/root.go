package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentbuilder-dev/agentbuilder/internal/cli"
	"github.com/agentbuilder-dev/agentbuilder/internal/cli/agent"
	"github.com/agentbuilder-dev/agentbuilder/internal/cli/tool"
	"github.com/agentbuilder-dev/agentbuilder/internal/client"
)

const defaultAPIBaseURL = "http://localhost:8080/v0"

var apiURL string

var rootCmd = &cobra.Command{
	Use:   "abctl",
	Short: "Agent Builder CLI",
	Long:  `abctl defines AI agents and exports them as JAF TypeScript modules.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		APIClient = client.NewClient(resolveAPIBaseURL())
		agent.SetAPIClient(APIClient)
		tool.SetAPIClient(APIClient)
		cli.SetAPIClient(APIClient)
		return nil
	},
	SilenceUsage: true,
}

// APIClient is the shared API client used by CLI commands
var APIClient *client.Client

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (overrides ABCTL_API_BASE_URL; default "+defaultAPIBaseURL+")")

	rootCmd.AddCommand(agent.AgentCmd)
	rootCmd.AddCommand(tool.ToolCmd)
	rootCmd.AddCommand(cli.ModelsCmd)
	rootCmd.AddCommand(cli.ExportCmd)
	rootCmd.AddCommand(cli.VersionCmd)
}

func Root() *cobra.Command {
	return rootCmd
}

func resolveAPIBaseURL() string {
	base := strings.TrimSpace(apiURL)
	if base == "" {
		base = strings.TrimSpace(os.Getenv("ABCTL_API_BASE_URL"))
	}
	return normalizeBaseURL(base)
}

func normalizeBaseURL(raw string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return defaultAPIBaseURL
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return "http://" + trimmed
}
