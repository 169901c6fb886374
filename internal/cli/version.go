package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentbuilder-dev/agentbuilder/internal/version"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the CLI and server versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "abctl %s (commit: %s, built: %s)\n", version.Version, version.GitCommit, version.BuildDate)

		if apiClient == nil {
			return nil
		}
		server, err := apiClient.Version()
		if err != nil {
			fmt.Fprintf(out, "server: unavailable (%v)\n", err)
			return nil
		}
		fmt.Fprintf(out, "server %s (commit: %s, built: %s)\n", server.Version, server.GitCommit, server.BuildTime)
		return nil
	},
}
