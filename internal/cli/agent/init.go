package agent

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentbuilder-dev/agentbuilder/internal/frameworks/jaf"
	"github.com/agentbuilder-dev/agentbuilder/internal/version"
)

var (
	initVersion string
	initGit     bool
	initVerbose bool
)

var InitCmd = &cobra.Command{
	Use:   "init <agent-id> [directory]",
	Short: "Scaffold a JAF TypeScript project from an agent",
	Long: `Scaffold a runnable JAF project (package.json, tsconfig.json, src/agent.ts and agent.yaml)
from a stored agent. The directory defaults to the agent's package name.

Examples:
  abctl agent init 5b0b2b43
  abctl agent init 5b0b2b43 ./research-assistant --version 1.0.0 --git`,
	Args:    cobra.RangeArgs(1, 2),
	RunE:    runInit,
	Example: `abctl agent init 5b0b2b43 ./my-agent`,
}

func init() {
	InitCmd.Flags().StringVar(&initVersion, "version", "0.1.0", "Project version (semver)")
	InitCmd.Flags().BoolVar(&initGit, "git", false, "Initialize a git repository")
	InitCmd.Flags().BoolVar(&initVerbose, "verbose", false, "Print every generated file")
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}

	agent, err := apiClient.GetAgent(args[0])
	if err != nil {
		return err
	}
	catalog, err := apiClient.ListTools("")
	if err != nil {
		return fmt.Errorf("failed to load tool catalog: %w", err)
	}

	dir := jaf.PackageName(agent.Name)
	if len(args) > 1 {
		dir = args[1]
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}
	if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
		return fmt.Errorf("directory %s is not empty", dir)
	}

	_, err = jaf.NewGenerator().Generate(jaf.Project{
		Agent:      agent,
		Tools:      catalog,
		Directory:  dir,
		Version:    initVersion,
		CLIVersion: version.Version,
		Verbose:    initVerbose,
		InitGit:    initGit,
		Out:        cmd.OutOrStdout(),
	})
	return err
}
