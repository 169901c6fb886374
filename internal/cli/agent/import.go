package agent

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentbuilder-dev/agentbuilder/pkg/printer"
)

var (
	importCreate bool
	importOutput string
)

var ImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Recover an agent from a JAF module",
	Long: `Parse a JAF TypeScript module and print the recovered name, model and system prompt.
With --create the result is stored as a new draft agent.

Examples:
  abctl agent import ./src/agent.ts
  abctl agent import ./src/agent.ts --create`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	ImportCmd.Flags().BoolVar(&importCreate, "create", false, "Store the parsed agent as a draft")
	ImportCmd.Flags().StringVarP(&importOutput, "output", "o", "yaml", "Output format (json, yaml)")
}

func runImport(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}
	outputType, err := printer.ParseOutputType(importOutput)
	if err != nil {
		return err
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	result, err := apiClient.ImportAgent(string(source), importCreate)
	if err != nil {
		return err
	}

	if result.Agent != nil {
		printer.PrintSuccess(fmt.Sprintf("Agent %q created (id: %s)", result.Agent.Name, result.Agent.ID))
	}

	p := printer.New(outputType)
	p.SetOutput(cmd.OutOrStdout())
	if !p.Structured() {
		p = printer.New(printer.OutputTypeYAML)
		p.SetOutput(cmd.OutOrStdout())
	}
	return p.Print(result.Parsed)
}
