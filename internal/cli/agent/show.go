package agent

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
	"github.com/agentbuilder-dev/agentbuilder/pkg/printer"
)

const promptWrapWidth = 80

var showOutputFormat string

var ShowCmd = &cobra.Command{
	Use:   "show <agent-id>",
	Short: "Show details of an agent",
	Long:  `Shows the configuration of an agent, including its system prompt and tools.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	ShowCmd.Flags().StringVarP(&showOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
}

func runShow(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}
	outputType, err := printer.ParseOutputType(showOutputFormat)
	if err != nil {
		return err
	}

	agent, err := apiClient.GetAgent(args[0])
	if err != nil {
		return err
	}

	p := printer.New(outputType)
	p.SetOutput(cmd.OutOrStdout())
	if p.Structured() {
		return p.Print(agent)
	}
	return writeAgentDetails(cmd.OutOrStdout(), agent)
}

func writeAgentDetails(out io.Writer, agent *models.Agent) error {
	t := printer.NewTablePrinter(out, printer.WithNoHeaders())
	t.AddRow("ID:", agent.ID)
	t.AddRow("Name:", agent.Name)
	if agent.Description != nil && *agent.Description != "" {
		t.AddRow("Description:", *agent.Description)
	}
	t.AddRow("Model:", fmt.Sprintf("%s (%s)", models.ModelLabel(agent.Model), agent.Model))
	t.AddRow("Status:", printer.FormatStatus(string(agent.Status)))
	t.AddRow("Tools:", printer.FormatList(agent.Tools, 200))
	t.AddRow("Capabilities:", printer.FormatList(agent.Capabilities, 200))
	for _, ks := range agent.KnowledgeSources {
		t.AddRow("Knowledge:", fmt.Sprintf("%s (%s) %s", ks.Name, ks.Type, ks.Source))
	}
	t.AddRow("Updated:", printer.FormatTimestamp(agent.UpdatedAt))
	if err := t.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "\nSystem prompt:\n%s\n", formatPrompt(agent.SystemPrompt))
	return err
}

// formatPrompt word-wraps and indents a system prompt for terminal display.
func formatPrompt(prompt string) string {
	wrapped := wordwrap.String(strings.TrimSpace(prompt), promptWrapWidth)
	return indent.String(wrapped, 2)
}
