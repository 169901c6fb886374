package agent

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentbuilder-dev/agentbuilder/internal/client"
	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
	"github.com/agentbuilder-dev/agentbuilder/pkg/printer"
)

var (
	listSearch   string
	listStatus   string
	outputFormat string
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents",
	Long:  `List agents, most recently updated first.`,
	RunE:  runList,
}

func init() {
	ListCmd.Flags().StringVar(&listSearch, "search", "", "Only show agents whose name contains this text")
	ListCmd.Flags().StringVar(&listStatus, "status", "", "Only show agents with this status (draft, active, archived)")
	ListCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, wide, json, yaml)")
}

func runList(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}
	outputType, err := printer.ParseOutputType(outputFormat)
	if err != nil {
		return err
	}

	agents, err := apiClient.ListAgents(client.AgentListOptions{Search: listSearch, Status: listStatus})
	if err != nil {
		return fmt.Errorf("failed to get agents: %w", err)
	}

	p := printer.New(outputType)
	p.SetOutput(cmd.OutOrStdout())
	if p.Structured() {
		if agents == nil {
			agents = []models.Agent{}
		}
		return p.Print(agents)
	}

	if len(agents) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No agents found")
		return nil
	}
	return printAgentsTable(cmd, agents, outputType == printer.OutputTypeWide)
}

func printAgentsTable(cmd *cobra.Command, agents []models.Agent, wide bool) error {
	t := printer.NewTablePrinter(cmd.OutOrStdout())
	if wide {
		t.SetHeaders("ID", "Name", "Model", "Status", "Tools", "Capabilities", "Age")
	} else {
		t.SetHeaders("ID", "Name", "Model", "Status", "Age")
	}

	for _, a := range agents {
		row := []any{
			a.ID,
			printer.TruncateString(a.Name, 40),
			a.Model,
			printer.FormatStatus(string(a.Status)),
		}
		if wide {
			row = append(row, printer.FormatList(a.Tools, 40), printer.FormatList(a.Capabilities, 30))
		}
		row = append(row, printer.FormatAge(a.UpdatedAt))
		t.AddRow(row...)
	}
	return t.Render()
}
