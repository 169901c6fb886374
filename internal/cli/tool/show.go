package tool

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentbuilder-dev/agentbuilder/pkg/printer"
)

var showOutput string

var ShowCmd = &cobra.Command{
	Use:   "show <tool-id>",
	Short: "Show a tool and its parameters",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	ShowCmd.Flags().StringVarP(&showOutput, "output", "o", "table", "Output format (table, json, yaml)")
}

func runShow(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}
	outputType, err := printer.ParseOutputType(showOutput)
	if err != nil {
		return err
	}

	tool, err := apiClient.GetTool(args[0])
	if err != nil {
		return err
	}

	p := printer.New(outputType)
	p.SetOutput(cmd.OutOrStdout())
	if p.Structured() {
		return p.Print(tool)
	}

	out := cmd.OutOrStdout()
	details := printer.NewTablePrinter(out, printer.WithNoHeaders())
	details.AddRow("ID:", tool.ID)
	details.AddRow("Name:", tool.Name)
	details.AddRow("Display name:", tool.DisplayName)
	details.AddRow("Category:", tool.Category)
	if tool.Description != nil {
		details.AddRow("Description:", *tool.Description)
	}
	if err := details.Render(); err != nil {
		return err
	}

	if len(tool.Parameters) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	params := printer.NewTablePrinter(out)
	params.SetHeaders("Parameter", "Type", "Required", "Description")
	for _, param := range tool.Parameters {
		params.AddRow(param.Name, param.Type, param.Required, printer.EmptyValueOrDefault(param.Description, "-"))
	}
	return params.Render()
}
