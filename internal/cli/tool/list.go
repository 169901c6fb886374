package tool

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
	"github.com/agentbuilder-dev/agentbuilder/pkg/printer"
)

var (
	listCategory string
	listOutput   string
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tools",
	RunE:  runList,
}

func init() {
	ListCmd.Flags().StringVar(&listCategory, "category", "", "Only show tools in this category")
	ListCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "Output format (table, wide, json, yaml)")
}

func runList(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}
	outputType, err := printer.ParseOutputType(listOutput)
	if err != nil {
		return err
	}

	tools, err := apiClient.ListTools(listCategory)
	if err != nil {
		return fmt.Errorf("failed to get tools: %w", err)
	}

	p := printer.New(outputType)
	p.SetOutput(cmd.OutOrStdout())
	if p.Structured() {
		if tools == nil {
			tools = []models.Tool{}
		}
		return p.Print(tools)
	}

	if len(tools) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tools found")
		return nil
	}

	wide := outputType == printer.OutputTypeWide
	t := printer.NewTablePrinter(cmd.OutOrStdout())
	if wide {
		t.SetHeaders("ID", "Name", "Display Name", "Category", "Builtin", "Parameters")
	} else {
		t.SetHeaders("ID", "Name", "Category", "Builtin")
	}
	for _, tool := range tools {
		builtin := "False"
		if tool.IsBuiltin {
			builtin = "True"
		}
		if wide {
			t.AddRow(tool.ID, tool.Name, tool.DisplayName, tool.Category, builtin, parameterNames(tool.Parameters))
		} else {
			t.AddRow(tool.ID, tool.Name, tool.Category, builtin)
		}
	}
	return t.Render()
}

func parameterNames(params []models.ToolParameter) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return printer.FormatList(names, 40)
}
