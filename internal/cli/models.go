package cli

import (
	"github.com/spf13/cobra"

	"github.com/agentbuilder-dev/agentbuilder/pkg/printer"
)

var modelsOutput string

var ModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models an agent can use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireClient(); err != nil {
			return err
		}
		outputType, err := printer.ParseOutputType(modelsOutput)
		if err != nil {
			return err
		}

		catalog, err := apiClient.ListModels()
		if err != nil {
			return err
		}

		p := printer.New(outputType)
		p.SetOutput(cmd.OutOrStdout())
		if p.Structured() {
			return p.Print(catalog)
		}

		t := printer.NewTablePrinter(cmd.OutOrStdout())
		t.SetHeaders("Model", "Label", "Default")
		for _, m := range catalog.Models {
			def := ""
			if m.Value == catalog.Default {
				def = "*"
			}
			t.AddRow(m.Value, m.Label, def)
		}
		return t.Render()
	},
}

func init() {
	ModelsCmd.Flags().StringVarP(&modelsOutput, "output", "o", "table", "Output format (table, json, yaml)")
}
