package agent

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentbuilder-dev/agentbuilder/internal/frameworks/jaf"
	"github.com/agentbuilder-dev/agentbuilder/pkg/printer"
)

var (
	exportFormat string
	exportOutput string
)

var ExportCmd = &cobra.Command{
	Use:   "export <agent-id>",
	Short: "Export an agent as a JAF module or JSON",
	Long: `Export an agent as a JAF TypeScript module (default) or as JSON.

Without --output the export is written to stdout. When --output is an existing
directory the server-suggested file name is used inside it.

Examples:
  abctl agent export 5b0b2b43
  abctl agent export 5b0b2b43 --format json -o ./exports`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	ExportCmd.Flags().StringVar(&exportFormat, "format", string(jaf.FormatJAF), "Export format (jaf, json)")
	ExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file or directory (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}
	if _, err := jaf.ParseFormat(exportFormat); err != nil {
		return err
	}

	export, err := apiClient.ExportAgent(args[0], exportFormat)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		_, err := cmd.OutOrStdout().Write(export.Content)
		return err
	}

	path := resolveOutputPath(exportOutput, export.Filename)
	if err := os.WriteFile(path, export.Content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	printer.PrintSuccess(fmt.Sprintf("Exported to %s", path))
	return nil
}

// resolveOutputPath places filename inside output when output is a directory.
func resolveOutputPath(output, filename string) string {
	if info, err := os.Stat(output); err == nil && info.IsDir() && filename != "" {
		return filepath.Join(output, filename)
	}
	return output
}
