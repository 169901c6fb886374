package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentbuilder-dev/agentbuilder/internal/client"
	"github.com/agentbuilder-dev/agentbuilder/internal/frameworks/jaf"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/exporter"
	"github.com/agentbuilder-dev/agentbuilder/pkg/printer"
)

var (
	exportAll         bool
	exportDir         string
	exportFormat      string
	exportStatus      string
	exportConcurrency int
	exportNoProgress  bool
)

var ExportCmd = &cobra.Command{
	Use:   "export --all --dir <directory>",
	Short: "Export every agent into a directory",
	Long: `Export every agent as a JAF module (or JSON) into a directory, several at a time.
Agents that share a name get their id appended to the file name.

Examples:
  abctl export --all --dir ./agents
  abctl export --all --dir ./agents --format json --status active`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !exportAll {
			return errors.New("--all is required; use 'abctl agent export' for a single agent")
		}
		dir := strings.TrimSpace(exportDir)
		if dir == "" {
			return errors.New("--dir is required (destination directory)")
		}
		format, err := jaf.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		if err := requireClient(); err != nil {
			return err
		}

		svc := exporter.NewService(apiClient)
		svc.SetConcurrency(exportConcurrency)
		if !exportNoProgress {
			svc.SetProgressOutput(os.Stderr)
		}

		result, err := svc.ExportAll(cmd.Context(), dir, format, client.AgentListOptions{Status: exportStatus})
		if result == nil {
			return err
		}
		for id, failure := range result.Failed {
			printer.PrintWarning(fmt.Sprintf("agent %s: %v", id, failure))
		}
		printer.PrintSuccess(fmt.Sprintf("Exported %d agents to %s", len(result.Written), dir))
		if err != nil {
			return fmt.Errorf("export finished with %d failures", len(result.Failed))
		}
		return nil
	},
}

func init() {
	ExportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every agent")
	ExportCmd.Flags().StringVar(&exportDir, "dir", "", "Destination directory (required)")
	ExportCmd.Flags().StringVar(&exportFormat, "format", string(jaf.FormatJAF), "Export format (jaf, json)")
	ExportCmd.Flags().StringVar(&exportStatus, "status", "", "Only export agents with this status")
	ExportCmd.Flags().IntVar(&exportConcurrency, "concurrency", 4, "Number of exports in flight")
	ExportCmd.Flags().BoolVar(&exportNoProgress, "no-progress", false, "Disable the progress bar")
	_ = ExportCmd.MarkFlagRequired("dir")
}
