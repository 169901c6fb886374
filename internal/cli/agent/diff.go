package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/agentbuilder-dev/agentbuilder/internal/frameworks/jaf"
)

var diffFormat string

var DiffCmd = &cobra.Command{
	Use:   "diff <agent-id> <file>",
	Short: "Compare a local file with a fresh export of an agent",
	Long: `Show a unified diff between a local file and what the server exports for the agent now.
The export format follows the file extension (.json for JSON, anything else for JAF)
unless --format is given. Exits with an error when the two differ.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	DiffCmd.Flags().StringVar(&diffFormat, "format", "", "Export format to compare against (jaf, json)")
}

func runDiff(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}
	agentID, file := args[0], args[1]

	format := diffFormat
	if format == "" {
		format = formatForFile(file)
	}
	if _, err := jaf.ParseFormat(format); err != nil {
		return err
	}

	local, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	export, err := apiClient.ExportAgent(agentID, format)
	if err != nil {
		return err
	}

	diff, err := unifiedDiff(string(local), string(export.Content), file, "export/"+export.Filename)
	if err != nil {
		return err
	}
	if diff == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "No differences")
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), diff)
	cmd.SilenceUsage = true
	return fmt.Errorf("%s differs from the current export", file)
}

func formatForFile(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return string(jaf.FormatJSON)
	}
	return string(jaf.FormatJAF)
}

func unifiedDiff(local, remote, fromFile, toFile string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(local),
		B:        difflib.SplitLines(remote),
		FromFile: fromFile,
		ToFile:   toFile,
		Context:  3,
	})
}
