package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

var (
	successMark = color.New(color.FgGreen).SprintFunc()
	warningMark = color.New(color.FgYellow).SprintFunc()
	errorMark   = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Printer renders structured data in the selected output format
type Printer struct {
	out        io.Writer
	outputType OutputType
}

// New creates a new printer with the specified output type
func New(outputType OutputType) *Printer {
	return &Printer{
		out:        os.Stdout,
		outputType: outputType,
	}
}

// SetOutput sets the output writer
func (p *Printer) SetOutput(out io.Writer) {
	p.out = out
}

// Structured reports whether the printer emits JSON or YAML instead of a table.
func (p *Printer) Structured() bool {
	return p.outputType == OutputTypeJSON || p.outputType == OutputTypeYAML
}

// Print writes data as JSON or YAML depending on the output type.
func (p *Printer) Print(data any) error {
	switch p.outputType {
	case OutputTypeYAML:
		return p.PrintYAML(data)
	case OutputTypeJSON:
		return p.PrintJSON(data)
	default:
		return fmt.Errorf("output type %q is not a structured format", p.outputType)
	}
}

// PrintJSON prints data in JSON format
func (p *Printer) PrintJSON(data any) error {
	encoder := json.NewEncoder(p.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// PrintYAML prints data in YAML format. Values go through JSON first so
// field names match the API.
func (p *Printer) PrintYAML(data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	encoder := yaml.NewEncoder(p.out)
	encoder.SetIndent(2)
	if err := encoder.Encode(generic); err != nil {
		return err
	}
	return encoder.Close()
}

// ParseOutputType validates an --output flag value.
func ParseOutputType(s string) (OutputType, error) {
	switch t := OutputType(s); t {
	case "", OutputTypeTable:
		return OutputTypeTable, nil
	case OutputTypeWide, OutputTypeJSON, OutputTypeYAML:
		return t, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use table, wide, json or yaml)", s)
	}
}

// PrintSuccess prints a success message with kubectl-style formatting
func PrintSuccess(message string) {
	_, _ = fmt.Fprintf(color.Output, "%s %s\n", successMark("✓"), message)
}

// PrintError prints an error message
func PrintError(message string) {
	_, _ = fmt.Fprintf(color.Error, "%s %s\n", errorMark("Error:"), message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	_, _ = fmt.Fprintf(color.Output, "%s %s\n", warningMark("Warning:"), message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	_, _ = fmt.Fprintf(os.Stdout, "%s\n", message)
}

// FormatTimestamp formats a timestamp in kubectl style
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// FormatAge formats the time since t as a kubectl-style age string (e.g., "5d", "3h", "45m")
func FormatAge(t time.Time) string {
	return formatDuration(time.Since(t))
}

func formatDuration(duration time.Duration) string {
	days := int(duration.Hours() / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}

	hours := int(duration.Hours())
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}

	minutes := int(duration.Minutes())
	if minutes > 0 {
		return fmt.Sprintf("%dm", minutes)
	}

	seconds := int(duration.Seconds())
	return fmt.Sprintf("%ds", seconds)
}
