package printer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablePrinter_Render(t *testing.T) {
	var buf bytes.Buffer
	p := NewTablePrinter(&buf)
	p.SetHeaders("Name", "Model")
	p.AddRow("Calculator", "gpt-4")
	require.NoError(t, p.Render())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "NAME")
	assert.Contains(t, string(lines[1]), "Calculator")
}

func TestPrinter_Structured(t *testing.T) {
	data := map[string]any{"name": "Helper", "tools": []string{"calculator"}}

	var buf bytes.Buffer
	p := New(OutputTypeYAML)
	p.SetOutput(&buf)
	require.NoError(t, p.Print(data))
	assert.Equal(t, "name: Helper\ntools:\n  - calculator\n", buf.String())

	buf.Reset()
	p = New(OutputTypeJSON)
	p.SetOutput(&buf)
	require.NoError(t, p.Print(data))
	assert.JSONEq(t, `{"name":"Helper","tools":["calculator"]}`, buf.String())

	assert.Error(t, New(OutputTypeTable).Print(data))
}

func TestParseOutputType(t *testing.T) {
	for _, in := range []string{"", "table", "wide", "json", "yaml"} {
		_, err := ParseOutputType(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseOutputType("xml")
	assert.Error(t, err)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "Draft", FormatStatus("draft"))
	assert.Equal(t, "abcd...", TruncateString("abcdefghij", 7))
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "-", FormatList(nil, 10))
	assert.Equal(t, "a,b", FormatList([]string{"a", "b"}, 10))
	assert.Equal(t, "3h", formatDuration(3*time.Hour+5*time.Minute))
	assert.Equal(t, "2d", formatDuration(49*time.Hour))
	assert.Equal(t, "2024-01-02T03:04:05Z", FormatTimestamp(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
}
