package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToolDefinition(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		check   func(t *testing.T, displayName string, params int)
		wantErr string
	}{
		{
			name: "yaml",
			input: `name: lookupOrder
displayName: Lookup Order
category: Data
parameters:
  - name: orderId
    type: string
    required: true
`,
			check: func(t *testing.T, displayName string, params int) {
				assert.Equal(t, "Lookup Order", displayName)
				assert.Equal(t, 1, params)
			},
		},
		{
			name:  "json defaults display name",
			input: `{"name": "ping", "category": "Custom"}`,
			check: func(t *testing.T, displayName string, params int) {
				assert.Equal(t, "ping", displayName)
				assert.Equal(t, 0, params)
			},
		},
		{name: "missing name", input: "category: Data\n", wantErr: "name is required"},
		{name: "malformed", input: "name: [", wantErr: "invalid tool definition"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := parseToolDefinition([]byte(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, def.DisplayName, len(def.Parameters))
		})
	}
}
