package cli

import (
	"fmt"

	"github.com/agentbuilder-dev/agentbuilder/internal/client"
)

var apiClient *client.Client

// SetAPIClient sets the client used by the top-level commands
func SetAPIClient(c *client.Client) {
	apiClient = c
}

func requireClient() error {
	if apiClient == nil {
		return fmt.Errorf("API client not initialized")
	}
	return nil
}
