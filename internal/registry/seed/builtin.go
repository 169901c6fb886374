package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/agentbuilder-dev/agentbuilder/internal/registry/service"
	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
	"github.com/agentbuilder-dev/agentbuilder/pkg/registry/database"
)

//go:embed builtin_tools.json
var builtinToolsData []byte

// ImportBuiltinTools adds the builtin tool catalog. Tools that already exist are skipped.
// It returns the number of tools created.
func ImportBuiltinTools(ctx context.Context, builder service.BuilderService) (int, error) {
	tools, err := loadSeedData(builtinToolsData)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, tool := range tools {
		if importTool(ctx, builder, tool) {
			created++
		}
	}
	return created, nil
}

// BuiltinTools returns the embedded catalog definitions.
func BuiltinTools() ([]*models.ToolJSON, error) {
	return loadSeedData(builtinToolsData)
}

func loadSeedData(data []byte) ([]*models.ToolJSON, error) {
	var tools []*models.ToolJSON
	if err := json.Unmarshal(data, &tools); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return tools, nil
}

func importTool(ctx context.Context, builder service.BuilderService, tool *models.ToolJSON) bool {
	if _, err := builder.CreateTool(ctx, tool); err != nil {
		if !errors.Is(err, database.ErrAlreadyExists) {
			log.Printf("Failed to create tool %s: %v", tool.Name, err)
		}
		return false
	}
	log.Printf("Imported builtin tool %s", tool.Name)
	return true
}
