package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/agentbuilder-dev/agentbuilder/internal/frameworks/jaf"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/config"
	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
	"github.com/agentbuilder-dev/agentbuilder/pkg/registry/database"
)

// builderServiceImpl implements the BuilderService interface using our Database
type builderServiceImpl struct {
	db  database.Database
	cfg *config.Config
	now func() time.Time
}

// NewBuilderService creates a new builder service with the provided database and configuration
func NewBuilderService(db database.Database, cfg *config.Config) BuilderService {
	return &builderServiceImpl{
		db:  db,
		cfg: cfg,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *builderServiceImpl) defaultUserID() string {
	if s.cfg != nil && s.cfg.DefaultUserID != "" {
		return s.cfg.DefaultUserID
	}
	return "temp-user-id"
}

// ListAgents returns the default user's agents with cursor-based pagination
func (s *builderServiceImpl) ListAgents(ctx context.Context, filter *database.AgentFilter, cursor string, limit int) ([]*models.Agent, string, error) {
	if limit <= 0 {
		limit = 30
		if s.cfg != nil && s.cfg.DefaultPageLimit > 0 {
			limit = s.cfg.DefaultPageLimit
		}
	}

	scoped := database.AgentFilter{}
	if filter != nil {
		scoped = *filter
	}
	userID := s.defaultUserID()
	scoped.UserID = &userID

	if scoped.Status != nil && !scoped.Status.IsValid() {
		return nil, "", fmt.Errorf("%w: unknown status %q", database.ErrInvalidInput, *scoped.Status)
	}

	return s.db.ListAgents(ctx, nil, &scoped, cursor, limit)
}

// GetAgent retrieves an agent by id
func (s *builderServiceImpl) GetAgent(ctx context.Context, id string) (*models.Agent, error) {
	return s.db.GetAgent(ctx, nil, id)
}

// CreateAgent validates and stores a new agent for the default user
func (s *builderServiceImpl) CreateAgent(ctx context.Context, req *models.AgentConfig) (*models.Agent, error) {
	if err := ValidateAgentConfig(req); err != nil {
		return nil, err
	}

	return database.InTransactionT(ctx, s.db, func(ctx context.Context, tx pgx.Tx) (*models.Agent, error) {
		now := s.now()
		agent := agentFromConfig(req)
		agent.ID = uuid.NewString()
		agent.UserID = s.defaultUserID()
		agent.CreatedAt = now
		agent.UpdatedAt = now
		return s.db.CreateAgent(ctx, tx, agent)
	})
}

// UpdateAgent replaces the configuration of an existing agent
func (s *builderServiceImpl) UpdateAgent(ctx context.Context, id string, req *models.AgentConfig) (*models.Agent, error) {
	if err := ValidateAgentConfig(req); err != nil {
		return nil, err
	}

	return database.InTransactionT(ctx, s.db, func(ctx context.Context, tx pgx.Tx) (*models.Agent, error) {
		existing, err := s.db.GetAgent(ctx, tx, id)
		if err != nil {
			return nil, err
		}

		agent := agentFromConfig(req)
		agent.ID = existing.ID
		agent.UserID = existing.UserID
		agent.TeamID = existing.TeamID
		agent.CreatedAt = existing.CreatedAt
		agent.UpdatedAt = s.now()

		updated, err := s.db.UpdateAgent(ctx, tx, agent)
		if err != nil {
			return nil, err
		}
		if err := s.db.ReplaceKnowledgeSources(ctx, tx, id, req.KnowledgeSources); err != nil {
			return nil, err
		}
		updated.KnowledgeSources = req.KnowledgeSources
		return updated, nil
	})
}

// DeleteAgent removes an agent and its knowledge sources
func (s *builderServiceImpl) DeleteAgent(ctx context.Context, id string) error {
	return s.db.InTransaction(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		return s.db.DeleteAgent(txCtx, tx, id)
	})
}

// ListTools returns the tool catalog in catalog order
func (s *builderServiceImpl) ListTools(ctx context.Context, filter *database.ToolFilter) ([]*models.Tool, error) {
	return s.db.ListTools(ctx, nil, filter)
}

// GetTool retrieves a tool by id
func (s *builderServiceImpl) GetTool(ctx context.Context, id string) (*models.Tool, error) {
	return s.db.GetTool(ctx, nil, id)
}

// CreateTool validates and stores a new tool
func (s *builderServiceImpl) CreateTool(ctx context.Context, req *models.ToolJSON) (*models.Tool, error) {
	if err := ValidateToolJSON(req); err != nil {
		return nil, err
	}

	now := s.now()
	tool := &models.Tool{
		ID:             req.ID,
		Name:           req.Name,
		DisplayName:    req.DisplayName,
		Category:       req.Category,
		Parameters:     req.Parameters,
		IsBuiltin:      req.IsBuiltin,
		Implementation: req.Implementation,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if tool.ID == "" {
		tool.ID = uuid.NewString()
	}
	if req.Description != "" {
		desc := req.Description
		tool.Description = &desc
	}
	if tool.Parameters == nil {
		tool.Parameters = []models.ToolParameter{}
	}

	return s.db.CreateTool(ctx, nil, tool)
}

// ExportAgent renders an agent with the catalog tools it references
func (s *builderServiceImpl) ExportAgent(ctx context.Context, id string, format string) (*ExportResult, error) {
	f, err := jaf.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", database.ErrInvalidInput, err)
	}

	agent, err := s.db.GetAgent(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	var content string
	switch f {
	case jaf.FormatJSON:
		content = jaf.RenderJSON(agent)
	default:
		var tools []models.Tool
		if len(agent.Tools) > 0 {
			referenced, err := s.db.ListTools(ctx, nil, &database.ToolFilter{IDs: agent.Tools})
			if err != nil {
				return nil, fmt.Errorf("failed to load agent tools: %w", err)
			}
			tools = make([]models.Tool, 0, len(referenced))
			for _, t := range referenced {
				tools = append(tools, *t)
			}
		}
		content = jaf.RenderModule(agent, tools)
	}

	return &ExportResult{
		Filename:    jaf.ExportFilename(agent.Name, f),
		ContentType: f.ContentType(),
		Format:      f,
		Content:     content,
	}, nil
}

// ImportAgent parses a JAF module; with create it stores the result as a draft agent
func (s *builderServiceImpl) ImportAgent(ctx context.Context, source string, create bool) (*ImportResult, error) {
	parsed, ok := jaf.ParseModule(source)
	if !ok {
		return nil, ErrUnrecognizedModule
	}

	result := &ImportResult{Parsed: parsed}
	if !create {
		return result, nil
	}

	cfg := parsed.Config()
	agent, err := s.CreateAgent(ctx, &cfg)
	if err != nil {
		return nil, err
	}
	result.Agent = agent
	return result, nil
}

func agentFromConfig(req *models.AgentConfig) *models.Agent {
	agent := &models.Agent{
		Name:             strings.TrimSpace(req.Name),
		Model:            req.Model,
		SystemPrompt:     req.SystemPrompt,
		Tools:            nonNil(req.Tools),
		Capabilities:     nonNil(req.Capabilities),
		Config:           req.Config,
		Status:           req.Status,
		KnowledgeSources: req.KnowledgeSources,
	}
	if req.Description != "" {
		desc := req.Description
		agent.Description = &desc
	}
	if agent.Status == "" {
		agent.Status = models.AgentStatusDraft
	}
	return agent
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// ValidateAgentConfig checks the fields required to store an agent.
func ValidateAgentConfig(req *models.AgentConfig) error {
	if req == nil {
		return fmt.Errorf("%w: agent payload is required", database.ErrInvalidInput)
	}

	var errs []error
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if req.Model == "" {
		errs = append(errs, errors.New("model is required"))
	}
	if req.SystemPrompt == "" {
		errs = append(errs, errors.New("systemPrompt is required"))
	}
	if req.Status != "" && !req.Status.IsValid() {
		errs = append(errs, fmt.Errorf("unknown status %q", req.Status))
	}
	for i, ks := range req.KnowledgeSources {
		if !ks.Type.IsValid() {
			errs = append(errs, fmt.Errorf("knowledgeSources[%d]: unsupported type %q", i, ks.Type))
		}
		if ks.Name == "" || ks.Source == "" {
			errs = append(errs, fmt.Errorf("knowledgeSources[%d]: name and source are required", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", database.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

// ValidateToolJSON checks the fields required to store a tool.
func ValidateToolJSON(req *models.ToolJSON) error {
	if req == nil {
		return fmt.Errorf("%w: tool payload is required", database.ErrInvalidInput)
	}

	var errs []error
	if !identifierRe.MatchString(req.Name) {
		errs = append(errs, fmt.Errorf("name %q must be a valid identifier", req.Name))
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		errs = append(errs, errors.New("displayName is required"))
	}
	if !models.IsToolCategory(req.Category) {
		errs = append(errs, fmt.Errorf("unknown category %q", req.Category))
	}
	for i, p := range req.Parameters {
		if !identifierRe.MatchString(p.Name) {
			errs = append(errs, fmt.Errorf("parameters[%d]: name %q must be a valid identifier", i, p.Name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", database.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
