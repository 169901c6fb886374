package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agentbuilder-dev/agentbuilder/pkg/models"
	"github.com/agentbuilder-dev/agentbuilder/pkg/registry/database"
)

const uniqueViolation = "23505"

// PostgreSQL is an implementation of the Database interface using PostgreSQL
type PostgreSQL struct {
	pool *pgxpool.Pool
}

// Executor is an interface for executing queries (satisfied by both pgx.Tx and pgxpool.Pool)
type Executor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// getExecutor returns the appropriate executor (transaction or pool)
func (db *PostgreSQL) getExecutor(tx pgx.Tx) Executor {
	if tx != nil {
		return tx
	}
	return db.pool
}

// NewPostgreSQL creates a new instance of the PostgreSQL database
func NewPostgreSQL(ctx context.Context, connectionURI string) (*PostgreSQL, error) {
	config, err := pgxpool.ParseConfig(connectionURI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL config: %w", err)
	}

	config.MaxConns = 30
	config.MinConns = 2
	config.MaxConnIdleTime = 30 * time.Minute
	config.MaxConnLifetime = 2 * time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	// Run migrations using a single connection from the pool
	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to acquire connection for migrations: %w", err)
	}
	defer conn.Release()

	migrator := database.NewMigrator(conn.Conn(), DefaultMigratorConfig())
	if err := migrator.Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	return &PostgreSQL{pool: pool}, nil
}

func mapWriteError(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", database.ErrAlreadyExists, what)
	}
	return fmt.Errorf("%w: %v", database.ErrDatabase, err)
}

func marshalJSONB(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func stringSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

const agentColumns = `id, name, description, model, system_prompt, tools, capabilities, config, status, user_id, team_id, created_at, updated_at`

func scanAgent(row pgx.Row) (*models.Agent, error) {
	var (
		agent                                 models.Agent
		status                                string
		toolsJSON, capabilitiesJSON, cfgJSON []byte
	)
	if err := row.Scan(
		&agent.ID, &agent.Name, &agent.Description, &agent.Model, &agent.SystemPrompt,
		&toolsJSON, &capabilitiesJSON, &cfgJSON, &status, &agent.UserID, &agent.TeamID,
		&agent.CreatedAt, &agent.UpdatedAt,
	); err != nil {
		return nil, err
	}
	agent.Status = models.AgentStatus(status)

	if err := json.Unmarshal(toolsJSON, &agent.Tools); err != nil {
		return nil, fmt.Errorf("failed to unmarshal agent tools: %w", err)
	}
	if err := json.Unmarshal(capabilitiesJSON, &agent.Capabilities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal agent capabilities: %w", err)
	}
	if len(cfgJSON) > 0 {
		if err := json.Unmarshal(cfgJSON, &agent.Config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal agent config: %w", err)
		}
	}
	agent.Tools = stringSlice(agent.Tools)
	agent.Capabilities = stringSlice(agent.Capabilities)
	return &agent, nil
}

// CreateAgent inserts a new agent and its knowledge sources
func (db *PostgreSQL) CreateAgent(ctx context.Context, tx pgx.Tx, agent *models.Agent) (*models.Agent, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if agent == nil || agent.ID == "" {
		return nil, fmt.Errorf("%w: agent id is required", database.ErrInvalidInput)
	}

	toolsJSON, err := json.Marshal(stringSlice(agent.Tools))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal agent tools: %w", err)
	}
	capabilitiesJSON, err := json.Marshal(stringSlice(agent.Capabilities))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal agent capabilities: %w", err)
	}
	cfgJSON, err := marshalJSONB(agent.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal agent config: %w", err)
	}

	query := `
		INSERT INTO agents (` + agentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + agentColumns

	created, err := scanAgent(db.getExecutor(tx).QueryRow(ctx, query,
		agent.ID, agent.Name, agent.Description, agent.Model, agent.SystemPrompt,
		toolsJSON, capabilitiesJSON, cfgJSON, string(agent.Status), agent.UserID, agent.TeamID,
		agent.CreatedAt, agent.UpdatedAt,
	))
	if err != nil {
		return nil, mapWriteError(err, "agent "+agent.ID)
	}

	if len(agent.KnowledgeSources) > 0 {
		if err := db.ReplaceKnowledgeSources(ctx, tx, created.ID, agent.KnowledgeSources); err != nil {
			return nil, err
		}
		created.KnowledgeSources = agent.KnowledgeSources
	}
	return created, nil
}

// UpdateAgent replaces the mutable fields of an agent. Knowledge sources are left untouched.
func (db *PostgreSQL) UpdateAgent(ctx context.Context, tx pgx.Tx, agent *models.Agent) (*models.Agent, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	toolsJSON, err := json.Marshal(stringSlice(agent.Tools))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal agent tools: %w", err)
	}
	capabilitiesJSON, err := json.Marshal(stringSlice(agent.Capabilities))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal agent capabilities: %w", err)
	}
	cfgJSON, err := marshalJSONB(agent.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal agent config: %w", err)
	}

	query := `
		UPDATE agents
		SET name = $2, description = $3, model = $4, system_prompt = $5, tools = $6,
		    capabilities = $7, config = $8, status = $9, team_id = $10, updated_at = $11
		WHERE id = $1
		RETURNING ` + agentColumns

	updated, err := scanAgent(db.getExecutor(tx).QueryRow(ctx, query,
		agent.ID, agent.Name, agent.Description, agent.Model, agent.SystemPrompt,
		toolsJSON, capabilitiesJSON, cfgJSON, string(agent.Status), agent.TeamID, agent.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, database.ErrNotFound
		}
		return nil, mapWriteError(err, "agent "+agent.ID)
	}

	sources, err := db.loadKnowledgeSources(ctx, tx, []string{updated.ID})
	if err != nil {
		return nil, err
	}
	updated.KnowledgeSources = sources[updated.ID]
	return updated, nil
}

// GetAgent retrieves an agent by id
func (db *PostgreSQL) GetAgent(ctx context.Context, tx pgx.Tx, id string) (*models.Agent, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	query := `SELECT ` + agentColumns + ` FROM agents WHERE id = $1`
	agent, err := scanAgent(db.getExecutor(tx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}

	sources, err := db.loadKnowledgeSources(ctx, tx, []string{agent.ID})
	if err != nil {
		return nil, err
	}
	agent.KnowledgeSources = sources[agent.ID]
	return agent, nil
}

// ListAgents returns agents ordered by updated_at DESC, id DESC.
// The returned cursor is the id of the last agent when more results exist.
func (db *PostgreSQL) ListAgents(ctx context.Context, tx pgx.Tx, filter *database.AgentFilter, cursor string, limit int) ([]*models.Agent, string, error) {
	if limit <= 0 {
		limit = 10
	}
	if ctx.Err() != nil {
		return nil, "", ctx.Err()
	}

	var whereConditions []string
	args := []any{}
	argIndex := 1

	if filter != nil {
		if filter.UserID != nil {
			whereConditions = append(whereConditions, fmt.Sprintf("user_id = $%d", argIndex))
			args = append(args, *filter.UserID)
			argIndex++
		}
		if filter.Status != nil {
			whereConditions = append(whereConditions, fmt.Sprintf("status = $%d", argIndex))
			args = append(args, string(*filter.Status))
			argIndex++
		}
		if filter.SubstringName != nil {
			whereConditions = append(whereConditions, fmt.Sprintf("name ILIKE $%d", argIndex))
			args = append(args, "%"+*filter.SubstringName+"%")
			argIndex++
		}
		if filter.UpdatedSince != nil {
			whereConditions = append(whereConditions, fmt.Sprintf("updated_at > $%d", argIndex))
			args = append(args, *filter.UpdatedSince)
			argIndex++
		}
	}

	if cursor != "" {
		whereConditions = append(whereConditions, fmt.Sprintf(
			"(updated_at, id) < (SELECT updated_at, id FROM agents WHERE id = $%d)", argIndex))
		args = append(args, cursor)
		argIndex++
	}

	whereClause := ""
	if len(whereConditions) > 0 {
		whereClause = "WHERE " + strings.Join(whereConditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM agents
		%s
		ORDER BY updated_at DESC, id DESC
		LIMIT $%d
	`, agentColumns, whereClause, argIndex)
	args = append(args, limit+1)

	rows, err := db.getExecutor(tx).Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query agents: %w", err)
	}
	defer rows.Close()

	var agents []*models.Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan agent row: %w", err)
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("error iterating agent rows: %w", err)
	}

	nextCursor := ""
	if len(agents) > limit {
		agents = agents[:limit]
		nextCursor = agents[len(agents)-1].ID
	}

	if len(agents) > 0 {
		ids := make([]string, len(agents))
		for i, a := range agents {
			ids[i] = a.ID
		}
		sources, err := db.loadKnowledgeSources(ctx, tx, ids)
		if err != nil {
			return nil, "", err
		}
		for _, a := range agents {
			a.KnowledgeSources = sources[a.ID]
		}
	}

	return agents, nextCursor, nil
}

// DeleteAgent removes an agent; knowledge sources cascade
func (db *PostgreSQL) DeleteAgent(ctx context.Context, tx pgx.Tx, id string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	tag, err := db.getExecutor(tx).Exec(ctx, `DELETE FROM agents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete agent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return database.ErrNotFound
	}
	return nil
}

// ReplaceKnowledgeSources swaps the knowledge sources of an agent, preserving their order
func (db *PostgreSQL) ReplaceKnowledgeSources(ctx context.Context, tx pgx.Tx, agentID string, sources []models.KnowledgeSource) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	exec := db.getExecutor(tx)
	if _, err := exec.Exec(ctx, `DELETE FROM knowledge_sources WHERE agent_id = $1`, agentID); err != nil {
		return fmt.Errorf("failed to clear knowledge sources: %w", err)
	}

	for i, ks := range sources {
		settingsJSON, err := marshalJSONB(ks.Settings)
		if err != nil {
			return fmt.Errorf("failed to marshal knowledge source settings: %w", err)
		}
		_, err = exec.Exec(ctx, `
			INSERT INTO knowledge_sources (agent_id, position, type, name, source, settings)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, agentID, i, string(ks.Type), ks.Name, ks.Source, settingsJSON)
		if err != nil {
			return mapWriteError(err, fmt.Sprintf("knowledge source %d of agent %s", i, agentID))
		}
	}
	return nil
}

func (db *PostgreSQL) loadKnowledgeSources(ctx context.Context, tx pgx.Tx, agentIDs []string) (map[string][]models.KnowledgeSource, error) {
	rows, err := db.getExecutor(tx).Query(ctx, `
		SELECT agent_id, type, name, source, settings
		FROM knowledge_sources
		WHERE agent_id = ANY($1)
		ORDER BY agent_id, position
	`, agentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge sources: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]models.KnowledgeSource)
	for rows.Next() {
		var (
			agentID, sourceType string
			ks                  models.KnowledgeSource
			settingsJSON        []byte
		)
		if err := rows.Scan(&agentID, &sourceType, &ks.Name, &ks.Source, &settingsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan knowledge source: %w", err)
		}
		ks.Type = models.KnowledgeSourceType(sourceType)
		if len(settingsJSON) > 0 {
			if err := json.Unmarshal(settingsJSON, &ks.Settings); err != nil {
				return nil, fmt.Errorf("failed to unmarshal knowledge source settings: %w", err)
			}
		}
		result[agentID] = append(result[agentID], ks)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating knowledge sources: %w", err)
	}
	return result, nil
}

const toolColumns = `id, name, display_name, description, category, parameters, is_builtin, implementation, created_at, updated_at`

func scanTool(row pgx.Row) (*models.Tool, error) {
	var (
		tool                   models.Tool
		paramsJSON, implJSON []byte
	)
	if err := row.Scan(
		&tool.ID, &tool.Name, &tool.DisplayName, &tool.Description, &tool.Category,
		&paramsJSON, &tool.IsBuiltin, &implJSON, &tool.CreatedAt, &tool.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(paramsJSON, &tool.Parameters); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tool parameters: %w", err)
	}
	if tool.Parameters == nil {
		tool.Parameters = []models.ToolParameter{}
	}
	if len(implJSON) > 0 {
		if err := json.Unmarshal(implJSON, &tool.Implementation); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tool implementation: %w", err)
		}
	}
	return &tool, nil
}

// CreateTool inserts a new tool
func (db *PostgreSQL) CreateTool(ctx context.Context, tx pgx.Tx, tool *models.Tool) (*models.Tool, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if tool == nil || tool.ID == "" {
		return nil, fmt.Errorf("%w: tool id is required", database.ErrInvalidInput)
	}

	params := tool.Parameters
	if params == nil {
		params = []models.ToolParameter{}
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool parameters: %w", err)
	}
	implJSON, err := marshalJSONB(tool.Implementation)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool implementation: %w", err)
	}

	query := `
		INSERT INTO tools (` + toolColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + toolColumns

	created, err := scanTool(db.getExecutor(tx).QueryRow(ctx, query,
		tool.ID, tool.Name, tool.DisplayName, tool.Description, tool.Category,
		paramsJSON, tool.IsBuiltin, implJSON, tool.CreatedAt, tool.UpdatedAt,
	))
	if err != nil {
		return nil, mapWriteError(err, "tool "+tool.Name)
	}
	return created, nil
}

// GetTool retrieves a tool by id
func (db *PostgreSQL) GetTool(ctx context.Context, tx pgx.Tx, id string) (*models.Tool, error) {
	return db.getToolBy(ctx, tx, "id", id)
}

// GetToolByName retrieves a tool by its code identifier
func (db *PostgreSQL) GetToolByName(ctx context.Context, tx pgx.Tx, name string) (*models.Tool, error) {
	return db.getToolBy(ctx, tx, "name", name)
}

func (db *PostgreSQL) getToolBy(ctx context.Context, tx pgx.Tx, column, value string) (*models.Tool, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	query := fmt.Sprintf(`SELECT %s FROM tools WHERE %s = $1`, toolColumns, column)
	tool, err := scanTool(db.getExecutor(tx).QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tool: %w", err)
	}
	return tool, nil
}

// ListTools returns tools in catalog order
func (db *PostgreSQL) ListTools(ctx context.Context, tx pgx.Tx, filter *database.ToolFilter) ([]*models.Tool, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var whereConditions []string
	args := []any{}
	argIndex := 1

	if filter != nil {
		if filter.Category != nil {
			whereConditions = append(whereConditions, fmt.Sprintf("category = $%d", argIndex))
			args = append(args, *filter.Category)
			argIndex++
		}
		if filter.Builtin != nil {
			whereConditions = append(whereConditions, fmt.Sprintf("is_builtin = $%d", argIndex))
			args = append(args, *filter.Builtin)
			argIndex++
		}
		if filter.IDs != nil {
			whereConditions = append(whereConditions, fmt.Sprintf("id = ANY($%d)", argIndex))
			args = append(args, filter.IDs)
		}
	}

	whereClause := ""
	if len(whereConditions) > 0 {
		whereClause = "WHERE " + strings.Join(whereConditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT %s FROM tools %s ORDER BY created_at, id`, toolColumns, whereClause)
	rows, err := db.getExecutor(tx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tools: %w", err)
	}
	defer rows.Close()

	var tools []*models.Tool
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tool row: %w", err)
		}
		tools = append(tools, tool)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tool rows: %w", err)
	}
	return tools, nil
}

// DeleteTool removes a tool
func (db *PostgreSQL) DeleteTool(ctx context.Context, tx pgx.Tx, id string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	tag, err := db.getExecutor(tx).Exec(ctx, `DELETE FROM tools WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tool: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return database.ErrNotFound
	}
	return nil
}

// InTransaction executes a function within a database transaction
func (db *PostgreSQL) InTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	//nolint:contextcheck // Intentionally using separate context for rollback to ensure cleanup even if request is cancelled
	defer func() {
		rollbackCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()
		if rbErr := tx.Rollback(rollbackCtx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Printf("failed to rollback transaction: %v", rbErr)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Close closes the database connection
func (db *PostgreSQL) Close() error {
	db.pool.Close()
	return nil
}
