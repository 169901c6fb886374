package registry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/agentbuilder-dev/agentbuilder/internal/mcp/builderserver"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/api"
	v0 "github.com/agentbuilder-dev/agentbuilder/internal/registry/api/handlers/v0"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/config"
	internaldb "github.com/agentbuilder-dev/agentbuilder/internal/registry/database"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/seed"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/service"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/telemetry"
	"github.com/agentbuilder-dev/agentbuilder/internal/version"
	"github.com/agentbuilder-dev/agentbuilder/pkg/registry/database"
	"github.com/agentbuilder-dev/agentbuilder/pkg/types"
)

// App runs the agent builder server until SIGINT or SIGTERM.
func App(_ context.Context, opts ...types.AppOptions) error {
	var options types.AppOptions
	if len(opts) > 0 {
		options = opts[0]
	}
	cfg := config.NewConfig()
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	// Create a context with timeout for PostgreSQL connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := openDatabase(ctx, cfg, options.DatabaseFactory)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		} else {
			log.Println("Database connection closed successfully")
		}
	}()

	var builder service.BuilderService = service.NewBuilderService(db, cfg)
	if options.ServiceFactory != nil {
		builder = options.ServiceFactory(builder)
	}
	if options.OnServiceCreated != nil {
		options.OnServiceCreated(builder)
	}

	if !cfg.DisableBuiltinSeed {
		log.Printf("Importing builtin tools in the background...")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			if _, err := seed.ImportBuiltinTools(ctx, builder); err != nil {
				log.Printf("Failed to import builtin tools: %v", err)
			}
		}()
	}

	log.Printf("Starting agentbuilder %s (commit: %s)", version.Version, version.GitCommit)

	versionInfo := &v0.VersionBody{
		Version:   version.Version,
		GitCommit: version.GitCommit,
		BuildTime: version.BuildDate,
	}

	shutdownTelemetry, metrics, err := telemetry.InitMetrics(cfg.Version)
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %v", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			log.Printf("Failed to shutdown telemetry: %v", err)
		}
	}()

	baseServer := api.NewServer(cfg, builder, metrics, versionInfo, options.UIHandler)

	var server types.Server = baseServer
	if options.HTTPServerFactory != nil {
		server = options.HTTPServerFactory(baseServer)
	}
	if options.OnHTTPServerCreated != nil {
		options.OnHTTPServerCreated(server)
	}

	var mcpHTTPServer *http.Server
	if cfg.MCPPort > 0 {
		mcpServer := builderserver.NewServer(builder)
		handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
			return mcpServer
		}, &mcp.StreamableHTTPOptions{})

		addr := ":" + strconv.Itoa(int(cfg.MCPPort))
		mcpHTTPServer = &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			log.Printf("MCP HTTP server starting on %s", addr)
			if err := mcpHTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Failed to start MCP server: %v", err)
				os.Exit(1)
			}
		}()
	}

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer scancel()

	if err := server.Shutdown(sctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	if mcpHTTPServer != nil {
		if err := mcpHTTPServer.Shutdown(sctx); err != nil {
			log.Printf("MCP server forced to shutdown: %v", err)
		}
	}

	log.Println("Server exiting")
	return nil
}

// openDatabase connects to PostgreSQL unless DATABASE_URL is "noop", in which
// case the factory must provide the database on its own.
func openDatabase(ctx context.Context, cfg *config.Config, factory types.DatabaseFactory) (database.Database, error) {
	if cfg.DatabaseURL == "noop" {
		if factory == nil {
			return nil, fmt.Errorf("DATABASE_URL=noop requires DatabaseFactory to be set in AppOptions")
		}
		log.Println("using DatabaseFactory to create database (noop mode)")
		db, err := factory(ctx, "", nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create database via factory: %w", err)
		}
		return db, nil
	}

	baseDB, err := internaldb.NewPostgreSQL(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if factory == nil {
		return baseDB, nil
	}

	db, err := factory(ctx, cfg.DatabaseURL, baseDB)
	if err != nil {
		if err := baseDB.Close(); err != nil {
			log.Printf("Error closing base database connection: %v", err)
		}
		return nil, fmt.Errorf("failed to create extended database: %w", err)
	}
	return db, nil
}
