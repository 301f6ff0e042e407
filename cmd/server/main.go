package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/adapter/ai"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/adapter/docparse"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/adapter/store"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/handler"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/middleware"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/port"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/schema"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/service"
	"github.com/arturoeanton/go-nlq-employee-ollama/pkg/config"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting NLQ Employee Engine",
		"port", cfg.Port,
		"ollama_embed", cfg.OllamaEmbedURL,
		"vector_backend", vectorBackendName(cfg),
	)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		slog.Error("failed to create upload dir", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	// ── Query history (service-local) ────────────────────────────────────
	history, err := store.OpenHistory(cfg.HistoryPath)
	if err != nil {
		slog.Error("failed to open query history store", "error", err)
		os.Exit(1)
	}
	defer history.Close()

	// ── Adapters ─────────────────────────────────────────────────────────
	ollamaAI := ai.NewOllamaProvider(ai.OllamaEndpointConfig{
		BaseURL: cfg.OllamaEmbedURL,
		Model:   cfg.OllamaEmbedModel,
		Token:   cfg.OllamaEmbedToken,
	})

	var index port.VectorIndex
	if cfg.VectorDatabaseURL != "" {
		pgIndex, err := store.NewPgVectorIndex(cfg.VectorDatabaseURL, cfg.EmbeddingDimension)
		if err != nil {
			slog.Error("failed to connect to vector database", "error", err)
			os.Exit(1)
		}
		defer pgIndex.Close()
		index = pgIndex
	} else {
		index = store.NewMemoryIndex()
	}

	parser := docparse.NewParser()

	// ── Services ─────────────────────────────────────────────────────────
	state := service.NewAppState()
	discovery := schema.NewDiscovery()
	queryService := service.NewQueryService(
		state, ollamaAI, index, discovery, history,
		time.Duration(cfg.CacheTTLSeconds)*time.Second,
		cfg.MaxResultRows,
	)
	ingestService := service.NewIngestService(parser, ollamaAI, index, cfg.ChunkWords)

	// Optional auto-connect for single-tenant deployments.
	if cfg.DefaultDatabaseURL != "" {
		connectDefault(state, discovery, cfg.DefaultDatabaseURL)
	}

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))
	app.Use(middleware.ProcessTime())

	// Health check
	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"app":       cfg.AppName,
			"connected": state.Connected(),
		})
	})

	// ── Routes ───────────────────────────────────────────────────────────
	api := app.Group("/api")

	jobTracker := handler.NewJobTracker()

	schemaHandler := handler.NewSchemaHandler(state, discovery, queryService)
	schemaHandler.Register(api)

	queryHandler := handler.NewQueryHandler(queryService, history)
	queryHandler.Register(api)

	ingestHandler := handler.NewIngestHandler(ingestService, jobTracker, cfg.UploadDir)
	ingestHandler.Register(api)

	jobsHandler := handler.NewJobsHandler(jobTracker)
	jobsHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// connectDefault attaches the configured database at boot. Failures are
// logged, not fatal: a connection can still be established via the API.
func connectDefault(state *service.AppState, discovery *schema.Discovery, connStr string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := store.Open(ctx, connStr)
	if err != nil {
		slog.Warn("auto-connect failed", "error", err)
		return
	}
	discovered, err := discovery.AnalyzeDatabase(ctx, db)
	if err != nil {
		_ = db.Close()
		slog.Warn("auto-connect schema discovery failed", "error", err)
		return
	}
	state.SetConnection(db, discovered, connStr)
	slog.Info("auto-connected to default database", "tables", len(discovered.Tables))
}

func vectorBackendName(cfg *config.Config) string {
	if cfg.VectorDatabaseURL != "" {
		return "pgvector"
	}
	return "memory"
}
