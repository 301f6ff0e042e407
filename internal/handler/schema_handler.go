package handler

import (
	"log/slog"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/adapter/store"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/schema"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/service"
	"github.com/gofiber/fiber/v3"
)

// SchemaHandler handles database connection and schema inspection endpoints.
type SchemaHandler struct {
	state *service.AppState
	disc  *schema.Discovery
	query *service.QueryService
}

// NewSchemaHandler creates a new schema handler.
func NewSchemaHandler(state *service.AppState, disc *schema.Discovery, query *service.QueryService) *SchemaHandler {
	return &SchemaHandler{state: state, disc: disc, query: query}
}

// Register sets up schema routes.
func (h *SchemaHandler) Register(router fiber.Router) {
	router.Post("/connect-database", h.Connect)
	router.Get("/schema", h.Get)
}

// Connect attaches a customer database and runs schema discovery.
func (h *SchemaHandler) Connect(c fiber.Ctx) error {
	var body struct {
		ConnectionString string `json:"connection_string"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.ConnectionString == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "connection_string is required"})
	}

	db, err := store.Open(c.Context(), body.ConnectionString)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	discovered, err := h.disc.AnalyzeDatabase(c.Context(), db)
	if err != nil {
		_ = db.Close()
		slog.Error("schema discovery failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	h.state.SetConnection(db, discovered, body.ConnectionString)
	h.query.PurgeCache()

	return c.JSON(fiber.Map{
		"status": "connected",
		"schema": discovered,
	})
}

// Get returns the currently discovered schema.
func (h *SchemaHandler) Get(c fiber.Ctx) error {
	discovered, err := h.state.Schema()
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "no database connected"})
	}
	return c.JSON(fiber.Map{"schema": discovered})
}
