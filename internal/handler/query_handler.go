package handler

import (
	"errors"
	"strconv"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/adapter/store"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/domain"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/port"
	"github.com/arturoeanton/go-nlq-employee-ollama/internal/service"
	"github.com/gofiber/fiber/v3"
)

// QueryHandler handles natural-language query endpoints.
type QueryHandler struct {
	query   *service.QueryService
	history *store.HistoryStore
}

// NewQueryHandler creates a new query handler. history may be nil.
func NewQueryHandler(query *service.QueryService, history *store.HistoryStore) *QueryHandler {
	return &QueryHandler{query: query, history: history}
}

// Register sets up query routes.
func (h *QueryHandler) Register(router fiber.Router) {
	router.Post("/query", h.Process)
	router.Get("/query/history", h.History)
}

// Process answers a natural-language query.
func (h *QueryHandler) Process(c fiber.Ctx) error {
	var body domain.QueryRequest
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query is required"})
	}
	if body.Page < 0 || body.PageSize < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "page and page_size must be positive"})
	}

	resp, err := h.query.Process(c.Context(), body)
	if err != nil {
		switch {
		case errors.Is(err, port.ErrNotConnected):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "no database connected"})
		case errors.Is(err, port.ErrNoEmployeeTable):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "could not find an employee-like table in the connected schema",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.JSON(resp)
}

// History returns the recent query log.
func (h *QueryHandler) History(c fiber.Ctx) error {
	if h.history == nil {
		return c.JSON(fiber.Map{"history": []any{}})
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.history.List(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"history": entries})
}
