package handler

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/service"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// IngestHandler handles document upload endpoints.
type IngestHandler struct {
	ingest    *service.IngestService
	tracker   *JobTracker
	uploadDir string
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(ingest *service.IngestService, tracker *JobTracker, uploadDir string) *IngestHandler {
	return &IngestHandler{ingest: ingest, tracker: tracker, uploadDir: uploadDir}
}

// Register sets up ingestion routes.
func (h *IngestHandler) Register(router fiber.Router) {
	router.Post("/upload-documents", h.Upload)
	router.Get("/index-stats", h.Stats)
}

type savedUpload struct {
	path         string
	originalName string
}

// Upload accepts multipart files, stores them, and indexes them
// asynchronously. Unsupported files are rejected per-file without failing
// the batch.
func (h *IngestHandler) Upload(c fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "multipart form expected"})
	}

	files := form.File["files"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no files provided (field name: files)"})
	}

	var (
		saved    []savedUpload
		accepted []string
		rejected []fiber.Map
	)

	for _, fh := range files {
		ext := filepath.Ext(fh.Filename)
		if !h.ingest.Supported(ext) {
			rejected = append(rejected, fiber.Map{"file": fh.Filename, "reason": "unsupported format"})
			continue
		}

		dst := filepath.Join(h.uploadDir, uuid.NewString()+ext)
		if err := c.SaveFile(fh, dst); err != nil {
			slog.Error("failed to store upload", "file", fh.Filename, "error", err)
			rejected = append(rejected, fiber.Map{"file": fh.Filename, "reason": "could not store file"})
			continue
		}

		saved = append(saved, savedUpload{path: dst, originalName: fh.Filename})
		accepted = append(accepted, fh.Filename)
	}

	if len(saved) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    "no processable files in upload",
			"rejected": rejected,
		})
	}

	jobID := uuid.NewString()
	h.tracker.CreateJob(jobID, len(saved))

	// Request context dies with the response; processing continues on its own.
	go h.process(context.Background(), jobID, saved)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"job_id":   jobID,
		"accepted": accepted,
		"rejected": rejected,
	})
}

func (h *IngestHandler) process(ctx context.Context, jobID string, uploads []savedUpload) {
	for _, up := range uploads {
		chunks, err := h.ingest.ProcessFile(ctx, up.path, up.originalName)
		if err != nil {
			slog.Error("document ingestion failed", "file", up.originalName, "error", err)
			h.tracker.FileFailed(jobID, up.originalName, err.Error())
			continue
		}
		h.tracker.FileDone(jobID, up.originalName, chunks)
	}
	h.tracker.Complete(jobID)
}

// Stats reports the size of the document index.
func (h *IngestHandler) Stats(c fiber.Ctx) error {
	count, err := h.ingest.IndexedChunks(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"chunks": count})
}
