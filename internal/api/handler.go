// Package api exposes the extraction pipeline and the record store over
// HTTP: upload a statement PDF, get back the structured record; list and
// fetch previously extracted records.
package api

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/peepalytics/statement-extractor/internal/models"
	"github.com/peepalytics/statement-extractor/internal/pipeline"
	"github.com/peepalytics/statement-extractor/internal/store"
)

const version = "1.0.0"

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Store    store.DB
	Pipeline *pipeline.Pipeline
}

// Register sets up the API routes on the fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Get("/api/statements", h.HandleListStatements)
	app.Get("/api/statements/:id", h.HandleGetStatement)
	app.Post("/api/extract", h.HandleExtract)
}

// HandleHealth reports service liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
	})
}

// HandleListStatements returns every persisted statement record.
func (h *Handler) HandleListStatements(c *fiber.Ctx) error {
	recs, err := h.Store.ListStatements()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if recs == nil {
		recs = []*models.StatementRecord{} // marshal an empty list, not null
	}
	return c.JSON(recs)
}

// HandleGetStatement returns one statement record by ID.
func (h *Handler) HandleGetStatement(c *fiber.Ctx) error {
	rec, err := h.Store.GetStatement(c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "statement not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(rec)
}

// HandleExtract accepts a statement PDF as multipart field "statement",
// runs the extraction pipeline and returns the persisted record.
func (h *Handler) HandleExtract(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("statement")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing multipart file field \"statement\"")
	}

	tmpDir, err := os.MkdirTemp("", "extract-upload-*")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "statement.pdf")
	if err := c.SaveFile(fileHeader, pdfPath); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("saving upload: %v", err))
	}

	rec, err := h.Pipeline.Run(c.Context(), pdfPath)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("extraction failed: %v", err))
	}

	if err := h.Store.SaveStatement(rec); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("persisting record: %v", err))
	}

	return c.JSON(rec)
}
