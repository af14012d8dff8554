// Package api exposes the ingestion pipeline over HTTP. Statements are
// uploaded as multipart PDFs; the response reports how much of the upload
// survived dedup.
package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spendlens/card-spend-tracker/internal/pipeline"
)

// ParseResponse is the JSON response from the /api/parse endpoint.
type ParseResponse struct {
	Success         bool   `json:"success"`
	Error           string `json:"error,omitempty"`
	Bank            string `json:"bank,omitempty"`
	Transactions    int    `json:"transactions"`
	InsertedTx      int    `json:"insertedTransactions"`
	RewardSummaries int    `json:"rewardSummaries"`
	InsertedRewards int    `json:"insertedRewardSummaries"`
	RewardWarnings  int    `json:"rewardWarnings"`
}

// Server wires the pipeline runner into fiber handlers.
type Server struct {
	Runner *pipeline.Runner
}

// App builds the fiber application with all routes registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 32 << 20, // 32MB uploads
	})
	app.Get("/api/health", HandleHealth)
	app.Post("/api/parse", s.HandleParse)
	return app
}

// HandleHealth reports liveness.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"engine": "fiber",
	})
}

// HandleParse accepts a multipart PDF upload in form field "file" and runs
// the full pipeline on it. The uploaded file keeps its client-side base
// name, since the bank is detected from the name.
func (s *Server) HandleParse(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return writeError(c, fiber.StatusBadRequest, "Only PDF files are supported.")
	}

	tmpDir, err := os.MkdirTemp("", "statement-upload-")
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to create temp directory.")
	}
	defer os.RemoveAll(tmpDir)

	tmpPath := filepath.Join(tmpDir, filepath.Base(fileHeader.Filename))
	if err := c.SaveFile(fileHeader, tmpPath); err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded file.")
	}

	result, err := s.Runner.ParseFile(tmpPath)
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("Parsing failed: %v", err))
	}

	return c.JSON(ParseResponse{
		Success:         true,
		Bank:            string(result.Bank),
		Transactions:    result.Transactions,
		InsertedTx:      result.InsertedTx,
		RewardSummaries: result.RewardSummaries,
		InsertedRewards: result.InsertedRewards,
		RewardWarnings:  result.RewardWarnings,
	})
}

func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ParseResponse{
		Success: false,
		Error:   message,
	})
}
