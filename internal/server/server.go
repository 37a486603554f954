// Package server exposes the enrichment pipeline over HTTP.
package server

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/gofiber/fiber/v2"

	"github.com/txnlens/txnlens/internal/config"
	"github.com/txnlens/txnlens/internal/enricher"
	"github.com/txnlens/txnlens/internal/logging"
	"github.com/txnlens/txnlens/internal/models"
	"github.com/txnlens/txnlens/internal/source"
)

// CategorizeResponse is the JSON response from the /api/categorize endpoint.
type CategorizeResponse struct {
	Results []models.Transaction `json:"results"`
	Status  string               `json:"status"`
	Error   string               `json:"error,omitempty"`
}

// Server wires the enricher behind a fiber application.
type Server struct {
	app      *fiber.App
	enricher *enricher.Enricher
	cfg      *config.Config
	logger   logging.Logger
}

// New builds a Server with its routes registered.
func New(enr *enricher.Enricher, cfg *config.Config, logger logging.Logger) *Server {
	s := &Server{
		app:      fiber.New(fiber.Config{DisableStartupMessage: true}),
		enricher: enr,
		cfg:      cfg,
		logger:   logger,
	}
	s.registerRoutes()
	return s
}

// App exposes the underlying fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on the configured port and blocks.
func (s *Server) Listen() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.logger.Info("HTTP server listening",
		logging.Field{Key: "addr", Value: addr})
	return s.app.Listen(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) registerRoutes() {
	s.app.Get("/api/health", s.handleHealth)
	s.app.Post("/api/categorize", s.handleCategorize)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleCategorize loads the configured transaction source, enriches every
// record and returns the enriched collection. A missing source file maps to
// 404, any other failure to 500; the Results array is never null.
func (s *Server) handleCategorize(c *fiber.Ctx) error {
	col, err := source.Load(s.cfg.Source.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.WithError(err).Warn("Transaction source not found",
				logging.Field{Key: logging.FieldSourceFile, Value: s.cfg.Source.Path})
			return c.Status(fiber.StatusNotFound).JSON(CategorizeResponse{
				Results: []models.Transaction{},
				Status:  "Failed",
				Error:   "transaction source not found",
			})
		}
		s.logger.WithError(err).Error("Failed to load transaction source",
			logging.Field{Key: logging.FieldSourceFile, Value: s.cfg.Source.Path})
		return c.Status(fiber.StatusInternalServerError).JSON(CategorizeResponse{
			Results: []models.Transaction{},
			Status:  "Failed",
			Error:   err.Error(),
		})
	}

	if len(col.Results) == 0 {
		return c.JSON(CategorizeResponse{
			Results: []models.Transaction{},
			Status:  col.Status,
		})
	}

	var enriched []models.Transaction
	switch s.cfg.Enrich.Mode {
	case config.ModeChunk:
		enriched, err = s.enricher.EnrichAllChunked(c.UserContext(), col.Results, s.cfg.Enrich.ChunkSize)
		if err != nil {
			s.logger.WithError(err).Error("Chunked enrichment failed")
			return c.Status(fiber.StatusInternalServerError).JSON(CategorizeResponse{
				Results: []models.Transaction{},
				Status:  "Failed",
				Error:   err.Error(),
			})
		}
	default:
		enriched = s.enricher.EnrichAll(c.UserContext(), col.Results, s.cfg.Enrich.BatchSize)
	}

	return c.JSON(CategorizeResponse{
		Results: enriched,
		Status:  col.Status,
	})
}
