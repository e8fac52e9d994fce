package api

import (
	"encoding/base64"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/meubolso/statement-extractor/internal/ai"
	"github.com/meubolso/statement-extractor/internal/extractor"
	"github.com/meubolso/statement-extractor/internal/models"
	"github.com/meubolso/statement-extractor/internal/parser"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// extractRequest is the JSON body of POST /api/extract. Exactly one of
// the two PDF variants must be supplied: pdfBase64 carries raw PDF
// bytes, pdfContent carries pre-extracted plain text (legacy path).
type extractRequest struct {
	PDFBase64  string `json:"pdfBase64"`
	PDFContent string `json:"pdfContent"`
	FileName   string `json:"fileName"`
}

// extractResponse is the success body of POST /api/extract.
type extractResponse struct {
	Transactions    []models.Transaction     `json:"transactions"`
	RawText         string                   `json:"rawText"`
	Summary         models.ExtractionSummary `json:"summary"`
	ExtractionNotes *string                  `json:"extraction_notes"`
}

// errorResponse is the body of every non-200 response. RawText is set
// only on the unreadable-document condition, so the caller can show
// the user what little was recovered.
type errorResponse struct {
	Error   string `json:"error"`
	RawText string `json:"rawText,omitempty"`
}

// Handler holds the HTTP handlers and the extraction metrics.
type Handler struct {
	parser *parser.Parser
	logger *slog.Logger

	extractionsTotal      *prometheus.CounterVec
	transactionsExtracted prometheus.Counter
}

// NewHandler creates the handler and registers its metrics on reg.
func NewHandler(p *parser.Parser, logger *slog.Logger, reg prometheus.Registerer) (*Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		parser: p,
		logger: logger,
		extractionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statement_extractions_total",
				Help: "Statement extraction attempts by outcome.",
			},
			[]string{"outcome"},
		),
		transactionsExtracted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "statement_transactions_extracted_total",
				Help: "Validated transactions returned to callers.",
			},
		),
	}
	if err := reg.Register(h.extractionsTotal); err != nil {
		return nil, err
	}
	if err := reg.Register(h.transactionsExtracted); err != nil {
		return nil, err
	}
	return h, nil
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/extract", h.HandleExtract)
}

// HandleHealth reports service liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
		"engine":  "fiber",
	})
}

// HandleExtract runs the extraction pipeline: recover text from the
// uploaded PDF, fail fast when it is too short, ask the model for
// candidates and return the validated transactions with a summary.
func (h *Handler) HandleExtract(c *fiber.Ctx) error {
	var req extractRequest
	if err := c.BodyParser(&req); err != nil {
		h.extractionsTotal.WithLabelValues("bad_request").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "Invalid JSON body"})
	}

	if req.PDFBase64 == "" && req.PDFContent == "" {
		h.extractionsTotal.WithLabelValues("bad_request").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "PDF content is required"})
	}

	var text string
	if req.PDFBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(req.PDFBase64)
		if err != nil {
			h.extractionsTotal.WithLabelValues("bad_request").Inc()
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "pdfBase64 is not valid base64"})
		}
		text = extractor.RecoverFromPDF(data)
	} else {
		text = req.PDFContent
	}

	result, err := h.parser.ParseStatement(c.UserContext(), text)
	if err != nil {
		return h.writeExtractionError(c, err, text)
	}

	h.extractionsTotal.WithLabelValues("ok").Inc()
	h.transactionsExtracted.Add(float64(len(result.Transactions)))
	h.logger.Info("statement extracted",
		"file", req.FileName,
		"transactions", result.Summary.TransactionCount,
		"total_income", result.Summary.TotalIncome,
		"total_expenses", result.Summary.TotalExpenses,
	)

	// nil marshals to JSON null, not [].
	transactions := result.Transactions
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	var notes *string
	if result.Notes != "" {
		notes = &result.Notes
	}

	return c.JSON(extractResponse{
		Transactions:    transactions,
		RawText:         result.RawTextPreview,
		Summary:         result.Summary,
		ExtractionNotes: notes,
	})
}

// writeExtractionError maps the error taxonomy to status codes. User
// messages stay generic: internal details go to the server log only.
func (h *Handler) writeExtractionError(c *fiber.Ctx, err error, recovered string) error {
	switch {
	case errors.Is(err, parser.ErrTextTooShort):
		h.extractionsTotal.WithLabelValues("unreadable").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error:   "Could not read this PDF. The file may be protected, scanned or in an incompatible format.",
			RawText: recovered,
		})
	case errors.Is(err, ai.ErrMissingAPIKey):
		h.extractionsTotal.WithLabelValues("misconfigured").Inc()
		h.logger.Error("extraction failed: gateway API key not configured")
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
			Error: "Extraction service is unavailable. Please try again later.",
		})
	case errors.Is(err, ai.ErrRateLimited):
		h.extractionsTotal.WithLabelValues("rate_limited").Inc()
		return c.Status(fiber.StatusTooManyRequests).JSON(errorResponse{
			Error: "Too many requests. Please try again shortly.",
		})
	case errors.Is(err, ai.ErrQuotaExhausted):
		h.extractionsTotal.WithLabelValues("quota_exhausted").Inc()
		return c.Status(fiber.StatusPaymentRequired).JSON(errorResponse{
			Error: "AI credits exhausted. Please add credits to continue extracting statements.",
		})
	default:
		h.extractionsTotal.WithLabelValues("error").Inc()
		h.logger.Error("extraction failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
			Error: "Failed to extract transactions from the PDF.",
		})
	}
}
