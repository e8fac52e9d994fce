package parser

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/meubolso/statement-extractor/internal/ai"
	"github.com/meubolso/statement-extractor/internal/models"
)

const (
	// minTextLength is the floor below which recovered text signals a
	// protected, scanned or incompatible PDF. Checked before any
	// network call is made.
	minTextLength = 50
	// maxPromptChars caps the text sent to the model to respect its
	// context window. Applied after the floor check.
	maxPromptChars = 50000
	// previewChars is how much of the sent text is echoed back to the
	// caller for debugging.
	previewChars = 500
)

// ErrTextTooShort reports that the recovered text is below the floor.
// The file is likely protected, scanned or not a text PDF at all.
var ErrTextTooShort = errors.New("parser: recovered text too short to be a readable statement")

// ModelClient is the constrained model interface the parser depends
// on. *ai.Client satisfies it.
type ModelClient interface {
	ExtractTransactions(ctx context.Context, statementText string) (*ai.ExtractionArgs, error)
}

// Parser turns recovered statement text into a validated, aggregated
// transaction list, using a language model as a constrained parser.
// The model's output is treated as untrusted input.
type Parser struct {
	client ModelClient
	logger *slog.Logger
}

// New creates a Parser. A nil logger falls back to slog's default.
func New(client ModelClient, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{client: client, logger: logger}
}

// ParseStatement extracts transactions from recovered statement text.
// It enforces the length floor, truncates to the model's context window, asks
// the model for candidates and keeps only the structurally valid ones.
// Zero valid transactions is not an error: the input may simply not be
// a statement.
func (p *Parser) ParseStatement(ctx context.Context, text string) (*models.ExtractionResult, error) {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < minTextLength {
		return nil, ErrTextTooShort
	}

	sent := truncateRunes(trimmed, maxPromptChars)

	args, err := p.client.ExtractTransactions(ctx, sent)
	if err != nil {
		return nil, err
	}

	transactions := validateCandidates(args.Transactions)
	if dropped := len(args.Transactions) - len(transactions); dropped > 0 {
		p.logger.Warn("dropped malformed candidate transactions",
			"candidates", len(args.Transactions), "dropped", dropped)
	}

	return &models.ExtractionResult{
		Transactions:   transactions,
		Summary:        summarize(transactions),
		Notes:          args.ExtractionNotes,
		RawTextPreview: truncateRunes(sent, previewChars) + "...",
	}, nil
}

// truncateRunes cuts s to at most n characters. Counting runes rather
// than bytes keeps accented statement text from being cut mid-character.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
