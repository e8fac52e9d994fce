package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/meubolso/statement-extractor/internal/ai"
	"github.com/meubolso/statement-extractor/internal/config"
	"github.com/meubolso/statement-extractor/internal/extractor"
	"github.com/meubolso/statement-extractor/internal/models"
	"github.com/meubolso/statement-extractor/internal/parser"
	"github.com/meubolso/statement-extractor/internal/writer"
)

const version = "1.0.0"

func main() {
	outputFlag := flag.String("output", "", "Output file path (defaults to input filename with .csv extension)")
	jsonFlag := flag.Bool("json", false, "Write JSON instead of CSV")
	summaryFlag := flag.Bool("summary", true, "Include summary footer rows in CSV")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Bank Statement PDF Transaction Extractor

Recovers text from bank statement PDFs and extracts structured
transactions through an AI model. Requires AI_API_KEY in the
environment (a .env file is auto-loaded).

Usage:
  extract [flags] <input.pdf> [input2.pdf ...]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Extract to statement.csv
  extract statement.pdf

  # Extract to JSON
  extract --json --output=transactions.json statement.pdf
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-extractor v%s\n", version)
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := config.Load()
	aiClient := ai.NewClient(ai.Config{
		GatewayURL: cfg.AI.GatewayURL,
		APIKey:     cfg.AI.APIKey,
		Model:      cfg.AI.Model,
		Timeout:    cfg.AI.Timeout,
	}, logger)
	statementParser := parser.New(aiClient, logger)

	for _, inputPath := range flag.Args() {
		if err := processFile(statementParser, inputPath, *outputFlag, *jsonFlag, *summaryFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func processFile(p *parser.Parser, inputPath, outputPath string, asJSON, includeSummary bool) error {
	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("input file not readable: %w", err)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	text := extractor.RecoverFromPDF(data)
	fmt.Printf("  Recovered %d characters of text\n", len(text))

	result, err := p.ParseStatement(context.Background(), text)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	fmt.Printf("  Found %d transaction(s)\n", result.Summary.TransactionCount)
	if result.Summary.TransactionCount == 0 {
		fmt.Println("  Warning: no transactions found. The file may not be a bank statement.")
	}
	if result.Notes != "" {
		fmt.Printf("  Notes: %s\n", result.Notes)
	}

	outPath := outputPath
	if outPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		if asJSON {
			outPath = base + ".json"
		} else {
			outPath = base + ".csv"
		}
	}

	if asJSON {
		if err := writeJSON(outPath, result); err != nil {
			return fmt.Errorf("JSON write failed: %w", err)
		}
	} else {
		w := &writer.CSVWriter{IncludeSummary: includeSummary}
		if err := w.WriteToFile(outPath, result); err != nil {
			return fmt.Errorf("CSV write failed: %w", err)
		}
	}

	fmt.Printf("  Output: %s\n", outPath)
	fmt.Printf("  Income: %.2f  Expenses: %.2f\n", result.Summary.TotalIncome, result.Summary.TotalExpenses)
	fmt.Println("  Done.")
	return nil
}

func writeJSON(path string, result *models.ExtractionResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Transactions []models.Transaction     `json:"transactions"`
		Summary      models.ExtractionSummary `json:"summary"`
		Notes        string                   `json:"extraction_notes,omitempty"`
	}{result.Transactions, result.Summary, result.Notes})
}
