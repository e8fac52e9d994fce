package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/meubolso/statement-extractor/internal/models"
)

// CSVWriter writes extraction results to CSV format.
type CSVWriter struct {
	IncludeSummary bool
}

// WriteToFile writes the result to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, result *models.ExtractionResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, result)
}

// Write writes the result in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, result *models.ExtractionResult) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	header := []string{"Date", "Description", "Type", "Amount"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range result.Transactions {
		row := []string{
			txn.Date,
			txn.Description,
			txn.Type,
			formatAmount(txn.Amount),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	if w.IncludeSummary {
		writer.Write([]string{"# Total Income", formatAmount(result.Summary.TotalIncome)})
		writer.Write([]string{"# Total Expenses", formatAmount(result.Summary.TotalExpenses)})
		writer.Write([]string{"# Transactions", strconv.Itoa(result.Summary.TransactionCount)})
	}

	return nil
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
