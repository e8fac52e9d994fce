package parser

import (
	"regexp"
	"strings"

	"github.com/meubolso/statement-extractor/internal/models"
)

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// validateCandidates filters model output down to structurally valid
// transactions. A candidate survives only if its date is YYYY-MM-DD,
// its description is non-empty after trimming and its amount is
// strictly positive. Failing candidates are dropped, never repaired.
//
// The type field is normalized instead of checked: anything other than
// the exact string "income" becomes "expense". Treating an unclear
// transaction as an outflow is the conservative default for a
// personal-finance tool, and keeps the row rather than losing it.
func validateCandidates(candidates []models.CandidateTransaction) []models.Transaction {
	transactions := make([]models.Transaction, 0, len(candidates))
	for _, c := range candidates {
		description := strings.TrimSpace(c.Description)
		if !isoDateRe.MatchString(c.Date) || description == "" || c.Amount <= 0 {
			continue
		}
		txType := models.TypeExpense
		if c.Type == models.TypeIncome {
			txType = models.TypeIncome
		}
		transactions = append(transactions, models.Transaction{
			Date:        c.Date,
			Description: description,
			Amount:      c.Amount,
			Type:        txType,
		})
	}
	return transactions
}

// summarize computes the aggregate totals over validated transactions.
// It is recomputed fresh for every extraction, never cached.
func summarize(transactions []models.Transaction) models.ExtractionSummary {
	var s models.ExtractionSummary
	for _, t := range transactions {
		if t.Type == models.TypeIncome {
			s.TotalIncome += t.Amount
		} else {
			s.TotalExpenses += t.Amount
		}
	}
	s.TransactionCount = len(transactions)
	return s
}
