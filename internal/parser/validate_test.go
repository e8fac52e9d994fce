package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meubolso/statement-extractor/internal/models"
)

func TestValidateCandidates(t *testing.T) {
	tests := []struct {
		name      string
		candidate models.CandidateTransaction
		kept      bool
		wantType  string
	}{
		{
			name:      "valid income",
			candidate: models.CandidateTransaction{Date: "2024-03-15", Description: "PIX RECEBIDO JOAO SILVA", Amount: 150.00, Type: "income"},
			kept:      true,
			wantType:  models.TypeIncome,
		},
		{
			name:      "valid expense",
			candidate: models.CandidateTransaction{Date: "2024-01-05", Description: "COMPRA MERCADO", Amount: 89.90, Type: "expense"},
			kept:      true,
			wantType:  models.TypeExpense,
		},
		{
			name:      "unknown type coerced to expense, not dropped",
			candidate: models.CandidateTransaction{Date: "2024-02-10", Description: "TRANSFERENCIA", Amount: 10, Type: "transfer"},
			kept:      true,
			wantType:  models.TypeExpense,
		},
		{
			name:      "empty type coerced to expense",
			candidate: models.CandidateTransaction{Date: "2024-02-10", Description: "SAQUE", Amount: 10},
			kept:      true,
			wantType:  models.TypeExpense,
		},
		{
			name:      "case-sensitive type check",
			candidate: models.CandidateTransaction{Date: "2024-02-10", Description: "DEPOSITO", Amount: 10, Type: "Income"},
			kept:      true,
			wantType:  models.TypeExpense,
		},
		{
			name:      "malformed date dropped",
			candidate: models.CandidateTransaction{Date: "15/03/2024", Description: "PIX ENVIADO", Amount: 10, Type: "expense"},
			kept:      false,
		},
		{
			name:      "date with trailing text dropped",
			candidate: models.CandidateTransaction{Date: "2024-03-15 10:00", Description: "PIX ENVIADO", Amount: 10, Type: "expense"},
			kept:      false,
		},
		{
			name:      "blank description dropped",
			candidate: models.CandidateTransaction{Date: "2024-03-15", Description: "   ", Amount: 10, Type: "expense"},
			kept:      false,
		},
		{
			name:      "zero amount dropped",
			candidate: models.CandidateTransaction{Date: "2024-03-15", Description: "PAGTO", Amount: 0, Type: "expense"},
			kept:      false,
		},
		{
			name:      "negative amount dropped",
			candidate: models.CandidateTransaction{Date: "2024-03-15", Description: "ESTORNO", Amount: -5, Type: "income"},
			kept:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validateCandidates([]models.CandidateTransaction{tt.candidate})
			if !tt.kept {
				assert.Empty(t, got)
				return
			}
			if assert.Len(t, got, 1) {
				assert.Equal(t, tt.wantType, got[0].Type)
			}
		})
	}
}

func TestValidateCandidatesTrimsDescription(t *testing.T) {
	got := validateCandidates([]models.CandidateTransaction{
		{Date: "2024-03-15", Description: "  COMPRA PADARIA  ", Amount: 12.30, Type: "expense"},
	})
	if assert.Len(t, got, 1) {
		assert.Equal(t, "COMPRA PADARIA", got[0].Description)
	}
}

func TestValidateCandidatesSoundness(t *testing.T) {
	// Mixed garbage and good rows: every survivor satisfies the full
	// structural contract.
	candidates := []models.CandidateTransaction{
		{Date: "2024-03-15", Description: "PIX RECEBIDO", Amount: 150, Type: "income"},
		{Date: "2024-3-15", Description: "BAD DATE", Amount: 10, Type: "income"},
		{Date: "2024-03-16", Description: "COMPRA", Amount: 20, Type: "transfer"},
		{Date: "2024-03-17", Description: "", Amount: 30, Type: "expense"},
	}

	got := validateCandidates(candidates)
	assert.Len(t, got, 2)
	for _, txn := range got {
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, txn.Date)
		assert.NotEmpty(t, txn.Description)
		assert.Greater(t, txn.Amount, 0.0)
		assert.Contains(t, []string{models.TypeIncome, models.TypeExpense}, txn.Type)
	}
}

func TestSummarize(t *testing.T) {
	transactions := []models.Transaction{
		{Date: "2024-03-15", Description: "PIX RECEBIDO", Amount: 150.00, Type: models.TypeIncome},
		{Date: "2024-03-16", Description: "COMPRA", Amount: 89.90, Type: models.TypeExpense},
		{Date: "2024-03-17", Description: "SAQUE", Amount: 50.00, Type: models.TypeExpense},
	}

	s := summarize(transactions)
	assert.InDelta(t, 150.00, s.TotalIncome, 1e-9)
	assert.InDelta(t, 139.90, s.TotalExpenses, 1e-9)
	assert.Equal(t, 3, s.TransactionCount)
}

func TestSummarizeEmpty(t *testing.T) {
	s := summarize(nil)
	assert.Zero(t, s.TotalIncome)
	assert.Zero(t, s.TotalExpenses)
	assert.Zero(t, s.TransactionCount)
}
