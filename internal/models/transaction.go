package models

// Transaction types. Anything the model emits outside this pair is
// normalized to TypeExpense during validation.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// CandidateTransaction is a transaction as proposed by the model.
// Its fields are untrusted until they pass structural validation.
type CandidateTransaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
}

// Transaction is a validated statement transaction. Date is always
// YYYY-MM-DD, Description is non-empty, Amount is > 0 and Type is
// either "income" or "expense".
type Transaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
}

// ExtractionSummary aggregates the validated transaction list.
type ExtractionSummary struct {
	TotalIncome      float64 `json:"total_income"`
	TotalExpenses    float64 `json:"total_expenses"`
	TransactionCount int     `json:"transaction_count"`
}

// ExtractionResult is the outcome of one statement extraction.
type ExtractionResult struct {
	Transactions   []Transaction
	Summary        ExtractionSummary
	Notes          string // model-reported ambiguities, empty when none
	RawTextPreview string // first chars of the text sent to the model
}
