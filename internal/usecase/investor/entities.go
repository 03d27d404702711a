package investor

import (
	"github.com/shopspring/decimal"

	domain "allgroub-ledger/internal/domain/investor"
)

type FinancialsDTO struct {
	domain.Financials
	CachedIdle      decimal.Decimal `json:"cached_idle"`
	CachedDefaulted decimal.Decimal `json:"cached_defaulted"`
	Drifted         bool            `json:"drifted"`
	Updated         bool            `json:"updated,omitempty"`
}

type RecordTransactionInput struct {
	Type          string
	CapitalSource string
	Amount        decimal.Decimal
	Date          string
	Description   string
}

type TransactionDTO struct {
	Transaction domain.Transaction `json:"transaction"`
	Financials  FinancialsDTO      `json:"financials"`
}

type RecomputeSummary struct {
	OfficeID string `json:"office_id,omitempty"`
	Scanned  int    `json:"scanned"`
	Updated  int    `json:"updated"`
	Failed   int    `json:"failed"`
}
