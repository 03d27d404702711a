package borrower

import (
	"time"

	"github.com/shopspring/decimal"

	domain "allgroub-ledger/internal/domain/borrower"
)

type StatusDTO struct {
	BorrowerID   string          `json:"borrower_id"`
	OfficeID     string          `json:"office_id"`
	Name         string          `json:"name"`
	LoanType     string          `json:"loan_type"`
	Amount       decimal.Decimal `json:"amount"`
	StoredStatus string          `json:"stored_status"`
	Label        string          `json:"label"`
	Severity     string          `json:"severity"`
	Remaining    string          `json:"remaining"`
	IsOverdue    bool            `json:"is_overdue"`
	EvaluatedAt  time.Time       `json:"evaluated_at"`
}

type ScheduleItemDTO struct {
	domain.Installment
	// DueDate is empty when the origination date cannot be read.
	DueDate string `json:"due_date,omitempty"`
}

type ScheduleDTO struct {
	BorrowerID string            `json:"borrower_id"`
	Items      []ScheduleItemDTO `json:"items"`
	Total      decimal.Decimal   `json:"total"`
	// Stored is false when the plan was built on the fly for a loan saved without one.
	Stored  bool `json:"stored"`
	Created bool `json:"created,omitempty"`
}
