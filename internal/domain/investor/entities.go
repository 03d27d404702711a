package investor

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"allgroub-ledger/pkg/id"
)

var (
	ErrNotFound           = errors.New("investor not found")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInsufficientFunds  = errors.New("withdrawal exceeds idle capital")
)

type Status string

const (
	StatusPending  Status = "pending_approval"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusRejected Status = "rejected"
)

type TransactionType string

const (
	TxDeposit    TransactionType = "deposit"
	TxWithdrawal TransactionType = "withdrawal"
)

func (t TransactionType) Valid() bool { return t == TxDeposit || t == TxWithdrawal }

// CapitalSource tags which of the two independent pools a transaction moves.
type CapitalSource string

const (
	SourceInstallment CapitalSource = "installment"
	SourceGrace       CapitalSource = "grace"
)

func (s CapitalSource) Valid() bool { return s == SourceInstallment || s == SourceGrace }

// ParseTransactionType is strict: only the canonical names are accepted.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrInvalidTransaction
	}
	return t, nil
}

func ParseCapitalSource(s string) (CapitalSource, error) {
	c := CapitalSource(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", ErrInvalidTransaction
	}
	return c, nil
}

type Transaction struct {
	ID            string          `json:"id"`
	Type          TransactionType `json:"type"`
	CapitalSource CapitalSource   `json:"capital_source"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Description   string          `json:"description,omitempty"`
}

// Table: investors. Amount is the idle/liquid balance and, like DefaultedFunds, is a
// cached value written only by ApplyFinancials.
type Investor struct {
	ID                 uint64          `gorm:"primaryKey;column:id" json:"-"`
	InvestorID         string          `gorm:"column:investor_id;size:32;uniqueIndex:ux_investors_investor_id" json:"investor_id"`
	OfficeID           string          `gorm:"column:office_id;size:32;index:idx_investors_office" json:"office_id"`
	BranchID           string          `gorm:"column:branch_id;size:32" json:"branch_id,omitempty"`
	Name               string          `gorm:"column:name;size:255" json:"name"`
	Status             Status          `gorm:"column:status;type:varchar(24);default:'pending_approval'" json:"status"`
	Amount             decimal.Decimal `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	DefaultedFunds     decimal.Decimal `gorm:"column:defaulted_funds;type:decimal(18,2)" json:"defaulted_funds"`
	FundedLoanIDs      []string        `gorm:"column:funded_loan_ids;serializer:json;type:text" json:"funded_loan_ids"`
	TransactionHistory []Transaction   `gorm:"column:transaction_history;serializer:json;type:text" json:"transaction_history"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"column:deleted_at;index" json:"-"`
}

func (Investor) TableName() string { return "investors" }

// BeforeCreate assigns a public id when the caller did not supply one.
func (i *Investor) BeforeCreate(*gorm.DB) error {
	if i.InvestorID == "" {
		i.InvestorID = id.NewID32()
	}
	return nil
}

func (i *Investor) AppendTransaction(tx Transaction) {
	i.TransactionHistory = append(i.TransactionHistory, tx)
}

// ApplyFinancials refreshes the cached balances from a fresh computation.
func (i *Investor) ApplyFinancials(f Financials) {
	i.DefaultedFunds = f.TotalDefaultedFunds
	i.Amount = f.TotalIdleCapital
}

// Drifted reports whether the cached balances disagree with f.
func (i Investor) Drifted(f Financials) bool {
	return !i.DefaultedFunds.Equal(f.TotalDefaultedFunds) || !i.Amount.Equal(f.TotalIdleCapital)
}
