package borrower

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"allgroub-ledger/pkg/id"
)

var (
	ErrNotFound   = errors.New("borrower not found")
	ErrNoSchedule = errors.New("loan has no installment schedule")
)

type LoanType string

const (
	LoanInstallment LoanType = "installment"
	LoanGrace       LoanType = "grace"
)

// Status is the stored lifecycle status. Only pending/rejected are authoritative;
// late/regular are re-derived at read time.
type Status string

const (
	StatusPending   Status = "pending_approval"
	StatusRejected  Status = "rejected"
	StatusRegular   Status = "regular"
	StatusLate      Status = "late"
	StatusPaid      Status = "fully_paid"
	StatusDefaulted Status = "defaulted"
)

type PaymentStatus string

const (
	PaymentNone        PaymentStatus = ""
	PaymentPartial     PaymentStatus = "partial"
	PaymentPaid        PaymentStatus = "paid"
	PaymentDefaulted   PaymentStatus = "defaulted"
	PaymentLegalAction PaymentStatus = "legal_action"
)

type InstallmentStatus string

const (
	InstallmentUnpaid InstallmentStatus = "unpaid"
	InstallmentLate   InstallmentStatus = "late"
	InstallmentPaid   InstallmentStatus = "paid"
)

// Installment is one monthly obligation; Month is the offset from the origination date.
type Installment struct {
	Month     int               `json:"month"`
	Principal decimal.Decimal   `json:"principal"`
	Interest  decimal.Decimal   `json:"interest"`
	Total     decimal.Decimal   `json:"total"`
	Status    InstallmentStatus `json:"status"`
	PaidAt    string            `json:"paid_at,omitempty"`
}

func (i Installment) Settled() bool {
	return i.Status != InstallmentUnpaid && i.Status != InstallmentLate
}

// Funding is one investor's share of the principal.
type Funding struct {
	InvestorID string          `json:"investor_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// Table: borrowers. Dates are kept as the raw strings the approval workflow wrote;
// they are parsed (and may be rejected) at read time.
type Borrower struct {
	ID              uint64          `gorm:"primaryKey;column:id" json:"-"`
	BorrowerID      string          `gorm:"column:borrower_id;size:32;uniqueIndex:ux_borrowers_borrower_id" json:"borrower_id"`
	OfficeID        string          `gorm:"column:office_id;size:32;index:idx_borrowers_office" json:"office_id"`
	BranchID        string          `gorm:"column:branch_id;size:32" json:"branch_id,omitempty"`
	Name            string          `gorm:"column:name;size:255" json:"name"`
	LoanType        LoanType        `gorm:"column:loan_type;type:varchar(16)" json:"loan_type"`
	Amount          decimal.Decimal `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	Rate            decimal.Decimal `gorm:"column:rate;type:decimal(6,2)" json:"rate"`
	Term            int             `gorm:"column:term" json:"term"`
	Discount        decimal.Decimal `gorm:"column:discount;type:decimal(6,2)" json:"discount"`
	MonthlySalary   decimal.Decimal `gorm:"column:monthly_salary;type:decimal(18,2)" json:"monthly_salary"`
	Status          Status          `gorm:"column:status;type:varchar(24);default:'pending_approval'" json:"status"`
	PaymentStatus   PaymentStatus   `gorm:"column:payment_status;type:varchar(24)" json:"payment_status,omitempty"`
	Date            string          `gorm:"column:date;size:40" json:"date"`
	DueDate         string          `gorm:"column:due_date;size:40" json:"due_date,omitempty"`
	PaidOffDate     string          `gorm:"column:paid_off_date;size:40" json:"paid_off_date,omitempty"`
	Installments    []Installment   `gorm:"column:installments;serializer:json;type:text" json:"installments,omitempty"`
	FundedBy        []Funding       `gorm:"column:funded_by;serializer:json;type:text" json:"funded_by,omitempty"`
	SubmittedBy     string          `gorm:"column:submitted_by;size:32" json:"submitted_by,omitempty"`
	RejectionReason string          `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"column:deleted_at;index" json:"-"`
}

func (Borrower) TableName() string { return "borrowers" }

// BeforeCreate assigns a public id when the caller did not supply one.
func (b *Borrower) BeforeCreate(*gorm.DB) error {
	if b.BorrowerID == "" {
		b.BorrowerID = id.NewID32()
	}
	return nil
}

func (b Borrower) IsFullyPaid() bool {
	return b.Status == StatusPaid || b.PaymentStatus == PaymentPaid
}

func (b Borrower) IsDefaulted() bool {
	return b.Status == StatusDefaulted ||
		b.PaymentStatus == PaymentDefaulted ||
		b.PaymentStatus == PaymentLegalAction
}

// IsAwaitingReview covers the two states owned by the approval workflow.
func (b Borrower) IsAwaitingReview() bool {
	return b.Status == StatusPending || b.Status == StatusRejected
}

// FundingFor sums every split entry that belongs to investorID.
func (b Borrower) FundingFor(investorID string) (decimal.Decimal, bool) {
	total := decimal.Zero
	found := false
	for _, f := range b.FundedBy {
		if f.InvestorID != investorID {
			continue
		}
		total = total.Add(f.Amount)
		found = true
	}
	return total, found
}

// TotalFunded is the sum of all splits; it must not exceed Amount.
func (b Borrower) TotalFunded() decimal.Decimal {
	total := decimal.Zero
	for _, f := range b.FundedBy {
		total = total.Add(f.Amount)
	}
	return total
}

// OverFunded reports a broken funding split: the investors' shares add up to more than
// the principal.
func (b Borrower) OverFunded() bool {
	return b.TotalFunded().GreaterThan(b.Amount)
}
