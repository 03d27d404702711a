package mysql

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schema only for tests (no decimal/varchar specifics) ---

type borrowerSQLite struct {
	ID              uint64         `gorm:"primaryKey;column:id"`
	BorrowerID      string         `gorm:"size:32;uniqueIndex;column:borrower_id"`
	OfficeID        string         `gorm:"column:office_id"`
	BranchID        string         `gorm:"column:branch_id"`
	Name            string         `gorm:"column:name"`
	LoanType        string         `gorm:"type:text;column:loan_type"`
	Amount          string         `gorm:"type:text;column:amount"`
	Rate            string         `gorm:"type:text;column:rate"`
	Term            int            `gorm:"column:term"`
	Discount        string         `gorm:"type:text;column:discount"`
	MonthlySalary   string         `gorm:"type:text;column:monthly_salary"`
	Status          string         `gorm:"type:text;column:status"`
	PaymentStatus   string         `gorm:"type:text;column:payment_status"`
	Date            string         `gorm:"column:date"`
	DueDate         string         `gorm:"column:due_date"`
	PaidOffDate     string         `gorm:"column:paid_off_date"`
	Installments    string         `gorm:"type:text;column:installments"`
	FundedBy        string         `gorm:"type:text;column:funded_by"`
	SubmittedBy     string         `gorm:"column:submitted_by"`
	RejectionReason string         `gorm:"column:rejection_reason"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (borrowerSQLite) TableName() string { return "borrowers" }

type investorSQLite struct {
	ID                 uint64         `gorm:"primaryKey;column:id"`
	InvestorID         string         `gorm:"size:32;uniqueIndex;column:investor_id"`
	OfficeID           string         `gorm:"column:office_id"`
	BranchID           string         `gorm:"column:branch_id"`
	Name               string         `gorm:"column:name"`
	Status             string         `gorm:"type:text;column:status"`
	Amount             string         `gorm:"type:text;column:amount"`
	DefaultedFunds     string         `gorm:"type:text;column:defaulted_funds"`
	FundedLoanIDs      string         `gorm:"type:text;column:funded_loan_ids"`
	TransactionHistory string         `gorm:"type:text;column:transaction_history"`
	CreatedAt          time.Time      `gorm:"column:created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (investorSQLite) TableName() string { return "investors" }

type userSQLite struct {
	ID        uint64         `gorm:"primaryKey;column:id"`
	UserID    string         `gorm:"size:32;uniqueIndex;column:user_id"`
	OfficeID  string         `gorm:"column:office_id"`
	Name      string         `gorm:"column:name"`
	Role      string         `gorm:"type:text;column:role"`
	Status    string         `gorm:"type:text;column:status"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (userSQLite) TableName() string { return "users" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the sqlite-safe schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// a single connection keeps every statement on the same in-memory database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&borrowerSQLite{}, &investorSQLite{}, &userSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
