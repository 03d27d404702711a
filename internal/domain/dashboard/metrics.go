// Package dashboard folds the borrower status engine and the investor ledger over whole
// collections into a role-scoped snapshot.
package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"allgroub-ledger/internal/domain/borrower"
	"allgroub-ledger/internal/domain/investor"
	"allgroub-ledger/internal/domain/role"
	"allgroub-ledger/internal/domain/user"
)

type Caller struct {
	Role     role.Role
	OfficeID string
}

type Input struct {
	Caller    Caller
	Borrowers []borrower.Borrower
	Investors []investor.Investor
	Users     []user.User
	Config    Config
	At        time.Time
}

type LoanTypeMetrics struct {
	Loans             int             `json:"loans"`
	Principal         decimal.Decimal `json:"principal"`
	ProfitGenerated   decimal.Decimal `json:"profit_generated"`
	InstitutionProfit decimal.Decimal `json:"institution_profit"`
	InvestorProfit    decimal.Decimal `json:"investor_profit"`
}

type InvestorMetrics struct {
	TotalCapital       decimal.Decimal `json:"total_capital"`
	TotalActiveCapital decimal.Decimal `json:"total_active_capital"`
	TotalIdleCapital   decimal.Decimal `json:"total_idle_capital"`
	TotalDefaulted     decimal.Decimal `json:"total_defaulted"`
	ActiveInvestors    int             `json:"active_investors"`
	TotalInvestors     int             `json:"total_investors"`
}

type ManagerMetrics struct {
	Installment        LoanTypeMetrics `json:"installment"`
	Grace              LoanTypeMetrics `json:"grace"`
	NetProfit          decimal.Decimal `json:"net_profit"`
	DefaultedLoans     int             `json:"defaulted_loans"`
	OverSalaryCapLoans int             `json:"over_salary_cap_loans"`
}

// Metrics is a plain snapshot; nothing in it refers back to the inputs.
type Metrics struct {
	Role            role.Role        `json:"role"`
	OfficeID        string           `json:"office_id,omitempty"`
	At              time.Time        `json:"at"`
	TotalBorrowers  int              `json:"total_borrowers"`
	TotalLoanAmount decimal.Decimal  `json:"total_loan_amount"`
	RegularLoans    int              `json:"regular_loans"`
	LateLoans       int              `json:"late_loans"`
	DefaultedLoans  int              `json:"defaulted_loans"`
	PaidLoans       int              `json:"paid_loans"`
	PendingLoans    int              `json:"pending_loans"`
	InvalidLoans    int              `json:"invalid_loans"`
	OverFundedLoans int              `json:"over_funded_loans"`
	TotalUsers      int              `json:"total_users"`
	PendingUsers    int              `json:"pending_users"`
	Investor        *InvestorMetrics `json:"investor,omitempty"`
	Manager         *ManagerMetrics  `json:"manager,omitempty"`
}

// ComputeAggregate builds the snapshot for in.Caller as of in.At. Callers without
// CapViewAllOffices only see their own office; an admin may still narrow to one office.
func ComputeAggregate(in Input) Metrics {
	if in.At.IsZero() {
		panic("dashboard: evaluation time is required")
	}

	all := role.Can(in.Caller.Role, role.CapViewAllOffices)
	inScope := func(officeID string) bool {
		if all && in.Caller.OfficeID == "" {
			return true
		}
		return officeID == in.Caller.OfficeID
	}

	m := Metrics{
		Role:            in.Caller.Role,
		OfficeID:        in.Caller.OfficeID,
		At:              in.At,
		TotalLoanAmount: decimal.Zero,
	}

	borrowers := make([]borrower.Borrower, 0, len(in.Borrowers))
	for _, b := range in.Borrowers {
		if !inScope(b.OfficeID) {
			continue
		}
		borrowers = append(borrowers, b)
		m.TotalBorrowers++
		if !b.IsAwaitingReview() {
			m.TotalLoanAmount = m.TotalLoanAmount.Add(b.Amount)
		}
		if b.OverFunded() {
			m.OverFundedLoans++
		}
		label := borrower.DeriveStatus(b, in.At).Label
		// default is not a display status; it takes the loan out of regular/late
		if b.IsDefaulted() && (label == borrower.LabelRegular || label == borrower.LabelLate ||
			label == borrower.LabelInvalidData || label == borrower.LabelIncompleteData) {
			m.DefaultedLoans++
			continue
		}
		switch label {
		case borrower.LabelRegular:
			m.RegularLoans++
		case borrower.LabelLate:
			m.LateLoans++
		case borrower.LabelFullyPaid:
			m.PaidLoans++
		case borrower.LabelPending:
			m.PendingLoans++
		case borrower.LabelInvalidData, borrower.LabelIncompleteData:
			m.InvalidLoans++
		}
	}

	for _, u := range in.Users {
		if !inScope(u.OfficeID) {
			continue
		}
		m.TotalUsers++
		if u.Status == user.StatusPending {
			m.PendingUsers++
		}
	}

	if role.Can(in.Caller.Role, role.CapViewInvestorMetrics) {
		// Ledger lookups use the full borrower snapshot; funding may cross offices.
		m.Investor = investorMetrics(in.Investors, in.Borrowers, inScope)
	}
	if role.Can(in.Caller.Role, role.CapViewManagerMetrics) {
		mm := managerMetrics(borrowers, in.Config)
		mm.DefaultedLoans = m.DefaultedLoans
		m.Manager = &mm
	}
	return m
}

func investorMetrics(investors []investor.Investor, borrowers []borrower.Borrower, inScope func(string) bool) *InvestorMetrics {
	im := &InvestorMetrics{
		TotalCapital:       decimal.Zero,
		TotalActiveCapital: decimal.Zero,
		TotalIdleCapital:   decimal.Zero,
		TotalDefaulted:     decimal.Zero,
	}
	for _, inv := range investors {
		if !inScope(inv.OfficeID) {
			continue
		}
		im.TotalInvestors++
		if inv.Status == investor.StatusActive {
			im.ActiveInvestors++
		}
		f := investor.ComputeFinancials(inv, borrowers)
		im.TotalCapital = im.TotalCapital.Add(f.TotalCapitalInSystem)
		im.TotalActiveCapital = im.TotalActiveCapital.Add(f.TotalActiveCapital)
		im.TotalIdleCapital = im.TotalIdleCapital.Add(f.TotalIdleCapital)
		im.TotalDefaulted = im.TotalDefaulted.Add(f.TotalDefaultedFunds)
	}
	return im
}

// managerMetrics splits lending by loan type. Profit only counts for approved loans that
// have not defaulted.
func managerMetrics(borrowers []borrower.Borrower, cfg Config) ManagerMetrics {
	mm := ManagerMetrics{
		Installment: zeroLoanTypeMetrics(),
		Grace:       zeroLoanTypeMetrics(),
		NetProfit:   decimal.Zero,
	}
	for _, b := range borrowers {
		if b.IsAwaitingReview() {
			continue
		}
		var (
			lt          *LoanTypeMetrics
			institution decimal.Decimal
		)
		switch b.LoanType {
		case borrower.LoanInstallment:
			lt, institution = &mm.Installment, cfg.InstallmentInstitutionSharePct()
			if overSalaryCap(b, cfg.SalaryRepaymentPct) {
				mm.OverSalaryCapLoans++
			}
		case borrower.LoanGrace:
			lt, institution = &mm.Grace, cfg.GraceInstitutionSharePct()
		default:
			continue
		}
		lt.Loans++
		lt.Principal = lt.Principal.Add(b.Amount)
		if b.IsDefaulted() {
			continue
		}
		profit := b.Profit()
		share := profit.Mul(institution).Div(hundred)
		lt.ProfitGenerated = lt.ProfitGenerated.Add(profit)
		lt.InstitutionProfit = lt.InstitutionProfit.Add(share)
		lt.InvestorProfit = lt.InvestorProfit.Add(profit.Sub(share))
	}
	mm.NetProfit = mm.Installment.InstitutionProfit.Add(mm.Grace.InstitutionProfit)
	return mm
}

// overSalaryCap: the monthly installment exceeds pct% of the borrower's salary.
// Borrowers without a recorded salary are not flagged.
func overSalaryCap(b borrower.Borrower, pct decimal.Decimal) bool {
	if !b.MonthlySalary.IsPositive() {
		return false
	}
	limit := b.MonthlySalary.Mul(pct).Div(hundred)
	return b.MonthlyPayment().GreaterThan(limit)
}

func zeroLoanTypeMetrics() LoanTypeMetrics {
	return LoanTypeMetrics{
		Principal:         decimal.Zero,
		ProfitGenerated:   decimal.Zero,
		InstitutionProfit: decimal.Zero,
		InvestorProfit:    decimal.Zero,
	}
}
