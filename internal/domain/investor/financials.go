package investor

import (
	"github.com/shopspring/decimal"

	"allgroub-ledger/internal/domain/borrower"
)

// Pool is one capital bucket. Total = Deposits - Withdrawals and
// Idle = max(0, Total - Active - Defaulted).
type Pool struct {
	Deposits    decimal.Decimal `json:"deposits"`
	Withdrawals decimal.Decimal `json:"withdrawals"`
	Total       decimal.Decimal `json:"total"`
	Active      decimal.Decimal `json:"active"`
	Defaulted   decimal.Decimal `json:"defaulted"`
	Idle        decimal.Decimal `json:"idle"`
}

// Unclassified collects transactions whose type or capital source is not recognized.
// They never reach either pool.
type Unclassified struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type Financials struct {
	InvestorID           string          `json:"investor_id"`
	Installment          Pool            `json:"installment"`
	Grace                Pool            `json:"grace"`
	TotalActiveCapital   decimal.Decimal `json:"total_active_capital"`
	TotalDefaultedFunds  decimal.Decimal `json:"total_defaulted_funds"`
	TotalIdleCapital     decimal.Decimal `json:"total_idle_capital"`
	TotalCapitalInSystem decimal.Decimal `json:"total_capital_in_system"`
	Unclassified         Unclassified    `json:"unclassified"`
	SkippedTransactions  int             `json:"skipped_transactions"`
	UnmatchedLoans       int             `json:"unmatched_loans"`
}

type participation int

const (
	participationNone participation = iota
	participationActive
	participationDefaulted
)

// ComputeFinancials derives inv's capital partition from its transaction history and
// the supplied borrowers. Only borrowers listed in inv.FundedLoanIDs count; ids with no
// matching borrower or no split entry for inv are ignored. Neither argument is modified.
func ComputeFinancials(inv Investor, borrowers []borrower.Borrower) Financials {
	f := Financials{
		InvestorID:   inv.InvestorID,
		Installment:  zeroPool(),
		Grace:        zeroPool(),
		Unclassified: Unclassified{Amount: decimal.Zero},
	}

	for _, tx := range inv.TransactionHistory {
		if tx.Amount.IsNegative() {
			f.SkippedTransactions++
			continue
		}
		if !tx.Type.Valid() || !tx.CapitalSource.Valid() {
			f.Unclassified.Count++
			f.Unclassified.Amount = f.Unclassified.Amount.Add(tx.Amount)
			continue
		}
		pool := f.pool(tx.CapitalSource)
		switch tx.Type {
		case TxDeposit:
			pool.Deposits = pool.Deposits.Add(tx.Amount)
		case TxWithdrawal:
			pool.Withdrawals = pool.Withdrawals.Add(tx.Amount)
		}
	}

	byID := make(map[string]borrower.Borrower, len(borrowers))
	for _, b := range borrowers {
		byID[b.BorrowerID] = b
	}

	seen := make(map[string]struct{}, len(inv.FundedLoanIDs))
	for _, loanID := range inv.FundedLoanIDs {
		if _, dup := seen[loanID]; dup {
			continue
		}
		seen[loanID] = struct{}{}

		b, ok := byID[loanID]
		if !ok {
			f.UnmatchedLoans++
			continue
		}
		amount, ok := b.FundingFor(inv.InvestorID)
		if !ok {
			f.UnmatchedLoans++
			continue
		}
		var pool *Pool
		switch b.LoanType {
		case borrower.LoanInstallment:
			pool = &f.Installment
		case borrower.LoanGrace:
			pool = &f.Grace
		default:
			f.UnmatchedLoans++
			continue
		}
		switch classify(b) {
		case participationDefaulted:
			pool.Defaulted = pool.Defaulted.Add(amount)
		case participationActive:
			pool.Active = pool.Active.Add(amount)
		}
	}

	for _, p := range []*Pool{&f.Installment, &f.Grace} {
		p.Total = p.Deposits.Sub(p.Withdrawals)
		p.Idle = decimal.Max(decimal.Zero, p.Total.Sub(p.Active).Sub(p.Defaulted))
	}

	f.TotalCapitalInSystem = f.Installment.Total.Add(f.Grace.Total)
	f.TotalActiveCapital = f.Installment.Active.Add(f.Grace.Active)
	f.TotalDefaultedFunds = f.Installment.Defaulted.Add(f.Grace.Defaulted)
	f.TotalIdleCapital = f.Installment.Idle.Add(f.Grace.Idle)
	return f
}

// classify: defaulted > paid > pending/rejected > active. Paid and awaiting-review loans
// hold no deployed capital.
func classify(b borrower.Borrower) participation {
	switch {
	case b.IsDefaulted():
		return participationDefaulted
	case b.IsFullyPaid(), b.IsAwaitingReview():
		return participationNone
	}
	return participationActive
}

func (f *Financials) pool(src CapitalSource) *Pool {
	if src == SourceGrace {
		return &f.Grace
	}
	return &f.Installment
}

func zeroPool() Pool {
	return Pool{
		Deposits:    decimal.Zero,
		Withdrawals: decimal.Zero,
		Total:       decimal.Zero,
		Active:      decimal.Zero,
		Defaulted:   decimal.Zero,
		Idle:        decimal.Zero,
	}
}
