package investor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	borrowerDomain "allgroub-ledger/internal/domain/borrower"
	domain "allgroub-ledger/internal/domain/investor"
	"allgroub-ledger/internal/domain/role"
	"allgroub-ledger/internal/domain/uow"
	"allgroub-ledger/pkg/dateutil"
	"allgroub-ledger/pkg/id"
)

type Usecase struct {
	investors  domain.Repository
	borrowers  borrowerDomain.Repository
	uow        uow.UnitOfWork
	log        *logrus.Logger
	recomputes *prometheus.CounterVec
	now        func() time.Time
}

type Option func(*Usecase)

// WithRecomputeCounter counts recomputations by outcome (unchanged, updated, failed).
func WithRecomputeCounter(c *prometheus.CounterVec) Option {
	return func(u *Usecase) { u.recomputes = c }
}

func NewUsecase(investors domain.Repository, borrowers borrowerDomain.Repository, tx uow.UnitOfWork, log *logrus.Logger, opts ...Option) *Usecase {
	u := &Usecase{investors: investors, borrowers: borrowers, uow: tx, log: log, now: time.Now}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Financials computes the ledger of one investor without writing anything back.
// scope confines the lookup to one office; "" means any office.
func (u *Usecase) Financials(ctx context.Context, investorID, scope string) (*FinancialsDTO, error) {
	inv, err := u.investors.GetByInvestorID(ctx, investorID)
	if err != nil {
		return nil, err
	}
	if !role.InScope(scope, inv.OfficeID) {
		return nil, role.ErrForbidden
	}
	f, err := u.compute(ctx, u.borrowers, *inv)
	if err != nil {
		return nil, err
	}
	dto := toFinancialsDTO(*inv, f)
	return &dto, nil
}

// Recompute refreshes the cached idle and defaulted balances inside a transaction.
// The investor row is only written when the cached values drifted.
func (u *Usecase) Recompute(ctx context.Context, investorID, scope string) (*FinancialsDTO, error) {
	var dto FinancialsDTO
	err := u.uow.WithinInvestorTx(ctx, investorID, func(r uow.Repos, inv *domain.Investor) error {
		if !role.InScope(scope, inv.OfficeID) {
			return role.ErrForbidden
		}
		f, err := u.compute(ctx, r.Borrowers, *inv)
		if err != nil {
			return err
		}
		dto = toFinancialsDTO(*inv, f)
		if !dto.Drifted {
			return nil
		}
		inv.ApplyFinancials(f)
		if err := r.Investors.Save(ctx, inv); err != nil {
			return fmt.Errorf("save investor %s: %w", investorID, err)
		}
		dto.Updated = true
		return nil
	})
	if err != nil {
		u.observe("failed")
		return nil, err
	}
	if dto.Updated {
		u.observe("updated")
		u.log.WithFields(logrus.Fields{
			"investor_id": investorID,
			"idle":        dto.TotalIdleCapital.StringFixed(2),
			"defaulted":   dto.TotalDefaultedFunds.StringFixed(2),
		}).Info("investor balances refreshed")
	} else {
		u.observe("unchanged")
	}
	return &dto, nil
}

// RecomputeOffice runs Recompute for every investor of officeID ("" = all offices).
// A failure on one investor is logged and counted; the sweep continues.
func (u *Usecase) RecomputeOffice(ctx context.Context, officeID string) (RecomputeSummary, error) {
	sum := RecomputeSummary{OfficeID: officeID}
	list, err := u.investors.ListByOffice(ctx, officeID)
	if err != nil {
		return sum, err
	}
	for _, inv := range list {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		sum.Scanned++
		dto, err := u.Recompute(ctx, inv.InvestorID, "")
		if err != nil {
			sum.Failed++
			u.log.WithError(err).WithField("investor_id", inv.InvestorID).Error("recompute failed")
			continue
		}
		if dto.Updated {
			sum.Updated++
		}
	}
	u.log.WithFields(logrus.Fields{
		"office_id": officeID,
		"scanned":   sum.Scanned,
		"updated":   sum.Updated,
		"failed":    sum.Failed,
	}).Info("recompute sweep finished")
	return sum, nil
}

// RecordTransaction appends a deposit or withdrawal and refreshes the cached balances
// in the same transaction. Withdrawals may not exceed the idle capital of their pool.
func (u *Usecase) RecordTransaction(ctx context.Context, investorID, scope string, in RecordTransactionInput) (*TransactionDTO, error) {
	tx, err := u.newTransaction(in)
	if err != nil {
		return nil, err
	}

	var out TransactionDTO
	err = u.uow.WithinInvestorTx(ctx, investorID, func(r uow.Repos, inv *domain.Investor) error {
		if !role.InScope(scope, inv.OfficeID) {
			return role.ErrForbidden
		}
		if tx.Type == domain.TxWithdrawal {
			before, err := u.compute(ctx, r.Borrowers, *inv)
			if err != nil {
				return err
			}
			idle := before.Installment.Idle
			if tx.CapitalSource == domain.SourceGrace {
				idle = before.Grace.Idle
			}
			if tx.Amount.GreaterThan(idle) {
				return fmt.Errorf("%w: requested %s, idle %s", domain.ErrInsufficientFunds, tx.Amount.StringFixed(2), idle.StringFixed(2))
			}
		}

		inv.AppendTransaction(tx)
		f, err := u.compute(ctx, r.Borrowers, *inv)
		if err != nil {
			return err
		}
		inv.ApplyFinancials(f)
		if err := r.Investors.Save(ctx, inv); err != nil {
			return fmt.Errorf("save investor %s: %w", investorID, err)
		}
		out = TransactionDTO{Transaction: tx, Financials: toFinancialsDTO(*inv, f)}
		out.Financials.Updated = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"investor_id":    investorID,
		"tx_id":          tx.ID,
		"type":           tx.Type,
		"capital_source": tx.CapitalSource,
		"amount":         tx.Amount.StringFixed(2),
	}).Info("transaction recorded")
	return &out, nil
}

func (u *Usecase) newTransaction(in RecordTransactionInput) (domain.Transaction, error) {
	typ, err := domain.ParseTransactionType(in.Type)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: unknown type %q", err, in.Type)
	}
	src, err := domain.ParseCapitalSource(in.CapitalSource)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: unknown capital source %q", err, in.CapitalSource)
	}
	if !in.Amount.IsPositive() {
		return domain.Transaction{}, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidTransaction)
	}
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = u.now().Format(time.DateOnly)
	} else if !dateutil.IsValidDate(date) {
		return domain.Transaction{}, fmt.Errorf("%w: invalid date %q", domain.ErrInvalidTransaction, in.Date)
	}
	return domain.Transaction{
		ID:            id.NewTxID(),
		Type:          typ,
		CapitalSource: src,
		Amount:        in.Amount.Round(2),
		Date:          date,
		Description:   strings.TrimSpace(in.Description),
	}, nil
}

func (u *Usecase) compute(ctx context.Context, borrowers borrowerDomain.Repository, inv domain.Investor) (domain.Financials, error) {
	funded, err := borrowers.ListByBorrowerIDs(ctx, inv.FundedLoanIDs)
	if err != nil {
		return domain.Financials{}, fmt.Errorf("load funded loans of %s: %w", inv.InvestorID, err)
	}
	f := domain.ComputeFinancials(inv, funded)
	if f.SkippedTransactions > 0 || f.Unclassified.Count > 0 || f.UnmatchedLoans > 0 {
		u.log.WithFields(logrus.Fields{
			"investor_id":  inv.InvestorID,
			"skipped":      f.SkippedTransactions,
			"unclassified": f.Unclassified.Count,
			"unmatched":    f.UnmatchedLoans,
		}).Warn("investor ledger has malformed entries")
	}
	for _, b := range funded {
		if b.OverFunded() {
			u.log.WithFields(logrus.Fields{
				"investor_id": inv.InvestorID,
				"borrower_id": b.BorrowerID,
				"principal":   b.Amount.String(),
				"funded":      b.TotalFunded().String(),
			}).Warn("loan funded beyond its principal")
		}
	}
	return f, nil
}

func (u *Usecase) observe(outcome string) {
	if u.recomputes != nil {
		u.recomputes.WithLabelValues(outcome).Inc()
	}
}

func toFinancialsDTO(inv domain.Investor, f domain.Financials) FinancialsDTO {
	return FinancialsDTO{
		Financials:      f,
		CachedIdle:      inv.Amount,
		CachedDefaulted: inv.DefaultedFunds,
		Drifted:         inv.Drifted(f),
	}
}

