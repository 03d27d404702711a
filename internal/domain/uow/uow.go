package uow

import (
	"context"

	"allgroub-ledger/internal/domain/borrower"
	"allgroub-ledger/internal/domain/investor"
	"allgroub-ledger/internal/domain/user"
)

type Repos struct {
	Borrowers borrower.Repository
	Investors investor.Repository
	Users     user.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: load the investor inside the tx, then pass it in
	WithinInvestorTx(ctx context.Context, investorID string, fn func(r Repos, inv *investor.Investor) error) error
}
