package uowmock

import (
	"context"
	"errors"

	"allgroub-ledger/internal/domain/investor"
	"allgroub-ledger/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn         func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinInvestorTxFn func(ctx context.Context, investorID string, fn func(r uow.Repos, inv *investor.Investor) error) error
}

// Passthrough returns a UoW that runs every callback directly against repos,
// loading the investor through repos.Investors for WithinInvestorTx.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		},
		WithinInvestorTxFn: func(ctx context.Context, investorID string, fn func(uow.Repos, *investor.Investor) error) error {
			inv, err := repos.Investors.GetByInvestorID(ctx, investorID)
			if err != nil {
				return err
			}
			return fn(repos, inv)
		},
	}
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinInvestorTx(fn func(context.Context, string, func(uow.Repos, *investor.Investor) error) error) *UoW {
	m.WithinInvestorTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinInvestorTx(ctx context.Context, investorID string, fn func(r uow.Repos, inv *investor.Investor) error) error {
	if m.WithinInvestorTxFn != nil {
		return m.WithinInvestorTxFn(ctx, investorID, fn)
	}
	return errUnimplemented
}
