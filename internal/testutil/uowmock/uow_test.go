package uowmock

import (
	"context"
	"errors"
	"testing"

	"allgroub-ledger/internal/domain/investor"
	"allgroub-ledger/internal/domain/uow"
	"allgroub-ledger/internal/testutil/borrowermock"
	"allgroub-ledger/internal/testutil/investormock"
)

func TestUoW_WithinTx_Happy(t *testing.T) {
	ctx := context.Background()

	borrowers := &borrowermock.Repo{}
	investors := &investormock.Repo{}
	repos := uow.Repos{Borrowers: borrowers, Investors: investors}

	innerCalled := false
	m := &UoW{
		WithinTxFn: func(gotCtx context.Context, fn func(r uow.Repos) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinTx: ctx mismatch")
			}
			if fn == nil {
				t.Fatalf("WithinTx: fn is nil")
			}
			return fn(repos)
		},
	}

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		innerCalled = true
		if r.Borrowers != borrowers || r.Investors != investors {
			t.Fatalf("WithinTx: repos not forwarded correctly")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinTx: inner fn not called")
	}
}

func TestUoW_WithinTx_PropagatesError(t *testing.T) {
	sentinel := errors.New("boom")
	m := &UoW{
		WithinTxFn: func(context.Context, func(uow.Repos) error) error { return sentinel },
	}
	if err := m.WithinTx(context.Background(), func(uow.Repos) error { return nil }); !errors.Is(err, sentinel) {
		t.Fatalf("WithinTx: want %v, got %v", sentinel, err)
	}
}

func TestUoW_Defaults_Unimplemented(t *testing.T) {
	ctx := context.Background()
	m := &UoW{}
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}
	if err := m.WithinInvestorTx(ctx, "INV-X", func(uow.Repos, *investor.Investor) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinInvestorTx default: want errUnimplemented, got %v", err)
	}
}

func TestUoW_WithinInvestorTx_Happy(t *testing.T) {
	ctx := context.Background()
	lock := &investor.Investor{ID: 7, InvestorID: "INV-7"}
	repos := uow.Repos{Borrowers: &borrowermock.Repo{}, Investors: &investormock.Repo{}}

	m := &UoW{
		WithinInvestorTxFn: func(gotCtx context.Context, investorID string, fn func(uow.Repos, *investor.Investor) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinInvestorTx: ctx mismatch")
			}
			if investorID != "INV-7" {
				t.Fatalf("WithinInvestorTx: investorID mismatch, got %s", investorID)
			}
			return fn(repos, lock)
		},
	}

	innerCalled := false
	err := m.WithinInvestorTx(ctx, "INV-7", func(_ uow.Repos, inv *investor.Investor) error {
		innerCalled = true
		if inv != lock {
			t.Fatalf("WithinInvestorTx: investor not forwarded: %+v", inv)
		}
		return nil
	})
	if err != nil || !innerCalled {
		t.Fatalf("WithinInvestorTx: err=%v called=%v", err, innerCalled)
	}
}

func TestPassthrough(t *testing.T) {
	ctx := context.Background()
	inv := &investor.Investor{InvestorID: "INV-1"}
	investors := &investormock.Repo{
		GetByInvestorIDFn: func(_ context.Context, investorID string) (*investor.Investor, error) {
			if investorID != "INV-1" {
				return nil, investor.ErrNotFound
			}
			return inv, nil
		},
	}
	m := Passthrough(uow.Repos{Borrowers: &borrowermock.Repo{}, Investors: investors})

	var got *investor.Investor
	if err := m.WithinInvestorTx(ctx, "INV-1", func(_ uow.Repos, i *investor.Investor) error {
		got = i
		return nil
	}); err != nil {
		t.Fatalf("WithinInvestorTx: %v", err)
	}
	if got != inv {
		t.Fatalf("expected loaded investor, got %+v", got)
	}
	err := m.WithinInvestorTx(ctx, "ghost", func(uow.Repos, *investor.Investor) error {
		t.Fatalf("callback must not run for a missing investor")
		return nil
	})
	if !errors.Is(err, investor.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUoW_FluentSetters_And_Reset(t *testing.T) {
	m := New()
	if m.WithinTxFn != nil || m.WithinInvestorTxFn != nil {
		t.Fatalf("New should start with nil funcs")
	}
	m.WithWithinTx(func(context.Context, func(uow.Repos) error) error { return nil }).
		WithWithinInvestorTx(func(context.Context, string, func(uow.Repos, *investor.Investor) error) error { return nil })
	if m.WithinTxFn == nil || m.WithinInvestorTxFn == nil {
		t.Fatalf("fluent setters didn't assign funcs")
	}
	m.Reset()
	if m.WithinTxFn != nil || m.WithinInvestorTxFn != nil {
		t.Fatalf("Reset should clear function fields")
	}
}
