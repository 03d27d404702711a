package borrowermock

import (
	"context"

	domain "allgroub-ledger/internal/domain/borrower"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to no-ops, reads default to context.Canceled.
type Repo struct {
	CreateFn            func(ctx context.Context, b *domain.Borrower) error
	SaveFn              func(ctx context.Context, b *domain.Borrower) error
	GetByBorrowerIDFn   func(ctx context.Context, borrowerID string) (*domain.Borrower, error)
	ListByOfficeFn      func(ctx context.Context, officeID string) ([]domain.Borrower, error)
	ListByBorrowerIDsFn func(ctx context.Context, ids []string) ([]domain.Borrower, error)
}

func (m *Repo) Create(ctx context.Context, b *domain.Borrower) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, b *domain.Borrower) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, b)
	}
	return nil
}

func (m *Repo) GetByBorrowerID(ctx context.Context, borrowerID string) (*domain.Borrower, error) {
	if m.GetByBorrowerIDFn != nil {
		return m.GetByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByOffice(ctx context.Context, officeID string) ([]domain.Borrower, error) {
	if m.ListByOfficeFn != nil {
		return m.ListByOfficeFn(ctx, officeID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByBorrowerIDs(ctx context.Context, ids []string) ([]domain.Borrower, error) {
	if m.ListByBorrowerIDsFn != nil {
		return m.ListByBorrowerIDsFn(ctx, ids)
	}
	return nil, context.Canceled
}
