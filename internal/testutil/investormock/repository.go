package investormock

import (
	"context"

	domain "allgroub-ledger/internal/domain/investor"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn          func(ctx context.Context, inv *domain.Investor) error
	SaveFn            func(ctx context.Context, inv *domain.Investor) error
	GetByInvestorIDFn func(ctx context.Context, investorID string) (*domain.Investor, error)
	ListByOfficeFn    func(ctx context.Context, officeID string) ([]domain.Investor, error)
}

func (m *Repo) Create(ctx context.Context, inv *domain.Investor) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, inv)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, inv *domain.Investor) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, inv)
	}
	return nil
}

func (m *Repo) GetByInvestorID(ctx context.Context, investorID string) (*domain.Investor, error) {
	if m.GetByInvestorIDFn != nil {
		return m.GetByInvestorIDFn(ctx, investorID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByOffice(ctx context.Context, officeID string) ([]domain.Investor, error) {
	if m.ListByOfficeFn != nil {
		return m.ListByOfficeFn(ctx, officeID)
	}
	return nil, context.Canceled
}
