package usermock

import (
	"context"

	domain "allgroub-ledger/internal/domain/user"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn       func(ctx context.Context, u *domain.User) error
	ListByOfficeFn func(ctx context.Context, officeID string) ([]domain.User, error)
}

func (m *Repo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) ListByOffice(ctx context.Context, officeID string) ([]domain.User, error) {
	if m.ListByOfficeFn != nil {
		return m.ListByOfficeFn(ctx, officeID)
	}
	return nil, context.Canceled
}
