package mysql

import (
	"context"

	"allgroub-ledger/internal/domain/investor"
	"allgroub-ledger/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Borrowers: &BorrowerRepository{db: tx},
		Investors: &InvestorRepository{db: tx},
		Users:     &UserRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repos(tx))
	})
}

func (u *GormUoW) WithinInvestorTx(ctx context.Context, investorID string, fn func(r uow.Repos, inv *investor.Investor) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repos(tx)
		inv, err := r.Investors.GetByInvestorID(ctx, investorID)
		if err != nil {
			return err
		}
		return fn(r, inv)
	})
}
