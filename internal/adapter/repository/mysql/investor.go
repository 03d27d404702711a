package mysql

import (
	"context"
	"errors"

	investorDomain "allgroub-ledger/internal/domain/investor"

	"gorm.io/gorm"
)

type InvestorRepository struct{ db *gorm.DB }

func NewInvestorRepository(db *gorm.DB) *InvestorRepository { return &InvestorRepository{db: db} }

func (r *InvestorRepository) Create(ctx context.Context, inv *investorDomain.Investor) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvestorRepository) Save(ctx context.Context, inv *investorDomain.Investor) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *InvestorRepository) GetByInvestorID(ctx context.Context, investorID string) (*investorDomain.Investor, error) {
	var out investorDomain.Investor
	res := r.db.WithContext(ctx).Where("investor_id = ?", investorID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, investorDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *InvestorRepository) ListByOffice(ctx context.Context, officeID string) ([]investorDomain.Investor, error) {
	var out []investorDomain.Investor
	q := r.db.WithContext(ctx).Order("id ASC")
	if officeID != "" {
		q = q.Where("office_id = ?", officeID)
	}
	return out, q.Find(&out).Error
}
