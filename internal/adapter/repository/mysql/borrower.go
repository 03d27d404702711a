package mysql

import (
	"context"
	"errors"

	borrowerDomain "allgroub-ledger/internal/domain/borrower"

	"gorm.io/gorm"
)

type BorrowerRepository struct{ db *gorm.DB }

func NewBorrowerRepository(db *gorm.DB) *BorrowerRepository { return &BorrowerRepository{db: db} }

func (r *BorrowerRepository) Create(ctx context.Context, b *borrowerDomain.Borrower) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BorrowerRepository) Save(ctx context.Context, b *borrowerDomain.Borrower) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BorrowerRepository) GetByBorrowerID(ctx context.Context, borrowerID string) (*borrowerDomain.Borrower, error) {
	var out borrowerDomain.Borrower
	res := r.db.WithContext(ctx).Where("borrower_id = ?", borrowerID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, borrowerDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *BorrowerRepository) ListByOffice(ctx context.Context, officeID string) ([]borrowerDomain.Borrower, error) {
	var out []borrowerDomain.Borrower
	q := r.db.WithContext(ctx).Order("id ASC")
	if officeID != "" {
		q = q.Where("office_id = ?", officeID)
	}
	return out, q.Find(&out).Error
}

func (r *BorrowerRepository) ListByBorrowerIDs(ctx context.Context, ids []string) ([]borrowerDomain.Borrower, error) {
	var out []borrowerDomain.Borrower
	if len(ids) == 0 {
		return out, nil
	}
	res := r.db.WithContext(ctx).Where("borrower_id IN ?", ids).Order("id ASC").Find(&out)
	return out, res.Error
}
