package mysql

import (
	"context"

	userDomain "allgroub-ledger/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) ListByOffice(ctx context.Context, officeID string) ([]userDomain.User, error) {
	var out []userDomain.User
	q := r.db.WithContext(ctx).Order("id ASC")
	if officeID != "" {
		q = q.Where("office_id = ?", officeID)
	}
	return out, q.Find(&out).Error
}
