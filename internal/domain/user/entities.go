package user

import (
	"time"

	"gorm.io/gorm"

	"allgroub-ledger/internal/domain/role"
	"allgroub-ledger/pkg/id"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Table: users
type User struct {
	ID        uint64         `gorm:"primaryKey;column:id" json:"-"`
	UserID    string         `gorm:"column:user_id;size:32;uniqueIndex:ux_users_user_id" json:"user_id"`
	OfficeID  string         `gorm:"column:office_id;size:32;index:idx_users_office" json:"office_id"`
	Name      string         `gorm:"column:name;size:255" json:"name"`
	Role      role.Role      `gorm:"column:role;type:varchar(32)" json:"role"`
	Status    Status         `gorm:"column:status;type:varchar(16);default:'pending'" json:"status"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (User) TableName() string { return "users" }

// BeforeCreate assigns a public id when the caller did not supply one.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.UserID == "" {
		u.UserID = id.NewID32()
	}
	return nil
}
