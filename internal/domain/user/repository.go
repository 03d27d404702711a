package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	// ListByOffice returns every user of officeID; an empty officeID means all offices.
	ListByOffice(ctx context.Context, officeID string) ([]User, error)
}
