package borrower

import "context"

type Repository interface {
	Create(ctx context.Context, b *Borrower) error
	Save(ctx context.Context, b *Borrower) error
	GetByBorrowerID(ctx context.Context, borrowerID string) (*Borrower, error)
	// ListByOffice returns every borrower of officeID; an empty officeID means all offices.
	ListByOffice(ctx context.Context, officeID string) ([]Borrower, error)
	ListByBorrowerIDs(ctx context.Context, ids []string) ([]Borrower, error)
}
