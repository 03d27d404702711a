package investor

import "context"

type Repository interface {
	Create(ctx context.Context, inv *Investor) error
	Save(ctx context.Context, inv *Investor) error
	GetByInvestorID(ctx context.Context, investorID string) (*Investor, error)
	// ListByOffice returns every investor of officeID; an empty officeID means all offices.
	ListByOffice(ctx context.Context, officeID string) ([]Investor, error)
}
