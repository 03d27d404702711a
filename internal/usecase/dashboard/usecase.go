package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"allgroub-ledger/internal/domain/borrower"
	domain "allgroub-ledger/internal/domain/dashboard"
	"allgroub-ledger/internal/domain/investor"
	"allgroub-ledger/internal/domain/role"
	"allgroub-ledger/internal/domain/user"
)

var ErrInvalidCaller = errors.New("invalid caller")

type Usecase struct {
	borrowers  borrower.Repository
	investors  investor.Repository
	users      user.Repository
	cfg        domain.Config
	summarizer Summarizer
	log        *logrus.Logger
	loc        *time.Location
	now        func() time.Time
}

type Option func(*Usecase)

// WithLocation sets the zone "now" is read in when a request carries no evaluation time.
func WithLocation(loc *time.Location) Option {
	return func(u *Usecase) {
		if loc != nil {
			u.loc = loc
		}
	}
}

// NewUsecase wires the dashboard. summarizer may be nil.
func NewUsecase(b borrower.Repository, i investor.Repository, u user.Repository, cfg domain.Config, summarizer Summarizer, log *logrus.Logger, opts ...Option) *Usecase {
	uc := &Usecase{borrowers: b, investors: i, users: u, cfg: cfg, summarizer: summarizer, log: log, loc: time.UTC, now: time.Now}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Aggregate builds the role-scoped metrics snapshot. Borrowers are always loaded for
// every office since investors may fund loans outside their own office.
func (u *Usecase) Aggregate(ctx context.Context, in AggregateInput) (*AggregateDTO, error) {
	caller, err := u.resolveCaller(in)
	if err != nil {
		return nil, err
	}
	at := in.At
	if at.IsZero() {
		at = u.now().In(u.loc)
	}

	borrowers, err := u.borrowers.ListByOffice(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("load borrowers: %w", err)
	}
	var investors []investor.Investor
	if role.Can(caller.Role, role.CapViewInvestorMetrics) {
		if investors, err = u.investors.ListByOffice(ctx, caller.OfficeID); err != nil {
			return nil, fmt.Errorf("load investors: %w", err)
		}
	}
	users, err := u.users.ListByOffice(ctx, caller.OfficeID)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	m := domain.ComputeAggregate(domain.Input{
		Caller:    caller,
		Borrowers: borrowers,
		Investors: investors,
		Users:     users,
		Config:    u.cfg,
		At:        at,
	})
	out := &AggregateDTO{Metrics: m}

	if u.summarizer != nil {
		summary, err := u.summarizer.Summarize(ctx, m)
		if err != nil {
			u.log.WithError(err).WithField("office_id", caller.OfficeID).Warn("dashboard summary unavailable")
		} else {
			out.Summary = summary
		}
	}
	return out, nil
}

func (u *Usecase) resolveCaller(in AggregateInput) (domain.Caller, error) {
	r, err := role.Parse(in.Role)
	if err != nil {
		return domain.Caller{}, fmt.Errorf("%w: %v", ErrInvalidCaller, err)
	}
	if role.Can(r, role.CapViewAllOffices) {
		return domain.Caller{Role: r, OfficeID: in.OfficeID}, nil
	}
	if in.CallerOfficeID == "" {
		return domain.Caller{}, fmt.Errorf("%w: office is required for role %s", ErrInvalidCaller, r)
	}
	if in.OfficeID != "" && in.OfficeID != in.CallerOfficeID {
		return domain.Caller{}, role.ErrForbidden
	}
	return domain.Caller{Role: r, OfficeID: in.CallerOfficeID}, nil
}
