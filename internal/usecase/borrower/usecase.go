package borrower

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	domain "allgroub-ledger/internal/domain/borrower"
	"allgroub-ledger/internal/domain/role"
	"allgroub-ledger/internal/domain/uow"
)

type Usecase struct {
	repo domain.Repository
	uow  uow.UnitOfWork
	log  *logrus.Logger
	loc  *time.Location
	now  func() time.Time
}

type Option func(*Usecase)

// WithLocation sets the zone "today" is taken in when no evaluation time is given.
func WithLocation(loc *time.Location) Option {
	return func(u *Usecase) {
		if loc != nil {
			u.loc = loc
		}
	}
}

func NewUsecase(r domain.Repository, tx uow.UnitOfWork, log *logrus.Logger, opts ...Option) *Usecase {
	u := &Usecase{repo: r, uow: tx, log: log, loc: time.UTC, now: time.Now}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Status derives the display status of one borrower visible within scope ("" = any
// office). A zero at means "now".
func (u *Usecase) Status(ctx context.Context, borrowerID, scope string, at time.Time) (*StatusDTO, error) {
	b, err := u.repo.GetByBorrowerID(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	if !role.InScope(scope, b.OfficeID) {
		return nil, role.ErrForbidden
	}
	dto := toStatusDTO(*b, u.evaluationTime(at))
	return &dto, nil
}

// ListStatuses derives the display status of every borrower of officeID ("" = all offices).
func (u *Usecase) ListStatuses(ctx context.Context, officeID string, at time.Time) ([]StatusDTO, error) {
	rows, err := u.repo.ListByOffice(ctx, officeID)
	if err != nil {
		return nil, err
	}
	at = u.evaluationTime(at)
	out := make([]StatusDTO, 0, len(rows))
	invalid := 0
	for _, b := range rows {
		dto := toStatusDTO(b, at)
		if dto.Label == string(domain.LabelInvalidData) || dto.Label == string(domain.LabelIncompleteData) {
			invalid++
		}
		out = append(out, dto)
	}
	if invalid > 0 {
		u.log.WithFields(logrus.Fields{"office_id": officeID, "count": invalid}).Warn("borrowers with unusable loan data")
	}
	return out, nil
}

// Schedule returns the installment plan of an installment loan with each month's due
// date. Loans saved without installments get the plan BuildSchedule would lay out.
func (u *Usecase) Schedule(ctx context.Context, borrowerID, scope string) (*ScheduleDTO, error) {
	b, err := u.repo.GetByBorrowerID(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	if !role.InScope(scope, b.OfficeID) {
		return nil, role.ErrForbidden
	}
	items, stored, err := scheduleOf(*b)
	if err != nil {
		return nil, err
	}
	dto := u.toScheduleDTO(*b, items, stored)
	return &dto, nil
}

// EnsureSchedule stores the built installment plan on a loan that has none, so status
// derivation stops reporting it as incomplete. Loans that already carry installments are
// left untouched.
func (u *Usecase) EnsureSchedule(ctx context.Context, borrowerID, scope string) (*ScheduleDTO, error) {
	var dto ScheduleDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		b, err := r.Borrowers.GetByBorrowerID(ctx, borrowerID)
		if err != nil {
			return err
		}
		if !role.InScope(scope, b.OfficeID) {
			return role.ErrForbidden
		}
		items, stored, err := scheduleOf(*b)
		if err != nil {
			return err
		}
		if !stored {
			b.Installments = items
			if err := r.Borrowers.Save(ctx, b); err != nil {
				return fmt.Errorf("save borrower %s: %w", borrowerID, err)
			}
		}
		dto = u.toScheduleDTO(*b, items, true)
		dto.Created = !stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	if dto.Created {
		u.log.WithFields(logrus.Fields{
			"borrower_id":  borrowerID,
			"installments": len(dto.Items),
		}).Info("installment schedule stored")
	}
	return &dto, nil
}

func scheduleOf(b domain.Borrower) ([]domain.Installment, bool, error) {
	if b.LoanType != domain.LoanInstallment {
		return nil, false, fmt.Errorf("%w: %s loan", domain.ErrNoSchedule, b.LoanType)
	}
	if len(b.Installments) > 0 {
		return b.Installments, true, nil
	}
	items := domain.BuildSchedule(b.Amount, b.Rate, b.Term)
	if len(items) == 0 {
		return nil, false, fmt.Errorf("%w: term %d, amount %s", domain.ErrNoSchedule, b.Term, b.Amount)
	}
	return items, false, nil
}

func (u *Usecase) toScheduleDTO(b domain.Borrower, items []domain.Installment, stored bool) ScheduleDTO {
	dto := ScheduleDTO{
		BorrowerID: b.BorrowerID,
		Stored:     stored,
		Total:      decimal.Zero,
		Items:      make([]ScheduleItemDTO, 0, len(items)),
	}
	for _, in := range items {
		item := ScheduleItemDTO{Installment: in}
		if due, ok := b.InstallmentDueDate(in, u.loc); ok {
			item.DueDate = due.Format(time.DateOnly)
		}
		dto.Total = dto.Total.Add(in.Total)
		dto.Items = append(dto.Items, item)
	}
	return dto
}

func (u *Usecase) evaluationTime(at time.Time) time.Time {
	if at.IsZero() {
		return u.now().In(u.loc)
	}
	return at
}

func toStatusDTO(b domain.Borrower, at time.Time) StatusDTO {
	st := domain.DeriveStatus(b, at)
	rem := domain.DeriveRemaining(b, at)
	return StatusDTO{
		BorrowerID:   b.BorrowerID,
		OfficeID:     b.OfficeID,
		Name:         b.Name,
		LoanType:     string(b.LoanType),
		Amount:       b.Amount,
		StoredStatus: string(b.Status),
		Label:        string(st.Label),
		Severity:     string(st.Severity),
		Remaining:    rem.Text,
		IsOverdue:    rem.IsOverdue,
		EvaluatedAt:  at,
	}
}
