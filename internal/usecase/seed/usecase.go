package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"allgroub-ledger/internal/domain/borrower"
	"allgroub-ledger/internal/domain/investor"
	"allgroub-ledger/internal/domain/role"
	"allgroub-ledger/internal/domain/uow"
	"allgroub-ledger/internal/domain/user"
	"allgroub-ledger/pkg/id"
)

var ErrOfficeRequired = errors.New("office id is required")

// Summary reports what one Run wrote.
type Summary struct {
	OfficeID  string `json:"office_id"`
	Skipped   bool   `json:"skipped"`
	Users     int    `json:"users"`
	Borrowers int    `json:"borrowers"`
	Investors int    `json:"investors"`
}

type Usecase struct {
	uow uow.UnitOfWork
	log *logrus.Logger
	loc *time.Location
	now func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, log *logrus.Logger, loc *time.Location) *Usecase {
	if loc == nil {
		loc = time.UTC
	}
	return &Usecase{uow: tx, log: log, loc: loc, now: time.Now}
}

// Run fills an empty office with a small demo book: staff, one installment loan with
// its first month paid, one grace loan, and the investor funding both. An office that
// already has borrowers is left alone.
func (u *Usecase) Run(ctx context.Context, officeID string) (*Summary, error) {
	if officeID == "" {
		return nil, ErrOfficeRequired
	}
	out := &Summary{OfficeID: officeID}
	today := u.now().In(u.loc)

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		existing, err := r.Borrowers.ListByOffice(ctx, officeID)
		if err != nil {
			return fmt.Errorf("check office %s: %w", officeID, err)
		}
		if len(existing) > 0 {
			out.Skipped = true
			return nil
		}

		for _, st := range staff(officeID) {
			if err := r.Users.Create(ctx, &st); err != nil {
				return fmt.Errorf("create user %s: %w", st.Name, err)
			}
			out.Users++
		}

		inv := investor.Investor{
			InvestorID: id.NewID32(),
			OfficeID:   officeID,
			Name:       "Demo Investor",
			Status:     investor.StatusActive,
		}
		loans := demoLoans(officeID, inv.InvestorID, today)
		for i := range loans {
			if err := r.Borrowers.Create(ctx, &loans[i]); err != nil {
				return fmt.Errorf("create borrower %s: %w", loans[i].Name, err)
			}
			inv.FundedLoanIDs = append(inv.FundedLoanIDs, loans[i].BorrowerID)
			out.Borrowers++
		}

		opened := today.AddDate(0, -2, 0).Format(time.DateOnly)
		inv.TransactionHistory = []investor.Transaction{
			{ID: id.NewID32(), Type: investor.TxDeposit, CapitalSource: investor.SourceInstallment, Amount: decimal.NewFromInt(50000), Date: opened, Description: "opening deposit"},
			{ID: id.NewID32(), Type: investor.TxDeposit, CapitalSource: investor.SourceGrace, Amount: decimal.NewFromInt(20000), Date: opened, Description: "opening deposit"},
		}
		inv.ApplyFinancials(investor.ComputeFinancials(inv, loans))
		if err := r.Investors.Create(ctx, &inv); err != nil {
			return fmt.Errorf("create investor: %w", err)
		}
		out.Investors++
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"office_id": officeID,
		"skipped":   out.Skipped,
		"users":     out.Users,
		"borrowers": out.Borrowers,
		"investors": out.Investors,
	}).Info("office seeded")
	return out, nil
}

func staff(officeID string) []user.User {
	return []user.User{
		{OfficeID: officeID, Name: "Office Manager", Role: role.OfficeManager, Status: user.StatusActive},
		{OfficeID: officeID, Name: "Assistant Manager", Role: role.AssistantManager, Status: user.StatusActive},
		{OfficeID: officeID, Name: "Field Employee", Role: role.Employee, Status: user.StatusActive},
	}
}

func demoLoans(officeID, investorID string, today time.Time) []borrower.Borrower {
	day := func(offset int) string { return today.AddDate(0, 0, offset).Format(time.DateOnly) }

	installment := borrower.Borrower{
		BorrowerID:    id.NewID32(),
		OfficeID:      officeID,
		Name:          "Installment Borrower",
		LoanType:      borrower.LoanInstallment,
		Amount:        decimal.NewFromInt(24000),
		Rate:          decimal.NewFromInt(10),
		Term:          1,
		MonthlySalary: decimal.NewFromInt(8000),
		Status:        borrower.StatusRegular,
		Date:          day(-40),
		FundedBy:      []borrower.Funding{{InvestorID: investorID, Amount: decimal.NewFromInt(24000)}},
	}
	installment.Installments = borrower.BuildSchedule(installment.Amount, installment.Rate, installment.Term)
	installment.Installments[0].Status = borrower.InstallmentPaid
	installment.Installments[0].PaidAt = day(-10)

	grace := borrower.Borrower{
		BorrowerID: id.NewID32(),
		OfficeID:   officeID,
		Name:       "Grace Borrower",
		LoanType:   borrower.LoanGrace,
		Amount:     decimal.NewFromInt(10000),
		Discount:   decimal.NewFromInt(10),
		Status:     borrower.StatusRegular,
		Date:       day(-10),
		DueDate:    day(50),
		FundedBy:   []borrower.Funding{{InvestorID: investorID, Amount: decimal.NewFromInt(10000)}},
	}
	return []borrower.Borrower{installment, grace}
}
