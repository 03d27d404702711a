package borrower

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Profit is the gross profit the loan generates over its life: simple annual interest
// for installment loans, the flat discount percentage for grace loans.
func (b Borrower) Profit() decimal.Decimal {
	switch b.LoanType {
	case LoanInstallment:
		if b.Term <= 0 {
			return decimal.Zero
		}
		return b.Amount.Mul(b.Rate).Div(hundred).Mul(decimal.NewFromInt(int64(b.Term)))
	case LoanGrace:
		return b.Amount.Mul(b.Discount).Div(hundred)
	}
	return decimal.Zero
}

// MonthlyPayment is (principal + profit) spread evenly over the term. Zero for grace loans.
func (b Borrower) MonthlyPayment() decimal.Decimal {
	if b.LoanType != LoanInstallment || b.Term <= 0 {
		return decimal.Zero
	}
	months := decimal.NewFromInt(int64(b.Term * 12))
	return b.Amount.Add(b.Profit()).Div(months).Round(2)
}

// BuildSchedule lays out term*12 unpaid monthly installments. Principal and interest are
// split evenly and rounded to cents; the last month absorbs the rounding remainder so
// the schedule always sums to amount + interest.
func BuildSchedule(amount, ratePct decimal.Decimal, termYears int) []Installment {
	if termYears <= 0 || !amount.IsPositive() {
		return nil
	}
	months := termYears * 12
	n := decimal.NewFromInt(int64(months))
	totalInterest := amount.Mul(ratePct).Div(hundred).Mul(decimal.NewFromInt(int64(termYears)))

	principal := amount.Div(n).Round(2)
	interest := totalInterest.Div(n).Round(2)

	out := make([]Installment, 0, months)
	paidPrincipal, paidInterest := decimal.Zero, decimal.Zero
	for m := 1; m <= months; m++ {
		p, i := principal, interest
		if m == months {
			p = amount.Sub(paidPrincipal)
			i = totalInterest.Round(2).Sub(paidInterest)
		}
		paidPrincipal = paidPrincipal.Add(p)
		paidInterest = paidInterest.Add(i)
		out = append(out, Installment{
			Month:     m,
			Principal: p,
			Interest:  i,
			Total:     p.Add(i),
			Status:    InstallmentUnpaid,
		})
	}
	return out
}
