package borrower

import (
	"fmt"
	"time"

	"allgroub-ledger/pkg/dateutil"
)

type Label string

const (
	LabelPending        Label = "pending"
	LabelRejected       Label = "rejected"
	LabelFullyPaid      Label = "fully-paid"
	LabelInvalidData    Label = "invalid-data"
	LabelIncompleteData Label = "incomplete-data"
	LabelLate           Label = "late"
	LabelRegular        Label = "regular"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityPositive Severity = "positive"
	SeverityNeutral  Severity = "neutral"
	SeverityNegative Severity = "negative"
)

type StatusResult struct {
	Label    Label    `json:"label"`
	Severity Severity `json:"severity"`
}

type RemainingResult struct {
	Text      string `json:"text"`
	IsOverdue bool   `json:"is_overdue"`
}

const (
	remainingPlaceholder = "-"
	remainingPaid        = "paid"
	remainingBadDate     = "invalid date"
	remainingIncomplete  = "incomplete data"
)

// DeriveStatus computes the display status of b as of at. The first matching rule wins,
// so a fully paid loan is never reported late whatever its stored dates say. Default is
// not a display rule: a defaulted loan reports late or regular from its dates, the same
// way DeriveRemaining reads it; callers that need default use Borrower.IsDefaulted.
func DeriveStatus(b Borrower, at time.Time) StatusResult {
	mustHaveEvaluationTime(at)

	switch {
	case b.Status == StatusPending:
		return StatusResult{LabelPending, SeverityInfo}
	case b.Status == StatusRejected:
		return StatusResult{LabelRejected, SeverityNegative}
	case b.IsFullyPaid():
		return StatusResult{LabelFullyPaid, SeverityPositive}
	}

	switch b.LoanType {
	case LoanGrace:
		due, ok := dateutil.Parse(b.DueDate, at.Location())
		if !ok {
			return StatusResult{LabelInvalidData, SeverityNegative}
		}
		return lateOrRegular(due, at)

	case LoanInstallment:
		origin, ok := dateutil.Parse(b.Date, at.Location())
		if !ok || b.Term <= 0 || len(b.Installments) == 0 {
			return StatusResult{LabelIncompleteData, SeverityNegative}
		}
		next, ok := b.NextInstallment()
		if !ok {
			return StatusResult{LabelRegular, SeverityNeutral}
		}
		return lateOrRegular(installmentDueDate(origin, next), at)
	}

	return StatusResult{Label(b.Status), SeverityNeutral}
}

// DeriveRemaining describes the time left until the next obligation as of at.
// It shares no state with DeriveStatus; each call recomputes from b.
func DeriveRemaining(b Borrower, at time.Time) RemainingResult {
	mustHaveEvaluationTime(at)

	switch {
	case b.IsAwaitingReview():
		return RemainingResult{Text: remainingPlaceholder}
	case b.IsFullyPaid():
		return RemainingResult{Text: remainingPaid}
	}

	var due time.Time
	switch b.LoanType {
	case LoanGrace:
		d, ok := dateutil.Parse(b.DueDate, at.Location())
		if !ok {
			return RemainingResult{Text: remainingBadDate, IsOverdue: true}
		}
		due = d

	case LoanInstallment:
		origin, ok := dateutil.Parse(b.Date, at.Location())
		if !ok {
			return RemainingResult{Text: remainingBadDate, IsOverdue: true}
		}
		if b.Term <= 0 || len(b.Installments) == 0 {
			return RemainingResult{Text: remainingIncomplete, IsOverdue: true}
		}
		next, ok := b.NextInstallment()
		if !ok {
			return RemainingResult{Text: remainingPaid}
		}
		due = installmentDueDate(origin, next)

	default:
		return RemainingResult{Text: remainingPlaceholder}
	}

	return describeDays(dateutil.DaysBetween(at, due))
}

// NextInstallment returns the unsettled installment with the smallest month offset.
func (b Borrower) NextInstallment() (Installment, bool) {
	var (
		next  Installment
		found bool
	)
	for _, in := range b.Installments {
		if in.Settled() {
			continue
		}
		if !found || in.Month < next.Month {
			next, found = in, true
		}
	}
	return next, found
}

// InstallmentDueDate is the day in falls due: the origination day plus in.Month months,
// read in loc. It fails when the origination date does not parse.
func (b Borrower) InstallmentDueDate(in Installment, loc *time.Location) (time.Time, bool) {
	origin, ok := dateutil.Parse(b.Date, loc)
	if !ok {
		return time.Time{}, false
	}
	return installmentDueDate(origin, in), true
}

func installmentDueDate(origin time.Time, in Installment) time.Time {
	return dateutil.AddMonths(dateutil.NormalizeToDay(origin), in.Month)
}

func lateOrRegular(due, at time.Time) StatusResult {
	if dateutil.Before(due, at) {
		return StatusResult{LabelLate, SeverityNegative}
	}
	return StatusResult{LabelRegular, SeverityNeutral}
}

func describeDays(diff int) RemainingResult {
	if diff < 0 {
		return RemainingResult{Text: "late by " + dayCount(-diff), IsOverdue: true}
	}
	return RemainingResult{Text: dayCount(diff)}
}

func dayCount(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func mustHaveEvaluationTime(at time.Time) {
	if at.IsZero() {
		panic("borrower: evaluation time is required")
	}
}
