// Package circulation holds the loan and fine rules in one place, away
// from any storage or transport code. The store and the API handlers
// both derive their decisions from here.
package circulation // import "github.com/openshelf/openshelf/circulation"

import (
	"time"

	"github.com/openshelf/openshelf/model"
	"github.com/pkg/errors"
)

// FineState is the derived payment standing of a loan.
type FineState string

const (
	// FineStateNone means nothing is owed.
	FineStateNone FineState = "none"
	// FineStatePending means a fine is owed and not settled yet.
	FineStatePending FineState = "pending"
	// FineStatePaid means the stored fine has been settled.
	FineStatePaid FineState = "paid"
)

// ErrLoanStillOpen is returned when a fine payment is attempted while
// the book has not been returned.
var ErrLoanStillOpen = errors.New("loan is still open, return the book before paying the fine")

// Midnight truncates t to the start of its day in t's location.
func Midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DueDate computes the due date for a loan issued at issue with the
// given period in days.
func DueDate(issue time.Time, days int) time.Time {
	return issue.AddDate(0, 0, days)
}

// OverdueDays returns the number of chargeable overdue days, zero when
// the due date has not passed. The count is a calendar-date difference,
// so a loan becomes overdue at the first midnight after its due date,
// never in the middle of the due day, and DST-length days still count
// as one day.
func OverdueDays(due, now time.Time) int {
	days := epochDays(now) - epochDays(due)
	if days < 0 {
		return 0
	}
	return days
}

// epochDays numbers the calendar date of t, using UTC as a fixed-width
// ruler so 23 and 25 hour local days cannot skew the difference.
func epochDays(t time.Time) int {
	year, month, day := t.Date()
	return int(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// DynamicFine is the live fine for an open loan: overdue days times the
// per-day rate. It is only meaningful while the loan is open; once
// returned, the persisted fine is authoritative.
func DynamicFine(due, now time.Time, perDay int) int {
	return OverdueDays(due, now) * perDay
}

// IsOverdue reports whether an open loan has passed its due date.
func IsOverdue(c *model.Circulation, now time.Time) bool {
	return c.IsOpen() && OverdueDays(time.Unix(c.DueTs, 0), now) > 0
}

// AccruedFine returns the amount currently owed on a loan: the live
// fine while the loan is open, the stored amount once returned.
func AccruedFine(c *model.Circulation, now time.Time, perDay int) int {
	if c.IsOpen() {
		return DynamicFine(time.Unix(c.DueTs, 0), now, perDay)
	}
	return c.FineAmount
}

// ClassifyFine derives the payment standing of a loan. A fine is
// pending when the loan is open and has a positive live fine, or when
// it was returned with an unpaid stored fine. It is paid only when the
// stored fine status says so.
func ClassifyFine(c *model.Circulation, now time.Time, perDay int) FineState {
	if c.FineStatus == model.FinePaid {
		return FineStatePaid
	}
	if c.IsOpen() {
		if DynamicFine(time.Unix(c.DueTs, 0), now, perDay) > 0 {
			return FineStatePending
		}
		return FineStateNone
	}
	if c.FineAmount > 0 && c.FineStatus == model.FineUnpaid {
		return FineStatePending
	}
	return FineStateNone
}

// CanPayFine enforces the ordering rule for payments: a fine can only
// be settled after the book is back on the shelf.
func CanPayFine(c *model.Circulation) error {
	if c.IsOpen() {
		return ErrLoanStillOpen
	}
	if c.FineAmount <= 0 {
		return errors.New("loan has no fine to pay")
	}
	if c.FineStatus == model.FinePaid {
		return errors.New("fine is already paid")
	}
	return nil
}

// Partition splits loans into the not-yet-overdue and overdue views.
// Returned loans are dropped; source order is preserved.
func Partition(loans []*model.Circulation, now time.Time) (issued, overdue []*model.Circulation) {
	for _, c := range loans {
		if !c.IsOpen() {
			continue
		}
		if OverdueDays(time.Unix(c.DueTs, 0), now) > 0 {
			overdue = append(overdue, c)
		} else {
			issued = append(issued, c)
		}
	}
	return issued, overdue
}
