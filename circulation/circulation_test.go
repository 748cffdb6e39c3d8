package circulation

import (
	"testing"
	"time"

	"github.com/openshelf/openshelf/model"
)

func date(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestOverdueDays(t *testing.T) {
	now := date(2024, time.March, 10, 15)

	cases := []struct {
		name string
		due  time.Time
		want int
	}{
		{"due in the future", date(2024, time.March, 20, 0), 0},
		{"due today", date(2024, time.March, 10, 8), 0},
		{"due yesterday", date(2024, time.March, 9, 23), 1},
		{"due three days ago", date(2024, time.March, 7, 1), 3},
		{"due last month", date(2024, time.February, 10, 12), 29},
	}
	for _, c := range cases {
		if got := OverdueDays(c.due, now); got != c.want {
			t.Errorf("%s: OverdueDays = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestOverdueDaysAcrossDSTChanges(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("no tz database available: %v", err)
	}

	// DST ended on 2025-11-02, a 25 hour day. Two calendar days late is
	// still two chargeable days, not three.
	due := time.Date(2025, time.November, 1, 12, 0, 0, 0, loc)
	now := time.Date(2025, time.November, 3, 9, 0, 0, 0, loc)
	if got := OverdueDays(due, now); got != 2 {
		t.Errorf("fall-back: OverdueDays = %d, want 2", got)
	}

	// DST started on 2025-03-09, a 23 hour day.
	due = time.Date(2025, time.March, 8, 12, 0, 0, 0, loc)
	now = time.Date(2025, time.March, 10, 9, 0, 0, 0, loc)
	if got := OverdueDays(due, now); got != 2 {
		t.Errorf("spring-forward: OverdueDays = %d, want 2", got)
	}
}

func TestDynamicFine(t *testing.T) {
	now := date(2024, time.March, 10, 9)
	due := date(2024, time.March, 7, 18)

	// Three days overdue at one unit per day.
	if got := DynamicFine(due, now, 1); got != 3 {
		t.Errorf("DynamicFine = %d, want 3", got)
	}
	if got := DynamicFine(due, now, 2); got != 6 {
		t.Errorf("DynamicFine with rate 2 = %d, want 6", got)
	}
	if got := DynamicFine(date(2024, time.March, 12, 0), now, 1); got != 0 {
		t.Errorf("DynamicFine before due = %d, want 0", got)
	}
}

func TestDueDate(t *testing.T) {
	issue := date(2024, time.March, 1, 10)
	due := DueDate(issue, 14)
	if due != date(2024, time.March, 15, 10) {
		t.Errorf("DueDate = %v, want 2024-03-15", due)
	}
}

func TestClassifyFine(t *testing.T) {
	now := date(2024, time.March, 10, 12)
	overdueTs := date(2024, time.March, 5, 0).Unix()
	futureTs := date(2024, time.March, 20, 0).Unix()

	cases := []struct {
		name string
		c    *model.Circulation
		want FineState
	}{
		{
			"open and on time",
			&model.Circulation{Status: model.CirculationIssued, DueTs: futureTs, FineStatus: model.FineNone},
			FineStateNone,
		},
		{
			"open and overdue",
			&model.Circulation{Status: model.CirculationIssued, DueTs: overdueTs, FineStatus: model.FineNone},
			FineStatePending,
		},
		{
			"returned with unpaid fine",
			&model.Circulation{Status: model.CirculationReturned, DueTs: overdueTs, FineAmount: 5, FineStatus: model.FineUnpaid},
			FineStatePending,
		},
		{
			"returned with paid fine",
			&model.Circulation{Status: model.CirculationReturned, DueTs: overdueTs, FineAmount: 5, FineStatus: model.FinePaid},
			FineStatePaid,
		},
		{
			"returned on time",
			&model.Circulation{Status: model.CirculationReturned, DueTs: futureTs, FineStatus: model.FineNone},
			FineStateNone,
		},
	}
	for _, c := range cases {
		if got := ClassifyFine(c.c, now, 1); got != c.want {
			t.Errorf("%s: ClassifyFine = %s, want %s", c.name, got, c.want)
		}
	}
}

func TestCanPayFine(t *testing.T) {
	open := &model.Circulation{Status: model.CirculationIssued, FineAmount: 3, FineStatus: model.FineUnpaid}
	if err := CanPayFine(open); err != ErrLoanStillOpen {
		t.Errorf("expected ErrLoanStillOpen for an open loan, got %v", err)
	}

	overdue := &model.Circulation{Status: model.CirculationOverdue, FineAmount: 3, FineStatus: model.FineUnpaid}
	if err := CanPayFine(overdue); err != ErrLoanStillOpen {
		t.Errorf("expected ErrLoanStillOpen for an overdue loan, got %v", err)
	}

	returned := &model.Circulation{Status: model.CirculationReturned, FineAmount: 3, FineStatus: model.FineUnpaid}
	if err := CanPayFine(returned); err != nil {
		t.Errorf("expected payment to be allowed, got %v", err)
	}

	paid := &model.Circulation{Status: model.CirculationReturned, FineAmount: 3, FineStatus: model.FinePaid}
	if err := CanPayFine(paid); err == nil {
		t.Error("expected already-paid fine to be rejected")
	}

	noFine := &model.Circulation{Status: model.CirculationReturned, FineAmount: 0, FineStatus: model.FineNone}
	if err := CanPayFine(noFine); err == nil {
		t.Error("expected zero fine to be rejected")
	}
}

func TestPartition(t *testing.T) {
	now := date(2024, time.March, 10, 12)
	loans := []*model.Circulation{
		{ID: 1, Status: model.CirculationIssued, DueTs: date(2024, time.March, 20, 0).Unix()},
		{ID: 2, Status: model.CirculationIssued, DueTs: date(2024, time.March, 1, 0).Unix()},
		{ID: 3, Status: model.CirculationReturned, DueTs: date(2024, time.March, 1, 0).Unix()},
		{ID: 4, Status: model.CirculationOverdue, DueTs: date(2024, time.February, 20, 0).Unix()},
	}

	issued, overdue := Partition(loans, now)
	if len(issued) != 1 || issued[0].ID != 1 {
		t.Errorf("issued partition wrong: %+v", issued)
	}
	if len(overdue) != 2 || overdue[0].ID != 2 || overdue[1].ID != 4 {
		t.Errorf("overdue partition wrong: %+v", overdue)
	}
}
