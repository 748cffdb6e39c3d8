package store

import (
	"testing"
	"time"

	"github.com/openshelf/openshelf/model"
	"github.com/pkg/errors"
)

func TestIssueBook(t *testing.T) {
	s := newTestStore(t)
	book := mustCreateBook(t, s, "The Left Hand of Darkness", 2)
	member := mustCreateMember(t, s, "Ada", "1001")

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	loan, err := s.IssueBook(book.ID, member.ID, now, 14, 3)
	if err != nil {
		t.Fatalf("Failed to issue book: %v", err)
	}
	if loan.Status != model.CirculationIssued {
		t.Errorf("Expected status issued, got %s", loan.Status)
	}
	wantDue := now.AddDate(0, 0, 14).Unix()
	if loan.DueTs != wantDue {
		t.Errorf("Expected due ts %d, got %d", wantDue, loan.DueTs)
	}

	got, err := s.GetBook(&model.FindBook{ID: &book.ID})
	if err != nil {
		t.Fatalf("Failed to get book: %v", err)
	}
	if got.AvailableCopies != 1 {
		t.Errorf("Expected 1 available copy, got %d", got.AvailableCopies)
	}
}

func TestIssueBookLastCopy(t *testing.T) {
	s := newTestStore(t)
	book := mustCreateBook(t, s, "Solaris", 1)
	first := mustCreateMember(t, s, "Ada", "1001")
	second := mustCreateMember(t, s, "Grace", "1002")

	now := time.Now()
	if _, err := s.IssueBook(book.ID, first.ID, now, 14, 3); err != nil {
		t.Fatalf("Failed to issue last copy: %v", err)
	}
	if _, err := s.IssueBook(book.ID, second.ID, now, 14, 3); !errors.Is(err, ErrBookUnavailable) {
		t.Errorf("Expected ErrBookUnavailable, got %v", err)
	}
}

func TestIssueBookLoanLimit(t *testing.T) {
	s := newTestStore(t)
	member := mustCreateMember(t, s, "Ada", "1001")
	now := time.Now()

	for i := 0; i < 2; i++ {
		book := mustCreateBook(t, s, "Book", 1)
		if _, err := s.IssueBook(book.ID, member.ID, now, 14, 2); err != nil {
			t.Fatalf("Failed to issue book %d: %v", i, err)
		}
	}
	extra := mustCreateBook(t, s, "One Too Many", 1)
	if _, err := s.IssueBook(extra.ID, member.ID, now, 14, 2); !errors.Is(err, ErrLoanLimitReached) {
		t.Errorf("Expected ErrLoanLimitReached, got %v", err)
	}
}

func TestIssueBookInactiveMember(t *testing.T) {
	s := newTestStore(t)
	book := mustCreateBook(t, s, "Dune", 1)
	member := mustCreateMember(t, s, "Ada", "1001")

	suspended := model.MembershipSuspended
	if _, err := s.UpdateMember(member.ID, &model.MemberUpdateRequest{Status: &suspended}); err != nil {
		t.Fatalf("Failed to suspend member: %v", err)
	}
	if _, err := s.IssueBook(book.ID, member.ID, time.Now(), 14, 3); !errors.Is(err, ErrMemberNotActive) {
		t.Errorf("Expected ErrMemberNotActive, got %v", err)
	}
}

func TestReturnBookOnTime(t *testing.T) {
	s := newTestStore(t)
	book := mustCreateBook(t, s, "Neuromancer", 1)
	member := mustCreateMember(t, s, "Ada", "1001")

	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	loan, err := s.IssueBook(book.ID, member.ID, issued, 14, 3)
	if err != nil {
		t.Fatalf("Failed to issue book: %v", err)
	}

	returned, err := s.ReturnBook(loan.ID, issued.AddDate(0, 0, 7), 1)
	if err != nil {
		t.Fatalf("Failed to return book: %v", err)
	}
	if returned.Status != model.CirculationReturned {
		t.Errorf("Expected status returned, got %s", returned.Status)
	}
	if returned.FineAmount != 0 {
		t.Errorf("Expected no fine, got %d", returned.FineAmount)
	}
	if returned.FineStatus != model.FineNone {
		t.Errorf("Expected fine status none, got %s", returned.FineStatus)
	}

	got, err := s.GetBook(&model.FindBook{ID: &book.ID})
	if err != nil {
		t.Fatalf("Failed to get book: %v", err)
	}
	if got.AvailableCopies != 1 {
		t.Errorf("Expected copy released, got %d available", got.AvailableCopies)
	}
}

func TestReturnBookLate(t *testing.T) {
	s := newTestStore(t)
	book := mustCreateBook(t, s, "Hyperion", 1)
	member := mustCreateMember(t, s, "Ada", "1001")

	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	loan, err := s.IssueBook(book.ID, member.ID, issued, 14, 3)
	if err != nil {
		t.Fatalf("Failed to issue book: %v", err)
	}

	// Three days past due at a per-day rate of 2.
	returned, err := s.ReturnBook(loan.ID, issued.AddDate(0, 0, 17), 2)
	if err != nil {
		t.Fatalf("Failed to return book: %v", err)
	}
	if returned.FineAmount != 6 {
		t.Errorf("Expected fine 6, got %d", returned.FineAmount)
	}
	if returned.FineStatus != model.FineUnpaid {
		t.Errorf("Expected fine status unpaid, got %s", returned.FineStatus)
	}
}

func TestReturnBookTwice(t *testing.T) {
	s := newTestStore(t)
	book := mustCreateBook(t, s, "Foundation", 1)
	member := mustCreateMember(t, s, "Ada", "1001")

	now := time.Now()
	loan, err := s.IssueBook(book.ID, member.ID, now, 14, 3)
	if err != nil {
		t.Fatalf("Failed to issue book: %v", err)
	}
	if _, err := s.ReturnBook(loan.ID, now, 1); err != nil {
		t.Fatalf("Failed to return book: %v", err)
	}
	if _, err := s.ReturnBook(loan.ID, now, 1); !errors.Is(err, ErrNoOpenLoan) {
		t.Errorf("Expected ErrNoOpenLoan, got %v", err)
	}
}

func TestReturnBookByBook(t *testing.T) {
	s := newTestStore(t)
	book := mustCreateBook(t, s, "Annihilation", 2)
	first := mustCreateMember(t, s, "Ada", "1001")
	second := mustCreateMember(t, s, "Grace", "1002")

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	oldest, err := s.IssueBook(book.ID, first.ID, base, 14, 3)
	if err != nil {
		t.Fatalf("Failed to issue first copy: %v", err)
	}
	if _, err := s.IssueBook(book.ID, second.ID, base.AddDate(0, 0, 1), 14, 3); err != nil {
		t.Fatalf("Failed to issue second copy: %v", err)
	}

	returned, err := s.ReturnBookByBook(book.ID, base.AddDate(0, 0, 2), 1)
	if err != nil {
		t.Fatalf("Failed to return by book: %v", err)
	}
	if returned.ID != oldest.ID {
		t.Errorf("Expected oldest loan %d closed, got %d", oldest.ID, returned.ID)
	}
}

func TestReturnBookByBookNoOpenLoan(t *testing.T) {
	s := newTestStore(t)
	book := mustCreateBook(t, s, "Untouched", 1)

	if _, err := s.ReturnBookByBook(book.ID, time.Now(), 1); !errors.Is(err, ErrNoOpenLoan) {
		t.Errorf("Expected ErrNoOpenLoan, got %v", err)
	}
}

func TestRenewBook(t *testing.T) {
	s := newTestStore(t)
	book := mustCreateBook(t, s, "Kindred", 1)
	member := mustCreateMember(t, s, "Ada", "1001")

	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	loan, err := s.IssueBook(book.ID, member.ID, issued, 14, 3)
	if err != nil {
		t.Fatalf("Failed to issue book: %v", err)
	}

	renewed, err := s.RenewBook(loan.ID, issued.AddDate(0, 0, 7), 14)
	if err != nil {
		t.Fatalf("Failed to renew loan: %v", err)
	}
	wantDue := issued.AddDate(0, 0, 28).Unix()
	if renewed.DueTs != wantDue {
		t.Errorf("Expected due ts %d, got %d", wantDue, renewed.DueTs)
	}
}

func TestRenewBookOverdue(t *testing.T) {
	s := newTestStore(t)
	book := mustCreateBook(t, s, "Ubik", 1)
	member := mustCreateMember(t, s, "Ada", "1001")

	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	loan, err := s.IssueBook(book.ID, member.ID, issued, 14, 3)
	if err != nil {
		t.Fatalf("Failed to issue book: %v", err)
	}
	if _, err := s.RenewBook(loan.ID, issued.AddDate(0, 0, 20), 14); !errors.Is(err, ErrLoanNotRenewable) {
		t.Errorf("Expected ErrLoanNotRenewable, got %v", err)
	}
}

func TestMarkFinePaid(t *testing.T) {
	s := newTestStore(t)
	book := mustCreateBook(t, s, "Parable of the Sower", 1)
	member := mustCreateMember(t, s, "Ada", "1001")

	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	loan, err := s.IssueBook(book.ID, member.ID, issued, 14, 3)
	if err != nil {
		t.Fatalf("Failed to issue book: %v", err)
	}

	// Paying before the return is refused.
	if _, err := s.MarkFinePaid(loan.ID); err == nil {
		t.Fatal("Expected error paying fine on open loan")
	}

	if _, err := s.ReturnBook(loan.ID, issued.AddDate(0, 0, 17), 2); err != nil {
		t.Fatalf("Failed to return book: %v", err)
	}

	paid, err := s.MarkFinePaid(loan.ID)
	if err != nil {
		t.Fatalf("Failed to mark fine paid: %v", err)
	}
	if paid.FineStatus != model.FinePaid {
		t.Errorf("Expected fine status paid, got %s", paid.FineStatus)
	}

	// Paying twice is refused.
	if _, err := s.MarkFinePaid(loan.ID); err == nil {
		t.Error("Expected error paying an already settled fine")
	}
}

func TestSweepOverdue(t *testing.T) {
	s := newTestStore(t)
	book := mustCreateBook(t, s, "Roadside Picnic", 2)
	member := mustCreateMember(t, s, "Ada", "1001")

	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	late, err := s.IssueBook(book.ID, member.ID, issued, 7, 3)
	if err != nil {
		t.Fatalf("Failed to issue book: %v", err)
	}
	onTime, err := s.IssueBook(book.ID, member.ID, issued, 30, 3)
	if err != nil {
		t.Fatalf("Failed to issue book: %v", err)
	}

	// Ten days after issue the first loan is three days overdue.
	swept, err := s.SweepOverdue(issued.AddDate(0, 0, 10), 2)
	if err != nil {
		t.Fatalf("Failed to sweep: %v", err)
	}
	if swept != 1 {
		t.Fatalf("Expected 1 swept loan, got %d", swept)
	}

	got, err := s.GetCirculation(&model.FindCirculation{ID: &late.ID})
	if err != nil {
		t.Fatalf("Failed to get loan: %v", err)
	}
	if got.Status != model.CirculationOverdue {
		t.Errorf("Expected status overdue, got %s", got.Status)
	}
	if got.FineAmount != 6 {
		t.Errorf("Expected accrued fine 6, got %d", got.FineAmount)
	}
	if got.FineStatus != model.FineUnpaid {
		t.Errorf("Expected fine status unpaid, got %s", got.FineStatus)
	}

	untouched, err := s.GetCirculation(&model.FindCirculation{ID: &onTime.ID})
	if err != nil {
		t.Fatalf("Failed to get loan: %v", err)
	}
	if untouched.Status != model.CirculationIssued {
		t.Errorf("Expected status issued, got %s", untouched.Status)
	}
}

func TestListCirculationsOpenOnly(t *testing.T) {
	s := newTestStore(t)
	book := mustCreateBook(t, s, "The Dispossessed", 2)
	member := mustCreateMember(t, s, "Ada", "1001")

	now := time.Now()
	open, err := s.IssueBook(book.ID, member.ID, now, 14, 3)
	if err != nil {
		t.Fatalf("Failed to issue book: %v", err)
	}
	closed, err := s.IssueBook(book.ID, member.ID, now, 14, 3)
	if err != nil {
		t.Fatalf("Failed to issue book: %v", err)
	}
	if _, err := s.ReturnBook(closed.ID, now, 1); err != nil {
		t.Fatalf("Failed to return book: %v", err)
	}

	list, err := s.ListCirculations(&model.FindCirculation{MemberID: &member.ID, OpenOnly: true})
	if err != nil {
		t.Fatalf("Failed to list loans: %v", err)
	}
	if len(list) != 1 || list[0].ID != open.ID {
		t.Errorf("Expected only loan %d open, got %v", open.ID, list)
	}
	if list[0].MemberRegisterNumber != "1001" {
		t.Errorf("Expected joined register number, got %q", list[0].MemberRegisterNumber)
	}
}
