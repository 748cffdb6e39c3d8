package store

import (
	"testing"
	"time"

	"github.com/openshelf/openshelf/model"
)

func TestCreateAndGetBook(t *testing.T) {
	s := newTestStore(t)

	book, err := s.CreateBook(&model.Book{
		Title:       "Cosmos",
		Author:      "Carl Sagan",
		DDCNumber:   "520.1",
		TotalCopies: 3,
	})
	if err != nil {
		t.Fatalf("Failed to create book: %v", err)
	}
	if book.AvailableCopies != 3 {
		t.Errorf("Expected available copies to default to total, got %d", book.AvailableCopies)
	}

	got, err := s.GetBook(&model.FindBook{ID: &book.ID})
	if err != nil {
		t.Fatalf("Failed to get book: %v", err)
	}
	if got.Title != "Cosmos" || got.DDCNumber != "520.1" {
		t.Errorf("Unexpected book: %+v", got)
	}
}

func TestListBooksOnlyAvailable(t *testing.T) {
	s := newTestStore(t)
	out := mustCreateBook(t, s, "All Out", 1)
	mustCreateBook(t, s, "On Shelf", 1)
	member := mustCreateMember(t, s, "Ada", "1001")

	if _, err := s.IssueBook(out.ID, member.ID, time.Now(), 14, 3); err != nil {
		t.Fatalf("Failed to issue book: %v", err)
	}

	list, err := s.ListBooks(&model.FindBook{OnlyAvailable: true})
	if err != nil {
		t.Fatalf("Failed to list books: %v", err)
	}
	if len(list) != 1 || list[0].Title != "On Shelf" {
		t.Errorf("Expected only the shelved book, got %v", list)
	}
}

func TestListBooksByTitle(t *testing.T) {
	s := newTestStore(t)
	mustCreateBook(t, s, "A Wizard of Earthsea", 1)
	mustCreateBook(t, s, "The Tombs of Atuan", 1)

	title := "earthsea"
	list, err := s.ListBooks(&model.FindBook{Title: &title})
	if err != nil {
		t.Fatalf("Failed to list books: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Expected 1 match, got %d", len(list))
	}
}

func TestUpdateBookCopies(t *testing.T) {
	s := newTestStore(t)
	book := mustCreateBook(t, s, "Blindsight", 2)
	member := mustCreateMember(t, s, "Ada", "1001")

	if _, err := s.IssueBook(book.ID, member.ID, time.Now(), 14, 3); err != nil {
		t.Fatalf("Failed to issue book: %v", err)
	}

	// Growing the holdings keeps the open loan accounted for.
	copies := 5
	updated, err := s.UpdateBook(book.ID, &model.BookUpdateRequest{TotalCopies: &copies})
	if err != nil {
		t.Fatalf("Failed to update book: %v", err)
	}
	if updated.TotalCopies != 5 || updated.AvailableCopies != 4 {
		t.Errorf("Expected 5 total / 4 available, got %d / %d", updated.TotalCopies, updated.AvailableCopies)
	}
}

func TestDeleteBookWithOpenLoan(t *testing.T) {
	s := newTestStore(t)
	book := mustCreateBook(t, s, "The Sparrow", 1)
	member := mustCreateMember(t, s, "Ada", "1001")

	loan, err := s.IssueBook(book.ID, member.ID, time.Now(), 14, 3)
	if err != nil {
		t.Fatalf("Failed to issue book: %v", err)
	}
	if err := s.DeleteBook(book.ID); err == nil {
		t.Error("Expected delete to be refused while a loan is open")
	}

	if _, err := s.ReturnBook(loan.ID, time.Now(), 1); err != nil {
		t.Fatalf("Failed to return book: %v", err)
	}
	if err := s.DeleteBook(book.ID); err != nil {
		t.Errorf("Failed to delete book after return: %v", err)
	}
}

func TestListCategoryBookCounts(t *testing.T) {
	s := newTestStore(t)

	fiction, err := s.CreateCategory(&model.Category{Name: "Fiction"})
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	if _, err := s.CreateBook(&model.Book{Title: "Zothique", CategoryID: fiction.ID, TotalCopies: 1}); err != nil {
		t.Fatalf("Failed to create book: %v", err)
	}
	if _, err := s.CreateBook(&model.Book{Title: "Averoigne", CategoryID: fiction.ID, TotalCopies: 1}); err != nil {
		t.Fatalf("Failed to create book: %v", err)
	}

	counts, err := s.ListCategoryBookCounts()
	if err != nil {
		t.Fatalf("Failed to list category counts: %v", err)
	}
	var got *model.CategoryBookCount
	for _, row := range counts {
		if row.ID == fiction.ID {
			got = row
		}
	}
	if got == nil {
		t.Fatal("Fiction category missing from report")
	}
	if got.BookCount != 2 {
		t.Errorf("Expected 2 books, got %d", got.BookCount)
	}
	if got.Titles != "Zothique,Averoigne" {
		t.Errorf("Expected titles in id order, got %q", got.Titles)
	}
}
