package scan

import (
	"testing"

	"github.com/openshelf/openshelf/model"
)

type fakeLookup struct {
	books []*model.Book
}

func (f *fakeLookup) GetBook(find *model.FindBook) (*model.Book, error) {
	for _, b := range f.books {
		if find.ID != nil && b.ID == *find.ID {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeLookup) ListBooks(find *model.FindBook) ([]*model.Book, error) {
	var out []*model.Book
	for _, b := range f.books {
		if find.DDCNumber != nil && b.DDCNumber == *find.DDCNumber {
			out = append(out, b)
		}
	}
	return out, nil
}

func testLookup() *fakeLookup {
	return &fakeLookup{books: []*model.Book{
		{ID: 123, Title: "Cosmos", DDCNumber: "520.1"},
		{ID: 7, Title: "Walden", DDCNumber: "818.3"},
		{ID: 8, Title: "Walden Annotated", DDCNumber: "818.3"},
	}}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in     string
		wantID int32
		raw    string
		bad    bool
	}{
		{"https://library.example.org/book/123", 123, "", false},
		{"http://10.0.0.2:8080/book/7?src=qr", 7, "", false},
		{"/book/123", 123, "", false},
		{"https://library.example.org/book/abc", 0, "", true},
		{"520.1", 0, "520.1", false},
		{"123", 0, "123", false},
		{"   ", 0, "", true},
	}
	for _, c := range cases {
		ref, err := Parse(c.in)
		if c.bad {
			if err == nil {
				t.Errorf("Parse(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", c.in, err)
			continue
		}
		if ref.ID != c.wantID || ref.Raw != c.raw {
			t.Errorf("Parse(%q) = %+v, want id=%d raw=%q", c.in, ref, c.wantID, c.raw)
		}
	}
}

func TestResolveByURL(t *testing.T) {
	s := testLookup()
	book, err := Resolve(s, "https://library.example.org/book/123")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if book.Title != "Cosmos" {
		t.Errorf("resolved wrong book: %s", book.Title)
	}
}

func TestResolveURLMiss(t *testing.T) {
	s := testLookup()
	// Valid URL shape, no matching book: terminal not-found, no fallback.
	_, err := Resolve(s, "https://library.example.org/book/999")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveDDCFallback(t *testing.T) {
	s := testLookup()
	book, err := Resolve(s, "520.1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if book.ID != 123 {
		t.Errorf("resolved wrong book: %d", book.ID)
	}
}

func TestResolveAmbiguousDDC(t *testing.T) {
	s := testLookup()
	_, err := Resolve(s, "818.3")
	if err != ErrAmbiguous {
		t.Errorf("expected ErrAmbiguous, got %v", err)
	}
}

func TestResolveRawID(t *testing.T) {
	s := testLookup()
	book, err := Resolve(s, "123")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if book.ID != 123 {
		t.Errorf("resolved wrong book: %d", book.ID)
	}
}

func TestResolveMiss(t *testing.T) {
	s := testLookup()
	if _, err := Resolve(s, "no-such-token"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
