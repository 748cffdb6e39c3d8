// Package scan resolves scanned or hand-typed identifiers to catalog
// books. The QR payload printed on a book is a URL of the form
// <origin>/book/<id>; staff may also type a DDC number or a raw id.
package scan // import "github.com/openshelf/openshelf/scan"

import (
	"strings"

	"github.com/openshelf/openshelf/model"
	"github.com/openshelf/openshelf/util"
	"github.com/pkg/errors"
)

var (
	// ErrNotFound means the payload did not resolve to any book.
	ErrNotFound = errors.New("book not found")
	// ErrAmbiguous means a DDC fallback matched more than one book.
	ErrAmbiguous = errors.New("identifier matches more than one book")
	// ErrEmptyPayload means there was nothing to resolve.
	ErrEmptyPayload = errors.New("empty scan payload")
)

// Ref is a parsed scan payload. ID is set when the payload carried the
// book-detail URL; otherwise Raw holds the fallback token to match
// against a DDC number or a primary key.
type Ref struct {
	ID  int32
	Raw string
}

const bookPathMarker = "/book/"

// Parse extracts a book reference from a scanned payload.
func Parse(text string) (Ref, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Ref{}, ErrEmptyPayload
	}

	if idx := strings.LastIndex(text, bookPathMarker); idx >= 0 {
		tail := text[idx+len(bookPathMarker):]
		// Strip query or fragment the client may have appended.
		if cut := strings.IndexAny(tail, "?#/"); cut >= 0 {
			tail = tail[:cut]
		}
		id, err := util.ConvertStringToInt32(tail)
		if err != nil || id <= 0 {
			return Ref{}, errors.Errorf("malformed book URL: %q", text)
		}
		return Ref{ID: id}, nil
	}

	return Ref{Raw: text}, nil
}

// BookLookup is the slice of the store the resolver needs.
type BookLookup interface {
	GetBook(find *model.FindBook) (*model.Book, error)
	ListBooks(find *model.FindBook) ([]*model.Book, error)
}

// Resolve turns a scanned payload into a Book. URL payloads are looked
// up by primary key only. Fallback tokens are matched against the DDC
// number first, then, for numeric tokens, the primary key. A DDC match
// spanning several books is an error instead of a silent first pick.
func Resolve(s BookLookup, text string) (*model.Book, error) {
	ref, err := Parse(text)
	if err != nil {
		return nil, err
	}

	if ref.ID != 0 {
		book, err := s.GetBook(&model.FindBook{ID: &ref.ID})
		if err != nil {
			return nil, errors.Wrap(err, "failed to look up scanned book")
		}
		if book == nil {
			return nil, ErrNotFound
		}
		return book, nil
	}

	matches, err := s.ListBooks(&model.FindBook{DDCNumber: &ref.Raw})
	if err != nil {
		return nil, errors.Wrap(err, "failed to look up DDC number")
	}
	if len(matches) > 1 {
		return nil, ErrAmbiguous
	}
	if len(matches) == 1 {
		return matches[0], nil
	}

	if id, err := util.ConvertStringToInt32(ref.Raw); err == nil && id > 0 {
		book, err := s.GetBook(&model.FindBook{ID: &id})
		if err != nil {
			return nil, errors.Wrap(err, "failed to look up book id")
		}
		if book != nil {
			return book, nil
		}
	}

	return nil, ErrNotFound
}
