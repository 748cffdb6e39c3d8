package v1

import (
	"encoding/json"
	"net/http"

	"github.com/openshelf/openshelf/http/request"
	"github.com/openshelf/openshelf/http/response"
	"github.com/openshelf/openshelf/listing"
	"github.com/openshelf/openshelf/model"
	"github.com/openshelf/openshelf/validator"
	"github.com/pkg/errors"
)

const defaultPageSize = 20

// buildSelection reads the shared q/page/page_size list parameters.
func buildSelection(r *http.Request) *listing.Selection {
	sel := listing.NewSelection(request.QueryIntParam(r, "page_size", defaultPageSize))
	sel.SetQuery(request.QueryStringParam(r, "q", ""))
	sel.SetPage(request.QueryIntParam(r, "page", 1))
	return sel
}

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	find := &model.FindBook{}
	if request.HasQueryParam(r, "category_id") {
		categoryID := int32(request.QueryIntParam(r, "category_id", 0))
		find.CategoryID = &categoryID
	}
	if request.HasQueryParam(r, "language") {
		language := request.QueryStringParam(r, "language", "")
		find.Language = &language
	}
	if request.HasQueryParam(r, "isbn") {
		isbn := request.QueryStringParam(r, "isbn", "")
		find.ISBN = &isbn
	}
	find.OnlyAvailable = request.HasQueryParam(r, "available")

	books, err := h.store.ListBooks(find)
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to list books"))
		return
	}

	sel := buildSelection(r)
	result := listing.Apply(sel, books, func(b *model.Book, query string, _ map[string]string) bool {
		return listing.Matches(query, b.Title, b.Author, b.DDCNumber, b.ISBN)
	})
	response.OK(w, r, result)
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteInt32Param(r, "id")
	book, err := h.store.GetBook(&model.FindBook{ID: &bookID})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to find book"))
		return
	}
	if book == nil {
		response.NotFound(w, r)
		return
	}
	response.OK(w, r, book)
}

func (h *Handler) createBook(w http.ResponseWriter, r *http.Request) {
	create := &model.BookCreateRequest{}
	if err := json.NewDecoder(r.Body).Decode(create); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "malformed book request"))
		return
	}
	if err := validator.ValidateStruct(create); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	category, err := h.store.GetCategory(&model.FindCategory{ID: &create.CategoryID})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to find category"))
		return
	}
	if category == nil {
		response.BadRequest(w, r, errors.Errorf("category %d does not exist", create.CategoryID))
		return
	}

	book, err := h.store.CreateBook(&model.Book{
		Title:       create.Title,
		Author:      create.Author,
		DDCNumber:   create.DDCNumber,
		CategoryID:  create.CategoryID,
		Language:    create.Language,
		TotalCopies: create.TotalCopies,
		Price:       create.Price,
		Publisher:   create.Publisher,
		ISBN:        create.ISBN,
	})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to create book"))
		return
	}
	response.Created(w, r, book)
}

func (h *Handler) updateBook(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteInt32Param(r, "id")
	update := &model.BookUpdateRequest{}
	if err := json.NewDecoder(r.Body).Decode(update); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "malformed book request"))
		return
	}
	if err := validator.ValidateStruct(update); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if update.CategoryID != nil {
		category, err := h.store.GetCategory(&model.FindCategory{ID: update.CategoryID})
		if err != nil {
			response.ServerError(w, r, errors.Wrap(err, "failed to find category"))
			return
		}
		if category == nil {
			response.BadRequest(w, r, errors.Errorf("category %d does not exist", *update.CategoryID))
			return
		}
	}

	book, err := h.store.UpdateBook(bookID, update)
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to update book"))
		return
	}
	if book == nil {
		response.NotFound(w, r)
		return
	}
	response.OK(w, r, book)
}

func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteInt32Param(r, "id")
	book, err := h.store.GetBook(&model.FindBook{ID: &bookID})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to find book"))
		return
	}
	if book == nil {
		response.NotFound(w, r)
		return
	}
	if err := h.store.DeleteBook(bookID); err != nil {
		response.Conflict(w, r, err)
		return
	}
	response.NoContent(w, r)
}
