package v1

import (
	"encoding/json"
	"net/http"

	"github.com/openshelf/openshelf/http/request"
	"github.com/openshelf/openshelf/http/response"
	"github.com/openshelf/openshelf/model"
	"github.com/pkg/errors"
)

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	if request.HasQueryParam(r, "with_counts") {
		counts, err := h.store.ListCategoryBookCounts()
		if err != nil {
			response.ServerError(w, r, errors.Wrap(err, "failed to count categories"))
			return
		}
		response.OK(w, r, counts)
		return
	}

	categories, err := h.store.ListCategories(&model.FindCategory{})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to list categories"))
		return
	}
	response.OK(w, r, categories)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	create := &model.Category{}
	if err := json.NewDecoder(r.Body).Decode(create); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "malformed category request"))
		return
	}
	if create.Name == "" {
		response.BadRequest(w, r, errors.New("category name is required"))
		return
	}

	existed, err := h.store.GetCategory(&model.FindCategory{Name: &create.Name})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to find category"))
		return
	}
	if existed != nil {
		response.Conflict(w, r, errors.Errorf("category %q already exists", create.Name))
		return
	}

	category, err := h.store.CreateCategory(create)
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to create category"))
		return
	}
	response.Created(w, r, category)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := request.RouteInt32Param(r, "id")
	category, err := h.store.GetCategory(&model.FindCategory{ID: &categoryID})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to find category"))
		return
	}
	if category == nil {
		response.NotFound(w, r)
		return
	}
	if err := h.store.DeleteCategory(categoryID); err != nil {
		response.Conflict(w, r, err)
		return
	}
	response.NoContent(w, r)
}
