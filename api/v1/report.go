package v1

import (
	"net/http"

	"github.com/openshelf/openshelf/http/request"
	"github.com/openshelf/openshelf/http/response"
	"github.com/openshelf/openshelf/model"
	"github.com/pkg/errors"
)

// buildReportFilter reads the shared since_ts/until_ts/category_id/limit
// report parameters.
func buildReportFilter(r *http.Request) *model.ReportFilter {
	filter := &model.ReportFilter{}
	if request.HasQueryParam(r, "since_ts") {
		since := request.QueryInt64Param(r, "since_ts", 0)
		filter.SinceTs = &since
	}
	if request.HasQueryParam(r, "until_ts") {
		until := request.QueryInt64Param(r, "until_ts", 0)
		filter.UntilTs = &until
	}
	if request.HasQueryParam(r, "category_id") {
		categoryID := int32(request.QueryIntParam(r, "category_id", 0))
		filter.CategoryID = &categoryID
	}
	if request.HasQueryParam(r, "limit") {
		limit := request.QueryIntParam(r, "limit", 10)
		filter.Limit = &limit
	}
	return filter
}

func (h *Handler) reportSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.store.GetSummary()
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to build summary"))
		return
	}
	response.OK(w, r, summary)
}

func (h *Handler) reportMostRead(w http.ResponseWriter, r *http.Request) {
	books, err := h.store.ListMostReadBooks(buildReportFilter(r))
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to list most read books"))
		return
	}
	response.OK(w, r, books)
}

func (h *Handler) reportActiveMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.store.ListMostActiveMembers(buildReportFilter(r))
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to list active members"))
		return
	}
	response.OK(w, r, members)
}

func (h *Handler) reportCategories(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.ListCategoryBookCounts()
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to count categories"))
		return
	}
	response.OK(w, r, counts)
}

func (h *Handler) reportBookReaders(w http.ResponseWriter, r *http.Request) {
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

	readers, err := h.store.ListBookReaders(bookID, buildReportFilter(r))
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to list readers"))
		return
	}
	response.OK(w, r, readers)
}

func (h *Handler) reportMemberBooks(w http.ResponseWriter, r *http.Request) {
	memberID := request.RouteInt32Param(r, "id")
	member, err := h.store.GetMember(&model.FindMember{ID: &memberID})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to find member"))
		return
	}
	if member == nil {
		response.NotFound(w, r)
		return
	}

	books, err := h.store.ListMemberBooks(memberID, buildReportFilter(r))
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to list member books"))
		return
	}
	response.OK(w, r, books)
}
