package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/openshelf/openshelf/circulation"
	"github.com/openshelf/openshelf/config"
	"github.com/openshelf/openshelf/http/request"
	"github.com/openshelf/openshelf/http/response"
	"github.com/openshelf/openshelf/model"
	"github.com/openshelf/openshelf/realtime"
	"github.com/openshelf/openshelf/store"
	"github.com/openshelf/openshelf/validator"
	"github.com/pkg/errors"
)

// writeCirculationError maps the store's loan sentinels onto HTTP
// statuses. Business-rule refusals answer 409 so the client can tell
// them apart from malformed requests.
func writeCirculationError(w http.ResponseWriter, r *http.Request, err error) {
	switch errors.Cause(err) {
	case store.ErrLoanNotFound, store.ErrNoOpenLoan:
		response.NotFound(w, r)
	case store.ErrBookUnavailable, store.ErrMemberNotActive, store.ErrLoanLimitReached, store.ErrLoanNotRenewable:
		response.Conflict(w, r, err)
	default:
		response.ServerError(w, r, err)
	}
}

func (h *Handler) listCirculation(w http.ResponseWriter, r *http.Request) {
	find := &model.FindCirculation{}
	find.OpenOnly = request.HasQueryParam(r, "open")
	if request.HasQueryParam(r, "book_id") {
		bookID := int32(request.QueryIntParam(r, "book_id", 0))
		find.BookID = &bookID
	}
	if request.HasQueryParam(r, "member_id") {
		memberID := int32(request.QueryIntParam(r, "member_id", 0))
		find.MemberID = &memberID
	}
	if request.HasQueryParam(r, "status") {
		status := model.CirculationStatus(request.QueryStringParam(r, "status", ""))
		find.Status = &status
	}
	if request.HasQueryParam(r, "due_before") {
		dueBefore := request.QueryInt64Param(r, "due_before", 0)
		find.DueBefore = &dueBefore
	}

	loans, err := h.store.ListCirculations(find)
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to list loans"))
		return
	}

	// The dashboard view splits open loans by overdue state and totals
	// what is currently owed.
	if request.HasQueryParam(r, "dashboard") {
		now := time.Now()
		issued, overdue := circulation.Partition(loans, now)
		accrued := 0
		for _, loan := range overdue {
			accrued += circulation.AccruedFine(loan, now, config.Opts.FinePerDay)
		}
		response.OK(w, r, map[string]interface{}{
			"issued":        issued,
			"overdue":       overdue,
			"accrued_fines": accrued,
		})
		return
	}
	response.OK(w, r, loans)
}

// loanView is a loan annotated with its live payment standing.
type loanView struct {
	*model.Circulation
	FineState   circulation.FineState `json:"fine_state"`
	AccruedFine int                   `json:"accrued_fine"`
}

func buildLoanViews(loans []*model.Circulation, now time.Time) []loanView {
	views := make([]loanView, 0, len(loans))
	for _, loan := range loans {
		views = append(views, loanView{
			Circulation: loan,
			FineState:   circulation.ClassifyFine(loan, now, config.Opts.FinePerDay),
			AccruedFine: circulation.AccruedFine(loan, now, config.Opts.FinePerDay),
		})
	}
	return views
}

func (h *Handler) issueBook(w http.ResponseWriter, r *http.Request) {
	issue := &model.IssueBookRequest{}
	if err := json.NewDecoder(r.Body).Decode(issue); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "malformed issue request"))
		return
	}
	if err := validator.ValidateStruct(issue); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	days := issue.Days
	if days <= 0 {
		days = config.Opts.LoanPeriodDays
	}

	loan, err := h.store.IssueBook(issue.BookID, issue.MemberID, time.Now(), days, config.Opts.MaxBooksPerMember)
	if err != nil {
		writeCirculationError(w, r, err)
		return
	}

	h.hub.Broadcast(realtime.EventBookIssued, loan)
	response.Created(w, r, loan)
}

func (h *Handler) returnBook(w http.ResponseWriter, r *http.Request) {
	circulationID := request.RouteInt32Param(r, "id")
	loan, err := h.store.ReturnBook(circulationID, time.Now(), config.Opts.FinePerDay)
	if err != nil {
		writeCirculationError(w, r, err)
		return
	}

	h.hub.Broadcast(realtime.EventBookReturned, loan)
	response.OK(w, r, loan)
}

func (h *Handler) returnBookByBook(w http.ResponseWriter, r *http.Request) {
	ret := &model.ReturnBookByBookRequest{}
	if err := json.NewDecoder(r.Body).Decode(ret); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "malformed return request"))
		return
	}
	if err := validator.ValidateStruct(ret); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	loan, err := h.store.ReturnBookByBook(ret.BookID, time.Now(), config.Opts.FinePerDay)
	if err != nil {
		writeCirculationError(w, r, err)
		return
	}

	h.hub.Broadcast(realtime.EventBookReturned, loan)
	response.OK(w, r, loan)
}

func (h *Handler) renewBook(w http.ResponseWriter, r *http.Request) {
	circulationID := request.RouteInt32Param(r, "id")

	renew := &model.RenewBookRequest{}
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(renew); err != nil {
			response.BadRequest(w, r, errors.Wrap(err, "malformed renew request"))
			return
		}
		if err := validator.ValidateStruct(renew); err != nil {
			response.BadRequest(w, r, err)
			return
		}
	}

	days := renew.Days
	if days <= 0 {
		days = config.Opts.LoanPeriodDays
	}

	loan, err := h.store.RenewBook(circulationID, time.Now(), days)
	if err != nil {
		writeCirculationError(w, r, err)
		return
	}
	response.OK(w, r, loan)
}

func (h *Handler) payFine(w http.ResponseWriter, r *http.Request) {
	circulationID := request.RouteInt32Param(r, "id")
	loan, err := h.store.MarkFinePaid(circulationID)
	if err != nil {
		switch errors.Cause(err) {
		case store.ErrLoanNotFound:
			response.NotFound(w, r)
		default:
			response.Conflict(w, r, err)
		}
		return
	}
	response.OK(w, r, loan)
}
