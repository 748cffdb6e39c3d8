package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/openshelf/openshelf/http/request"
	"github.com/openshelf/openshelf/http/response"
	"github.com/openshelf/openshelf/listing"
	"github.com/openshelf/openshelf/model"
	"github.com/openshelf/openshelf/validator"
	"github.com/pkg/errors"
)

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	find := &model.FindMember{}
	if request.HasQueryParam(r, "status") {
		status := model.MembershipStatus(request.QueryStringParam(r, "status", ""))
		find.Status = &status
	}
	if request.HasQueryParam(r, "class") {
		class := request.QueryStringParam(r, "class", "")
		find.Class = &class
	}

	members, err := h.store.ListMembers(find)
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to list members"))
		return
	}

	sel := buildSelection(r)
	result := listing.Apply(sel, members, func(m *model.Member, query string, _ map[string]string) bool {
		return listing.Matches(query, m.Name, m.RegisterNumber, m.Email, m.Phone)
	})
	response.OK(w, r, result)
}

func (h *Handler) getMember(w http.ResponseWriter, r *http.Request) {
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
	response.OK(w, r, member)
}

func (h *Handler) createMember(w http.ResponseWriter, r *http.Request) {
	create := &model.MemberCreateRequest{}
	if err := json.NewDecoder(r.Body).Decode(create); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "malformed member request"))
		return
	}
	if err := validator.ValidateMemberCreateRequest(h.store, create); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	registerNumber := create.RegisterNumber
	if registerNumber == "" {
		var err error
		registerNumber, err = h.store.NextRegisterNumber()
		if err != nil {
			response.ServerError(w, r, errors.Wrap(err, "failed to assign register number"))
			return
		}
	}

	member, err := h.store.CreateMember(&model.Member{
		RegisterNumber: registerNumber,
		Name:           create.Name,
		Email:          create.Email,
		Phone:          create.Phone,
		Class:          create.Class,
		MembershipType: create.MembershipType,
		Status:         model.MembershipActive,
	})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to create member"))
		return
	}
	response.Created(w, r, member)
}

func (h *Handler) updateMember(w http.ResponseWriter, r *http.Request) {
	memberID := request.RouteInt32Param(r, "id")
	update := &model.MemberUpdateRequest{}
	if err := json.NewDecoder(r.Body).Decode(update); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "malformed member request"))
		return
	}
	if err := validator.ValidateStruct(update); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	member, err := h.store.UpdateMember(memberID, update)
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to update member"))
		return
	}
	if member == nil {
		response.NotFound(w, r)
		return
	}
	response.OK(w, r, member)
}

func (h *Handler) deleteMember(w http.ResponseWriter, r *http.Request) {
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
	if err := h.store.DeleteMember(memberID); err != nil {
		response.Conflict(w, r, err)
		return
	}
	response.NoContent(w, r)
}

func (h *Handler) nextRegisterNumber(w http.ResponseWriter, r *http.Request) {
	registerNumber, err := h.store.NextRegisterNumber()
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to compute register number"))
		return
	}
	response.OK(w, r, map[string]string{"register_number": registerNumber})
}

func (h *Handler) listMemberLoans(w http.ResponseWriter, r *http.Request) {
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

	find := &model.FindCirculation{MemberID: &memberID}
	find.OpenOnly = request.HasQueryParam(r, "open")
	loans, err := h.store.ListCirculations(find)
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to list loans"))
		return
	}
	response.OK(w, r, buildLoanViews(loans, time.Now()))
}
