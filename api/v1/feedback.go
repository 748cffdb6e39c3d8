package v1

import (
	"encoding/json"
	"net/http"

	"github.com/openshelf/openshelf/http/request"
	"github.com/openshelf/openshelf/http/response"
	"github.com/openshelf/openshelf/model"
	"github.com/openshelf/openshelf/validator"
	"github.com/pkg/errors"
)

func (h *Handler) createFeedback(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		response.Unauthorized(w, r)
		return
	}
	user, err := h.store.GetUser(&model.FindUser{ID: &userID})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to find user"))
		return
	}
	if user == nil || user.MemberID == 0 {
		response.Forbidden(w, r)
		return
	}

	create := &model.FeedbackCreateRequest{}
	if err := json.NewDecoder(r.Body).Decode(create); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "malformed feedback request"))
		return
	}
	if err := validator.ValidateStruct(create); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	if create.Type == model.FeedbackBookReview {
		if create.BookID == 0 {
			response.BadRequest(w, r, errors.New("book review needs a book_id"))
			return
		}
		book, err := h.store.GetBook(&model.FindBook{ID: &create.BookID})
		if err != nil {
			response.ServerError(w, r, errors.Wrap(err, "failed to find book"))
			return
		}
		if book == nil {
			response.BadRequest(w, r, errors.Errorf("book %d does not exist", create.BookID))
			return
		}
	}

	feedback, err := h.store.CreateFeedback(&model.Feedback{
		MemberID: user.MemberID,
		BookID:   create.BookID,
		Type:     create.Type,
		Rating:   create.Rating,
		Content:  create.Content,
	})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to create feedback"))
		return
	}
	response.Created(w, r, feedback)
}

func (h *Handler) listFeedback(w http.ResponseWriter, r *http.Request) {
	find := &model.FindFeedback{}
	if request.HasQueryParam(r, "book_id") {
		bookID := int32(request.QueryIntParam(r, "book_id", 0))
		find.BookID = &bookID
	}
	if request.HasQueryParam(r, "type") {
		feedbackType := model.FeedbackType(request.QueryStringParam(r, "type", ""))
		find.Type = &feedbackType
	}

	// Only staff may browse moderation states; everyone else sees the
	// approved set.
	if request.GetUserRole(r).IsStaff() {
		if request.HasQueryParam(r, "status") {
			status := model.FeedbackStatus(request.QueryStringParam(r, "status", ""))
			find.Status = &status
		}
	} else {
		approved := model.FeedbackApproved
		find.Status = &approved
	}

	feedback, err := h.store.ListFeedback(find)
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to list feedback"))
		return
	}
	response.OK(w, r, feedback)
}

func (h *Handler) moderateFeedback(w http.ResponseWriter, r *http.Request) {
	feedbackID := request.RouteInt32Param(r, "id")

	moderate := &model.FeedbackModerateRequest{}
	if err := json.NewDecoder(r.Body).Decode(moderate); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "malformed moderation request"))
		return
	}
	if err := validator.ValidateStruct(moderate); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	existed, err := h.store.GetFeedback(&model.FindFeedback{ID: &feedbackID})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to find feedback"))
		return
	}
	if existed == nil {
		response.NotFound(w, r)
		return
	}

	feedback, err := h.store.ModerateFeedback(feedbackID, moderate.Status)
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to moderate feedback"))
		return
	}
	response.OK(w, r, feedback)
}
