package v1

import (
	"encoding/json"
	"net/http"

	"github.com/openshelf/openshelf/config"
	"github.com/openshelf/openshelf/http/request"
	"github.com/openshelf/openshelf/http/response"
	"github.com/openshelf/openshelf/listing"
	"github.com/openshelf/openshelf/model"
	"github.com/openshelf/openshelf/realtime"
	"github.com/openshelf/openshelf/validator"
	"github.com/pkg/errors"
)

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	normal := model.Normal
	find := &model.FindPost{RowStatus: &normal}
	if request.HasQueryParam(r, "category") {
		category := request.QueryStringParam(r, "category", "")
		find.Category = &category
	}
	if request.HasQueryParam(r, "language") {
		language := request.QueryStringParam(r, "language", "")
		find.Language = &language
	}

	posts, err := h.store.ListPosts(find)
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to list posts"))
		return
	}

	sel := buildSelection(r)
	result := listing.Apply(sel, posts, func(p *model.Post, query string, _ map[string]string) bool {
		return listing.Matches(query, p.Title, p.Author, p.Content)
	})
	response.OK(w, r, result)
}

// getPost returns one article and counts the view. The read counter is
// a popularity signal, not an audit trail, so the increment is fired
// without deduplication.
func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) {
	postID := request.RouteInt32Param(r, "id")
	post, err := h.store.GetPost(&model.FindPost{ID: &postID})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to find post"))
		return
	}
	if post == nil || post.RowStatus != model.Normal {
		response.NotFound(w, r)
		return
	}

	if err := h.store.IncrementReadCount(postID); err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to count read"))
		return
	}
	post.ReadCount++
	response.OK(w, r, post)
}

func (h *Handler) likePost(w http.ResponseWriter, r *http.Request) {
	postID := request.RouteInt32Param(r, "id")

	like := &model.PostLikeRequest{}
	if err := json.NewDecoder(r.Body).Decode(like); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "malformed like request"))
		return
	}
	if err := validator.ValidateStruct(like); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	post, err := h.store.GetPost(&model.FindPost{ID: &postID})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to find post"))
		return
	}
	if post == nil || post.RowStatus != model.Normal {
		response.NotFound(w, r)
		return
	}

	count, added, err := h.store.LikePost(postID, like.SessionID)
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to like post"))
		return
	}
	if added {
		h.hub.Broadcast(realtime.EventPostLiked, map[string]interface{}{
			"post_id":    postID,
			"like_count": count,
		})
	}
	response.OK(w, r, map[string]interface{}{
		"like_count": count,
		"liked":      added,
	})
}

func (h *Handler) sharePost(w http.ResponseWriter, r *http.Request) {
	postID := request.RouteInt32Param(r, "id")
	post, err := h.store.GetPost(&model.FindPost{ID: &postID})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to find post"))
		return
	}
	if post == nil || post.RowStatus != model.Normal {
		response.NotFound(w, r)
		return
	}

	count, err := h.store.IncrementShareCount(postID)
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to count share"))
		return
	}
	response.OK(w, r, map[string]interface{}{"share_count": count})
}

func (h *Handler) listPostComments(w http.ResponseWriter, r *http.Request) {
	postID := request.RouteInt32Param(r, "id")
	find := &model.FindPostComment{
		PostID: &postID,
		// Pending comments are visible to moderators only.
		ApprovedOnly: !request.GetUserRole(r).IsStaff(),
	}
	comments, err := h.store.ListPostComments(find)
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to list comments"))
		return
	}
	response.OK(w, r, comments)
}

func (h *Handler) createPostComment(w http.ResponseWriter, r *http.Request) {
	postID := request.RouteInt32Param(r, "id")
	post, err := h.store.GetPost(&model.FindPost{ID: &postID})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to find post"))
		return
	}
	if post == nil || post.RowStatus != model.Normal {
		response.NotFound(w, r)
		return
	}

	create := &model.PostCommentCreateRequest{}
	if err := json.NewDecoder(r.Body).Decode(create); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "malformed comment request"))
		return
	}
	if err := validator.ValidateStruct(create); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	comment, err := h.store.CreatePostComment(&model.PostComment{
		PostID:  postID,
		Author:  create.Author,
		Content: create.Content,
	})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to create comment"))
		return
	}
	response.Created(w, r, comment)
}

// createPost accepts a multipart form so the article and its cover
// image arrive in one request. The image lands on local storage as-is
// and a background worker converts it to webp.
func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	maxSize := config.Opts.MaxUploadSize << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "malformed multipart form"))
		return
	}

	create := &model.PostCreateRequest{
		Title:    r.FormValue("title"),
		Author:   r.FormValue("author"),
		Content:  r.FormValue("content"),
		Category: r.FormValue("category"),
		Language: r.FormValue("language"),
	}
	if err := validator.ValidateStruct(create); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	post, err := h.store.CreatePost(&model.Post{
		Title:    create.Title,
		Author:   create.Author,
		Content:  create.Content,
		Category: create.Category,
		Language: create.Language,
	})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to create post"))
		return
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		path, err := h.uploads.Save(header.Filename, file)
		if err != nil {
			response.ServerError(w, r, errors.Wrap(err, "failed to save image"))
			return
		}
		h.imagePool.Push(model.Job{
			Type:   model.JobTypeImageConvert,
			Status: model.JobStatusPending,
			Path:   path,
			PostID: post.ID,
		})
	}

	response.Created(w, r, post)
}

func (h *Handler) archivePost(w http.ResponseWriter, r *http.Request) {
	postID := request.RouteInt32Param(r, "id")
	post, err := h.store.GetPost(&model.FindPost{ID: &postID})
	if err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to find post"))
		return
	}
	if post == nil {
		response.NotFound(w, r)
		return
	}
	if err := h.store.ArchivePost(postID); err != nil {
		response.ServerError(w, r, errors.Wrap(err, "failed to archive post"))
		return
	}
	response.NoContent(w, r)
}

func (h *Handler) approvePostComment(w http.ResponseWriter, r *http.Request) {
	commentID := request.RouteInt32Param(r, "id")
	if err := h.store.ApprovePostComment(commentID); err != nil {
		response.NotFound(w, r)
		return
	}
	response.NoContent(w, r)
}

func (h *Handler) deletePostComment(w http.ResponseWriter, r *http.Request) {
	commentID := request.RouteInt32Param(r, "id")
	if err := h.store.DeletePostComment(commentID); err != nil {
		response.NotFound(w, r)
		return
	}
	response.NoContent(w, r)
}
