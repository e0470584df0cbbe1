package api

import (
	"encoding/json"
	"net/http"

	"fanclub-backend/internal/platform/apperr"
)

type createPostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type addForumCommentRequest struct {
	Content string `json:"content"`
}

func (h *Handler) handleListForums(w http.ResponseWriter, r *http.Request) {
	forums, err := h.forumSvc.ListForums(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forums)
}

func (h *Handler) handleListPosts(w http.ResponseWriter, r *http.Request) {
	categoryParam := r.URL.Query().Get("category")
	var category *string
	if categoryParam != "" {
		category = &categoryParam
	}

	posts, err := h.forumSvc.ListPosts(r.Context(), category)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *Handler) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid post id", err))
		return
	}

	post, err := h.forumSvc.GetPost(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *Handler) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	post, err := h.forumSvc.CreatePost(r.Context(), userIDFromCtx(r), req.Title, req.Content, req.Category)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *Handler) handleListPostComments(w http.ResponseWriter, r *http.Request) {
	postID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid post id", err))
		return
	}

	comments, err := h.forumSvc.ListComments(r.Context(), postID)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *Handler) handleAddPostComment(w http.ResponseWriter, r *http.Request) {
	postID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid post id", err))
		return
	}

	var req addForumCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	c, err := h.forumSvc.AddComment(r.Context(), userIDFromCtx(r), postID, req.Content)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
