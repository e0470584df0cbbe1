package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fanclub-backend/internal/platform/apperr"
)

type addCommentRequest struct {
	Content  string `json:"content"`
	Target   string `json:"target"`
	TargetID int64  `json:"target_id"`
}

func (h *Handler) handleListComments(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("target")
	targetID, err := strconv.ParseInt(r.URL.Query().Get("target_id"), 10, 64)
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid target_id", err))
		return
	}

	comments, err := h.commentSvc.List(r.Context(), target, targetID)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *Handler) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	c, err := h.commentSvc.Add(r.Context(), userIDFromCtx(r), req.Content, req.Target, req.TargetID)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid comment id", err))
		return
	}

	if err := h.commentSvc.Delete(r.Context(), userIDFromCtx(r), id); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
