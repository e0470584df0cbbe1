package api

import (
	"encoding/json"
	"net/http"
	"time"

	"fanclub-backend/internal/domain/poll"
	"fanclub-backend/internal/metrics"
	"fanclub-backend/internal/platform/apperr"
	"fanclub-backend/internal/worker"
)

type createPollRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	EndDate     string   `json:"end_date"`
	Options     []string `json:"options"`
}

type voteRequest struct {
	OptionID int64 `json:"option_id"`
}

// @Summary     List active polls
// @Tags        polls
// @Produce     json
// @Success     200  {array}   poll.View
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /api/v1/polls [get]
func (h *Handler) handleListPolls(w http.ResponseWriter, r *http.Request) {
	views, err := h.pollSvc.ListActive(r.Context(), userIDFromCtx(r))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// @Summary     Create a poll with its options
// @Tags        polls
// @Security    BearerAuth
// @Accept      json
// @Param       request  body      createPollRequest  true  "Poll payload"
// @Success     201      {object}  map[string]int64
// @Failure     400      {object}  map[string]string  "invalid body"
// @Failure     401      {object}  map[string]string  "unauthorized"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /api/v1/polls [post]
func (h *Handler) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "end_date must be RFC3339", err))
		return
	}

	p := &poll.Poll{
		Title:       req.Title,
		Description: req.Description,
		EndDate:     endDate,
	}

	id, err := h.pollSvc.Create(r.Context(), userIDFromCtx(r), p, req.Options)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

// @Summary     Cast or change a vote
// @Tags        polls
// @Security    BearerAuth
// @Accept      json
// @Param       id       path      int64        true  "Poll ID"
// @Param       request  body      voteRequest  true  "Vote payload"
// @Success     204
// @Failure     400      {object}  map[string]string  "invalid body"
// @Failure     401      {object}  map[string]string  "unauthorized"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /api/v1/polls/{id}/vote [post]
func (h *Handler) handleVote(w http.ResponseWriter, r *http.Request) {
	pollID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid poll id", err))
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}
	if req.OptionID == 0 {
		errorResponse(w, apperr.BadRequest("invalid_input", "option_id is required", nil))
		return
	}

	userID := userIDFromCtx(r)

	if err := h.pollSvc.Vote(r.Context(), pollID, req.OptionID, userID); err != nil {
		errorResponse(w, err)
		return
	}

	select {
	case h.voteCh <- worker.VoteEvent{PollID: pollID, OptionID: req.OptionID, UserID: userID}:
	default:
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary     Delete expired polls with their options and votes
// @Tags        polls
// @Produce     json
// @Success     200  {object}  map[string]any
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /api/v1/polls/cleanup [post]
func (h *Handler) handleCleanupPolls(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.pollSvc.CleanupExpired(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}

	metrics.AddExpiredPolls(deleted)
	if deleted > 0 {
		slogLogger.Info("expired polls deleted", "count", deleted)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"deleted": deleted,
	})
}

// Intended for external schedulers; GET documents the trigger.
func (h *Handler) handleCleanupInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "poll cleanup endpoint, use POST to trigger cleanup",
	})
}
