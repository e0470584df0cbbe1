package api

import (
	"database/sql"
	"errors"
	"net/http"

	"fanclub-backend/internal/domain/comment"
	"fanclub-backend/internal/domain/forum"
	"fanclub-backend/internal/domain/poll"
	"fanclub-backend/internal/domain/user"
	"fanclub-backend/internal/news"
	"fanclub-backend/internal/platform/apperr"
)

func errorResponse(w http.ResponseWriter, err error) {
	appErr := mapError(err)
	writeJSON(w, appErr.StatusCode(), map[string]string{
		"error":   appErr.Code,
		"message": appErr.Message,
	})
}

func mapError(err error) *apperr.AppError {
	if err == nil {
		return apperr.Internal("internal_error", "internal server error", nil)
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound("not_found", "resource not found", err)
	case errors.Is(err, user.ErrInvalidCredentials):
		return apperr.Unauthorized("invalid_credentials", "invalid credentials", err)
	case errors.Is(err, user.ErrEmailTaken):
		return apperr.BadRequest("email_taken", "email already taken", err)
	case errors.Is(err, user.ErrMissingFields):
		return apperr.BadRequest("invalid_input", "email and password required", err)
	case errors.Is(err, poll.ErrUserRequired),
		errors.Is(err, forum.ErrUserRequired),
		errors.Is(err, comment.ErrUserRequired):
		return apperr.Unauthorized("auth_required", "authentication required", err)
	case errors.Is(err, poll.ErrTitleRequired):
		return apperr.BadRequest("invalid_input", "title required", err)
	case errors.Is(err, poll.ErrDescriptionRequired):
		return apperr.BadRequest("invalid_input", "description required", err)
	case errors.Is(err, poll.ErrEndDateRequired):
		return apperr.BadRequest("invalid_input", "end date required", err)
	case errors.Is(err, poll.ErrTooFewOptions):
		return apperr.BadRequest("invalid_input", "poll must have at least 2 options", err)
	case errors.Is(err, forum.ErrTitleRequired),
		errors.Is(err, forum.ErrContentRequired),
		errors.Is(err, comment.ErrContentRequired),
		errors.Is(err, comment.ErrInvalidTarget):
		return apperr.BadRequest("invalid_input", err.Error(), err)
	case errors.Is(err, forum.ErrPostNotFound):
		return apperr.NotFound("post_not_found", "post not found", err)
	case errors.Is(err, comment.ErrNotOwner):
		return apperr.Forbidden("forbidden", "cannot delete another user's comment", err)
	case errors.Is(err, news.ErrNotConfigured):
		return apperr.Internal("not_configured", "news api key not configured", err)
	default:
		return apperr.Internal("internal_error", http.StatusText(http.StatusInternalServerError), err)
	}
}
