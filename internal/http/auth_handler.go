package api

import (
	"encoding/json"
	"net/http"
	"time"

	"fanclub-backend/internal/platform/apperr"
)

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

const tokenTTL = 24 * time.Hour

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	u, err := h.userSvc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		errorResponse(w, err)
		return
	}

	token, err := h.jwtMgr.Generate(u.ID, u.Email, tokenTTL)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user":  u,
		"token": token,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	u, err := h.userSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		errorResponse(w, err)
		return
	}

	token, err := h.jwtMgr.Generate(u.ID, u.Email, tokenTTL)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":  u,
		"token": token,
	})
}
