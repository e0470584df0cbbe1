package api

import "net/http"

func (h *Handler) handleNews(w http.ResponseWriter, r *http.Request) {
	articles, err := h.newsClient.Articles(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

func (h *Handler) handleFixtures(w http.ResponseWriter, r *http.Request) {
	matches, err := h.footballClient.Fixtures(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (h *Handler) handleSquad(w http.ResponseWriter, r *http.Request) {
	players, err := h.footballClient.Squad(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}
