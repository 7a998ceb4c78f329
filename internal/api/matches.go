package api

import (
	"net/http"

	"github.com/erazemk/gotchan/internal/service"
)

// MatchesHandler serves swap suggestions for the caller.
type MatchesHandler struct {
	Service *service.Service
}

// List handles GET /api/matches.
func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	matches, err := h.Service.FindMatches(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, matches)
}
