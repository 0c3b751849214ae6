package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rishithreddy89/PollRooms/internal/core/ports"
)

type CreatorHandler struct {
	service ports.PollService
}

func NewCreatorHandler(service ports.PollService) *CreatorHandler {
	return &CreatorHandler{
		service: service,
	}
}

// Dashboard lists the polls owned by the bearer of a creator token. The
// token is an opaque credential: unknown or malformed tokens simply own
// nothing, there is no way to probe for valid ones.
func (h *CreatorHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "creatorToken")
	if token == "" {
		writeError(w, http.StatusBadRequest, "creator token required")
		return
	}

	polls, err := h.service.GetByCreator(r.Context(), token)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, polls)
}
