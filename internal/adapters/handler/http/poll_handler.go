package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rishithreddy89/PollRooms/internal/core/domain"
	"github.com/rishithreddy89/PollRooms/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
}

func NewPollHandler(service ports.PollService) *PollHandler {
	return &PollHandler{
		service: service,
	}
}

type createPollRequest struct {
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	ExpiresAt string   `json:"expires_at"`
}

// createPollResponse is the only place the creator token ever leaves the
// system; every read path serializes the poll without it.
type createPollResponse struct {
	*domain.Poll
	CreatorToken uuid.UUID `json:"creator_token"`
}

func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := ports.CreatePollInput{
		Question:  req.Question,
		Options:   req.Options,
		ExpiresAt: req.ExpiresAt,
	}

	poll, err := h.service.Create(r.Context(), input)
	if err != nil {
		var vErr domain.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusBadRequest, vErr.Error())
			return
		}

		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createPollResponse{Poll: poll, CreatorToken: poll.CreatorToken})
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	poll, err := h.service.GetPoll(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPollID) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrPollNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.service.ListPolls(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, polls)
}

type pollStatsResponse struct {
	PollID     uuid.UUID            `json:"poll_id"`
	Question   string               `json:"question"`
	Active     bool                 `json:"active"`
	ExpiresAt  string               `json:"expires_at"`
	TotalVotes int64                `json:"total_votes"`
	Options    []domain.OptionStats `json:"options"`
}

func (h *PollHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	poll, stats, err := h.service.GetStats(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPollID) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrPollNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pollStatsResponse{
		PollID:     poll.ID,
		Question:   poll.Question,
		Active:     poll.Active,
		ExpiresAt:  poll.ExpiresAt.Format(time.RFC3339),
		TotalVotes: poll.TotalVotes,
		Options:    stats,
	})
}
