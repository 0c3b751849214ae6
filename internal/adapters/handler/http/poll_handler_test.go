package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishithreddy89/PollRooms/internal/core/domain"
	"github.com/rishithreddy89/PollRooms/internal/core/ports"
)

type stubPollService struct {
	createErr error
}

func (s *stubPollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	return nil, s.createErr
}

func (s *stubPollService) GetPoll(ctx context.Context, id string) (*domain.Poll, error) {
	return nil, domain.ErrPollNotFound
}

func (s *stubPollService) ListPolls(ctx context.Context) ([]*domain.Poll, error) {
	return nil, nil
}

func (s *stubPollService) GetStats(ctx context.Context, id string) (*domain.Poll, []domain.OptionStats, error) {
	return nil, nil, domain.ErrPollNotFound
}

func (s *stubPollService) GetByCreator(ctx context.Context, token string) ([]*domain.Poll, error) {
	return nil, nil
}

func postCreatePoll(t *testing.T, h *PollHandler) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(map[string]interface{}{
		"question":   "Cats or dogs?",
		"options":    []string{"Cats", "Dogs"},
		"expires_at": time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	req := httptest.NewRequest("POST", "/api/polls", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.CreatePoll(w, req)
	return w
}

// TestCreatePollStoreFaultResponse pins down the error contract: a store
// fault surfaces as an opaque 500, never as a client error carrying
// storage internals.
func TestCreatePollStoreFaultResponse(t *testing.T) {
	h := NewPollHandler(&stubPollService{createErr: domain.ErrInternal})

	w := postCreatePoll(t, h)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp["error"])
}

func TestCreatePollValidationErrorResponse(t *testing.T) {
	h := NewPollHandler(&stubPollService{createErr: domain.ValidationError("question is required")})

	w := postCreatePoll(t, h)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "question is required", resp["error"])
}
