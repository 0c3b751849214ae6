package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishithreddy89/PollRooms/internal/core/domain"
	"github.com/rishithreddy89/PollRooms/internal/core/ports"
)

func validCreateInput() ports.CreatePollInput {
	return ports.CreatePollInput{
		Question:  "Cats or dogs?",
		Options:   []string{"Cats", "Dogs"},
		ExpiresAt: time.Now().Add(time.Hour).Format(time.RFC3339),
	}
}

func TestCreatePoll(t *testing.T) {
	repo := newFakePollRepo()
	svc := NewPollService(repo)

	poll, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	assert.True(t, poll.Active)
	assert.NotEqual(t, uuid.Nil, poll.CreatorToken)
	assert.Zero(t, poll.TotalVotes)
	require.Len(t, poll.Options, 2)
	for _, opt := range poll.Options {
		assert.Equal(t, poll.ID, opt.PollID)
		assert.Zero(t, opt.VoteCount)
	}

	// Poll and options are persisted together.
	stored, err := repo.GetByID(context.Background(), poll.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Options, 2)
}

func TestCreatePollValidation(t *testing.T) {
	svc := NewPollService(newFakePollRepo())

	tests := []struct {
		name   string
		mutate func(*ports.CreatePollInput)
	}{
		{"empty question", func(in *ports.CreatePollInput) { in.Question = "  " }},
		{"single option", func(in *ports.CreatePollInput) { in.Options = []string{"Cats"} }},
		{"blank options filtered out", func(in *ports.CreatePollInput) { in.Options = []string{"Cats", "  "} }},
		{"too many options", func(in *ports.CreatePollInput) {
			in.Options = make([]string, 11)
			for i := range in.Options {
				in.Options[i] = "opt " + string(rune('a'+i))
			}
		}},
		{"malformed expiry", func(in *ports.CreatePollInput) { in.ExpiresAt = "tomorrow" }},
		{"expiry in the past", func(in *ports.CreatePollInput) {
			in.ExpiresAt = time.Now().Add(-time.Minute).Format(time.RFC3339)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validCreateInput()
			tt.mutate(&input)
			_, err := svc.Create(context.Background(), input)
			var vErr domain.ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestCreatePollStoreFailureIsOpaque(t *testing.T) {
	repo := newFakePollRepo()
	repo.saveErr = errors.New("pq: connection refused on 10.0.0.5:5432")
	svc := NewPollService(repo)

	_, err := svc.Create(context.Background(), validCreateInput())
	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.NotContains(t, err.Error(), "connection refused")

	// A store fault is not a validation failure.
	var vErr domain.ValidationError
	assert.False(t, errors.As(err, &vErr))
}

func TestCreatePollCountsCharactersNotBytes(t *testing.T) {
	svc := NewPollService(newFakePollRepo())

	// 400 two-byte runes: within the 500-character limit even though the
	// byte length is 800.
	input := validCreateInput()
	input.Question = strings.Repeat("é", 400)
	input.Options = []string{strings.Repeat("ő", 200), "B"}

	_, err := svc.Create(context.Background(), input)
	assert.NoError(t, err)

	input.Question = strings.Repeat("é", 501)
	_, err = svc.Create(context.Background(), input)
	var vErr domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestGetPollInvalidID(t *testing.T) {
	svc := NewPollService(newFakePollRepo())

	_, err := svc.GetPoll(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrInvalidPollID)
}

func TestGetStats(t *testing.T) {
	repo := newFakePollRepo()
	svc := NewPollService(repo)

	poll, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	stored := repo.polls[poll.ID]
	stored.TotalVotes = 3
	stored.Options[1].VoteCount = 2
	stored.Options[0].VoteCount = 1

	_, stats, err := svc.GetStats(context.Background(), poll.ID.String())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, int64(2), stats[0].VoteCount)
	assert.Greater(t, stats[0].Percentage, stats[1].Percentage)
}

func TestGetByCreatorUnknownToken(t *testing.T) {
	svc := NewPollService(newFakePollRepo())

	polls, err := svc.GetByCreator(context.Background(), "garbage")
	require.NoError(t, err)
	assert.Empty(t, polls)
}
