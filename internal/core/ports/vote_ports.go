package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/rishithreddy89/PollRooms/internal/core/domain"
)

type VoteRepository interface {
	// CastVote applies the vote's side effects as one atomic unit: insert
	// the ledger row, increment the option's counter, increment the poll's
	// total. Returns domain.ErrAlreadyVoted when a vote already exists for
	// (PollID, VoterIP) and domain.ErrOptionNotFound when the option does
	// not belong to the poll.
	CastVote(ctx context.Context, vote *domain.Vote) error
	HasVoted(ctx context.Context, pollID uuid.UUID, voterIP string) (bool, error)
}

type VoteInput struct {
	PollID   uuid.UUID
	OptionID uuid.UUID
	VoterIP  string
}

type VoteService interface {
	// Vote runs the full lifecycle: expiry check, lazy closure, atomic
	// dedup+apply, and broadcast of the post-commit snapshot. The returned
	// poll is the same snapshot that subscribers receive.
	Vote(ctx context.Context, input VoteInput) (*domain.Poll, error)
	HasVoted(ctx context.Context, pollID uuid.UUID, voterIP string) (bool, error)
}
