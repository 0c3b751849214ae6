package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/rishithreddy89/PollRooms/internal/core/domain"
	"github.com/rishithreddy89/PollRooms/internal/core/ports"
)

type voteService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
	notifier ports.PollNotifier
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository, notifier ports.PollNotifier) ports.VoteService {
	return &voteService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
		notifier: notifier,
	}
}

// Vote orchestrates a single vote attempt end-to-end. The expiry check uses
// fresh wall-clock time; a poll found expired while still marked active is
// closed here, exactly once, before the attempt is rejected.
func (s *voteService) Vote(ctx context.Context, input ports.VoteInput) (*domain.Poll, error) {
	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, err
	}

	if !poll.Votable(time.Now()) {
		if !poll.Active {
			// Already closed; the closure event was emitted when the
			// flag flipped, so don't re-emit it.
			return nil, domain.ErrPollClosed
		}
		// Lazy closure: first attempt after the deadline flips the flag.
		// The store's compare-and-set picks one winner among concurrent
		// attempts, so the closure event goes out exactly once. The vote
		// fails with ErrPollExpired either way; a failed flip or missed
		// broadcast is recoverable, viewers re-derive closed state from
		// the expiry timestamp on their next read.
		closed, err := s.pollRepo.Close(ctx, poll.ID)
		if err != nil {
			log.Printf("failed to close expired poll %s: %v", poll.ID, err)
		} else if closed {
			s.notifier.BroadcastClosed(poll.ID)
		}
		return nil, domain.ErrPollExpired
	}

	if !poll.HasOption(input.OptionID) {
		return nil, domain.ErrOptionNotFound
	}

	vote := &domain.Vote{
		ID:        uuid.New(),
		PollID:    input.PollID,
		OptionID:  input.OptionID,
		VoterIP:   input.VoterIP,
		CreatedAt: time.Now(),
	}

	if err := s.voteRepo.CastVote(ctx, vote); err != nil {
		if errors.Is(err, domain.ErrAlreadyVoted) || errors.Is(err, domain.ErrOptionNotFound) {
			return nil, err
		}
		log.Printf("failed to cast vote on poll %s: %v", input.PollID, err)
		return nil, domain.ErrInternal
	}

	// Reload after the commit so the caller and every subscriber see the
	// same snapshot, which includes this vote.
	updated, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		log.Printf("failed to reload poll %s after vote: %v", input.PollID, err)
		return nil, domain.ErrInternal
	}

	s.notifier.BroadcastUpdate(updated.ID, updated)

	return updated, nil
}

func (s *voteService) HasVoted(ctx context.Context, pollID uuid.UUID, voterIP string) (bool, error) {
	return s.voteRepo.HasVoted(ctx, pollID, voterIP)
}
