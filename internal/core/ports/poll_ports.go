package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/rishithreddy89/PollRooms/internal/core/domain"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	GetAll(ctx context.Context) ([]*domain.Poll, error)
	GetByCreatorToken(ctx context.Context, token uuid.UUID) ([]*domain.Poll, error)
	// Close flips the poll's active flag to false. It reports whether this
	// call performed the transition, so racing closers agree on a single
	// winner.
	Close(ctx context.Context, pollID uuid.UUID) (bool, error)
}

type CreatePollInput struct {
	Question  string
	Options   []string
	ExpiresAt string
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	GetPoll(ctx context.Context, id string) (*domain.Poll, error)
	ListPolls(ctx context.Context) ([]*domain.Poll, error)
	GetStats(ctx context.Context, id string) (*domain.Poll, []domain.OptionStats, error)
	GetByCreator(ctx context.Context, token string) ([]*domain.Poll, error)
}
