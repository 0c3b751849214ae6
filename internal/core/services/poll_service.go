package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rishithreddy89/PollRooms/internal/core/domain"
	"github.com/rishithreddy89/PollRooms/internal/core/ports"
)

const (
	maxQuestionLen = 500
	maxOptionLen   = 200
	minOptions     = 2
	maxOptions     = 10
)

type pollService struct {
	repo ports.PollRepository
}

func NewPollService(repo ports.PollRepository) ports.PollService {
	return &pollService{
		repo: repo,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, domain.ValidationError("question is required")
	}
	if utf8.RuneCountInString(question) > maxQuestionLen {
		return nil, domain.ValidationError(fmt.Sprintf("question must be at most %d characters", maxQuestionLen))
	}

	expiresAt, err := time.Parse(time.RFC3339, input.ExpiresAt)
	if err != nil {
		return nil, domain.ValidationError("expires_at must be a valid RFC3339 timestamp")
	}
	if !expiresAt.After(time.Now()) {
		return nil, domain.ValidationError("expires_at must be in the future")
	}

	pollID := uuid.New()
	now := time.Now()

	poll := &domain.Poll{
		ID:           pollID,
		Question:     question,
		CreatorToken: uuid.New(),
		ExpiresAt:    expiresAt,
		Active:       true,
		CreatedAt:    now,
	}

	for _, optText := range input.Options {
		optText = strings.TrimSpace(optText)
		if optText == "" {
			continue
		}
		if utf8.RuneCountInString(optText) > maxOptionLen {
			return nil, domain.ValidationError(fmt.Sprintf("options must be at most %d characters", maxOptionLen))
		}
		poll.Options = append(poll.Options, domain.PollOption{
			ID:        uuid.New(),
			PollID:    pollID,
			Text:      optText,
			CreatedAt: now,
		})
	}

	if len(poll.Options) < minOptions {
		return nil, domain.ValidationError(fmt.Sprintf("at least %d options are required", minOptions))
	}
	if len(poll.Options) > maxOptions {
		return nil, domain.ValidationError(fmt.Sprintf("at most %d options are allowed", maxOptions))
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		log.Printf("failed to save poll: %v", err)
		return nil, domain.ErrInternal
	}

	return poll, nil
}

func (s *pollService) GetPoll(ctx context.Context, id string) (*domain.Poll, error) {
	pollID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidPollID
	}

	return s.repo.GetByID(ctx, pollID)
}

func (s *pollService) ListPolls(ctx context.Context) ([]*domain.Poll, error) {
	return s.repo.GetAll(ctx)
}

func (s *pollService) GetStats(ctx context.Context, id string) (*domain.Poll, []domain.OptionStats, error) {
	poll, err := s.GetPoll(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return poll, poll.Stats(), nil
}

func (s *pollService) GetByCreator(ctx context.Context, token string) ([]*domain.Poll, error) {
	creatorToken, err := uuid.Parse(token)
	if err != nil {
		// An unparseable token can't own any poll; same outcome as an
		// unknown one.
		return []*domain.Poll{}, nil
	}

	return s.repo.GetByCreatorToken(ctx, creatorToken)
}
