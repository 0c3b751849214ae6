package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rishithreddy89/PollRooms/internal/core/domain"
	"github.com/rishithreddy89/PollRooms/internal/core/ports"
)

// pq error code for unique constraint violations.
const uniqueViolation = "23505"

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// CastVote inserts the ledger row and bumps both counters in one
// transaction. Deduplication is optimistic: the insert races freely and the
// votes_poll_id_voter_ip_key constraint decides the winner at commit time,
// so two concurrent attempts from the same fingerprint end as one commit
// and one ErrAlreadyVoted.
func (r *voteRepository) CastVote(ctx context.Context, vote *domain.Vote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryVote := `
		INSERT INTO votes (id, poll_id, option_id, voter_ip)
		VALUES ($1, $2, $3, $4)
	`
	_, err = tx.ExecContext(ctx, queryVote, vote.ID, vote.PollID, vote.OptionID, vote.VoterIP)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	// The poll_id guard re-checks option membership at the store; a zero
	// update means the option belongs to a different poll.
	queryOption := `
		UPDATE poll_options SET vote_count = vote_count + 1
		WHERE id = $1 AND poll_id = $2
	`
	res, err := tx.ExecContext(ctx, queryOption, vote.OptionID, vote.PollID)
	if err != nil {
		return fmt.Errorf("failed to increment option count: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOptionNotFound
	}

	queryPoll := `
		UPDATE polls SET total_votes = total_votes + 1
		WHERE id = $1
	`
	_, err = tx.ExecContext(ctx, queryPoll, vote.PollID)
	if err != nil {
		return fmt.Errorf("failed to increment poll total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *voteRepository) HasVoted(ctx context.Context, pollID uuid.UUID, voterIP string) (bool, error) {
	query := `SELECT 1 FROM votes WHERE poll_id = $1 AND voter_ip = $2 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, pollID, voterIP).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return true, nil
}
