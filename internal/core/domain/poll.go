package domain

import (
	"time"

	"github.com/google/uuid"
)

type Poll struct {
	ID           uuid.UUID    `json:"id"`
	Question     string       `json:"question"`
	CreatorToken uuid.UUID    `json:"-"`
	ExpiresAt    time.Time    `json:"expires_at"`
	Active       bool         `json:"active"`
	TotalVotes   int64        `json:"total_votes"`
	CreatedAt    time.Time    `json:"created_at"`
	Options      []PollOption `json:"options"`
}

type PollOption struct {
	ID        uuid.UUID `json:"id"`
	PollID    uuid.UUID `json:"poll_id"`
	Text      string    `json:"text"`
	VoteCount int64     `json:"vote_count"`
	CreatedAt time.Time `json:"created_at"`
}

// OptionStats is a PollOption enriched with its share of the poll's total,
// used by the stats endpoint.
type OptionStats struct {
	PollOption
	Percentage float64 `json:"percentage"`
}

// Votable reports whether the poll accepts votes at the given instant.
// A poll is votable while it is active and its expiry has not passed;
// now == ExpiresAt still counts as votable. Callers must pass fresh
// wall-clock time on every check.
func (p *Poll) Votable(now time.Time) bool {
	return p.Active && !now.After(p.ExpiresAt)
}

// Expired reports whether the expiry timestamp has passed, regardless of
// the stored active flag. A poll whose flag was never flipped is still
// logically expired once its deadline passes.
func (p *Poll) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// HasOption reports whether the option belongs to this poll.
func (p *Poll) HasOption(optionID uuid.UUID) bool {
	for _, opt := range p.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

// Stats returns the poll's options ordered by vote count, highest first,
// each with its percentage of TotalVotes.
func (p *Poll) Stats() []OptionStats {
	stats := make([]OptionStats, 0, len(p.Options))
	for _, opt := range p.Options {
		s := OptionStats{PollOption: opt}
		if p.TotalVotes > 0 {
			s.Percentage = float64(opt.VoteCount) / float64(p.TotalVotes) * 100
		}
		stats = append(stats, s)
	}
	for i := 1; i < len(stats); i++ {
		for j := i; j > 0 && stats[j].VoteCount > stats[j-1].VoteCount; j-- {
			stats[j], stats[j-1] = stats[j-1], stats[j]
		}
	}
	return stats
}
