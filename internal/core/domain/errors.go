package domain

import "errors"

// ValidationError marks malformed input rejected before it reaches the
// store. Handlers map it to a client error; everything else that escapes a
// service is an internal fault.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

var (
	ErrPollNotFound   = errors.New("poll not found")
	ErrOptionNotFound = errors.New("option does not belong to this poll")
	ErrInvalidPollID  = errors.New("invalid poll id")
	ErrAlreadyVoted   = errors.New("voter has already voted on this poll")
	ErrPollExpired    = errors.New("poll has expired")
	ErrPollClosed     = errors.New("poll is closed")
	ErrInternal       = errors.New("internal server error")
)
