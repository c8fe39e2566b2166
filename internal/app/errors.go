package app

import "errors"

// Sentinel errors returned by the service. The HTTP layer maps them to
// status codes with errors.Is.
var (
	ErrUnknownTeam     = errors.New("unknown team")
	ErrEmptyRoster     = errors.New("team has no players")
	ErrSameTeam        = errors.New("a team cannot play itself")
	ErrInvalidMode     = errors.New("invalid match mode")
	ErrInvalidTeam     = errors.New("invalid team")
	ErrTeamExists      = errors.New("team already exists")
	ErrMatchNotFound   = errors.New("match not found")
	ErrMatchInProgress = errors.New("match has not finished")
	ErrBackpressure    = errors.New("too many matches waiting, try again later")
	ErrNotStarted      = errors.New("service not started")
	ErrNoStore         = errors.New("roster store is required")
	ErrMatchAborted    = errors.New("match aborted")
	ErrDuplicate       = errors.New("request already scheduled a match")
)
