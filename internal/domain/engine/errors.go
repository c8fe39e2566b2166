package engine

import "errors"

var (
	// ErrMatchFinished is returned by Advance once the final minute has been played.
	ErrMatchFinished = errors.New("match already finished")
	// ErrEmptySquad is returned when a side has no players to act.
	ErrEmptySquad = errors.New("team has no players")
)
