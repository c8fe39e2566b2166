package repository

import "errors"

// Sentinel kinds for roster store errors.
var (
	ErrNotFound      = errors.New("team not found")
	ErrExists        = errors.New("team already exists")
	ErrInvalidRecord = errors.New("invalid team record")
	ErrUnknownDriver = errors.New("unknown store driver")
)
