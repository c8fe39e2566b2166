package match

import (
	"errors"
	"fmt"

	"github.com/okian/derby/internal/domain/roster"
)

// ErrUnknownEvent is returned when decoding an unrecognised event tag.
var ErrUnknownEvent = errors.New("unknown event type")

// EventType is the closed set of per-minute outcomes.
type EventType int

const (
	Nothing EventType = iota
	Attack
	Shot
	Save
	Goal
	Foul
	YellowCard
	RedCard
)

// String returns the upper-case event tag used in logs and metrics.
func (e EventType) String() string {
	switch e {
	case Nothing:
		return "NOTHING"
	case Attack:
		return "ATTACK"
	case Shot:
		return "SHOT"
	case Save:
		return "SAVE"
	case Goal:
		return "GOAL"
	case Foul:
		return "FOUL"
	case YellowCard:
		return "YELLOW_CARD"
	case RedCard:
		return "RED_CARD"
	}
	return "UNKNOWN"
}

// MarshalText encodes the event tag for JSON.
func (e EventType) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// UnmarshalText decodes a tag written by MarshalText.
func (e *EventType) UnmarshalText(text []byte) error {
	for t := Nothing; t <= RedCard; t++ {
		if t.String() == string(text) {
			*e = t
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownEvent, text)
}

// Important reports whether the event belongs in the highlight history.
func (e EventType) Important() bool {
	switch e {
	case Goal, RedCard, Save:
		return true
	case Nothing, Attack, Shot, Foul, YellowCard:
	}
	return false
}

// Subject carries the team and player an event is about. Either may be nil.
type Subject struct {
	Team   *roster.Team
	Player *roster.Player
}

// Outcome is a classified minute: what happened, who attacked and who is the subject.
// For SAVE the subject player is the goalkeeper; for cards and fouls it is the
// defending player who committed it.
type Outcome struct {
	Type      EventType
	Attacking *roster.Team
	Defending *roster.Team
	Player    *roster.Player
	Assister  *roster.Player
}

// Subject returns the narration subject for the outcome.
func (o Outcome) Subject() Subject {
	team := o.Attacking
	switch o.Type {
	case Save, Foul, YellowCard, RedCard:
		team = o.Defending
	case Nothing, Attack, Shot, Goal:
	}
	return Subject{Team: team, Player: o.Player}
}
