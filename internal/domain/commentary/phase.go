package commentary

import (
	"github.com/okian/derby/internal/domain/match"
)

// Phase picks the neutral-minute template family.
type Phase int

const (
	PhaseEarly Phase = iota
	PhaseMid
	PhaseLate
	PhasePressure
	PhaseChaos
)

// Phase thresholds.
const (
	chaosPhaseLevel     = 0.6
	pressureStreak      = 1
	pressureMomentumGap = 20.0
	earlyUntilMinute    = 30
	midUntilMinute      = 70
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseEarly:
		return "early_neutral"
	case PhaseMid:
		return "mid_neutral"
	case PhaseLate:
		return "late_neutral"
	case PhasePressure:
		return "pressure"
	case PhaseChaos:
		return "chaos"
	}
	return "unknown"
}

// PhaseOf classifies the live state of m. Chaos wins over pressure, which
// wins over the clock.
func PhaseOf(m *match.Match) Phase {
	switch {
	case m.Chaos > chaosPhaseLevel:
		return PhaseChaos
	case m.PossessionStreak > pressureStreak || m.MomentumGap() > pressureMomentumGap:
		return PhasePressure
	case m.Minute <= earlyUntilMinute:
		return PhaseEarly
	case m.Minute <= midUntilMinute:
		return PhaseMid
	default:
		return PhaseLate
	}
}
