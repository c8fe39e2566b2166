package roster

import "strings"

// Role is the coarse tactical role of a position code.
type Role int

const (
	RoleUnknown Role = iota
	RoleGoalkeeper
	RoleDefender
	RoleMidfielder
	RoleAttackingMidfielder
	RoleForward
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleGoalkeeper:
		return "goalkeeper"
	case RoleDefender:
		return "defender"
	case RoleMidfielder:
		return "midfielder"
	case RoleAttackingMidfielder:
		return "attacking_midfielder"
	case RoleForward:
		return "forward"
	case RoleUnknown:
	}
	return "unknown"
}

// Position codes accepted in squads, English and Polish.
var positionRoles = map[string]Role{ //nolint:gochecknoglobals // static lookup table
	"GK": RoleGoalkeeper, "BR": RoleGoalkeeper, "BRAMKARZ": RoleGoalkeeper,

	"CB": RoleDefender, "LB": RoleDefender, "RB": RoleDefender,
	"LWB": RoleDefender, "RWB": RoleDefender, "DEF": RoleDefender,

	"MD": RoleMidfielder, "CM": RoleMidfielder, "CDM": RoleMidfielder, "DM": RoleMidfielder,
	"LM": RoleMidfielder, "RM": RoleMidfielder,

	"CAM": RoleAttackingMidfielder, "AM": RoleAttackingMidfielder,

	"ST": RoleForward, "CF": RoleForward, "LW": RoleForward, "RW": RoleForward,
	"FW": RoleForward, "LF": RoleForward, "RF": RoleForward,
}

// RoleOf classifies a position code, case-insensitively.
func RoleOf(position string) Role {
	if r, ok := positionRoles[strings.ToUpper(strings.TrimSpace(position))]; ok {
		return r
	}
	return RoleUnknown
}
