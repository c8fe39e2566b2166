package smoketest

import "time"

// Defaults applied by Config.
const (
	DefaultMatches      = 20
	DefaultTeams        = 4
	DefaultWorkers      = 4
	DefaultTimeout      = 10 * time.Second
	DefaultPollInterval = 50 * time.Millisecond
	DefaultDeadline     = 2 * time.Minute
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
	PercentageMultiplier    = 100
	maxErrorBody            = 4 << 10
)
