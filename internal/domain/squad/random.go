package squad

import (
	"fmt"

	"github.com/okian/derby/internal/domain/roster"
)

// Random squad parameters.
const (
	DefaultSize = 11
	minOverall  = 65
	maxOverall  = 85
	maxSuffix   = 99
)

var (
	surnames       = []string{"Kowalski", "Nowak", "Smith", "Johnson", "Garcia", "Muller", "Rossi", "Kim", "Tanaka", "Silva", "Santos"} //nolint:gochecknoglobals // static
	randomPosition = []string{"GK", "CB", "MD", "ST"}                                                                                   //nolint:gochecknoglobals // static
)

// Rand is the subset of math/rand/v2 used to draw squads.
type Rand interface {
	IntN(n int) int
}

// Random draws size players named "<Surname>_<n>" with ratings 65-85 and
// positions from GK, CB, MD and ST.
func Random(rng Rand, size int) []roster.PlayerRecord {
	if size <= 0 {
		size = DefaultSize
	}
	out := make([]roster.PlayerRecord, 0, size)
	for range size {
		out = append(out, roster.PlayerRecord{
			Name:     fmt.Sprintf("%s_%d", surnames[rng.IntN(len(surnames))], 1+rng.IntN(maxSuffix)),
			Overall:  minOverall + rng.IntN(maxOverall-minOverall+1),
			Position: randomPosition[rng.IntN(len(randomPosition))],
		})
	}
	return out
}
