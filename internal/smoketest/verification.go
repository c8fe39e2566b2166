package smoketest

import (
	"errors"
	"fmt"

	"github.com/okian/derby/internal/domain/match"
	"github.com/okian/derby/internal/domain/types"
)

// ErrInconsistent marks a report that disagrees with the match state.
var ErrInconsistent = errors.New("inconsistent report")

// verifyReport checks a finished match's report against its summary: the
// score must agree, each goal must appear as a highlight, and the
// possession split must add up.
func verifyReport(summary types.MatchSummary, report *match.Report) (int, error) {
	if report.HomeScore != summary.HomeScore || report.AwayScore != summary.AwayScore {
		return 0, fmt.Errorf("%w: report %d-%d, match %d-%d",
			ErrInconsistent, report.HomeScore, report.AwayScore, summary.HomeScore, summary.AwayScore)
	}

	goals := 0
	for _, h := range report.Highlights {
		if h.Type == match.Goal {
			goals++
		}
	}
	if total := report.HomeScore + report.AwayScore; goals != total {
		return 0, fmt.Errorf("%w: %d goal highlights for %d goals", ErrInconsistent, goals, total)
	}

	if p := report.HomePossession + report.AwayPossession; report.Minutes > 0 && p != PercentageMultiplier {
		return 0, fmt.Errorf("%w: possession adds up to %d%%", ErrInconsistent, p)
	}

	if report.Result != expectedResult(report) {
		return 0, fmt.Errorf("%w: result %q for %d-%d", ErrInconsistent, report.Result, report.HomeScore, report.AwayScore)
	}
	return goals, nil
}

func expectedResult(r *match.Report) string {
	switch {
	case r.HomeScore > r.AwayScore:
		return match.ResultHome
	case r.HomeScore < r.AwayScore:
		return match.ResultAway
	default:
		return match.ResultDraw
	}
}
