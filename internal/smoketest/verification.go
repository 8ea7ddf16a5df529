package smoketest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/perfscore/pkg/logger"
)

// ErrInconsistent means the service gave answers that contradict each other
// or the validation rules.
var ErrInconsistent = errors.New("inconsistent predictions")

// verifyResults tallies results and checks that:
//   - valid records complete, and every repeat shows the same display
//   - records with a zeroed required field are rejected naming that field
func verifyResults(ctx context.Context, cases []Case, results []result, stats *Stats) error {
	displays := make(map[int]string, len(cases))

	for _, r := range results {
		stats.Submitted++
		c := cases[r.caseIndex]

		switch {
		case r.err != nil:
			stats.Transport++
			continue
		case r.status == http.StatusTooManyRequests:
			stats.RateLimited++
			continue
		case r.status == http.StatusOK:
			stats.Completed++
		case r.status == http.StatusBadRequest && r.body.Code == "validation_error":
			stats.Rejected++
		default:
			stats.Failed++
		}

		if !consistent(c, r, displays) {
			stats.Inconsistent++
			logger.Get().Warn(ctx, "inconsistent answer",
				logger.Any("record", c.Record),
				logger.Int("status", r.status),
				logger.String("want_field", c.WantField),
				logger.String("field", r.body.Field),
				logger.String("display", r.body.Display),
			)
		}
	}

	if stats.Inconsistent > 0 {
		return fmt.Errorf("%w: %d of %d answers", ErrInconsistent, stats.Inconsistent, stats.Submitted)
	}
	return nil
}

// consistent compares one answer with what the case expects and with
// earlier answers for the same record.
func consistent(c Case, r result, displays map[int]string) bool {
	if c.WantField != "" {
		return r.status == http.StatusBadRequest && r.body.Field == c.WantField
	}
	if r.status != http.StatusOK {
		// A model that cannot predict fails every record the same way.
		return r.status == http.StatusInternalServerError
	}
	prev, seen := displays[r.caseIndex]
	if !seen {
		displays[r.caseIndex] = r.body.Display
		return true
	}
	return prev == r.body.Display
}
