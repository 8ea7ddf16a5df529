package smoketest

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/okian/perfscore/internal/domain/model"
	"github.com/okian/perfscore/internal/domain/validation"
	"github.com/okian/perfscore/pkg/logger"
)

// Upper bounds for the unbounded fields.
const (
	maxTasks    = 200
	maxLeaves   = 30
	maxTraining = 120
)

const randomFloatDivisor = 1000000

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randomInt returns a value in [lo, hi].
func randomInt(lo, hi int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(hi-lo+1)))
	return lo + int(n.Int64())
}

// randomRecord returns a record every required field of which is non-zero.
func randomRecord() model.Record {
	return model.Record{
		TasksCompleted:     randomInt(1, maxTasks),
		TaskCompletionRate: randomInt(1, model.MaxRate),
		AttendanceRate:     randomInt(1, model.MaxRate),
		LeavesTaken:        randomInt(0, maxLeaves),
		TrainingHours:      randomInt(1, maxTraining),
	}
}

// generateCases builds the records to submit. A share of them has one
// required field zeroed so the rejection path is exercised too.
func generateCases(ctx context.Context, config *Config, stats *Stats) []Case {
	cases := make([]Case, 0, config.NumRecords)
	for range config.NumRecords {
		rec := randomRecord()
		c := Case{Record: rec}
		if getRandomFloat() < config.InvalidRate {
			check := validation.Checks[randomInt(0, len(validation.Checks)-1)]
			c.Record = rec.Set(check.Field, 0)
		}
		var fe *validation.FieldError
		if errors.As(validation.Validate(c.Record), &fe) {
			c.WantField = fe.Field.Key()
		}
		cases = append(cases, c)
	}
	stats.Generated = len(cases)

	logger.Get().Info(ctx, "generated records", logger.Int("count", len(cases)))
	return cases
}
