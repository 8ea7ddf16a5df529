// Package smoketest drives a running perfscore service over HTTP and checks
// that its answers are consistent.
package smoketest

import (
	"errors"
	"fmt"
	"time"

	"github.com/okian/perfscore/internal/domain/model"
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL     string        // Base URL of the service
	NumRecords  int           // Number of distinct records to generate
	Repeats     int           // Times each record is submitted
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	InvalidRate float64       // Share of records with a zero required field
}

// ErrInvalidConfig means the run cannot start with the given settings.
var ErrInvalidConfig = errors.New("invalid smoke test config")

// validate rejects settings that cannot be clamped to something sensible.
func (c *Config) validate() error {
	if c.NumRecords < 0 {
		return fmt.Errorf("%w: records must not be negative, got %d", ErrInvalidConfig, c.NumRecords)
	}
	if c.InvalidRate < 0 || c.InvalidRate > 1 {
		return fmt.Errorf("%w: invalid rate must be between 0 and 1, got %g", ErrInvalidConfig, c.InvalidRate)
	}
	return nil
}

// Case is one generated record and what the service should answer.
type Case struct {
	Record model.Record
	// WantField is the field the service must reject, empty when the record is valid.
	WantField string
}

// predictResponse is the union of the success and error bodies of POST /api/predict.
type predictResponse struct {
	Status       string  `json:"status"`
	Score        float64 `json:"score"`
	Display      string  `json:"display"`
	SubmissionID string  `json:"submission_id"`
	Code         string  `json:"code"`
	Field        string  `json:"field"`
	Message      string  `json:"message"`
}

// result is the answer to one submission.
type result struct {
	caseIndex int
	status    int
	body      predictResponse
	err       error
}

// Stats holds smoke run statistics.
type Stats struct {
	Generated    int
	Submitted    int
	Completed    int
	Rejected     int
	Failed       int
	RateLimited  int
	Transport    int
	Inconsistent int
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}
