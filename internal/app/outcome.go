package service

import (
	"encoding/json"

	"github.com/okian/perfscore/internal/domain/model"
)

// State is the terminal state of one submission.
type State int

// Submission states.
const (
	Completed State = iota + 1
	Rejected
	Failed
)

func (s State) String() string {
	switch s {
	case Completed:
		return "completed"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the state by name.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Outcome is the result of a single submission. Exactly one message is set.
type Outcome struct {
	SubmissionID string       `json:"submission_id"`
	State        State        `json:"status"`
	Record       model.Record `json:"record"`

	// Field names the first invalid input when State is Rejected.
	Field model.Field `json:"-"`

	// Score is the rounded prediction and Display its formatted percentage.
	Score   float64 `json:"score,omitempty"`
	Display string  `json:"display,omitempty"`
	Cached  bool    `json:"cached,omitempty"`

	Message string `json:"message"`
	Err     error  `json:"-"`
}
