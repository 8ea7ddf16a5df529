// Package validation checks prediction inputs before the model is invoked.
package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/perfscore/internal/domain/model"
)

// ErrInvalidField is matched by every FieldError via errors.Is.
var ErrInvalidField = errors.New("invalid field")

// FieldError reports the first input that failed validation.
type FieldError struct {
	Field  model.Field
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field.Key(), e.Reason)
}

// Is lets callers match any FieldError with ErrInvalidField.
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidField
}

// Message is the text shown to the user.
func (e *FieldError) Message() string {
	return "Please enter a valid value for " + e.Field.Label() + "."
}

// Reasons attached to field errors.
const (
	ReasonZero       = "must not be zero"
	ReasonNotInteger = "must be a whole number"
	ReasonNegative   = "must not be negative"
	ReasonAboveMax   = "must not exceed the maximum"
)

// Check pairs a field with the predicate its value must satisfy.
type Check struct {
	Field model.Field
	Valid func(v int) bool
}

func nonZero(v int) bool { return v != 0 }

// Checks is the ordered pipeline applied to every submission. Leaves Taken
// is exempt: zero leaves is a meaningful value.
var Checks = []Check{
	{Field: model.TasksCompleted, Valid: nonZero},
	{Field: model.TaskCompletionRate, Valid: nonZero},
	{Field: model.AttendanceRate, Valid: nonZero},
	{Field: model.TrainingHours, Valid: nonZero},
}

// Validate runs Checks in order and returns the first failure.
func Validate(rec model.Record) error {
	return Run(rec, Checks)
}

// Run evaluates checks in order, stopping at the first failing one.
func Run(rec model.Record, checks []Check) error {
	for _, c := range checks {
		if !c.Valid(rec.Get(c.Field)) {
			return &FieldError{Field: c.Field, Reason: ReasonZero}
		}
	}
	return nil
}

// Lookup returns the raw text submitted for a key.
type Lookup func(key string) string

// Decode builds a Record from raw form text. Blank inputs decode to zero,
// matching an untouched numeric input. Fields are decoded in form order and
// the first malformed or out-of-range value is reported.
func Decode(get Lookup) (model.Record, error) {
	var rec model.Record
	for _, f := range model.Fields {
		raw := strings.TrimSpace(get(f.Key()))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return model.Record{}, &FieldError{Field: f, Reason: ReasonNotInteger}
		}
		rec = rec.Set(f, v)
	}
	if err := Bounds(rec); err != nil {
		return model.Record{}, err
	}
	return rec, nil
}

// Bounds checks the widget ranges: all fields are non-negative and the
// percentage fields do not exceed 100.
func Bounds(rec model.Record) error {
	for _, f := range model.Fields {
		v := rec.Get(f)
		if v < 0 {
			return &FieldError{Field: f, Reason: ReasonNegative}
		}
		if limit := f.Max(); limit > 0 && v > limit {
			return &FieldError{Field: f, Reason: ReasonAboveMax}
		}
	}
	return nil
}
